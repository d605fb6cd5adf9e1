//go:build !linux

package platform

import (
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/config"
	"github.com/bluetuith-org/audio-presence/shim"
)

// Handle returns a platform-specific audio handle.
// The returned function releases the handle.
func Handle(cfg config.Configuration) (audio.Handle, func() error, PlatformInfo, error) {
	s := shim.NewShimSession()
	if err := s.Start(cfg); err != nil {
		return nil, nil, PlatformInfo{}, err
	}

	return s, s.Stop, NewPlatformInfo(NativeShimStack), nil
}
