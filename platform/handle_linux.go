//go:build linux

package platform

import (
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/config"
	"github.com/bluetuith-org/audio-presence/linux"
	"github.com/bluetuith-org/audio-presence/shim"
)

// Handle returns a platform-specific audio handle.
// If a native helper is configured, it is preferred over the D-Bus stack.
// The returned function releases the handle.
func Handle(cfg config.Configuration) (audio.Handle, func() error, PlatformInfo, error) {
	if cfg.ShimPath != "" {
		return shimHandle(cfg)
	}

	h := linux.NewHandle()

	return h, h.Close, NewPlatformInfo(PulseAudioStack), nil
}

func shimHandle(cfg config.Configuration) (audio.Handle, func() error, PlatformInfo, error) {
	s := shim.NewShimSession()
	if err := s.Start(cfg); err != nil {
		return nil, nil, PlatformInfo{}, err
	}

	return s, s.Stop, NewPlatformInfo(NativeShimStack), nil
}
