package platform

import "runtime"

type AudioStack string

const (
	PulseAudioStack AudioStack = "BlueZ + PulseAudio (DBus)"
	NativeShimStack AudioStack = "Native helper (shim)"
)

// PlatformInfo describes platform-specific information.
type PlatformInfo struct {
	OS    string     `json:"os,omitempty"`
	Stack AudioStack `json:"audio_stack,omitempty"`
}

// NewPlatformInfo returns a new PlatformInfo.
func NewPlatformInfo(stack AudioStack) PlatformInfo {
	return PlatformInfo{
		OS:    runtime.GOOS + " (" + runtime.GOARCH + ")",
		Stack: stack,
	}
}

// String converts an AudioStack to a string.
func (a AudioStack) String() string {
	return string(a)
}
