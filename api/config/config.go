package config

import (
	"time"

	"github.com/bluetuith-org/audio-presence/api/audio"
)

const (
	// The default interval between presence polls.
	DefaultPollInterval = 2 * time.Second

	// The default timeout for replies to shim commands.
	DefaultCommandTimeout = 5 * time.Second
)

// Configuration describes a general configuration.
type Configuration struct {
	// ShimPath holds the path to the native helper executable.
	// Specific to the shim backend.
	ShimPath string

	// SocketPath holds the path to the socket used to communicate with the native helper.
	// If empty, a temporary path is created.
	SocketPath string

	// EnumerationLevel holds the first capability level at which output devices
	// are enumerated instead of reading the legacy flags.
	EnumerationLevel audio.Level

	// PollInterval holds the interval between presence polls.
	PollInterval time.Duration

	// CommandTimeout holds the timeout for replies to shim commands.
	CommandTimeout time.Duration
}

// New returns a new configuration with the default values.
func New() Configuration {
	return Configuration{
		EnumerationLevel: audio.EnumerationLevel,
		PollInterval:     DefaultPollInterval,
		CommandTimeout:   DefaultCommandTimeout,
	}
}

// WithDefaults returns a copy of the configuration, with unset values replaced by defaults.
func (c Configuration) WithDefaults() Configuration {
	if c.EnumerationLevel <= 0 {
		c.EnumerationLevel = audio.EnumerationLevel
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}

	return c
}
