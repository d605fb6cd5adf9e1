package logging

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

// GetDefaultLogger returns the process-wide logger.
// The level can be set with the AUDIO_PRESENCE_LOG_LEVEL environment variable.
func GetDefaultLogger() zerolog.Logger {
	defaultLoggerOnce.Do(func() {
		level, err := zerolog.ParseLevel(os.Getenv("AUDIO_PRESENCE_LOG_LEVEL"))
		if err != nil || level == zerolog.NoLevel {
			level = zerolog.WarnLevel
		}

		defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Logger()
	})

	return defaultLogger
}

// GetSubsystemLogger returns the default logger scoped to a component.
func GetSubsystemLogger(component string) zerolog.Logger {
	return GetDefaultLogger().With().Str("component", component).Logger()
}
