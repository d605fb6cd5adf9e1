package presence

import (
	"context"
	"time"

	"github.com/bluetuith-org/audio-presence/api/config"
	"github.com/bluetuith-org/audio-presence/api/eventbus"
	"github.com/rs/zerolog"
)

// Monitor polls a Detector and publishes presence changes to the event bus.
type Monitor struct {
	detector *Detector
	interval time.Duration
	logger   zerolog.Logger
}

// PresenceErrorData is published with eventbus.PresenceError when a poll fails.
type PresenceErrorData struct {
	Err error
}

// NewMonitor returns a new Monitor using the poll interval of the configuration.
func NewMonitor(d *Detector, cfg config.Configuration) *Monitor {
	cfg = cfg.WithDefaults()

	return &Monitor{
		detector: d,
		interval: cfg.PollInterval,
		logger:   d.logger.With().Str("component", "presence-monitor").Logger(),
	}
}

// Run polls until the context is cancelled. The first successful poll is always
// published, and afterwards only changes are published.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var last Presence
	var published bool

	poll := func() {
		p, err := m.detector.Presence()
		if err != nil {
			m.logger.Warn().Err(err).Msg("presence poll failed")
			eventbus.Publish(eventbus.PresenceError, PresenceErrorData{Err: err})
			return
		}

		if published && p == last {
			return
		}

		m.logger.Info().
			Bool("wired_headphones", p.WiredHeadphones).
			Bool("bluetooth_audio", p.BluetoothAudio).
			Msg("audio output presence changed")

		last, published = p, true
		eventbus.Publish(eventbus.PresenceChanged, p)
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			poll()
		}
	}
}
