package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/bluetuith-org/audio-presence/internal/logging"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

var (
	errNilService   = errors.New("audio service handle is nil")
	errNoDeviceList = errors.New("audio service returned no device list")
)

// Detector answers presence queries for wired headphones and Bluetooth audio outputs.
// Every query is forwarded to the platform; no answer is cached.
type Detector struct {
	handle    audio.Handle
	threshold audio.Level
	logger    zerolog.Logger

	legacyQueries      *xsync.Counter
	enumerationQueries *xsync.Counter
	failedQueries      *xsync.Counter

	mu sync.RWMutex
}

// Presence holds the answers to both presence queries.
type Presence struct {
	WiredHeadphones bool `json:"wired_headphones"`
	BluetoothAudio  bool `json:"bluetooth_audio"`
}

// Stats holds query counters of a Detector.
type Stats struct {
	LegacyQueries      int64 `json:"legacy_queries"`
	EnumerationQueries int64 `json:"enumeration_queries"`
	FailedQueries      int64 `json:"failed_queries"`
}

// Option configures a Detector.
type Option func(d *Detector)

// WithLogger sets the logger of the detector.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger.With().Str("component", "presence-detector").Logger()
	}
}

// WithEnumerationLevel sets the first capability level at which output devices are enumerated.
func WithEnumerationLevel(level audio.Level) Option {
	return func(d *Detector) {
		if level > 0 {
			d.threshold = level
		}
	}
}

// NewDetector returns a new, unconfigured Detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		threshold:          audio.EnumerationLevel,
		logger:             logging.GetSubsystemLogger("presence-detector"),
		legacyQueries:      xsync.NewCounter(),
		enumerationQueries: xsync.NewCounter(),
		failedQueries:      xsync.NewCounter(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Configure stores the application handle used by subsequent queries.
// The handle remains owned by the caller.
func (d *Detector) Configure(h audio.Handle) error {
	if h == nil {
		return fault.Wrap(errorkinds.ErrNotConfigured,
			fctx.With(context.Background(), "error_at", "configure"),
			ftag.With(ftag.InvalidArgument),
			fmsg.With("Application handle is nil"),
		)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.handle = h

	return nil
}

// IsWiredHeadphoneConnected reports whether a wired headphone is connected.
func (d *Detector) IsWiredHeadphoneConnected() (bool, error) {
	return d.ask(wiredHeadphoneQuery)
}

// IsBluetoothAudioDeviceConnected reports whether a Bluetooth A2DP audio output is connected.
func (d *Detector) IsBluetoothAudioDeviceConnected() (bool, error) {
	return d.ask(bluetoothAudioQuery)
}

// Presence answers both queries. The queries are made independently of each other.
func (d *Detector) Presence() (Presence, error) {
	var p Presence
	var err error

	if p.WiredHeadphones, err = d.IsWiredHeadphoneConnected(); err != nil {
		return Presence{}, err
	}
	if p.BluetoothAudio, err = d.IsBluetoothAudioDeviceConnected(); err != nil {
		return Presence{}, err
	}

	return p, nil
}

// Stats returns the query counters of the detector.
func (d *Detector) Stats() Stats {
	return Stats{
		LegacyQueries:      d.legacyQueries.Value(),
		EnumerationQueries: d.enumerationQueries.Value(),
		FailedQueries:      d.failedQueries.Value(),
	}
}

func (d *Detector) ask(q query) (bool, error) {
	d.mu.RLock()
	handle := d.handle
	d.mu.RUnlock()

	if handle == nil {
		d.failedQueries.Inc()
		return false, fault.Wrap(errorkinds.ErrNotConfigured,
			fctx.With(context.Background(), "query", q.name),
			ftag.With(ftag.InvalidArgument),
			fmsg.With("Detector must be configured before querying"),
		)
	}

	svc, err := handle.AudioService()
	if err == nil && svc == nil {
		err = errNilService
	}
	if err != nil {
		return false, d.queryFailed(err, q, "get-service", "Cannot access the audio service")
	}

	level, err := svc.Level()
	if err != nil {
		return false, d.queryFailed(err, q, "get-level", "Cannot determine the audio API level")
	}

	s := selectStrategy(level, d.threshold)
	switch s.(type) {
	case legacyStrategy:
		d.legacyQueries.Inc()
	case enumerationStrategy:
		d.enumerationQueries.Inc()
	}

	connected, err := s.answer(svc, q)
	if err != nil {
		return false, d.queryFailed(err, q, s.name(), "Cannot query the audio output devices")
	}

	d.logger.Debug().
		Str("query", q.name).
		Str("strategy", s.name()).
		Int("level", int(level)).
		Bool("connected", connected).
		Msg("presence query answered")

	return connected, nil
}

func (d *Detector) queryFailed(err error, q query, at, msg string) error {
	d.failedQueries.Inc()
	d.logger.Error().Err(err).Str("query", q.name).Str("error_at", at).Msg("presence query failed")

	return fault.Wrap(fmt.Errorf("%w: %w", errorkinds.ErrDeviceQueryFailed, err),
		fctx.With(context.Background(), "query", q.name, "error_at", at),
		ftag.With(ftag.Internal),
		fmsg.With(msg),
	)
}
