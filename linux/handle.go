//go:build linux

package linux

import (
	"context"
	"io/fs"
	"os"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/bluetuith-org/audio-presence/internal/logging"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Handle describes a connection to the Linux audio stack:
// BlueZ on the system bus, and PulseAudio (or PipeWire's pulse server) via its D-Bus protocol module.
type Handle struct {
	system *dbus.Conn
	pulse  *dbus.Conn

	sysfs  fs.FS
	logger zerolog.Logger
	closed bool

	mu sync.Mutex
}

// Service implements audio.Service on top of a Handle.
type Service struct {
	h *Handle
}

// NewHandle returns a new Handle. Bus connections are established on first use.
func NewHandle() *Handle {
	return &Handle{
		sysfs:  os.DirFS("/sys"),
		logger: logging.GetSubsystemLogger("linux-audio"),
	}
}

// AudioService returns the platform audio service.
func (h *Handle) AudioService() (audio.Service, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fault.Wrap(errorkinds.ErrServiceUnavailable,
			fctx.With(context.Background(), "error_at", "audio-service"),
			ftag.With(ftag.Internal),
			fmsg.With("Linux audio handle is closed"),
		)
	}

	return &Service{h}, nil
}

// Close releases the bus connections of the handle.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errorkinds.ErrSessionNotExist
	}
	h.closed = true

	if h.pulse != nil {
		h.pulse.Close()
		h.pulse = nil
	}
	if h.system != nil {
		return h.system.Close()
	}

	return nil
}

// Level returns audio.EnumerationLevel if the PulseAudio D-Bus protocol server
// is reachable, and audio.LegacyLevel otherwise.
func (s *Service) Level() (audio.Level, error) {
	if _, err := s.h.pulseConn(); err != nil {
		s.h.logger.Debug().Err(err).Msg("PulseAudio D-Bus server unreachable, using legacy flags")
		return audio.LegacyLevel, nil
	}

	return audio.EnumerationLevel, nil
}

// OutputDevices returns the list of active output devices.
func (s *Service) OutputDevices() ([]audio.OutputDevice, error) {
	conn, err := s.h.pulseConn()
	if err != nil {
		return nil, err
	}

	sinks, err := pulseSinks(conn)
	if err != nil {
		s.h.resetPulse()
		return nil, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "pulse-sinks"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot enumerate PulseAudio sinks"),
		)
	}

	return classifySinks(sinks), nil
}

// WiredHeadsetOn reports whether the kernel reports a plugged headphone jack.
func (s *Service) WiredHeadsetOn() (bool, error) {
	sysfs, err := s.h.sysfsRoot()
	if err != nil {
		return false, err
	}

	return wiredJackState(sysfs)
}

// BluetoothA2DPOn reports whether any connected Bluetooth device advertises the A2DP sink profile.
func (s *Service) BluetoothA2DPOn() (bool, error) {
	conn, err := s.h.systemConn()
	if err != nil {
		return false, err
	}

	devices, err := bluezDevices(conn)
	if err != nil {
		return false, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "bluez-devices"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot get devices from BlueZ"),
		)
	}

	return a2dpSinkConnected(devices), nil
}

func (h *Handle) sysfsRoot() (fs.FS, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errorkinds.ErrServiceUnavailable
	}

	return h.sysfs, nil
}

func (h *Handle) systemConn() (*dbus.Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errorkinds.ErrServiceUnavailable
	}
	if h.system != nil {
		return h.system, nil
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "system-bus"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot connect to the system bus"),
		)
	}
	h.system = conn

	return conn, nil
}

func (h *Handle) pulseConn() (*dbus.Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errorkinds.ErrServiceUnavailable
	}
	if h.pulse != nil {
		return h.pulse, nil
	}

	session, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	conn, err := dialPulse(session)
	if err != nil {
		return nil, err
	}
	h.pulse = conn

	return conn, nil
}

func (h *Handle) resetPulse() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pulse != nil {
		h.pulse.Close()
		h.pulse = nil
	}
}
