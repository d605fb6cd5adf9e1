package shim

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/config"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/bluetuith-org/audio-presence/api/eventbus"
	"github.com/bluetuith-org/audio-presence/internal/logging"
	"github.com/bluetuith-org/audio-presence/shim/internal/commands"
	"github.com/bluetuith-org/audio-presence/shim/internal/events"
	"github.com/bluetuith-org/audio-presence/shim/internal/serde"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// ShimSession describes a session with a native helper, which answers
// audio service queries on behalf of the platform.
type ShimSession struct {
	conn net.Conn

	listenerErrChan chan error
	sessionClosed   atomic.Bool

	cancel  context.CancelFunc
	timeout time.Duration
	logger  zerolog.Logger

	id         *xsync.Counter
	requestMap *xsync.MapOf[int64, chan commands.CommandResponse]

	sync.Mutex
}

const ShimInitErrTimeout = 1 * time.Second

// NewShimSession returns a new, stopped session.
func NewShimSession() *ShimSession {
	s := &ShimSession{
		logger: logging.GetSubsystemLogger("audio-shim"),
	}
	s.sessionClosed.Store(true)

	return s
}

// Start attempts to initialize a session with the native helper.
// A running session must be stopped before it can be started again.
func (s *ShimSession) Start(cfg config.Configuration) error {
	if !s.sessionClosed.Load() {
		return fault.Wrap(errorkinds.ErrSessionExists,
			fctx.With(context.Background(), "error_at", "start-shim"),
			ftag.With(ftag.AlreadyExists),
			fmsg.With("Shim session is already running"),
		)
	}

	var initialized bool
	defer func() {
		if !initialized {
			s.Stop()
		}
	}()

	cfg = cfg.WithDefaults()
	if cfg.ShimPath == "" {
		return fault.Wrap(errorkinds.ErrServiceUnavailable,
			fctx.With(context.Background(), "error_at", "shim-path"),
			ftag.With(ftag.InvalidArgument),
			fmsg.With("No native helper path is configured"),
		)
	}

	if cfg.SocketPath == "" {
		t, err := os.CreateTemp("", "shim_sock_")
		if err != nil {
			return fault.Wrap(err,
				fctx.With(context.Background(), "error_at", "create-socket"),
				ftag.With(ftag.Internal),
				fmsg.With("Cannot create socket file"),
			)
		}
		t.Close()
		os.Remove(t.Name())

		cfg.SocketPath = t.Name()
	}

	ctx := s.reset(false, cfg.CommandTimeout)

	session := exec.CommandContext(
		ctx, cfg.ShimPath,
		commands.StartRpcServer(cfg.SocketPath).Slice()...,
	)
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr
	if err := session.Start(); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "start-shim"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot start RPC session with shim"),
		)
	}

	if err := s.waitForInitErrors(ctx, session); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "exec-shim"),
			ftag.With(ftag.Internal),
			fmsg.With("Shim process exited with errors"),
		)
	}

	if err := s.startListener(ctx, cfg.SocketPath); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "listener-shim"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot start listener on provided socket"),
		)
	}

	if _, err := s.Level(); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "shim-level"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot get the audio API level from shim"),
		)
	}

	initialized = true
	s.logger.Info().Str("socket", cfg.SocketPath).Msg("shim session started")

	return nil
}

// Stop attempts to stop the session with the native helper.
func (s *ShimSession) Stop() error {
	if s.sessionClosed.Load() {
		return errorkinds.ErrSessionNotExist
	}

	var err error
	if s.conn != nil {
		_, err = commands.StopRpcServer().ExecuteWith(s.executor, s.timeout)
	}
	s.reset(true, 0)

	return err
}

// AudioService returns the session itself, if the session is running.
func (s *ShimSession) AudioService() (audio.Service, error) {
	if s.sessionClosed.Load() {
		return nil, fault.Wrap(errorkinds.ErrServiceUnavailable,
			fctx.With(context.Background(), "error_at", "audio-service"),
			ftag.With(ftag.Internal),
			fmsg.With("Shim session is not running"),
		)
	}

	return s, nil
}

// Level returns the audio API level reported by the native helper.
func (s *ShimSession) Level() (audio.Level, error) {
	return commands.GetAPILevel().ExecuteWith(s.executor, s.timeout)
}

// OutputDevices returns the active output devices reported by the native helper.
func (s *ShimSession) OutputDevices() ([]audio.OutputDevice, error) {
	return commands.GetOutputDevices().ExecuteWith(s.executor, s.timeout)
}

// WiredHeadsetOn returns the legacy wired headset flag reported by the native helper.
func (s *ShimSession) WiredHeadsetOn() (bool, error) {
	return commands.IsWiredHeadsetOn().ExecuteWith(s.executor, s.timeout)
}

// BluetoothA2DPOn returns the legacy Bluetooth A2DP flag reported by the native helper.
func (s *ShimSession) BluetoothA2DPOn() (bool, error) {
	return commands.IsBluetoothA2DPOn().ExecuteWith(s.executor, s.timeout)
}

func (s *ShimSession) waitForInitErrors(ctx context.Context, cmd *exec.Cmd) error {
	go func() {
		err := cmd.Wait()
		if err != nil && ctx.Err() == nil {
			s.listenerErrChan <- err
		}
	}()

	select {
	case err := <-s.listenerErrChan:
		return err

	case <-ctx.Done():
		return errorkinds.ErrSessionNotExist

	case <-time.After(ShimInitErrTimeout):
	}

	return nil
}

func (s *ShimSession) startListener(ctx context.Context, socketpath string) error {
	socket, err := net.Dial("unix", socketpath)
	if err != nil {
		return err
	}

	s.conn = socket
	go s.listenForEvents(ctx, socket)

	return nil
}

func (s *ShimSession) listenForEvents(ctx context.Context, conn io.Reader) {
	sendData := func(c chan commands.CommandResponse, m commands.CommandResponse) {
		select {
		case c <- m:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		default:
		}

		if s.sessionClosed.Load() {
			return
		}

		replyHeader := commands.RawCommandHeaderBuffer{}
		if _, err := io.ReadFull(conn, replyHeader[:]); err != nil {
			if s.handleListenerError(err) {
				return
			}
			continue
		}

		header, err := commands.UnpackReplyHeader(replyHeader)
		if err != nil {
			s.handleListenerError(err)
			continue
		}

		buf := make([]byte, header.ContentSize)
		if _, err = io.ReadFull(conn, buf); err != nil {
			if s.handleListenerError(err) {
				return
			}
			continue
		}

		s.logger.Trace().Bytes("reply", buf).Int64("request_id", header.RequestId).Msg("shim reply")

		if header.EventID > 0 {
			s.handleListenerEvent(header.EventID, buf)
			continue
		}

		var response commands.CommandResponse
		if err := serde.UnmarshalJson(buf, &response); err != nil {
			s.handleListenerError(err)
			continue
		}
		response.OperationId = commands.OperationID(header.OperationId)
		response.RequestId = commands.RequestID(header.RequestId)

		replyChan, ok := chan commands.CommandResponse(nil), false
		if header.IsOperationComplete {
			replyChan, ok = s.requestMap.LoadAndDelete(header.RequestId)
		} else {
			replyChan, ok = s.requestMap.Load(header.RequestId)
		}

		if ok {
			sendData(replyChan, response)
		}
	}
}

func (s *ShimSession) handleListenerEvent(eventID byte, ev []byte) {
	switch eventID {
	case commands.OutputDevicesChangedEvent:
		_, devices, err := events.UnmarshalOutputDevices(ev)
		if err != nil {
			s.handleListenerError(err)
			return
		}

		eventbus.Publish(eventbus.OutputDevicesChanged, devices)

	default:
		s.logger.Debug().Uint8("event_id", eventID).Msg("ignoring unknown shim event")
	}
}

// handleListenerError logs the error, and reports whether the listener should exit.
func (s *ShimSession) handleListenerError(err error) bool {
	if s.sessionClosed.Load() {
		return true
	}

	s.logger.Error().Err(err).Msg("shim listener error")

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}

func (s *ShimSession) executor(params []string) (chan commands.CommandResponse, error) {
	if s.sessionClosed.Load() {
		return nil, errorkinds.ErrSessionNotExist
	}

	s.Lock()
	s.id.Inc()
	requestID := s.id.Value()
	s.Unlock()

	replyChan := make(chan commands.CommandResponse, 1)
	s.requestMap.Store(requestID, replyChan)

	command := map[string]any{
		"command":    params,
		"request_id": requestID,
	}

	commandBytes, err := serde.MarshalJson(command)
	if err != nil {
		s.requestMap.Delete(requestID)
		return nil, err
	}

	if _, err = s.conn.Write(commandBytes); err != nil {
		s.requestMap.Delete(requestID)
		return nil, err
	}

	return replyChan, nil
}

func (s *ShimSession) reset(isClosed bool, timeout time.Duration) context.Context {
	s.Lock()
	defer s.Unlock()

	s.sessionClosed.Store(isClosed)
	if isClosed {
		if s.cancel != nil {
			s.cancel()
		}

		if s.conn != nil {
			s.conn.Close()
		}

		return context.Background()
	}

	s.timeout = timeout
	s.id = xsync.NewCounter()
	s.requestMap = xsync.NewMapOf[int64, chan commands.CommandResponse]()

	s.listenerErrChan = make(chan error, 10)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	return ctx
}
