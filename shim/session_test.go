package shim

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/config"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/bluetuith-org/audio-presence/api/eventbus"
	"github.com/bluetuith-org/audio-presence/presence"
	"github.com/bluetuith-org/audio-presence/shim/internal/commands"
	"github.com/bluetuith-org/audio-presence/shim/internal/serde"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type helperRequest struct {
	Command   []string `json:"command"`
	RequestID int64    `json:"request_id"`
}

// fakeHelper answers shim commands on the server side of a pipe.
type fakeHelper struct {
	conn net.Conn

	replies map[string]string
}

func newPipeSession(t *testing.T, replies map[string]string) (*ShimSession, *fakeHelper) {
	t.Helper()

	client, server := net.Pipe()

	s := NewShimSession()
	s.logger = zerolog.Nop()
	ctx := s.reset(false, time.Second)
	s.conn = client
	go s.listenForEvents(ctx, client)

	h := &fakeHelper{conn: server, replies: replies}
	go h.serve()

	t.Cleanup(func() {
		s.reset(true, 0)
		server.Close()
	})

	return s, h
}

func (h *fakeHelper) serve() {
	buf := make([]byte, 4096)

	for {
		n, err := h.conn.Read(buf)
		if err != nil {
			return
		}

		var req helperRequest
		if err := serde.UnmarshalJson(buf[:n], &req); err != nil {
			return
		}

		body, ok := h.replies[strings.Join(req.Command, " ")]
		if !ok {
			body = `{"status":"error","error":{"name":"UnknownCommand","description":"unknown command"}}`
		}

		h.write(req.RequestID, 0, body)
	}
}

func (h *fakeHelper) write(requestID int64, eventID byte, body string) {
	header, err := commands.PackReplyHeader(commands.RawCommandHeader{
		ApiVersion:  1,
		RequestId:   requestID,
		ContentSize: uint32(len(body)),
	}, true, eventID)
	if err != nil {
		return
	}

	h.conn.Write(append(header[:], body...))
}

func TestSessionQueries(t *testing.T) {
	s, _ := newPipeSession(t, map[string]string{
		"audio api-level":                `{"status":"ok","data":{"api_level":28}}`,
		"audio devices --filter outputs": `{"status":"ok","data":{"output_devices":[{"kind":"bluetooth-a2dp","name":"Headphones"}]}}`,
		"audio wired-headset-on":         `{"status":"ok","data":{"wired_headset_on":true}}`,
		"audio bluetooth-a2dp-on":        `{"status":"ok","data":{"bluetooth_a2dp_on":false}}`,
	})

	svc, err := s.AudioService()
	require.NoError(t, err)

	level, err := svc.Level()
	require.NoError(t, err)
	assert.Equal(t, audio.Level(28), level)

	devices, err := svc.OutputDevices()
	require.NoError(t, err)
	assert.Equal(t, []audio.OutputDevice{{Kind: audio.BluetoothA2DP, Name: "Headphones"}}, devices)

	on, err := svc.WiredHeadsetOn()
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.BluetoothA2DPOn()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestSessionWithDetector(t *testing.T) {
	s, _ := newPipeSession(t, map[string]string{
		"audio api-level":                `{"status":"ok","data":{"api_level":26}}`,
		"audio devices --filter outputs": `{"status":"ok","data":{"output_devices":[{"kind":"bluetooth-a2dp"}]}}`,
	})

	d := presence.NewDetector(presence.WithLogger(zerolog.Nop()))
	require.NoError(t, d.Configure(s))

	wired, err := d.IsWiredHeadphoneConnected()
	require.NoError(t, err)
	assert.False(t, wired)

	bt, err := d.IsBluetoothAudioDeviceConnected()
	require.NoError(t, err)
	assert.True(t, bt)
}

func TestSessionCommandError(t *testing.T) {
	s, _ := newPipeSession(t, map[string]string{})

	_, err := s.Level()
	require.Error(t, err)

	var cmdErr commands.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "UnknownCommand", cmdErr.Name)

	d := presence.NewDetector(presence.WithLogger(zerolog.Nop()))
	require.NoError(t, d.Configure(s))

	_, err = d.IsWiredHeadphoneConnected()
	assert.ErrorIs(t, err, errorkinds.ErrDeviceQueryFailed)
}

func TestSessionOutputDevicesEvent(t *testing.T) {
	eventbus.RegisterEventHandler(eventbus.DefaultHandler())

	sub := eventbus.Subscribe(eventbus.OutputDevicesChanged)
	defer sub.Unsubscribe()

	_, h := newPipeSession(t, map[string]string{})
	h.write(0, commands.OutputDevicesChangedEvent,
		`{"event_id":1,"event":{"output_devices":[{"kind":"wired-headphones","name":"Jack"}]}}`)

	select {
	case data := <-sub.C:
		assert.Equal(t, []audio.OutputDevice{{Kind: audio.WiredHeadphones, Name: "Jack"}}, data)

	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for output devices event")
	}
}

func TestStoppedSession(t *testing.T) {
	s := NewShimSession()

	_, err := s.AudioService()
	assert.ErrorIs(t, err, errorkinds.ErrServiceUnavailable)
	assert.ErrorIs(t, s.Stop(), errorkinds.ErrSessionNotExist)

	_, err = s.Level()
	assert.ErrorIs(t, err, errorkinds.ErrSessionNotExist)
}

func TestStartWithoutShimPath(t *testing.T) {
	s := NewShimSession()

	err := s.Start(config.New())
	assert.ErrorIs(t, err, errorkinds.ErrServiceUnavailable)
}

func TestStartRunningSession(t *testing.T) {
	s, _ := newPipeSession(t, map[string]string{
		"audio api-level": `{"status":"ok","data":{"api_level":26}}`,
	})

	cfg := config.New()
	cfg.ShimPath = "/nonexistent/audio-helper"

	err := s.Start(cfg)
	assert.ErrorIs(t, err, errorkinds.ErrSessionExists)

	// The running session is left untouched.
	svc, err := s.AudioService()
	require.NoError(t, err)

	level, err := svc.Level()
	require.NoError(t, err)
	assert.Equal(t, audio.Level(26), level)
}
