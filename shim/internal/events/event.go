package events

import (
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/shim/internal/serde"
	"github.com/ugorji/go/codec"
)

// ServerEvent describes an event pushed by the native helper without a request.
type ServerEvent struct {
	EventId uint      `json:"event_id,omitempty"`
	Event   codec.Raw `json:"event"`
}

// UnmarshalOutputDevices decodes an event carrying the active output devices.
func UnmarshalOutputDevices(body []byte) (uint, []audio.OutputDevice, error) {
	return UnmarshalEvent[[]audio.OutputDevice](body)
}

// UnmarshalEvent decodes a raw event body, and its single-keyed payload, into T.
func UnmarshalEvent[T any](body []byte) (uint, T, error) {
	var ev ServerEvent
	var data T

	if err := serde.UnmarshalJson(body, &ev); err != nil {
		return 0, data, err
	}

	unmarshalled := make(map[string]T, 1)
	if err := serde.UnmarshalJson(ev.Event, &unmarshalled); err != nil {
		return ev.EventId, data, err
	}

	for _, m := range unmarshalled {
		data = m
	}

	return ev.EventId, data, nil
}
