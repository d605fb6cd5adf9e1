package linux

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/google/uuid"
)

// A2DPSinkUUID is the Bluetooth service class of an A2DP audio sink (headphones, speakers).
var A2DPSinkUUID = uuid.MustParse("0000110b-0000-1000-8000-00805f9b34fb")

// PulseAudio port availability values.
const (
	portAvailableUnknown uint32 = iota
	portAvailableNo
	portAvailableYes
)

const (
	switchStatePath = "class/switch/h2w/state"
	extconStateGlob = "class/extcon/*/state"
)

// bluezDevice holds the org.bluez.Device1 properties used for presence checks.
type bluezDevice struct {
	Name      string
	Address   string
	Connected bool
	UUIDs     []string
}

// pulseSink holds the org.PulseAudio.Core1.Device properties of a sink.
type pulseSink struct {
	Name       string
	Properties map[string]string
	Ports      []pulsePort
}

// pulsePort holds the org.PulseAudio.Core1.DevicePort properties of a sink port.
type pulsePort struct {
	Name      string
	Available uint32
}

// a2dpSinkConnected reports whether any connected device advertises the A2DP sink profile.
func a2dpSinkConnected(devices []bluezDevice) bool {
	for _, device := range devices {
		if !device.Connected {
			continue
		}

		for _, u := range device.UUIDs {
			parsed, err := uuid.Parse(u)
			if err == nil && parsed == A2DPSinkUUID {
				return true
			}
		}
	}

	return false
}

// classifySinks converts PulseAudio sinks into output devices.
// The returned slice is never nil.
func classifySinks(sinks []pulseSink) []audio.OutputDevice {
	devices := make([]audio.OutputDevice, 0, len(sinks))

	for _, sink := range sinks {
		name := sink.Properties["device.description"]
		if name == "" {
			name = sink.Name
		}

		if sink.Properties["device.bus"] == "bluetooth" {
			kind := audio.BluetoothSCO
			if isA2DPProfile(sink.Properties) {
				kind = audio.BluetoothA2DP
			}

			devices = append(devices, audio.OutputDevice{
				Kind:    kind,
				Name:    name,
				Address: firstOf(sink.Properties, "api.bluez5.address", "device.string"),
			})

			continue
		}

		var headphones bool
		for _, port := range sink.Ports {
			if port.Available == portAvailableNo {
				continue
			}

			switch {
			case strings.Contains(port.Name, "headphones"):
				if port.Available == portAvailableYes {
					headphones = true
					devices = append(devices, audio.OutputDevice{Kind: audio.WiredHeadphones, Name: name, Address: port.Name})
				}

			case strings.Contains(port.Name, "headset"):
				if port.Available == portAvailableYes {
					devices = append(devices, audio.OutputDevice{Kind: audio.WiredHeadset, Name: name, Address: port.Name})
				}
			}
		}

		if headphones {
			continue
		}

		kind := audio.Other
		switch {
		case sink.Properties["device.bus"] == "usb":
			kind = audio.USBHeadset

		case sink.Properties["device.form_factor"] == "internal" || strings.Contains(sink.Name, "analog-stereo"):
			kind = audio.BuiltinSpeaker
		}

		devices = append(devices, audio.OutputDevice{Kind: kind, Name: name, Address: sink.Name})
	}

	return devices
}

func firstOf(props map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := props[key]; v != "" {
			return v
		}
	}

	return ""
}

func isA2DPProfile(props map[string]string) bool {
	for _, key := range []string{"bluetooth.protocol", "bluez.profile", "device.profile.name"} {
		if strings.Contains(strings.ToLower(props[key]), "a2dp") {
			return true
		}
	}

	return false
}

// wiredJackState reads the kernel's headphone jack state from a sysfs tree.
// Both the legacy switch class (h2w) and the extcon class are checked.
func wiredJackState(sysfs fs.FS) (bool, error) {
	var found bool

	state, err := fs.ReadFile(sysfs, switchStatePath)
	switch {
	case err == nil:
		found = true
		if v := strings.TrimSpace(string(state)); v != "" && v != "0" {
			return true, nil
		}

	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	matches, err := fs.Glob(sysfs, extconStateGlob)
	if err != nil {
		return false, err
	}

	for _, match := range matches {
		state, err := fs.ReadFile(sysfs, match)
		if err != nil {
			return false, err
		}
		found = true

		scanner := bufio.NewScanner(bytes.NewReader(state))
		for scanner.Scan() {
			switch strings.TrimSpace(scanner.Text()) {
			case "HEADPHONE=1", "HEADSET=1":
				return true, nil
			}
		}
	}

	if !found {
		return false, fault.Wrap(errorkinds.ErrNotSupported,
			fmsg.With("No headphone jack state is exposed by the kernel"),
		)
	}

	return false, nil
}
