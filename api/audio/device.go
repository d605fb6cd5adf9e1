package audio

// DeviceKind describes the kind of an audio output device.
type DeviceKind string

const (
	Other           DeviceKind = "other"
	BuiltinSpeaker  DeviceKind = "builtin-speaker"
	WiredHeadset    DeviceKind = "wired-headset"
	WiredHeadphones DeviceKind = "wired-headphones"
	USBHeadset      DeviceKind = "usb-headset"
	BluetoothSCO    DeviceKind = "bluetooth-sco"
	BluetoothA2DP   DeviceKind = "bluetooth-a2dp"
)

// Level describes the audio API capability level of a platform.
type Level int

const (
	// LegacyLevel is the highest level that only provides the legacy flag API.
	LegacyLevel Level = 25

	// EnumerationLevel is the first level that supports output device enumeration.
	EnumerationLevel Level = 26
)

// OutputDevice describes an active audio output device, as enumerated by the platform.
type OutputDevice struct {
	Kind    DeviceKind `json:"kind"`
	Name    string     `json:"name,omitempty"`
	Address string     `json:"address,omitempty"`
}

// Service describes the platform audio service.
type Service interface {
	// Level returns the audio API capability level of the platform.
	Level() (Level, error)

	// OutputDevices returns the list of currently active output devices.
	OutputDevices() ([]OutputDevice, error)

	// WiredHeadsetOn reports the legacy "wired headset is active" flag.
	WiredHeadsetOn() (bool, error)

	// BluetoothA2DPOn reports the legacy "Bluetooth A2DP is active" flag.
	BluetoothA2DPOn() (bool, error)
}

// Handle describes the application runtime environment, which is owned by the caller.
type Handle interface {
	// AudioService returns the platform audio service.
	AudioService() (Service, error)
}

// String converts a DeviceKind to a string.
func (k DeviceKind) String() string {
	return string(k)
}

// SupportsEnumeration reports whether the level is at or above the provided threshold.
func (l Level) SupportsEnumeration(threshold Level) bool {
	return l >= threshold
}

// ContainsKind reports whether any of the devices is of the provided kind.
func ContainsKind(devices []OutputDevice, kind DeviceKind) bool {
	for _, device := range devices {
		if device.Kind == kind {
			return true
		}
	}

	return false
}
