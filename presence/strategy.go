package presence

import "github.com/bluetuith-org/audio-presence/api/audio"

// query describes a single presence question, answered either by a legacy
// flag or by matching a kind in the enumerated output devices.
type query struct {
	name   string
	kind   audio.DeviceKind
	legacy func(audio.Service) (bool, error)
}

var (
	wiredHeadphoneQuery = query{
		name:   "wired-headphones",
		kind:   audio.WiredHeadphones,
		legacy: audio.Service.WiredHeadsetOn,
	}

	bluetoothAudioQuery = query{
		name:   "bluetooth-a2dp",
		kind:   audio.BluetoothA2DP,
		legacy: audio.Service.BluetoothA2DPOn,
	}
)

type strategy interface {
	name() string
	answer(svc audio.Service, q query) (bool, error)
}

// legacyStrategy reads the coarse flags exposed directly by the audio service.
type legacyStrategy struct{}

// enumerationStrategy scans the active output devices for a matching kind.
type enumerationStrategy struct{}

func selectStrategy(level, threshold audio.Level) strategy {
	if level.SupportsEnumeration(threshold) {
		return enumerationStrategy{}
	}

	return legacyStrategy{}
}

func (legacyStrategy) name() string {
	return "legacy"
}

func (legacyStrategy) answer(svc audio.Service, q query) (bool, error) {
	return q.legacy(svc)
}

func (enumerationStrategy) name() string {
	return "enumeration"
}

func (enumerationStrategy) answer(svc audio.Service, q query) (bool, error) {
	devices, err := svc.OutputDevices()
	if err != nil {
		return false, err
	}
	if devices == nil {
		return false, errNoDeviceList
	}

	return audio.ContainsKind(devices, q.kind), nil
}
