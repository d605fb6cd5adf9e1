package linux

import (
	"testing"
	"testing/fstest"

	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestA2DPSinkConnected(t *testing.T) {
	headphones := bluezDevice{
		Name:      "Headphones",
		Address:   "00:11:22:33:44:55",
		Connected: true,
		UUIDs:     []string{"0000110B-0000-1000-8000-00805F9B34FB", "0000111e-0000-1000-8000-00805f9b34fb"},
	}
	keyboard := bluezDevice{
		Name:      "Keyboard",
		Connected: true,
		UUIDs:     []string{"00001124-0000-1000-8000-00805f9b34fb"},
	}

	assert.True(t, a2dpSinkConnected([]bluezDevice{keyboard, headphones}))
	assert.False(t, a2dpSinkConnected([]bluezDevice{keyboard}))
	assert.False(t, a2dpSinkConnected(nil))

	headphones.Connected = false
	assert.False(t, a2dpSinkConnected([]bluezDevice{headphones}))

	invalid := bluezDevice{Connected: true, UUIDs: []string{"not-a-uuid"}}
	assert.False(t, a2dpSinkConnected([]bluezDevice{invalid}))
}

func TestClassifySinks(t *testing.T) {
	sinks := []pulseSink{
		{
			Name: "alsa_output.pci-0000_00_1f.3.analog-stereo",
			Properties: map[string]string{
				"device.description": "Built-in Audio Analog Stereo",
				"device.bus":         "pci",
			},
			Ports: []pulsePort{
				{Name: "analog-output-speaker", Available: portAvailableUnknown},
				{Name: "analog-output-headphones", Available: portAvailableYes},
			},
		},
		{
			Name: "bluez_sink.00_11_22_33_44_55.a2dp_sink",
			Properties: map[string]string{
				"device.description": "Headphones",
				"device.bus":         "bluetooth",
				"device.string":      "00:11:22:33:44:55",
				"bluetooth.protocol": "a2dp_sink",
			},
		},
	}

	devices := classifySinks(sinks)
	require.Len(t, devices, 2)

	assert.Equal(t, audio.OutputDevice{
		Kind:    audio.WiredHeadphones,
		Name:    "Built-in Audio Analog Stereo",
		Address: "analog-output-headphones",
	}, devices[0])
	assert.Equal(t, audio.OutputDevice{
		Kind:    audio.BluetoothA2DP,
		Name:    "Headphones",
		Address: "00:11:22:33:44:55",
	}, devices[1])
}

func TestClassifySinksUnplugged(t *testing.T) {
	sinks := []pulseSink{
		{
			Name:       "alsa_output.pci-0000_00_1f.3.analog-stereo",
			Properties: map[string]string{"device.bus": "pci"},
			Ports: []pulsePort{
				{Name: "analog-output-speaker", Available: portAvailableUnknown},
				{Name: "analog-output-headphones", Available: portAvailableNo},
			},
		},
		{
			Name:       "bluez_sink.00_11_22_33_44_55.handsfree_head_unit",
			Properties: map[string]string{"device.bus": "bluetooth", "bluetooth.protocol": "headset_head_unit"},
		},
		{
			Name:       "alsa_output.usb-headset",
			Properties: map[string]string{"device.bus": "usb"},
		},
	}

	devices := classifySinks(sinks)
	require.Len(t, devices, 3)

	assert.Equal(t, audio.BuiltinSpeaker, devices[0].Kind)
	assert.Equal(t, audio.BluetoothSCO, devices[1].Kind)
	assert.Equal(t, audio.USBHeadset, devices[2].Kind)
	assert.False(t, audio.ContainsKind(devices, audio.WiredHeadphones))
	assert.False(t, audio.ContainsKind(devices, audio.BluetoothA2DP))
}

func TestClassifySinksEmpty(t *testing.T) {
	devices := classifySinks(nil)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestWiredJackState(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
		want bool
	}{
		{
			name: "switch headphone",
			fs:   fstest.MapFS{switchStatePath: {Data: []byte("2\n")}},
			want: true,
		},
		{
			name: "switch unplugged",
			fs:   fstest.MapFS{switchStatePath: {Data: []byte("0\n")}},
			want: false,
		},
		{
			name: "extcon headphone",
			fs: fstest.MapFS{
				"class/extcon/extcon0/state": {Data: []byte("USB=0\n")},
				"class/extcon/extcon1/state": {Data: []byte("HEADPHONE=1\nMICROPHONE=0\n")},
			},
			want: true,
		},
		{
			name: "extcon unplugged",
			fs: fstest.MapFS{
				"class/extcon/extcon1/state": {Data: []byte("HEADPHONE=0\nHEADSET=0\n")},
			},
			want: false,
		},
		{
			name: "switch unplugged, extcon headset",
			fs: fstest.MapFS{
				switchStatePath:              {Data: []byte("0")},
				"class/extcon/extcon0/state": {Data: []byte("HEADSET=1")},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wiredJackState(tt.fs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWiredJackStateUnavailable(t *testing.T) {
	_, err := wiredJackState(fstest.MapFS{})
	assert.ErrorIs(t, err, errorkinds.ErrNotSupported)
}
