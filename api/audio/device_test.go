package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsKind(t *testing.T) {
	tests := []struct {
		name    string
		devices []OutputDevice
		kind    DeviceKind
		want    bool
	}{
		{"nil list", nil, WiredHeadphones, false},
		{"empty list", []OutputDevice{}, BluetoothA2DP, false},
		{"no match", []OutputDevice{{Kind: BuiltinSpeaker}, {Kind: BluetoothSCO}}, BluetoothA2DP, false},
		{"single match", []OutputDevice{{Kind: BluetoothA2DP}}, BluetoothA2DP, true},
		{"duplicates", []OutputDevice{{Kind: WiredHeadphones}, {Kind: WiredHeadphones}}, WiredHeadphones, true},
		{"headset is not headphones", []OutputDevice{{Kind: WiredHeadset}}, WiredHeadphones, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsKind(tt.devices, tt.kind))
		})
	}
}

func TestLevelSupportsEnumeration(t *testing.T) {
	assert.False(t, LegacyLevel.SupportsEnumeration(EnumerationLevel))
	assert.True(t, EnumerationLevel.SupportsEnumeration(EnumerationLevel))
	assert.True(t, Level(34).SupportsEnumeration(EnumerationLevel))
	assert.False(t, Level(16).SupportsEnumeration(EnumerationLevel))
}
