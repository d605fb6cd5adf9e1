package linux

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const bluezDeviceInterface = "org.bluez.Device1"

// bluezDevicesFromObjects extracts org.bluez.Device1 objects from a GetManagedObjects reply.
func bluezDevicesFromObjects(objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant) []bluezDevice {
	devices := make([]bluezDevice, 0, len(objects))

	for _, ifaces := range objects {
		props, ok := ifaces[bluezDeviceInterface]
		if !ok {
			continue
		}

		var device bluezDevice
		storeVariant(props, "Name", &device.Name)
		storeVariant(props, "Address", &device.Address)
		storeVariant(props, "Connected", &device.Connected)
		storeVariant(props, "UUIDs", &device.UUIDs)

		devices = append(devices, device)
	}

	return devices
}

// sinkFromProperties converts org.PulseAudio.Core1.Device properties into a sink,
// and returns the object paths of its ports.
// PulseAudio property list values are NUL-terminated byte strings.
func sinkFromProperties(props map[string]dbus.Variant) (pulseSink, []dbus.ObjectPath) {
	sink := pulseSink{Properties: make(map[string]string)}
	storeVariant(props, "Name", &sink.Name)

	var proplist map[string][]byte
	storeVariant(props, "PropertyList", &proplist)
	for key, value := range proplist {
		sink.Properties[key] = strings.TrimRight(string(value), "\x00")
	}

	var ports []dbus.ObjectPath
	storeVariant(props, "Ports", &ports)

	return sink, ports
}

// portFromProperties converts org.PulseAudio.Core1.DevicePort properties into a port.
func portFromProperties(props map[string]dbus.Variant) pulsePort {
	var port pulsePort
	storeVariant(props, "Name", &port.Name)
	storeVariant(props, "Available", &port.Available)

	return port
}

// storeVariant stores the variant named 'key' into 'value', if it exists
// and holds a value of a matching type.
func storeVariant[T any](props map[string]dbus.Variant, key string, value *T) {
	v, ok := props[key]
	if !ok {
		return
	}

	_ = v.Store(value)
}
