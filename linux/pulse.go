//go:build linux

package linux

import (
	"github.com/godbus/dbus/v5"
)

const (
	pulseLookupBusName   = "org.PulseAudio1"
	pulseLookupPath      = "/org/pulseaudio/server_lookup1"
	pulseLookupAddress   = "org.PulseAudio.ServerLookup1.Address"
	pulseCorePath        = "/org/pulseaudio/core1"
	pulseCoreInterface   = "org.PulseAudio.Core1"
	pulseDeviceInterface = "org.PulseAudio.Core1.Device"
	pulsePortInterface   = "org.PulseAudio.Core1.DevicePort"

	propertiesGetAll = "org.freedesktop.DBus.Properties.GetAll"
)

// dialPulse looks up the PulseAudio D-Bus protocol server on the session bus
// and opens a peer-to-peer connection to it.
func dialPulse(session *dbus.Conn) (*dbus.Conn, error) {
	v, err := session.Object(pulseLookupBusName, pulseLookupPath).GetProperty(pulseLookupAddress)
	if err != nil {
		return nil, err
	}

	var address string
	if err := v.Store(&address); err != nil {
		return nil, err
	}

	conn, err := dbus.Dial(address)
	if err != nil {
		return nil, err
	}

	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// pulseSinks returns all sinks, with their ports, known to the PulseAudio server.
func pulseSinks(conn *dbus.Conn) ([]pulseSink, error) {
	v, err := conn.Object(pulseCoreInterface, pulseCorePath).GetProperty(pulseCoreInterface + ".Sinks")
	if err != nil {
		return nil, err
	}

	var paths []dbus.ObjectPath
	if err := v.Store(&paths); err != nil {
		return nil, err
	}

	sinks := make([]pulseSink, 0, len(paths))
	for _, path := range paths {
		props, err := getAll(conn, path, pulseDeviceInterface)
		if err != nil {
			return nil, err
		}

		sink, ports := sinkFromProperties(props)
		for _, portPath := range ports {
			portProps, err := getAll(conn, portPath, pulsePortInterface)
			if err != nil {
				return nil, err
			}

			sink.Ports = append(sink.Ports, portFromProperties(portProps))
		}

		sinks = append(sinks, sink)
	}

	return sinks, nil
}

func getAll(conn *dbus.Conn, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error) {
	props := make(map[string]dbus.Variant)

	err := conn.Object(pulseCoreInterface, path).
		Call(propertiesGetAll, 0, iface).
		Store(&props)

	return props, err
}
