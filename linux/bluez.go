//go:build linux

package linux

import (
	"github.com/godbus/dbus/v5"
)

const (
	bluezBusName = "org.bluez"

	objectManagerGetManagedObjects = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
)

// bluezDevices returns all devices known to the BlueZ daemon.
func bluezDevices(conn *dbus.Conn) ([]bluezDevice, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

	if err := conn.Object(bluezBusName, "/").
		Call(objectManagerGetManagedObjects, 0).
		Store(&objects); err != nil {
		return nil, err
	}

	return bluezDevicesFromObjects(objects), nil
}
