package notify

import (
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	appName = "batnotify"
)

// DBus sends notifications over the session bus.
type DBus struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewDBus connects to the session bus. The connection is private to the
// notifier and is released by Close.
func NewDBus() (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errors.Wrap(err, "connect session bus")
	}
	obj := conn.Object(dbusNotifyDest, dbusNotifyPath)
	return &DBus{conn: conn, obj: obj}, nil
}

// Notify sends a notification via D-Bus.
func (n *DBus) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		appName,
		notif.ReplacesID,
		"battery-caution",
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, errors.Wrap(call.Err, "notify")
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, errors.Wrap(err, "decode notification id")
	}
	return id, nil
}

// CloseNotification closes a notification by ID.
func (n *DBus) CloseNotification(id uint32) error {
	call := n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id)
	return errors.Wrapf(call.Err, "close notification %d", id)
}

// Close releases the bus connection.
func (n *DBus) Close() error {
	return n.conn.Close()
}
