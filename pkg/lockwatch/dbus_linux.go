//go:build linux

package lockwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/godbus/dbus/v5"
)

const nativeSource = SourceDBus

// Desktop environments differ in which interface emits ActiveChanged.
var screenSaverInterfaces = []struct {
	service string
	path    dbus.ObjectPath
}{
	{"org.freedesktop.ScreenSaver", "/org/freedesktop/ScreenSaver"},
	{"org.gnome.ScreenSaver", "/org/gnome/ScreenSaver"},
	{"org.mate.ScreenSaver", "/org/mate/ScreenSaver"},
	{"org.cinnamon.ScreenSaver", "/org/cinnamon/ScreenSaver"},
}

var errSignalsClosed = errors.New("dbus signal channel closed")

// DBus follows the session bus screensaver ActiveChanged signal.
type DBus struct {
	log logger.Logger
}

func newNative(l logger.Logger) Source {
	return &DBus{log: l}
}

func (d *DBus) Name() string { return SourceDBus }

func (d *DBus) Watch(ctx context.Context, onChange func(bool)) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	for _, ss := range screenSaverInterfaces {
		if err := conn.AddMatchSignal(
			dbus.WithMatchInterface(ss.service),
			dbus.WithMatchMember("ActiveChanged"),
		); err != nil {
			return fmt.Errorf("add match for %s: %w", ss.service, err)
		}
	}
	ch := make(chan *dbus.Signal, 8)
	conn.Signal(ch)
	defer conn.RemoveSignal(ch)

	if locked, ok := d.initialState(conn); ok {
		onChange(locked)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return errSignalsClosed
			}
			if locked, ok := parseActiveChanged(sig); ok {
				onChange(locked)
			}
		}
	}
}

func (d *DBus) initialState(conn *dbus.Conn) (bool, bool) {
	for _, ss := range screenSaverInterfaces {
		var active bool
		err := conn.Object(ss.service, ss.path).Call(ss.service+".GetActive", 0).Store(&active)
		if err == nil {
			return active, true
		}
	}
	d.log.Warning("no screensaver service answered GetActive; assuming unlocked until a signal arrives")
	return false, false
}

func parseActiveChanged(sig *dbus.Signal) (bool, bool) {
	if sig == nil || !strings.HasSuffix(sig.Name, ".ActiveChanged") || len(sig.Body) != 1 {
		return false, false
	}
	active, ok := sig.Body[0].(bool)
	return active, ok
}
