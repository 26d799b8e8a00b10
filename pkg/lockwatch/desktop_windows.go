//go:build windows

package lockwatch

import (
	"time"

	"github.com/autoshot/autoshot/pkg/logger"
	"golang.org/x/sys/windows"
)

const nativeSource = SourcePoll

const desktopSwitchDesktop = 0x0100

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procOpenInputDesktop = user32.NewProc("OpenInputDesktop")
	procSwitchDesktop    = user32.NewProc("SwitchDesktop")
	procCloseDesktop     = user32.NewProc("CloseDesktop")
)

func newNative(l logger.Logger) Source {
	return &Poller{Interval: 2 * time.Second, Probe: inputDesktopLocked, Log: l}
}

// inputDesktopLocked reports true while the secure desktop (lock screen or
// UAC prompt) owns input: the default desktop can then not be switched to.
func inputDesktopLocked() (bool, error) {
	h, _, _ := procOpenInputDesktop.Call(0, 0, desktopSwitchDesktop)
	if h == 0 {
		return true, nil
	}
	defer procCloseDesktop.Call(h)
	r, _, _ := procSwitchDesktop.Call(h)
	return r == 0, nil
}
