//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// EventSource is the Event Log source the daemon registers.
const EventSource = "autoshot"

const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	// EventIDError is also used for failed capture cycles.
	EventIDError uint32 = 3
)

// EventLogWriter is the subset of *eventlog.Log used by EventLogger.
type EventLogWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// EventLogger writes to the Windows Event Log.
type EventLogger struct {
	log EventLogWriter
}

// NewEventLogger opens sourceName, registering it first when it is not
// known to the system yet. Registration needs administrator rights; when
// it fails the open error is returned.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		if ierr := eventlog.InstallAsEventCreate(sourceName, eventlog.Error|eventlog.Warning|eventlog.Info); ierr == nil {
			elog, err = eventlog.Open(sourceName)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLogger{log: elog}, nil
}

func newEventLoggerWithWriter(w EventLogWriter) *EventLogger {
	return &EventLogger{log: w}
}

// Write errors are dropped; the daemon keeps running when the event log is
// unavailable.
func (e *EventLogger) Info(format string, args ...interface{}) {
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Close() error {
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)
