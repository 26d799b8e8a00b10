// Package lockwatch reports session lock and unlock transitions to the
// capture scheduler.
package lockwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autoshot/autoshot/pkg/logger"
)

const (
	SourceAuto   = "auto"
	SourceManual = "manual"
	SourceDBus   = "dbus"
	SourcePoll   = "desktop"
)

var ErrUnknownSource = errors.New("unknown lock source")

// Source watches the session lock state. Watch calls onChange with the
// current state once it is known and again on every transition, and
// returns when ctx is cancelled or the source fails.
type Source interface {
	Name() string
	Watch(ctx context.Context, onChange func(locked bool)) error
}

// New returns the source called name; "" and "auto" select the platform
// default.
func New(name string, l logger.Logger) (Source, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "" || n == SourceAuto || n == nativeSource:
		return newNative(l), nil
	case n == SourceManual:
		return Manual{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

// Manual never reports anything; the lock flag is driven through the
// daemon's lock and unlock commands instead.
type Manual struct{}

func (Manual) Name() string { return SourceManual }

func (Manual) Watch(ctx context.Context, _ func(bool)) error {
	<-ctx.Done()
	return nil
}

// Poller samples Probe every Interval and reports changes.
type Poller struct {
	Interval time.Duration
	Probe    func() (locked bool, err error)
	Log      logger.Logger
}

func (p *Poller) Name() string { return SourcePoll }

func (p *Poller) Watch(ctx context.Context, onChange func(bool)) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	var (
		known bool
		last  bool
		fails int
	)
	check := func() {
		locked, err := p.Probe()
		if err != nil {
			fails++
			if fails == 1 && p.Log != nil {
				p.Log.Warning("lock probe failed: %v", err)
			}
			return
		}
		fails = 0
		if !known || locked != last {
			known, last = true, locked
			onChange(locked)
		}
	}
	check()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			check()
		}
	}
}

var (
	_ Source = Manual{}
	_ Source = (*Poller)(nil)
)
