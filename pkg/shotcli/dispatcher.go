package shotcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/autoshot/autoshot/common"
)

// ErrDisconnect may be returned by a handler to end Listen cleanly.
var ErrDisconnect = errors.New("disconnect")

type Dispatcher struct {
	Handlers map[common.UpdateType][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{Handlers: make(map[common.UpdateType][]Handler)}
}

func (d *Dispatcher) AddHandler(utype common.UpdateType, h Handler) {
	d.Handlers[utype] = append(d.Handlers[utype], h)
}

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	handlers, ok := d.Handlers[res.Update.Type]
	if !ok {
		return fmt.Errorf("no handler for update %q", res.Update.Type)
	}
	for _, h := range handlers {
		if err := h.Handle(res.Update.Message); err != nil {
			return err
		}
	}
	return nil
}
