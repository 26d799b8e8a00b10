package shotcli

import (
	"encoding/json"

	"github.com/autoshot/autoshot/pkg/shotlib"
)

// Handler processes one pushed update from the daemon.
type Handler interface {
	Handle(json.RawMessage) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(json.RawMessage) error

func (h HandlerFunc) Handle(b json.RawMessage) error { return h(b) }

// CycleHandler decodes cycle events. Skipped cycles are delivered only
// when IncludeSkipped is set.
type CycleHandler struct {
	IncludeSkipped bool
	Callback       func(*shotlib.CycleResult) error
}

func NewCycleHandler(includeSkipped bool, callback func(*shotlib.CycleResult) error) *CycleHandler {
	return &CycleHandler{
		IncludeSkipped: includeSkipped,
		Callback:       callback,
	}
}

func (h *CycleHandler) Handle(m json.RawMessage) error {
	var v shotlib.CycleResult
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	if v.Skipped && !h.IncludeSkipped {
		return nil
	}
	return h.Callback(&v)
}
