package server

import (
	"encoding/json"

	"github.com/autoshot/autoshot/common"
)

// HandlerFunc serves one framed request. It receives the caller's
// connection, the watcher pool and the raw message body, and returns the
// update type and payload of the response.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
