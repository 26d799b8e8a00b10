package api

import (
	"encoding/json"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/internal/server"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

// decode unmarshals an optional request body into v.
func decode(body json.RawMessage, v any) error {
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	return json.Unmarshal(body, v)
}

func (s *Api) startHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.StartParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_START, nil, err
	}
	res, err := s.Start(&m)
	if err != nil {
		return common.UPDATE_START, nil, err
	}
	return common.UPDATE_START, res, nil
}

func (s *Api) updateHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m shotlib.Configuration
	if err := decode(body, &m); err != nil {
		return common.UPDATE_UPDATE, nil, err
	}
	res, err := s.Update(m)
	if err != nil {
		return common.UPDATE_UPDATE, nil, err
	}
	return common.UPDATE_UPDATE, res, nil
}

func (s *Api) stopHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	res, err := s.Stop()
	return common.UPDATE_STOP, res, err
}

func (s *Api) statusHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	res, err := s.Status()
	return common.UPDATE_STATUS, res, err
}

func (s *Api) historyHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.HistoryParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_HISTORY, nil, err
	}
	res, err := s.History(&m)
	if err != nil {
		return common.UPDATE_HISTORY, nil, err
	}
	return common.UPDATE_HISTORY, res, nil
}

func (s *Api) lockHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.LockParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_LOCK, nil, err
	}
	res, err := s.SetLocked(m.Locked)
	return common.UPDATE_LOCK, res, err
}

// attachHandler subscribes the caller to cycle events and answers with the
// current status so the client can render it before the first event.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	pool.Attach(sconn)
	res, err := s.Status()
	return common.UPDATE_ATTACH, res, err
}

func (s *Api) detachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	pool.Detach(sconn)
	return common.UPDATE_DETACH, nil, nil
}

func (s *Api) versionHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	v := s.version
	return common.UPDATE_VERSION, &v, nil
}
