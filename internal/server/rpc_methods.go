package server

import (
	"context"
	"errors"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
)

// Custom JSON-RPC error codes.
const (
	codeInvalidConfig = jrpc2.Code(-32001)
	codeUnavailable   = jrpc2.Code(-32002)
	codeInternal      = jrpc2.Code(-32603)
)

// ErrUnavailable marks a feature the daemon was started without, such as
// the history store.
var ErrUnavailable = errors.New("unavailable")

// Controller is the capture engine as seen by the transports. Both the
// framed socket handlers and the JSON-RPC methods delegate to it.
type Controller interface {
	Start(p *common.StartParams) (*common.StartResponse, error)
	Update(cfg shotlib.Configuration) (*common.StartResponse, error)
	Stop() (*common.StopResponse, error)
	Status() (*common.StatusResponse, error)
	History(p *common.HistoryParams) (*common.HistoryResponse, error)
	SetLocked(locked bool) (*common.LockResponse, error)
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // bearer token; empty disables the endpoint
	ListenAll bool   // bind 0.0.0.0 instead of 127.0.0.1
	Version   string
	Commit    string
	BuildType string
}

// RPCServer owns the JSON-RPC method table, the HTTP bridge and the
// notifier used for push events over WebSocket.
type RPCServer struct {
	methods  handler.Map
	bridge   jhttp.Bridge
	notifier *RPCNotifier
	ctl      Controller
	secret   string
	version  common.VersionResponse
}

func NewRPCServer(cfg *RPCConfig, ctl Controller, notifier *RPCNotifier) *RPCServer {
	if notifier == nil {
		notifier = NewRPCNotifier(nil)
	}
	rs := &RPCServer{
		ctl:      ctl,
		notifier: notifier,
		secret:   cfg.Secret,
		version: common.VersionResponse{
			Version:   cfg.Version,
			Commit:    cfg.Commit,
			BuildType: cfg.BuildType,
		},
	}
	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"system.setLocked":  handler.New(rs.systemSetLocked),
		"capture.start":     handler.New(rs.captureStart),
		"capture.update":    handler.New(rs.captureUpdate),
		"capture.stop":      handler.New(rs.captureStop),
		"capture.status":    handler.New(rs.captureStatus),
		"capture.history":   handler.New(rs.captureHistory),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) Notifier() *RPCNotifier {
	return rs.notifier
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResponse, error) {
	v := rs.version
	return &v, nil
}

func (rs *RPCServer) systemSetLocked(_ context.Context, p *common.LockParams) (*common.LockResponse, error) {
	res, err := rs.ctl.SetLocked(p.Locked)
	return res, rpcError(err)
}

func (rs *RPCServer) captureStart(_ context.Context, p *common.StartParams) (*common.StartResponse, error) {
	res, err := rs.ctl.Start(p)
	return res, rpcError(err)
}

func (rs *RPCServer) captureUpdate(_ context.Context, p *shotlib.Configuration) (*common.StartResponse, error) {
	res, err := rs.ctl.Update(*p)
	return res, rpcError(err)
}

func (rs *RPCServer) captureStop(_ context.Context) (*common.StopResponse, error) {
	res, err := rs.ctl.Stop()
	return res, rpcError(err)
}

func (rs *RPCServer) captureStatus(_ context.Context) (*common.StatusResponse, error) {
	res, err := rs.ctl.Status()
	return res, rpcError(err)
}

func (rs *RPCServer) captureHistory(_ context.Context, p *common.HistoryParams) (*common.HistoryResponse, error) {
	res, err := rs.ctl.History(p)
	return res, rpcError(err)
}

// rpcError maps engine errors onto JSON-RPC error codes.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	var jerr *jrpc2.Error
	if errors.As(err, &jerr) {
		return err
	}
	switch {
	case errors.Is(err, shotlib.ErrConfiguration):
		return &jrpc2.Error{Code: codeInvalidConfig, Message: err.Error()}
	case errors.Is(err, ErrUnavailable):
		return &jrpc2.Error{Code: codeUnavailable, Message: err.Error()}
	default:
		return &jrpc2.Error{Code: codeInternal, Message: err.Error()}
	}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
