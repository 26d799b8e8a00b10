package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/creachadair/jrpc2"
)

// MethodCycle is the push notification sent after every capture cycle.
const MethodCycle = "capture.cycle"

// RPCNotifier maintains a set of connected jrpc2 WebSocket servers
// and broadcasts push notifications to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     *log.Logger
}

func NewRPCNotifier(l *log.Logger) *RPCNotifier {
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast sends a push notification to all registered servers.
// Servers that fail to receive it are unregistered.
func (n *RPCNotifier) Broadcast(method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(context.Background(), method, params); err != nil {
			if n.log != nil {
				n.log.Printf("RPC push failed: %v", err)
			}
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// CycleNotification is the payload of capture.cycle.
type CycleNotification struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Skipped    bool      `json:"skipped"`
	SkipReason string    `json:"skipReason,omitempty"`
	Successes  int       `json:"successes"`
	Failures   int       `json:"failures"`
	Files      []string  `json:"files,omitempty"`
	Error      string    `json:"error,omitempty"`
}

func NewCycleNotification(res shotlib.CycleResult) *CycleNotification {
	return &CycleNotification{
		ID:         res.ID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Skipped:    res.Skipped,
		SkipReason: string(res.SkipReason),
		Successes:  res.Successes,
		Failures:   len(res.Failures),
		Files:      res.Files,
		Error:      res.Error,
	}
}

// NotifyCycle pushes a capture.cycle notification for res.
func (n *RPCNotifier) NotifyCycle(res shotlib.CycleResult) {
	n.Broadcast(MethodCycle, NewCycleNotification(res))
}
