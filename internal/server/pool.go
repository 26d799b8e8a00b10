package server

import (
	"log"
	"sync"
	"time"
)

// pushTimeout bounds a single push to an attached connection.
const pushTimeout = 5 * time.Second

// Pool tracks connections that attached to receive cycle events.
type Pool struct {
	mu    sync.RWMutex
	log   *log.Logger
	conns map[*SyncConn]struct{}
}

func NewPool(l *log.Logger) *Pool {
	return &Pool{
		log:   l,
		conns: make(map[*SyncConn]struct{}),
	}
}

// Attach registers conn for broadcasts. Attaching twice is a no-op.
func (p *Pool) Attach(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[conn] = struct{}{}
}

// Detach removes conn and reports whether it was attached.
func (p *Pool) Detach(conn *SyncConn) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.conns[conn]
	delete(p.conns, conn)
	return ok
}

func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

// Broadcast writes data to every attached connection and returns how many
// received it. Connections that fail are detached and closed.
func (p *Pool) Broadcast(data []byte) int {
	p.mu.RLock()
	conns := make([]*SyncConn, 0, len(p.conns))
	for c := range p.conns {
		conns = append(conns, c)
	}
	p.mu.RUnlock()

	var sent int
	for _, c := range conns {
		if err := c.WriteTimeout(data, pushTimeout); err != nil {
			if p.log != nil {
				p.log.Printf("Dropping watcher: %v", err)
			}
			p.Detach(c)
			_ = c.Conn.Close()
			continue
		}
		sent++
	}
	return sent
}
