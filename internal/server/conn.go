package server

import (
	"net"
	"sync"
	"time"
)

// SyncConn serialises frame reads and writes on a single connection.
type SyncConn struct {
	Conn     net.Conn
	rmu, wmu sync.Mutex
}

func NewSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{
		Conn: conn,
	}
}

func (s *SyncConn) Write(b []byte) error {
	return write(&s.wmu, s.Conn, b)
}

// WriteTimeout writes a frame, failing if the peer does not drain it
// within d. Used for pushes so one stalled watcher cannot block the rest.
func (s *SyncConn) WriteTimeout(b []byte, d time.Duration) error {
	_ = s.Conn.SetWriteDeadline(time.Now().Add(d))
	defer s.Conn.SetWriteDeadline(time.Time{})
	return s.Write(b)
}

func (s *SyncConn) Read() ([]byte, error) {
	return read(&s.rmu, s.Conn)
}
