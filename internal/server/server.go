package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/autoshot/autoshot/common"
)

// Server accepts framed JSON requests from CLI clients over a Unix socket
// (named pipe on Windows, TCP as a fallback) and dispatches them to
// registered handlers.
type Server struct {
	log      *log.Logger
	pool     *Pool
	web      *WebServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a Server. port is used for the TCP fallback. web may be
// nil when the JSON-RPC endpoint is disabled.
func NewServer(l *log.Logger, pool *Pool, port int, web *WebServer) *Server {
	if pool == nil {
		pool = NewPool(l)
	}
	return &Server{
		log:     l,
		pool:    pool,
		web:     web,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
	}
}

// RegisterHandler associates a handler with a method. Registering the same
// method twice replaces the earlier handler.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

func (s *Server) Pool() *Pool {
	return s.pool
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.web != nil {
		go func() {
			if err := s.web.Start(); err != nil {
				s.log.Println("Error starting rpc server:", err.Error())
			}
		}()
	}

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.Shutdown()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Println("Error accepting:", err.Error())
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown closes the listener, stops the JSON-RPC endpoint and removes
// the socket file. It is safe to call more than once.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Printf("Error closing listener: %v", err)
		}
		s.listener = nil
	}

	if s.web != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.web.Shutdown(shutdownCtx); err != nil {
			s.log.Printf("Error shutting down rpc server: %v", err)
		}
	}

	if err := cleanupSocket(); err != nil {
		s.log.Printf("Error removing socket file: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer conn.Close()
	defer s.pool.Detach(sconn)
	for {
		buf, err := sconn.Read()
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				s.log.Println("Error reading:", err.Error())
			}
			return
		}
		if err = s.handlerWrapper(sconn, buf); err != nil {
			s.log.Println("Error handling:", err.Error())
			return
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %w", err)
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		if err = sconn.Write(CreateError("unknown method: " + string(req.Method))); err != nil {
			return fmt.Errorf("error writing response: %w", err)
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		if err = sconn.Write(InitError(err)); err != nil {
			return fmt.Errorf("error writing response: %w", err)
		}
		return nil
	}
	if err = sconn.Write(MakeResult(utype, msg)); err != nil {
		return fmt.Errorf("error writing response: %w", err)
	}
	return nil
}

// forceTCP reports whether AUTOSHOT_FORCE_TCP=1.
func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}
