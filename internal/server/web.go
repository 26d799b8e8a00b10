package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// WebServer exposes the JSON-RPC methods over HTTP (/jsonrpc) and
// WebSocket (/jsonrpc/ws). Only WebSocket clients receive pushes.
type WebServer struct {
	l        *log.Logger
	rpc      *RPCServer
	host     string
	port     int
	listener net.Listener
	server   *http.Server
	mu       sync.Mutex
}

func NewWebServer(l *log.Logger, rpc *RPCServer, port int, listenAll bool) *WebServer {
	host := "127.0.0.1"
	if listenAll {
		host = "0.0.0.0"
	}
	return &WebServer{l: l, rpc: rpc, host: host, port: port}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(s.rpc.secret, http.HandlerFunc(s.serveWS)))
	return mux
}

// serveWS runs a dedicated jrpc2 server on each WebSocket connection and
// registers it for push notifications until the peer goes away.
func (s *WebServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		OriginPatterns: []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*"},
	})
	if err != nil {
		s.l.Println("Error accepting websocket:", err)
		return
	}
	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})
	s.rpc.notifier.Register(srv)
	defer s.rpc.notifier.Unregister(srv)
	if err := srv.Wait(); err != nil && s.l != nil {
		s.l.Println("RPC websocket closed:", err)
	}
}

// Addr returns the bound address once Start has created the listener.
func (s *WebServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start serves until Shutdown. It returns nil on a clean shutdown.
func (s *WebServer) Start() error {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = l
	s.server = &http.Server{Handler: s.handler()}
	srv := s.server
	s.mu.Unlock()

	s.l.Printf("JSON-RPC listening on %s", l.Addr())
	err = srv.Serve(l)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the web server and the bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}
