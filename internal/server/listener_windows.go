//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
	"github.com/autoshot/autoshot/common"
)

// pipeSecurityDescriptor grants SYSTEM, Administrators and the creator
// owner full control of the pipe and nobody else.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener prefers a named pipe and falls back to TCP on the
// configured port.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Println("Force TCP mode enabled, using TCP listener")
		return s.listenTCP()
	}
	l, err := winio.ListenPipe(common.PipePath(), &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	})
	if err != nil {
		s.log.Println("WARNING: Named pipe creation failed:", err.Error())
		s.log.Println("Falling back to TCP (firewall prompts may occur)")
		return s.listenTCP()
	}
	return l, nil
}

func (s *Server) listenTCP() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}

// cleanupSocket is a no-op; the pipe disappears with its last handle.
func cleanupSocket() error {
	return nil
}
