//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/autoshot/autoshot/common"
)

// createListener prefers a Unix socket and falls back to TCP on the
// configured port.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Println("Force TCP mode enabled, using TCP listener")
		return s.listenTCP()
	}
	socketPath := common.SocketPath()
	_ = os.Remove(socketPath)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: socketPath,
		Net:  "unix",
	})
	if err != nil {
		s.log.Println("Error occurred while using unix socket:", err.Error())
		s.log.Println("Trying to use tcp socket")
		return s.listenTCP()
	}
	setSocketPermissions(socketPath)
	return l, nil
}

func (s *Server) listenTCP() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}
