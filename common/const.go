package common

import "time"

type UpdateType string

const (
	UPDATE_START   UpdateType = "start"
	UPDATE_UPDATE  UpdateType = "update"
	UPDATE_STOP    UpdateType = "stop"
	UPDATE_STATUS  UpdateType = "status"
	UPDATE_HISTORY UpdateType = "history"
	UPDATE_LOCK    UpdateType = "lock"
	UPDATE_ATTACH  UpdateType = "attach"
	UPDATE_DETACH  UpdateType = "detach"
	UPDATE_VERSION UpdateType = "version"
	// UPDATE_CYCLE is pushed to attached connections after every cycle.
	UPDATE_CYCLE UpdateType = "cycle"
)

const (
	// TCPHost is the loopback host used by the TCP fallback transport.
	TCPHost = "localhost"
	// DefaultTCPPort is used when neither the socket nor the pipe is available.
	DefaultTCPPort = 4849
	// DefaultRPCPort is the default port of the JSON-RPC endpoint.
	DefaultRPCPort = 4850
	// MaxMessageSize caps a single frame on the daemon connection.
	MaxMessageSize = 16 << 20
	// DefaultDialTimeout bounds a single dial attempt to the daemon.
	DefaultDialTimeout = 2 * time.Second
	// SocketName is the file name of the daemon's Unix socket.
	SocketName = "autoshot.sock"
)
