// Package common provides shared types and constants used across the autoshot
// client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the directory holding the history database,
	// pid file and RPC secret.
	ConfigDirEnv = "AUTOSHOT_CONFIG_DIR"

	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "AUTOSHOT_SOCKET_PATH"

	// PipeNameEnv is the environment variable for a custom Windows pipe name.
	PipeNameEnv = "AUTOSHOT_PIPE_NAME"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "AUTOSHOT_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "AUTOSHOT_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "AUTOSHOT_DEBUG"

	// RPCPortEnv sets the JSON-RPC listener port.
	RPCPortEnv = "AUTOSHOT_RPC_PORT"

	// RPCSecretEnv sets the JSON-RPC bearer secret.
	RPCSecretEnv = "AUTOSHOT_RPC_SECRET"

	// BackendEnv selects the capture backend.
	BackendEnv = "AUTOSHOT_BACKEND"

	// LockSourceEnv selects how the daemon learns about session locks.
	LockSourceEnv = "AUTOSHOT_LOCK_SOURCE"

	// LogFileEnv makes the daemon log to a file in addition to stderr.
	LogFileEnv = "AUTOSHOT_LOG_FILE"

	// SuppressVersionCheckEnv disables the client/daemon version mismatch warning.
	SuppressVersionCheckEnv = "AUTOSHOT_SUPPRESS_VERSION_CHECK"
)
