package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/autoshot/autoshot/common"
)

const pidFileName = "daemon.pid"

var errDaemonRunning = errors.New("daemon is already running")

func getPidFilePath() (string, error) {
	dir, err := common.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, pidFileName), nil
}

// WritePidFile records the current process ID. It refuses to overwrite the
// file of a daemon that is still alive; a stale file is replaced.
func WritePidFile() error {
	path, err := getPidFilePath()
	if err != nil {
		return err
	}
	if pid, err := ReadPidFile(); err == nil && pid != os.Getpid() && isProcessRunning(pid) {
		return fmt.Errorf("%w (PID %d)", errDaemonRunning, pid)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func ReadPidFile() (int, error) {
	path, err := getPidFilePath()
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// RemovePidFile removes the PID file; a missing file is not an error.
func RemovePidFile() error {
	path, err := getPidFilePath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
