package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	cmdCommon "github.com/autoshot/autoshot/cmd/common"
	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/capture"
	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/urfave/cli"
)

// DefaultHistoryDays is how long cycle history is kept by default.
const DefaultHistoryDays = 30

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "backend, b",
		Usage:  "capture backend: " + strings.Join(capture.Backends(), ", "),
		EnvVar: common.BackendEnv,
	},
	cli.StringFlag{
		Name:   "lock-source",
		Usage:  "how session locks are detected: auto or manual",
		EnvVar: common.LockSourceEnv,
	},
	cli.BoolFlag{
		Name:  "resume, r",
		Usage: "start capturing with the last used settings (default: false)",
	},
	cli.StringFlag{
		Name:  "watch-config",
		Usage: "YAML settings file applied on start and reloaded when it changes",
	},
	cli.IntFlag{
		Name:  "history-days",
		Usage: "days of cycle history to keep, 0 keeps everything",
		Value: DefaultHistoryDays,
	},
	cli.IntFlag{
		Name:   "port",
		Usage:  "TCP port used when no local socket is available",
		Value:  common.DefaultTCPPort,
		EnvVar: common.TCPPortEnv,
	},
	cli.BoolFlag{
		Name:   "rpc",
		Usage:  "serve JSON-RPC over HTTP and WebSocket (default: false)",
		EnvVar: "AUTOSHOT_RPC",
	},
	cli.IntFlag{
		Name:   "rpc-port",
		Usage:  "JSON-RPC port",
		Value:  common.DefaultRPCPort,
		EnvVar: common.RPCPortEnv,
	},
	cli.BoolFlag{
		Name:  "rpc-listen-all",
		Usage: "bind JSON-RPC on all interfaces instead of loopback (default: false)",
	},
	cli.StringFlag{
		Name:   "log-file",
		Usage:  "also append daemon logs to this file",
		EnvVar: common.LogFileEnv,
	},
}

type daemonOptions struct {
	Backend      string
	LockSource   string
	Resume       bool
	SettingsFile string
	HistoryDays  int
	Port         int
	RPC          bool
	RPCPort      int
	RPCListenAll bool
	LogFile      string
}

func daemonOptionsFromContext(ctx *cli.Context) daemonOptions {
	return daemonOptions{
		Backend:      ctx.String("backend"),
		LockSource:   ctx.String("lock-source"),
		Resume:       ctx.Bool("resume"),
		SettingsFile: ctx.String("watch-config"),
		HistoryDays:  ctx.Int("history-days"),
		Port:         ctx.Int("port"),
		RPC:          ctx.Bool("rpc"),
		RPCPort:      ctx.Int("rpc-port"),
		RPCListenAll: ctx.Bool("rpc-listen-all"),
		LogFile:      ctx.String("log-file"),
	}
}

// newDaemonLogger logs to stderr and, when path is set, to a file too.
func newDaemonLogger(path string) (logger.Logger, error) {
	stderr := logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))
	if path == "" {
		return stderr, nil
	}
	fl, err := logger.NewFileLogger(path)
	if err != nil {
		return nil, err
	}
	return logger.NewMultiLogger(stderr, fl), nil
}

// daemon runs in the foreground until interrupted.
func daemon(ctx *cli.Context) error {
	opts := daemonOptionsFromContext(ctx)
	l, err := newDaemonLogger(opts.LogFile)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "daemon", "logger", err)
		return nil
	}
	defer l.Close()
	if err = runDaemon(l, opts); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}

func runDaemon(l logger.Logger, opts daemonOptions) error {
	if err := WritePidFile(); err != nil {
		return fmt.Errorf("pid file: %w", err)
	}
	defer RemovePidFile()

	sigCtx, stop := setupShutdownHandler()
	defer stop()

	comps, err := initDaemonComponents(l, opts)
	if err != nil {
		return err
	}
	l.Info("Daemon started (PID %d, backend %s)", os.Getpid(), comps.backend)
	err = comps.Runner().Start(sigCtx)
	l.Info("Daemon stopped")
	return err
}
