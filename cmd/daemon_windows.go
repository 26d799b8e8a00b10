//go:build windows

package cmd

import (
	"log"
	"os"

	cmdCommon "github.com/autoshot/autoshot/cmd/common"
	"github.com/autoshot/autoshot/internal/service"
	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/urfave/cli"
)

// getDaemonAction runs the daemon in the foreground, or under the Service
// Control Manager when started as a service.
func getDaemonAction() cli.ActionFunc {
	return daemonWindows
}

func daemonWindows(ctx *cli.Context) error {
	isService, err := service.IsService()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "daemon", "service_detect", err)
		return nil
	}
	if !isService {
		return daemon(ctx)
	}
	return runAsWindowsService(daemonOptionsFromContext(ctx))
}

// runAsWindowsService logs to the Event Log as well as stderr and the
// optional log file. The Event Log is skipped when it cannot be opened.
func runAsWindowsService(opts daemonOptions) error {
	l, err := newDaemonLogger(opts.LogFile)
	if err != nil {
		l = logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))
	}
	if ev, err := logger.NewEventLogger(service.Name); err == nil {
		l = logger.NewMultiLogger(l, ev)
	}
	defer l.Close()

	if err = WritePidFile(); err != nil {
		l.Error("pid file: %v", err)
		return err
	}
	defer RemovePidFile()

	comps, err := initDaemonComponents(l, opts)
	if err != nil {
		l.Error("daemon setup failed: %v", err)
		return err
	}
	return service.Run(service.NewHandler(comps.Runner(), l))
}
