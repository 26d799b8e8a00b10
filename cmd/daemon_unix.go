//go:build !windows

package cmd

import "github.com/urfave/cli"

func getDaemonAction() cli.ActionFunc {
	return daemon
}
