// Package cmd implements the autoshot command line: the client commands
// that talk to the daemon and the daemon itself.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/autoshot/autoshot/cmd/common"
	"github.com/urfave/cli"
)

// BuildArgs carries the values stamped in at link time.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "Autoshot",
		HelpName:              "autoshot",
		Usage:                 "Takes screenshots of every display on a schedule.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "autoshot <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "start",
				Usage:              "start capturing on a schedule",
				Action:             start,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StartDescription,
				Flags:              settingsFlags,
			},
			{
				Name:               "update",
				Usage:              "change the settings of the running schedule",
				Action:             update,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        UpdateDescription,
				Flags:              settingsFlags,
			},
			{
				Name:               "stop",
				Usage:              "stop capturing",
				Action:             stop,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "status",
				Aliases:            []string{"s"},
				Usage:              "show the scheduler state",
				Action:             status,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatusDescription,
			},
			{
				Name:                   "history",
				Aliases:                []string{"l"},
				Usage:                  "list recent capture cycles",
				Action:                 listHistory,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            HistoryDescription,
				UseShortOptionHandling: true,
				Flags:                  historyFlags,
			},
			{
				Name:               "watch",
				Aliases:            []string{"w"},
				Usage:              "follow capture cycles as they happen",
				Action:             watch,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        WatchDescription,
				Flags:              watchFlags,
			},
			{
				Name:               "lock",
				Usage:              "mark the session as locked",
				Action:             lock,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LockDescription,
			},
			{
				Name:               "unlock",
				Usage:              "mark the session as unlocked",
				Action:             unlock,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LockDescription,
			},
			{
				Name:               "open",
				Usage:              "open the screenshot folder",
				Action:             open,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        OpenDescription,
			},
			{
				Name:               "daemon",
				Usage:              "run the background capture service",
				Action:             getDaemonAction(),
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DaemonDescription,
				Flags:              daemonFlags,
			},
			{
				Name:               "stop-daemon",
				Usage:              "stop the background capture service",
				Action:             stopDaemon,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of autoshot",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
