package cmd

const DESCRIPTION = `
Autoshot runs in the background and saves a screenshot of every
display at a fixed interval. Captures can be limited to certain
days and hours and are paused while the session is locked.
`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const (
	StartDescription = `The start command asks the daemon to begin capturing.
One capture runs right away, then one every interval.
Without any settings flags the last used settings are
reused.

Example:
        autoshot start --interval 5 --dir ~/shots
        autoshot start --days Mon,Wed --from 09:00 --to 17:30
        autoshot start --config settings.yaml

`
	UpdateDescription = `The update command replaces the settings of the
daemon. A running schedule restarts with the new
interval and captures once immediately; an idle
daemon only stores them.

Example:
        autoshot update --interval 15

`
	StatusDescription = `The status command shows whether capturing is active,
when the next capture is due and how the last one went.

Example:
        autoshot status

`
	HistoryDescription = `The history command lists the most recent capture
cycles recorded by the daemon.

Example:
        autoshot history -n 50

`
	WatchDescription = `The watch command follows the daemon and prints every
capture cycle as it finishes, with a countdown to the
next one.

Example:
        autoshot watch

`
	LockDescription = `The lock and unlock commands set the session lock flag
by hand. No captures are taken while it is set. Use them
on systems without automatic lock detection.

Example:
        autoshot lock

`
	OpenDescription = `The open command opens the screenshot folder in the
file manager. Without an argument the folder of the
current settings is used.

Example:
        autoshot open

`
	DaemonDescription = `The daemon command runs the capture service in the
foreground. Client commands start it automatically
when it is not running.

Example:
        autoshot daemon --resume --lock-source auto

`
)
