package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	cmdCommon "github.com/autoshot/autoshot/cmd/common"
	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotcli"
	"github.com/urfave/cli"
)

// startOpener is swapped out by tests.
var startOpener = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// openerCommand returns the program that shows dir in the platform file
// manager.
func openerCommand(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

func open(ctx *cli.Context) error {
	dir := ctx.Args().First()
	if dir == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if dir == "" {
		dir = currentSaveDirectory()
	}
	if dir == "" {
		cmdCommon.PrintRuntimeErr(ctx, "open", "resolve", errors.New("no screenshot folder configured"))
		return nil
	}
	dir, err := filepath.Abs(expandHome(dir))
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "open", "resolve", err)
		return nil
	}
	if _, err = os.Stat(dir); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "open", "stat", err)
		return nil
	}
	name, args := openerCommand(runtime.GOOS, dir)
	if err = startOpener(name, args...); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "open", name, err)
		return nil
	}
	fmt.Printf("Opened %s\n", dir)
	return nil
}

// currentSaveDirectory asks a running daemon for its folder and falls back
// to the default one. It never starts the daemon.
func currentSaveDirectory() string {
	if client, err := connectClient(); err == nil {
		defer client.Close()
		if st, err := client.Status(); err == nil && st.Config != nil {
			return st.Config.SaveDirectory
		}
	}
	dir, err := common.DefaultSaveDirectory()
	if err != nil {
		return ""
	}
	return dir
}

// connectClient is swapped out by tests.
var connectClient = shotcli.Connect
