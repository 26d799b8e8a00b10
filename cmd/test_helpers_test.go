package cmd

import (
	"bytes"
	"flag"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

// captureOutput runs f with stdout and stderr redirected and returns what
// was written to each.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	var bufOut, bufErr bytes.Buffer
	doneOut := make(chan struct{})
	doneErr := make(chan struct{})
	go func() {
		io.Copy(&bufOut, rOut)
		close(doneOut)
	}()
	go func() {
		io.Copy(&bufErr, rErr)
		close(doneErr)
	}()

	f()

	wOut.Close()
	wErr.Close()
	<-doneOut
	<-doneErr
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	rOut.Close()
	rErr.Close()

	return bufOut.String(), bufErr.String()
}

func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output to NOT contain %q, got:\n%s", notExpected, output)
	}
}

// assertErrorFormat checks for "autoshot: cmd[action]:".
func assertErrorFormat(t *testing.T, output, cmd, action string) {
	t.Helper()
	pattern := "autoshot: " + cmd + "[" + action + "]:"
	if !strings.Contains(output, pattern) {
		t.Errorf("expected error format %q, got:\n%s", pattern, output)
	}
}

func newTestApp() *cli.App {
	app := cli.NewApp()
	app.Name = "Autoshot"
	app.HelpName = "autoshot"
	return app
}

// newContext builds a command context with flags applied and args parsed.
func newContext(t *testing.T, name string, flags []cli.Flag, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(io.Discard)
	for _, f := range flags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	ctx := cli.NewContext(newTestApp(), set, nil)
	ctx.Command = cli.Command{Name: name, Flags: flags}
	return ctx
}
