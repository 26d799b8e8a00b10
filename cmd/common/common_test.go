package common

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "autoshot"
	app.HelpName = "autoshot"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func TestNewCountdownBar(t *testing.T) {
	p := mpb.New(mpb.WithOutput(io.Discard))
	bar := NewCountdownBar(p, "", 3*time.Second)
	if bar == nil {
		t.Fatal("expected bar")
	}
	bar.SetCurrent(3)
	p.Wait()
	if !bar.Completed() {
		t.Fatal("expected bar to complete")
	}
}

func TestNewCountdownBar_ShortWait(t *testing.T) {
	p := mpb.New(mpb.WithOutput(io.Discard))
	bar := NewCountdownBar(p, "", 0)
	bar.SetCurrent(1)
	p.Wait()
	if !bar.Completed() {
		t.Fatal("a zero wait should still produce a completable bar")
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(nil, "cmd", "action", errors.New("boom"))
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithHelp_Nil(t *testing.T) {
	ctx := newTestContext()
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		t.Fatal("help must not be shown for a nil error")
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, nil); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
}

func TestPrintErrWithHelp_HelpRequested(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("flag: help requested")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx := newTestContext()
	var gotName string
	orig := showCommandHelp
	showCommandHelp = func(_ *cli.Context, name string) error {
		gotName = name
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if gotName != "cmd" {
		t.Fatalf("expected help for %q, got %q", "cmd", gotName)
	}
}

func TestUsageErrorCallback_AppLevel(t *testing.T) {
	ctx := newTestContext()
	ctx.Command = cli.Command{}
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	defer func() { showAppHelpAndExit = orig }()

	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if !called {
		t.Fatal("expected app help")
	}
}

func TestHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestHelpWithCommandArg(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"status"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	var gotName string
	orig := showCommandHelp
	showCommandHelp = func(_ *cli.Context, name string) error {
		gotName = name
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if gotName != "status" {
		t.Fatalf("expected help for status, got %q", gotName)
	}
}

func TestGetVersion(t *testing.T) {
	VersionCmdStr = "autoshot test"
	if err := GetVersion(newTestContext()); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
}
