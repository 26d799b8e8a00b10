//go:build !windows

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/capture"
	"github.com/autoshot/autoshot/pkg/lockwatch"
	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotcli"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

const allDays = "Sun,Mon,Tue,Wed,Thu,Fri,Sat"

// testDaemon runs the real daemon stack with the synthetic backend on a
// private socket and points the CLI at it.
type testDaemon struct {
	comps *DaemonComponents
	l     *logger.MockLogger
	stop  context.CancelFunc
	done  chan error
	once  sync.Once
}

func startTestDaemon(t *testing.T, opts daemonOptions) *testDaemon {
	t.Helper()
	sockDir, err := os.MkdirTemp("", "as")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(sockDir) })
	t.Setenv(common.SocketPathEnv, filepath.Join(sockDir, "d.sock"))
	t.Setenv(common.ConfigDirEnv, t.TempDir())
	t.Setenv(common.ForceTCPEnv, "")

	origCapturer, origClient := newCapturer, newClient
	newCapturer = func(string, logger.Logger) (shotlib.Capturer, error) {
		return capture.NewSynthetic(2, 64, 48), nil
	}
	newClient = shotcli.Connect
	t.Cleanup(func() {
		newCapturer = origCapturer
		newClient = origClient
	})

	if opts.LockSource == "" {
		opts.LockSource = lockwatch.SourceManual
	}
	if opts.Backend == "" {
		opts.Backend = capture.BackendSynthetic
	}
	l := logger.NewMockLogger()
	comps, err := initDaemonComponents(l, opts)
	if err != nil {
		t.Fatalf("initDaemonComponents: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &testDaemon{comps: comps, l: l, stop: cancel, done: make(chan error, 1)}
	go func() {
		d.done <- comps.Runner().Start(ctx)
	}()
	t.Cleanup(d.shutdown)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if c, err := shotcli.Connect(); err == nil {
			c.Close()
			return d
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("daemon did not start listening")
	return nil
}

func (d *testDaemon) shutdown() {
	d.once.Do(func() {
		d.stop()
		select {
		case <-d.done:
		case <-time.After(5 * time.Second):
		}
	})
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, _ := captureOutput(func() {
		if err := Execute(append([]string{"autoshot"}, args...), BuildArgs{Version: "test", BuildType: "dev"}); err != nil {
			t.Errorf("Execute %v: %v", args, err)
		}
	})
	return out
}

func jpegFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && strings.HasSuffix(path, ".jpeg") {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func TestCLI_StartStatusStop(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	dir := t.TempDir()

	out := run(t, "start", "--interval", "1", "--dir", dir, "--days", allDays)
	assertContains(t, out, "Capturing every 1 minute(s) into "+dir)
	assertContains(t, out, "2 captured, 0 failed")

	files := jpegFiles(t, dir)
	if len(files) != 2 {
		t.Fatalf("expected 2 screenshots, got %v", files)
	}
	for _, f := range files {
		day := filepath.Base(filepath.Dir(f))
		if !strings.HasPrefix(filepath.Base(f), day+"_") {
			t.Fatalf("file %s is not inside its day folder", f)
		}
	}

	out = run(t, "status")
	assertContains(t, out, "State:      running")
	assertContains(t, out, "Locked:     no (source: manual)")
	assertContains(t, out, "Backend:    synthetic")

	out = run(t, "history", "-n", "5")
	assertContains(t, out, "cycles in total")

	out = run(t, "stop")
	assertContains(t, out, "Capturing stopped")
	out = run(t, "stop")
	assertContains(t, out, "Capturing was not running")
}

func TestCLI_StartResumesLastSettings(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	dir := t.TempDir()

	run(t, "start", "--interval", "3", "--dir", dir, "--days", allDays)
	run(t, "stop")
	out := run(t, "start")
	assertContains(t, out, "Capturing every 3 minute(s) into "+dir)
}

func TestCLI_StartRejectsInvalidSettings(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	out := run(t, "start", "--interval", "0", "--dir", t.TempDir())
	assertErrorFormat(t, out, "start", "start")
	assertContains(t, out, "interval")
}

func TestCLI_UpdateMergesRunningSettings(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	dir := t.TempDir()
	run(t, "start", "--interval", "5", "--dir", dir, "--days", allDays)

	out := run(t, "update", "--interval", "9")
	assertContains(t, out, "Capturing every 9 minute(s) into "+dir)
	assertContains(t, out, "Immediate cycle:")

	out = run(t, "update")
	assertErrorFormat(t, out, "update", "settings")
}

func TestCLI_UpdateWhileIdleOnlySaves(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	out := run(t, "update", "--interval", "4", "--dir", t.TempDir())
	assertContains(t, out, "Saved settings: every 4 minute(s)")
	assertContains(t, out, "Capturing is stopped")
}

func TestCLI_LockSkipsCaptures(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	dir := t.TempDir()

	out := run(t, "lock")
	assertContains(t, out, "captures are paused")
	out = run(t, "start", "--interval", "1", "--dir", dir, "--days", allDays)
	assertContains(t, out, "skipped (locked)")
	if files := jpegFiles(t, dir); len(files) != 0 {
		t.Fatalf("no files expected while locked, got %v", files)
	}
	out = run(t, "status")
	assertContains(t, out, "Locked:     yes")

	out = run(t, "unlock")
	assertContains(t, out, "Session marked as unlocked")
}

func TestDaemon_ResumeOnStartup(t *testing.T) {
	d := startTestDaemon(t, daemonOptions{})
	dir := t.TempDir()
	run(t, "start", "--interval", "2", "--dir", dir, "--days", allDays)
	d.shutdown()

	// a second daemon over the same config dir picks the settings up
	comps, err := initDaemonComponents(logger.NewMockLogger(), daemonOptions{
		Resume:     true,
		LockSource: lockwatch.SourceManual,
		Backend:    capture.BackendSynthetic,
	})
	if err != nil {
		t.Fatalf("initDaemonComponents: %v", err)
	}
	defer comps.Close()
	cfg, ok := comps.Scheduler.Config()
	if !ok || comps.Scheduler.State() != "running" {
		t.Fatalf("expected resumed schedule, state %s", comps.Scheduler.State())
	}
	if cfg.IntervalMinutes != 2 || cfg.SaveDirectory != dir {
		t.Fatalf("resumed wrong settings: %+v", cfg)
	}
}

func TestDaemon_SettingsFileAppliedOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	doc := "interval_minutes: 6\nsave_directory: " + dir + "\nallowed_days: [Sun, Mon, Tue, Wed, Thu, Fri, Sat]\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	d := startTestDaemon(t, daemonOptions{SettingsFile: path})
	cfg, ok := d.comps.Scheduler.Config()
	if !ok || cfg.IntervalMinutes != 6 {
		t.Fatalf("settings file not applied: %+v", cfg)
	}
	if len(d.comps.Tasks()) != 4 {
		t.Fatalf("expected the settings watcher task, got %d tasks", len(d.comps.Tasks()))
	}
}

func TestOpen_UsesRunningSettings(t *testing.T) {
	startTestDaemon(t, daemonOptions{})
	dir := t.TempDir()
	run(t, "update", "--interval", "4", "--dir", dir)

	var gotName string
	var gotArgs []string
	orig := startOpener
	startOpener = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	defer func() { startOpener = orig }()

	out := run(t, "open")
	assertContains(t, out, "Opened "+dir)
	if gotName == "" || len(gotArgs) != 1 || gotArgs[0] != dir {
		t.Fatalf("opener called with %q %v", gotName, gotArgs)
	}
}
