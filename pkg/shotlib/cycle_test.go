package shotlib

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/spf13/afero"
)

type fakeCapturer struct {
	count    int
	enumErr  error
	fail     map[int]error
	panicOn  int
	data     []byte
	enumCall atomic.Int32
	quality  atomic.Int32
}

func (f *fakeCapturer) Displays(ctx context.Context) ([]Display, error) {
	f.enumCall.Add(1)
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	ds := make([]Display, f.count)
	for i := range ds {
		ds[i] = Display{ID: string(rune('A' + i))}
	}
	return ds, nil
}

func (f *fakeCapturer) Capture(ctx context.Context, d Display, quality int) ([]byte, error) {
	f.quality.Store(int32(quality))
	if f.panicOn > 0 && d.Index == f.panicOn-1 {
		panic("driver crashed")
	}
	if err, ok := f.fail[d.Index]; ok {
		return nil, err
	}
	return f.data, nil
}

type failingResizer struct{}

func (failingResizer) Resize([]byte, int, int) ([]byte, error) {
	return nil, errors.New("unsupported pixel format")
}

// writeFailFs rejects writes to files whose name ends with suffix.
type writeFailFs struct {
	afero.Fs
	suffix string
}

func (w writeFailFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.HasSuffix(name, w.suffix) {
		return nil, os.ErrPermission
	}
	return w.Fs.OpenFile(name, flag, perm)
}

func newTestOrchestrator(t *testing.T, c Capturer, fs afero.Fs, r Resizer) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(&OrchestratorOpts{Capturer: c, Fs: fs, Resizer: r, Logger: logger.NewMockLogger()})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func cycleConfig() Configuration {
	return Configuration{
		IntervalMinutes:      1,
		SaveDirectory:        "/shots",
		AllowedDays:          []string{"Tue"},
		OutputScalePercent:   100,
		OutputQualityPercent: 70,
	}
}

func TestNewOrchestrator_RequiresCapturer(t *testing.T) {
	if _, err := NewOrchestrator(&OrchestratorOpts{}); !errors.Is(err, ErrNoCapturer) {
		t.Fatalf("expected ErrNoCapturer, got %v", err)
	}
}

func TestRunCycle_IsolatesDisplayFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := &fakeCapturer{
		count: 3,
		fail:  map[int]error{1: errors.New("display asleep")},
		data:  testJPEG(t, 64, 48),
	}
	o := newTestOrchestrator(t, c, fs, nil)
	now := at(t, "2024-03-05 14:07")

	res := o.RunCycle(context.Background(), cycleConfig(), now, false)

	if res.Skipped {
		t.Fatal("cycle should not be skipped")
	}
	if res.Successes != 2 || len(res.Failures) != 1 {
		t.Fatalf("got %d successes / %d failures, want 2/1", res.Successes, len(res.Failures))
	}
	f := res.Failures[0]
	if f.Display != 1 || f.Kind != "capture" || !strings.Contains(f.Reason, "display asleep") {
		t.Errorf("unexpected failure: %+v", f)
	}
	if !errors.Is(res.Err, ErrCapture) {
		t.Errorf("expected joined error to contain ErrCapture, got %v", res.Err)
	}
	for i, want := range []bool{true, false, true} {
		_, err := fs.Stat(ResolveOutputPath("/shots", now, i))
		if (err == nil) != want {
			t.Errorf("display %d: file present = %v, want %v", i, err == nil, want)
		}
	}
	if got := c.quality.Load(); got != 70 {
		t.Errorf("capture quality = %d, want 70", got)
	}
	if !res.Failed() {
		t.Error("Failed() should be true")
	}
}

func TestRunCycle_AllSucceed(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := testJPEG(t, 32, 32)
	o := newTestOrchestrator(t, &fakeCapturer{count: 2, data: data}, fs, nil)
	now := at(t, "2024-03-05 09:00")

	res := o.RunCycle(context.Background(), cycleConfig(), now, false)
	if res.Successes != 2 || res.Err != nil || res.Failed() {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Files) != 2 || res.Bytes != int64(2*len(data)) {
		t.Errorf("files=%v bytes=%d", res.Files, res.Bytes)
	}
	if res.ID == "" || res.FinishedAt.Before(res.StartedAt) {
		t.Errorf("bad bookkeeping: id=%q started=%v finished=%v", res.ID, res.StartedAt, res.FinishedAt)
	}
	got, err := afero.ReadFile(fs, ResolveOutputPath("/shots", now, 1))
	if err != nil || !bytes.Equal(got, data) {
		t.Errorf("unexpected file contents (err=%v)", err)
	}
}

func TestRunCycle_GateSkipsWithoutEnumerating(t *testing.T) {
	c := &fakeCapturer{count: 1, data: []byte{1}}
	o := newTestOrchestrator(t, c, afero.NewMemMapFs(), nil)

	res := o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-05 09:00"), true)
	if !res.Skipped || res.SkipReason != SkipLocked {
		t.Fatalf("expected locked skip, got %+v", res)
	}
	res = o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-06 09:00"), false)
	if !res.Skipped || res.SkipReason != SkipDay {
		t.Fatalf("expected day skip, got %+v", res)
	}
	if n := c.enumCall.Load(); n != 0 {
		t.Errorf("displays enumerated %d times for skipped cycles", n)
	}
	if res.Failed() {
		t.Error("a skipped cycle is not a failure")
	}
}

func TestRunCycle_EnumerationFailureAborts(t *testing.T) {
	fs := afero.NewMemMapFs()
	o := newTestOrchestrator(t, &fakeCapturer{enumErr: errors.New("no session")}, fs, nil)

	res := o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-05 09:00"), false)
	if !errors.Is(res.Err, ErrEnumeration) {
		t.Fatalf("expected ErrEnumeration, got %v", res.Err)
	}
	var cerr *CycleError
	if !errors.As(res.Err, &cerr) || cerr.Display != -1 {
		t.Errorf("expected cycle-wide CycleError, got %#v", res.Err)
	}
	if res.Successes != 0 || res.Error == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if exists, _ := afero.DirExists(fs, "/shots/2024-03-05"); exists {
		t.Error("day folder should not be created when enumeration fails")
	}
}

func TestRunCycle_NoDisplays(t *testing.T) {
	o := newTestOrchestrator(t, &fakeCapturer{count: 0}, afero.NewMemMapFs(), nil)
	res := o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-05 09:00"), false)
	if !errors.Is(res.Err, ErrEnumeration) {
		t.Fatalf("expected ErrEnumeration, got %v", res.Err)
	}
}

func TestRunCycle_ResizeApplied(t *testing.T) {
	fs := afero.NewMemMapFs()
	o := newTestOrchestrator(t, &fakeCapturer{count: 1, data: testJPEG(t, 200, 100)}, fs, nil)
	cfg := cycleConfig()
	cfg.OutputScalePercent = 50
	now := at(t, "2024-03-05 09:00")

	res := o.RunCycle(context.Background(), cfg, now, false)
	if res.Successes != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := afero.ReadFile(fs, ResolveOutputPath("/shots", now, 0))
	if err != nil {
		t.Fatal(err)
	}
	ic, err := jpeg.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if ic.Width != 100 || ic.Height != 50 {
		t.Errorf("written image is %dx%d, want 100x50", ic.Width, ic.Height)
	}
}

func TestRunCycle_ResizeFailureDropsOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	o := newTestOrchestrator(t, &fakeCapturer{count: 2, data: []byte{1, 2, 3}}, fs, failingResizer{})
	cfg := cycleConfig()
	cfg.OutputScalePercent = 25
	now := at(t, "2024-03-05 09:00")

	res := o.RunCycle(context.Background(), cfg, now, false)
	if res.Successes != 0 || len(res.Failures) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	for _, f := range res.Failures {
		if f.Kind != "resize" {
			t.Errorf("failure kind = %q, want resize", f.Kind)
		}
	}
	if !errors.Is(res.Err, ErrResize) {
		t.Errorf("expected ErrResize, got %v", res.Err)
	}
	if _, err := fs.Stat(ResolveOutputPath("/shots", now, 0)); err == nil {
		t.Error("unresized image must not be written")
	}
}

func TestRunCycle_WriteFailureIsolated(t *testing.T) {
	fs := writeFailFs{Fs: afero.NewMemMapFs(), suffix: "(2).jpeg"}
	o := newTestOrchestrator(t, &fakeCapturer{count: 3, data: []byte{0xff, 0xd8}}, fs, nil)

	res := o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-05 09:00"), false)
	if res.Successes != 2 || len(res.Failures) != 1 || res.Failures[0].Kind != "io" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !errors.Is(res.Err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", res.Err)
	}
}

func TestRunCycle_DayDirFailureFailsEveryDisplay(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	o := newTestOrchestrator(t, &fakeCapturer{count: 2, data: []byte{1}}, fs, nil)

	res := o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-05 09:00"), false)
	if res.Successes != 0 || len(res.Failures) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !errors.Is(res.Err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", res.Err)
	}
}

func TestRunCycle_PanicIsolated(t *testing.T) {
	fs := afero.NewMemMapFs()
	o := newTestOrchestrator(t, &fakeCapturer{count: 2, panicOn: 2, data: []byte{1}}, fs, nil)

	res := o.RunCycle(context.Background(), cycleConfig(), at(t, "2024-03-05 09:00"), false)
	if res.Successes != 1 || len(res.Failures) != 1 || res.Failures[0].Display != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCycleError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&CycleError{Kind: ErrCapture, Display: 0, Err: cause})
	if !errors.Is(err, ErrCapture) || !errors.Is(err, cause) {
		t.Error("CycleError should unwrap to both kind and cause")
	}
	if !strings.HasPrefix(err.Error(), "display 1:") {
		t.Errorf("Error() = %q", err.Error())
	}
	if KindName(ErrResize) != "resize" || KindName(cause) != "unknown" {
		t.Error("KindName mismatch")
	}
}

func TestCycleResultSummary(t *testing.T) {
	if s := SkippedResult(at(t, "2024-03-05 09:00"), SkipWindow).Summary(); s != "skipped (window)" {
		t.Errorf("Summary = %q", s)
	}
	r := CycleResult{Displays: 3, Successes: 2, Failures: []DisplayFailure{{Display: 1}}}
	if s := r.Summary(); s != "3 display(s): 2 captured, 1 failed" {
		t.Errorf("Summary = %q", s)
	}
}
