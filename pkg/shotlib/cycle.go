package shotlib

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// DisplayFailure records why one display produced no file.
type DisplayFailure struct {
	Display int    `json:"display"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
}

// CycleResult is the outcome of one capture cycle.
type CycleResult struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Skipped    bool             `json:"skipped"`
	SkipReason SkipReason       `json:"skip_reason,omitempty"`
	Displays   int              `json:"displays"`
	Successes  int              `json:"successes"`
	Failures   []DisplayFailure `json:"failures,omitempty"`
	Files      []string         `json:"files,omitempty"`
	Bytes      int64            `json:"bytes"`
	// Error holds a cycle-wide failure such as enumeration.
	Error string `json:"error,omitempty"`
	// Err joins every CycleError raised during the cycle.
	Err error `json:"-"`
}

// Failed reports whether anything went wrong in a cycle that was not
// skipped.
func (r CycleResult) Failed() bool {
	return !r.Skipped && (r.Error != "" || len(r.Failures) > 0)
}

// Summary is a one-line human description.
func (r CycleResult) Summary() string {
	switch {
	case r.Skipped:
		return fmt.Sprintf("skipped (%s)", r.SkipReason)
	case r.Error != "":
		return "failed: " + r.Error
	default:
		return fmt.Sprintf("%d display(s): %d captured, %d failed", r.Displays, r.Successes, len(r.Failures))
	}
}

// SkippedResult builds the result of a cycle that did not run.
func SkippedResult(now time.Time, reason SkipReason) CycleResult {
	return CycleResult{
		ID:         uuid.NewString(),
		StartedAt:  now,
		FinishedAt: now,
		Skipped:    true,
		SkipReason: reason,
	}
}

// FailedResult builds the result of a cycle that aborted before any display
// was processed.
func FailedResult(now time.Time, err error) CycleResult {
	return CycleResult{
		ID:         uuid.NewString(),
		StartedAt:  now,
		FinishedAt: time.Now(),
		Error:      err.Error(),
		Err:        err,
	}
}

type OrchestratorOpts struct {
	Capturer Capturer
	// Resizer defaults to ImageResizer.
	Resizer Resizer
	// Fs defaults to the OS filesystem.
	Fs     afero.Fs
	Logger logger.Logger
}

// Orchestrator runs capture cycles: gate, enumerate, capture every display
// concurrently, optionally resize, and write.
type Orchestrator struct {
	capturer Capturer
	resizer  Resizer
	fs       afero.Fs
	log      logger.Logger
}

func NewOrchestrator(opts *OrchestratorOpts) (*Orchestrator, error) {
	if opts == nil || opts.Capturer == nil {
		return nil, ErrNoCapturer
	}
	o := &Orchestrator{
		capturer: opts.Capturer,
		resizer:  opts.Resizer,
		fs:       opts.Fs,
		log:      opts.Logger,
	}
	if o.resizer == nil {
		o.resizer = ImageResizer{}
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.log == nil {
		o.log = logger.NewNopLogger()
	}
	return o, nil
}

// Fs returns the filesystem output is written to.
func (o *Orchestrator) Fs() afero.Fs {
	return o.fs
}

type displayOutcome struct {
	path  string
	bytes int64
	err   *CycleError
}

// RunCycle performs one complete cycle for cfg at the instant now. A
// failing display never affects the others; only enumeration failures
// abort the whole cycle.
func (o *Orchestrator) RunCycle(ctx context.Context, cfg Configuration, now time.Time, locked bool) CycleResult {
	if reason := Eligibility(now, cfg, locked); reason != SkipNone {
		return SkippedResult(now, reason)
	}
	res := CycleResult{
		ID:        uuid.NewString(),
		StartedAt: now,
	}

	displays, err := o.capturer.Displays(ctx)
	if err == nil && len(displays) == 0 {
		err = errors.New("no displays found")
	}
	if err != nil {
		cerr := &CycleError{Kind: ErrEnumeration, Display: -1, Err: err}
		o.log.Error("cycle %s: %v", res.ID, cerr)
		res.Error = cerr.Error()
		res.Err = cerr
		res.FinishedAt = time.Now()
		return res
	}
	res.Displays = len(displays)

	outcomes := make([]displayOutcome, len(displays))
	dayDir, dirErr := EnsureDayDir(o.fs, cfg.SaveDirectory, now)
	if dirErr != nil {
		for i := range displays {
			outcomes[i].err = &CycleError{Kind: ErrIO, Display: i, Err: dirErr}
		}
	} else {
		var g errgroup.Group
		for i, d := range displays {
			d.Index = i
			g.Go(func() error {
				outcomes[i] = o.processDisplay(ctx, cfg, now, dayDir, d)
				return nil
			})
		}
		_ = g.Wait()
	}

	var errs []error
	for i, out := range outcomes {
		if out.err != nil {
			o.log.Warning("cycle %s: %v", res.ID, out.err)
			res.Failures = append(res.Failures, DisplayFailure{
				Display: i,
				Kind:    KindName(out.err.Kind),
				Reason:  out.err.Err.Error(),
			})
			errs = append(errs, out.err)
			continue
		}
		res.Successes++
		res.Files = append(res.Files, out.path)
		res.Bytes += out.bytes
	}
	res.Err = errors.Join(errs...)
	res.FinishedAt = time.Now()
	o.log.Info("cycle %s: %s", res.ID, res.Summary())
	return res
}

func (o *Orchestrator) processDisplay(ctx context.Context, cfg Configuration, now time.Time, dayDir string, d Display) (out displayOutcome) {
	fail := func(kind, err error) displayOutcome {
		return displayOutcome{err: &CycleError{Kind: kind, Display: d.Index, Err: err}}
	}
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("PANIC [display %d]: %v\n%s", d.Index+1, r, debug.Stack())
			out = fail(ErrCapture, fmt.Errorf("panic: %v", r))
		}
	}()

	data, err := o.capturer.Capture(ctx, d, cfg.OutputQualityPercent)
	if err != nil {
		return fail(ErrCapture, err)
	}
	if len(data) == 0 {
		return fail(ErrCapture, errors.New("empty image"))
	}
	if cfg.OutputScalePercent < 100 {
		data, err = o.resizer.Resize(data, cfg.OutputScalePercent, cfg.OutputQualityPercent)
		if err != nil {
			return fail(ErrResize, err)
		}
	}
	path := filepath.Join(dayDir, FileName(now, d.Index))
	if err := afero.WriteFile(o.fs, path, data, 0644); err != nil {
		return fail(ErrIO, err)
	}
	return displayOutcome{path: path, bytes: int64(len(data))}
}
