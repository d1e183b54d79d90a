package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"runakit/internal/config"
	"runakit/internal/diag"
	"runakit/internal/edit"
	"runakit/internal/observ"
	"runakit/internal/source"
	"runakit/internal/trace"
)

// Mode selects what happens with computed edits.
type Mode uint8

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = iota
	// ModeCheck only reports whether files would change.
	ModeCheck
	// ModeStdout returns the rewritten content in Result.Output.
	ModeStdout
)

// Options configures a driver run.
type Options struct {
	Settings       config.Settings
	Mode           Mode
	Jobs           int // <=0 means runtime.NumCPU()
	MaxDiagnostics int // per file, <=0 means unlimited
	Cache          *StampCache
	Progress       ProgressSink
	Timer          *observ.Timer
}

// Result captures what one pass did to one file.
type Result struct {
	Path        string
	Changed     bool
	Cached      bool
	EditCount   int
	Edits       []edit.Edit
	Document    *source.Document // snapshot the edits refer to
	Output      []byte           // rewritten content, ModeStdout only
	Diagnostics []diag.Diagnostic
	Err         error
}

// pass is one transformer as seen by the driver. run fills Edits or
// Diagnostics on res; rewrites tells whether Edits should be applied.
type pass struct {
	stage    Stage
	rewrites bool
	run      func(doc *source.Document, opts Options, res *Result)
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return max(1, min(jobs, files))
}

func beginPhase(t *observ.Timer, name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// runPass collects files and runs p over them in parallel. Results come back
// in the sorted order of Collect. Per-file failures land in Result.Err; the
// returned error is reserved for collection failures and cancellation.
func runPass(ctx context.Context, paths []string, p pass, opts Options) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}

	span, ctx := trace.Start(ctx, trace.ScopePass, string(p.stage))
	defer span.End("")

	endCollect := beginPhase(opts.Timer, "collect")
	files, err := Collect(ctx, paths)
	endCollect(strconv.Itoa(len(files)) + " files")
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))

	emitQueued(opts.Progress, p.stage, files)
	endPass := beginPhase(opts.Timer, string(p.stage))
	defer func() { endPass("") }()

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = processFile(gctx, path, p, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	emit(opts.Progress, Event{Stage: p.stage, Status: StatusDone})
	return results, nil
}

func processFile(ctx context.Context, path string, p pass, opts Options) (res Result) {
	res.Path = path
	started := time.Now()
	span, _ := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	defer func() {
		status := StatusDone
		switch {
		case res.Err != nil:
			status = StatusError
			span.WithExtra("error", res.Err.Error())
		case res.Cached:
			status = StatusCached
		}
		span.WithExtra("edits", strconv.Itoa(res.EditCount)).End(string(status))
		emit(opts.Progress, Event{File: path, Stage: p.stage, Status: status, Err: res.Err, Elapsed: time.Since(started)})
	}()
	emit(opts.Progress, Event{File: path, Stage: p.stage, Status: StatusWorking})

	doc, err := source.Load(path)
	if err != nil {
		res.Err = err
		if p.stage == StageCheck {
			msg := "failed to load file: " + err.Error()
			res.Diagnostics = []diag.Diagnostic{diag.New(diag.SevError, diag.IOLoadFileError, path, 0, edit.Span{}, msg)}
		}
		return res
	}
	res.Document = doc

	fingerprint := opts.Settings.Fingerprint()
	if opts.Mode != ModeStdout {
		clean, cacheErr := opts.Cache.IsClean(p.stage, doc.Hash(), fingerprint)
		if cacheErr == nil && clean {
			res.Cached = true
			return res
		}
	}

	p.run(doc, opts, &res)
	res.EditCount = len(res.Edits)

	if !p.rewrites || len(res.Edits) == 0 {
		if opts.Mode == ModeStdout && p.rewrites {
			res.Output = doc.Bytes()
		}
		if len(res.Edits) == 0 && len(res.Diagnostics) == 0 {
			_ = opts.Cache.MarkClean(p.stage, path, doc.Hash(), fingerprint) //nolint:errcheck
		}
		return res
	}

	next, err := edit.Apply(doc, res.Edits)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	res.Changed = true

	switch opts.Mode {
	case ModeCheck:
	case ModeStdout:
		res.Output = next.Bytes()
	case ModeWrite:
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		if err := writeAtomic(path, next.Bytes()); err != nil {
			res.Err = err
			return res
		}
		// the rewritten file is a fixed point of the pass
		_ = opts.Cache.MarkClean(p.stage, path, next.Hash(), fingerprint) //nolint:errcheck
	}
	return res
}
