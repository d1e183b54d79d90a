package driver

import (
	"context"
	"errors"
	"strconv"

	"runakit/internal/diag"
	"runakit/internal/fix"
	"runakit/internal/lint"
	"runakit/internal/source"
	"runakit/internal/trace"
)

// FixResult is the outcome of applying quick fixes to one file.
type FixResult struct {
	Path   string
	Apply  *fix.ApplyResult
	Output []byte // rewritten content, ModeStdout only
}

// FixFile checks path, applies the selected quick fixes and writes the result
// according to opts.Mode. fix.ErrNoFixes is returned unwrapped when nothing
// applied, so callers can treat it as informational.
func FixFile(ctx context.Context, path string, opts Options, fixOpts fix.ApplyOptions) (*FixResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	span, _ := trace.Start(ctx, trace.ScopePass, string(StageFix))
	defer span.End("")

	emit(opts.Progress, Event{File: path, Stage: StageFix, Status: StatusWorking})
	out, err := fixFile(path, opts, fixOpts)
	status := StatusDone
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageFix, Status: status, Err: err})
	if out != nil && out.Apply != nil {
		span.WithExtra("applied", strconv.Itoa(len(out.Apply.Applied)))
	}
	return out, err
}

func fixFile(path string, opts Options, fixOpts fix.ApplyOptions) (*FixResult, error) {
	doc, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	lint.Check(doc, opts.Settings, bag)
	bag.Sort()

	res, err := fix.Apply(doc, bag.Items(), fixOpts)
	out := &FixResult{Path: path, Apply: res}
	if err != nil {
		if opts.Mode == ModeStdout {
			out.Output = doc.Bytes()
		}
		return out, err
	}

	switch opts.Mode {
	case ModeCheck:
	case ModeStdout:
		out.Output = res.Document.Bytes()
	case ModeWrite:
		if err := writeAtomic(path, res.Document.Bytes()); err != nil {
			return out, err
		}
	}
	return out, nil
}
