package driver

import "errors"

// Summary aggregates per-file results.
type Summary struct {
	Files   int
	Changed int
	Cached  int
	Edits   int
	Failed  int
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		if r.Changed {
			s.Changed++
		}
		if r.Cached {
			s.Cached++
		}
		s.Edits += r.EditCount
	}
	return s
}

// Errors joins every per-file error, nil when there are none.
// Per-file errors already carry the file path.
func Errors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
