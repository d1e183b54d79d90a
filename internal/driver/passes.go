package driver

import (
	"context"

	"runakit/internal/diag"
	"runakit/internal/format"
	"runakit/internal/lint"
	"runakit/internal/source"
	"runakit/internal/words"
)

var fmtPass = pass{
	stage:    StageFmt,
	rewrites: true,
	run: func(doc *source.Document, opts Options, res *Result) {
		res.Edits = format.Indent(doc, format.Options{IndentSize: opts.Settings.IndentSize()})
	},
}

var wordsPass = pass{
	stage:    StageWords,
	rewrites: true,
	run: func(doc *source.Document, opts Options, res *Result) {
		if !opts.Settings.MathSymbolEnforcement() {
			return
		}
		res.Edits = words.Convert(doc).Edits
	},
}

var checkPass = pass{
	stage: StageCheck,
	run: func(doc *source.Document, opts Options, res *Result) {
		bag := diag.NewBag(opts.MaxDiagnostics)
		lint.Check(doc, opts.Settings, bag)
		bag.Sort()
		bag.Dedup()
		res.Diagnostics = bag.Items()
	},
}

// FormatPaths runs the indentation normalizer over files or directories.
// In ModeCheck files are not modified and Changed reports whether they would
// be. In ModeStdout the content is returned in Result.Output.
func FormatPaths(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	return runPass(ctx, paths, fmtPass, opts)
}

// ConvertPaths runs the symbol-to-words converter. With math-symbol
// enforcement switched off the converter does not run and no file changes.
func ConvertPaths(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	return runPass(ctx, paths, wordsPass, opts)
}

// CheckPaths reports diagnostics without touching files. Mode is ignored.
func CheckPaths(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	opts.Mode = ModeCheck
	return runPass(ctx, paths, checkPass, opts)
}
