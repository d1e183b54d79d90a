package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"runakit/internal/driver"
	"runakit/internal/edit"
)

// rewriteFlags are shared by fmt and words.
type rewriteFlags struct {
	check  bool
	stdout bool
	format string
}

func addRewriteFlags(cmd *cobra.Command, what string) {
	cmd.Flags().Bool("check", false, "report files that need "+what+" without rewriting them")
	cmd.Flags().Bool("stdout", false, "print the result to stdout instead of rewriting files")
	cmd.Flags().String("format", "text", "output format (text|json|msgpack)")
}

func readRewriteFlags(cmd *cobra.Command) (rewriteFlags, error) {
	var (
		f   rewriteFlags
		err error
	)
	if f.check, err = cmd.Flags().GetBool("check"); err != nil {
		return f, err
	}
	if f.stdout, err = cmd.Flags().GetBool("stdout"); err != nil {
		return f, err
	}
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, err
	}
	name := cmd.Name()
	if f.stdout && f.check {
		return f, fmt.Errorf("%s: --stdout cannot be used with --check", name)
	}
	switch f.format {
	case "text":
	case "json", "msgpack":
		if f.stdout {
			return f, fmt.Errorf("%s: --stdout is only supported with text output", name)
		}
	default:
		return f, fmt.Errorf("%s: unsupported output format %q", name, f.format)
	}
	return f, nil
}

func (f rewriteFlags) mode() driver.Mode {
	switch {
	case f.stdout:
		return driver.ModeStdout
	case f.check:
		return driver.ModeCheck
	default:
		return driver.ModeWrite
	}
}

// rewriteResult is the machine-readable form of a driver.Result.
// Edits are in host coordinates (0-based line, UTF-16 character).
type rewriteResult struct {
	Path    string          `json:"path" msgpack:"path"`
	Changed bool            `json:"changed" msgpack:"changed"`
	Cached  bool            `json:"cached,omitempty" msgpack:"cached,omitempty"`
	Check   bool            `json:"check" msgpack:"check"`
	Edits   []edit.HostEdit `json:"edits,omitempty" msgpack:"edits,omitempty"`
	Error   string          `json:"error,omitempty" msgpack:"error,omitempty"`
}

func buildRewritePayload(results []driver.Result, check bool) []rewriteResult {
	payload := make([]rewriteResult, 0, len(results))
	for _, res := range results {
		rr := rewriteResult{Path: res.Path, Changed: res.Changed, Cached: res.Cached, Check: check}
		if res.Err != nil {
			rr.Error = res.Err.Error()
		} else if res.Document != nil && len(res.Edits) > 0 {
			host, err := edit.ToHost(res.Document, res.Edits)
			if err != nil {
				rr.Error = err.Error()
			}
			rr.Edits = host
		}
		payload = append(payload, rr)
	}
	return payload
}

func renderRewriteJSON(w io.Writer, results []driver.Result, check bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildRewritePayload(results, check))
}

func renderRewriteMsgpack(w io.Writer, results []driver.Result, check bool) error {
	return msgpack.NewEncoder(w).Encode(buildRewritePayload(results, check))
}

func renderRewriteStdout(cmd *cobra.Command, results []driver.Result) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cmd.Name(), res.Err)
			continue
		}
		_, _ = cmd.OutOrStdout().Write(res.Output)
	}
	return hasErrors
}

// renderRewriteText lists changed files: bare paths with --check, otherwise
// "<verb> path".
func renderRewriteText(cmd *cobra.Command, results []driver.Result, check, quiet bool, verb string) (hasErrors, hasChanges bool) {
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cmd.Name(), res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "%s %s\n", verb, res.Path)
		}
	}
	return hasErrors, hasChanges
}

// runRewrite is the body of fmt and words. After rendering it calls summarize
// with the results, for command-specific summary lines.
func runRewrite(cmd *cobra.Command, args []string, title, verb string, run passFunc, summarize func(cmd *cobra.Command, results []driver.Result, flags rewriteFlags, globals globalOptions)) error {
	cmd.SilenceUsage = true
	name := cmd.Name()

	flags, err := readRewriteFlags(cmd)
	if err != nil {
		return err
	}
	globals, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, args, globals.quiet)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	opts := driverOptions(cmd, globals, settings, flags.mode())

	results, err := runPass(cmd, globals, title, args, run, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer printTimings(opts)

	var hasErrors, hasChanges bool
	switch flags.format {
	case "text":
		if flags.stdout {
			if renderRewriteStdout(cmd, results) {
				return fmt.Errorf("%s: failed to process some files", name)
			}
			return nil
		}
		hasErrors, hasChanges = renderRewriteText(cmd, results, flags.check, globals.quiet, verb)
		if summarize != nil {
			summarize(cmd, results, flags, globals)
		}
	case "json":
		if err := renderRewriteJSON(cmd.OutOrStdout(), results, flags.check); err != nil {
			return err
		}
	case "msgpack":
		if err := renderRewriteMsgpack(cmd.OutOrStdout(), results, flags.check); err != nil {
			return err
		}
	}
	summary := driver.Summarize(results)
	hasErrors = hasErrors || summary.Failed > 0
	hasChanges = hasChanges || summary.Changed > 0

	if hasErrors {
		return fmt.Errorf("%s: failed to process some files: %w", name, driver.Errors(results))
	}
	if flags.check && hasChanges {
		return fmt.Errorf("%s: changes required", name)
	}
	return nil
}
