package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"runakit/internal/config"
	"runakit/internal/driver"
	"runakit/internal/observ"
)

// globalOptions are the root persistent flags, read once per command.
type globalOptions struct {
	color          colorMode
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	ui             uiMode
	noCache        bool
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		opts globalOptions
		err  error
	)
	colorFlag, err := pf.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.color, err = readColorMode(colorFlag); err != nil {
		return opts, err
	}
	if opts.quiet, err = pf.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = pf.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.jobs, err = pf.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := pf.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiFlag); err != nil {
		return opts, err
	}
	if opts.noCache, err = pf.GetBool("no-cache"); err != nil {
		return opts, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	return opts, nil
}

// loadSettings discovers runa.toml above the first target path and applies
// the --indent-size and --no-math overrides.
func loadSettings(cmd *cobra.Command, paths []string, quiet bool) (config.Settings, error) {
	start := "."
	if len(paths) > 0 {
		start = paths[0]
	}
	file, err := config.Discover(start)
	if err != nil {
		return config.Settings{}, err
	}
	if !quiet {
		for _, key := range file.Unknown {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unknown setting %q\n", filepath.ToSlash(file.Path), key)
		}
	}
	settings := file.Settings

	pf := cmd.Root().PersistentFlags()
	if pf.Changed("indent-size") {
		size, err := pf.GetInt("indent-size")
		if err != nil {
			return config.Settings{}, fmt.Errorf("failed to get indent-size flag: %w", err)
		}
		settings = settings.With(config.KeyIndentSize, size)
	}
	noMath, err := pf.GetBool("no-math")
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to get no-math flag: %w", err)
	}
	if noMath {
		settings = settings.With(config.KeyMathSymbolEnforcement, false)
	}
	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

// driverOptions assembles driver.Options; a cache that cannot be opened is
// reported and skipped.
func driverOptions(cmd *cobra.Command, globals globalOptions, settings config.Settings, mode driver.Mode) driver.Options {
	opts := driver.Options{
		Settings:       settings,
		Mode:           mode,
		Jobs:           globals.jobs,
		MaxDiagnostics: globals.maxDiagnostics,
	}
	if globals.timings {
		opts.Timer = observ.NewTimer()
	}
	if globals.noCache || mode == driver.ModeStdout {
		return opts
	}
	dir, err := driver.DefaultCacheDir("runakit")
	if err == nil {
		opts.Cache, err = driver.OpenStampCache(dir)
	}
	if err != nil && !globals.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: stamp cache disabled: %v\n", err)
	}
	return opts
}

// runPass runs a driver pass, through the progress UI when it is enabled and
// there is more than one file.
func runPass(cmd *cobra.Command, globals globalOptions, title string, paths []string, run passFunc, opts driver.Options) ([]driver.Result, error) {
	ctx := cmd.Context()
	if opts.Mode == driver.ModeStdout || globals.quiet || !shouldUseTUI(globals.ui) {
		return run(ctx, paths, opts)
	}
	files, err := driver.Collect(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) < 2 {
		return run(ctx, files, opts)
	}
	return runPassWithUI(ctx, title, files, run, opts)
}

func printTimings(opts driver.Options) {
	if opts.Timer == nil {
		return
	}
	fmt.Fprint(os.Stderr, opts.Timer.Summary())
}
