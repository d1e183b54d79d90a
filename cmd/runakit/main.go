package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"runakit/internal/trace"
	"runakit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "runakit",
	Short: "Runa source toolkit",
	Long: `runakit normalizes indentation, rewrites math symbols into words and
reports style diagnostics with quick fixes for Runa source files`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
}

// traceCleanup flushes the tracer installed by the root pre-run hook.
var traceCleanup = func() {}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(hoverCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	registerGlobalFlags(rootCmd)
}

// main runs the root command and exits with status 1 on failure. The trace
// ring, if any, is dumped to stderr first.
func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		dumpTraceRing(rootCmd.Context(), os.Stderr)
	}
	traceCleanup()
	if err != nil {
		os.Exit(1)
	}
}

func registerGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0=unlimited)")
	pf.Int("jobs", 0, "max parallel workers (0=auto)")
	pf.String("ui", "auto", "progress UI for multi-file runs (auto|on|off)")
	pf.Bool("no-cache", false, "disable the clean-file stamp cache")
	pf.Int("indent-size", 0, "override format.indentSize from runa.toml")
	pf.Bool("no-math", false, "disable math symbol diagnostics")

	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "trace ring buffer capacity")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
