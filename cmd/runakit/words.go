package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"runakit/internal/driver"
)

var wordsCmd = &cobra.Command{
	Use:   "words [flags] <path> [path...]",
	Short: "Rewrite math symbols as natural-language words",
	Long: `Replace operators such as +, >= and != with their Runa phrases
("plus", "is greater than or equal to", "does not equal"). Note: lines and
lines inside string literals are left alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWords,
}

func init() {
	addRewriteFlags(wordsCmd, "symbol conversion")
}

func runWords(cmd *cobra.Command, args []string) error {
	return runRewrite(cmd, args, "converting", "converted", driver.ConvertPaths, printWordsSummary)
}

// printWordsSummary reports the number of rewritten lines, one edit each.
func printWordsSummary(cmd *cobra.Command, results []driver.Result, flags rewriteFlags, globals globalOptions) {
	if globals.quiet || flags.check {
		return
	}
	summary := driver.Summarize(results)
	if summary.Edits == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No mathematical symbols found to convert")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d mathematical symbols to words\n", summary.Edits)
}
