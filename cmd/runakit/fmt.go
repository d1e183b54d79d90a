package main

import (
	"github.com/spf13/cobra"

	"runakit/internal/driver"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Normalize indentation of Runa source files",
	Long: `Recompute the leading whitespace of every line from block keywords
(If, For, While, Process, Type, ...) using format.indentSize spaces per level.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	addRewriteFlags(fmtCmd, "reindenting")
}

func runFmt(cmd *cobra.Command, args []string) error {
	return runRewrite(cmd, args, "formatting", "reformatted", driver.FormatPaths, nil)
}
