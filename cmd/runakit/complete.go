package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"runakit/internal/assist"
)

var completeCmd = &cobra.Command{
	Use:   "complete [flags] <file.runa> <line> <col>",
	Short: "List completion proposals at a position",
	Long: `Print completion proposals for the text before a 1-based line and column.
Partial keywords such as "Pro" or "Typ" yield only the matching snippet.`,
	Args: cobra.ExactArgs(3),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().String("format", "text", "output format (text|json)")
}

func runComplete(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("complete: unsupported output format %q", format)
	}
	globals, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	cur, err := resolveCursor(args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	settings, err := loadSettings(cmd, args[:1], globals.quiet)
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	items := assist.Complete(cur.line.Text[:cur.offset], settings)

	out := cmd.OutOrStdout()
	if format == "json" {
		if items == nil {
			items = []assist.Item{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Label, item.Kind, item.Detail)
	}
	return tw.Flush()
}
