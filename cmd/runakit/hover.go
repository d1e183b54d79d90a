package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"runakit/internal/assist"
)

var hoverCmd = &cobra.Command{
	Use:   "hover [flags] <file.runa> <line> <col>",
	Short: "Show documentation for the word under a position",
	Long:  "Print the hover text for the keyword, operator or built-in function at a 1-based line and column.",
	Args:  cobra.ExactArgs(3),
	RunE:  runHover,
}

func init() {
	hoverCmd.Flags().String("format", "markdown", "output format (markdown|json)")
}

type hoverPayload struct {
	Word     string             `json:"word"`
	Found    bool               `json:"found"`
	Entry    *assist.HoverEntry `json:"entry,omitempty"`
	Markdown string             `json:"markdown,omitempty"`
}

func runHover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "markdown" && format != "json" {
		return fmt.Errorf("hover: unsupported output format %q", format)
	}

	cur, err := resolveCursor(args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("hover: %w", err)
	}
	word, _, _, ok := assist.WordAt(cur.line.Text, cur.offset)
	payload := hoverPayload{Word: word}
	if ok {
		if entry, found := assist.Lookup(word); found {
			payload.Found = true
			payload.Entry = &entry
			payload.Markdown = entry.Markdown()
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	if payload.Found {
		fmt.Fprintln(out, payload.Markdown)
	}
	return nil
}
