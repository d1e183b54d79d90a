package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"runakit/internal/driver"
	"runakit/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.runa>",
	Short: "Apply available quick fixes to a source file",
	Long:  "Run the style checks, surface available fixes, and apply them according to the chosen strategy.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier (e.g. indent-3, words-7)")
	fixCmd.Flags().Bool("heuristics", false, "with --all, also apply fixes that rely on heuristics")
	fixCmd.Flags().Bool("stdout", false, "print the fixed file to stdout instead of rewriting it")
}

func runFix(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	heuristics, err := cmd.Flags().GetBool("heuristics")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	fixOpts := fix.ApplyOptions{
		Mode:            mode,
		TargetID:        targetID,
		AllowHeuristics: heuristics,
	}

	globals, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, args, globals.quiet)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	driverMode := driver.ModeWrite
	if toStdout {
		driverMode = driver.ModeStdout
	}
	// fixes are computed from the file itself, clean stamps do not apply
	globals.noCache = true
	opts := driverOptions(cmd, globals, settings, driverMode)

	res, applyErr := driver.FixFile(cmd.Context(), targetPath, opts, fixOpts)
	if toStdout {
		if res != nil {
			_, _ = cmd.OutOrStdout().Write(res.Output)
		}
		if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) {
			return fmt.Errorf("fix: %w", applyErr)
		}
		return nil
	}
	if res == nil {
		return fmt.Errorf("fix: %w", applyErr)
	}
	return handleApplyResult(cmd.OutOrStdout(), res, applyErr)
}

func handleApplyResult(out io.Writer, res *driver.FixResult, applyErr error) error {
	applied := res.Apply
	if applied == nil {
		return applyErr
	}

	if len(applied.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es) to %s:\n", len(applied.Applied), res.Path)
		for _, item := range applied.Applied {
			fmt.Fprintf(out, "  %s [%s] %s line %d (%d edits, %s)\n",
				item.Title,
				item.ID,
				item.Code.ID(),
				item.Line+1,
				item.EditCount,
				item.Applicability.String(),
			)
		}
	}

	if len(applied.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range applied.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(applied.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return fmt.Errorf("fix: %w", applyErr)
	}
	if len(applied.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
