package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"runakit/internal/diag"
	"runakit/internal/diagfmt"
	"runakit/internal/driver"
	"runakit/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path> [path...]",
	Short: "Report indentation and math symbol diagnostics",
	Long: `Run the style checks over Runa source files or all *.runa files within
directories. The command fails when any diagnostic is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json|msgpack|sarif)")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "preview the lines each fix would produce")
	checkCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	checkCmd.Flags().Int("context", 0, "lines of source context around each diagnostic")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", pathModeStr)
	}
	switch format {
	case "text", "json", "msgpack", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	globals, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, args, globals.quiet)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	opts := driverOptions(cmd, globals, settings, driver.ModeCheck)

	results, err := runPass(cmd, globals, "checking", args, driver.CheckPaths, opts)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	defer printTimings(opts)

	bag := diag.NewBag(0)
	docs := make(diagfmt.Documents, len(results))
	for _, res := range results {
		docs.Add(res.Document)
		for _, d := range res.Diagnostics {
			bag.Add(d)
		}
	}
	bag.Sort()

	baseDir, _ := os.Getwd() //nolint:errcheck
	showFixes := suggest || preview
	out := cmd.OutOrStdout()
	switch format {
	case "text":
		diagfmt.Pretty(out, bag, docs, diagfmt.PrettyOpts{
			Color:       globals.color.enabled(os.Stdout),
			Context:     contextLines,
			PathMode:    pathMode,
			BaseDir:     baseDir,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
		if !globals.quiet {
			printCheckSummary(cmd, results, bag)
		}
	case "json", "msgpack":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          baseDir,
			IncludeFixes:     showFixes,
		}
		if format == "json" {
			err = diagfmt.JSON(out, bag, docs, jsonOpts)
		} else {
			err = diagfmt.Msgpack(out, bag, docs, jsonOpts)
		}
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "runakit",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(out, bag, docs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}

	if bag.Len() > 0 {
		return fmt.Errorf("check: %d problem(s) found", bag.Len())
	}
	return nil
}

func printCheckSummary(cmd *cobra.Command, results []driver.Result, bag *diag.Bag) {
	summary := driver.Summarize(results)
	if bag.Len() == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s), no problems\n", summary.Files)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s), %d problem(s)\n", summary.Files, bag.Len())
}
