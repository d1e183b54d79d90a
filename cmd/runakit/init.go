package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"runakit/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default runa.toml",
	Long: `Create a runa.toml with the default settings in [dir] (the current
directory when omitted). The directory is created when missing; an existing
runa.toml is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	configPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", configPath)
	}

	var buf bytes.Buffer
	buf.WriteString("# runakit settings\n")
	if err := config.WriteDefault(&buf); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
