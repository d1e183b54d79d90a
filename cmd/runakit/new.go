package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"runakit/internal/assist"
)

var newCmd = &cobra.Command{
	Use:   "new <name.runa>",
	Short: "Create a new Runa file from the starter template",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	name := args[0]
	if err := assist.ValidateFileName(name); err != nil {
		return fmt.Errorf("new: %w", err)
	}
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("new: %s already exists", name)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("new: %w", err)
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("new: failed to create directory %q: %w", dir, err)
		}
	}

	content := assist.NewFileTemplate(name, time.Now())
	// O_EXCL closes the gap between Stat and create
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("new: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("new: failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("new: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", name)
	return nil
}
