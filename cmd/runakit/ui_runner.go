package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"runakit/internal/driver"
	"runakit/internal/ui"
)

// passFunc is one of driver.FormatPaths, driver.ConvertPaths or driver.CheckPaths.
type passFunc func(ctx context.Context, paths []string, opts driver.Options) ([]driver.Result, error)

type passOutcome struct {
	results []driver.Result
	err     error
}

func runPassWithUI(ctx context.Context, title string, files []string, run passFunc, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan passOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := run(ctx, files, optsCopy)
		outcomeCh <- passOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// ctrl+c leaves the worker blocked on a full channel otherwise
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
