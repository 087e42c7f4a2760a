package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/yahtzeeodds/internal/estimator"
	"github.com/lox/yahtzeeodds/internal/statistics"
	"github.com/lox/yahtzeeodds/internal/tui"
)

// runWithTUI runs the batch behind a live progress view. The estimator runs
// in its own goroutine and feeds the program; quitting the view cancels the
// batch, which then reports its partial statistics through DoneMsg.
func runWithTUI(ctx context.Context, cancel context.CancelFunc, cfg estimator.Config) (*statistics.Statistics, error) {
	program := tea.NewProgram(tui.New(cfg.Trials, cancel))

	cfg.OnProgress = func(completed int64) {
		program.Send(tui.ProgressMsg{Completed: completed})
	}

	go func() {
		stats, err := estimator.New(cfg).Run(ctx)
		program.Send(tui.DoneMsg{Stats: stats, Err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	model := final.(tui.Model)
	if model.Err() != nil {
		return nil, model.Err()
	}
	return model.Stats(), nil
}
