// Package tui renders a live progress view for a running estimation batch.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/yahtzeeodds/internal/statistics"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// ProgressMsg reports completed trials from the estimator.
type ProgressMsg struct {
	Completed int64
}

// DoneMsg carries the final statistics when the batch finishes.
type DoneMsg struct {
	Stats *statistics.Statistics
	Err   error
}

// Model is the Bubble Tea model for the progress view. The estimator runs
// outside the program and feeds it via Program.Send.
type Model struct {
	bar    progress.Model
	cancel context.CancelFunc

	total     int
	completed int64

	stats *statistics.Statistics
	err   error
	done  bool

	width int
}

// New creates a progress model for a batch of total trials. The cancel
// function stops the batch when the user quits early.
func New(total int, cancel context.CancelFunc) Model {
	return Model{
		bar:    progress.New(progress.WithDefaultGradient()),
		cancel: cancel,
		total:  total,
	}
}

// Stats returns the final statistics once the batch is done, or nil.
func (m Model) Stats() *statistics.Statistics {
	return m.stats
}

// Err returns the batch error, if any, once the batch is done.
func (m Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Stop the batch; the estimator answers with a DoneMsg
			// carrying the partial statistics.
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case ProgressMsg:
		m.completed = msg.Completed
		pct := float64(m.completed) / float64(m.total)
		return m, m.bar.SetPercent(pct)

	case DoneMsg:
		m.done = true
		m.stats = msg.Stats
		m.err = msg.Err
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	running := fmt.Sprintf("%d / %d turns", m.completed, m.total)

	return titleStyle.Render("simulating turns") + "\n\n" +
		"  " + m.bar.View() + "\n\n" +
		"  " + countStyle.Render(running) + "\n" +
		"  " + hintStyle.Render("q to stop early and report the partial estimate") + "\n"
}
