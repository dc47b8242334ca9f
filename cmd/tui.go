package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.TUIFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if level, err := shared.ParseLogLevel(r.config.Log.Level); err == nil {
		shared.SetLogLevel(fileLogger, level)
	}
	r.SetLogger(fileLogger)

	s, err := r.openSession()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, s, r.newEngine(s), r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
