package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/shared"
	"github.com/desertthunder/geolist/internal/ui"
)

// runTUI launches the interactive terminal UI for a pipeline run.
func (r *Runner) runTUI(ctx context.Context, library models.Library) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/geolist-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.engine()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine, library)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
