package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/restaurants/internal/directory"
)

// Run starts the interactive browser and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, src directory.DataSource, opt Options) error {
	m := New(ctx, src, opt)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
