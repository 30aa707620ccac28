package system

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	clock := ctx.Clock
	if clock == nil {
		clock = time.Now
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Store, func() time.Time { return clock().In(loc) }), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
