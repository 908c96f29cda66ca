package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/renato0307/ktopo/internal/app"
	"github.com/renato0307/ktopo/internal/messages"
	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	src, err := c.openSource(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer src.close()

	appCtx := types.NewAppContext(ui.GetTheme(c.cfg.Theme), c.pipeline(src, nil), src.contextName)
	model := app.NewModel(appCtx, c.cfg.RefreshInterval.Duration)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := p.Run(); err != nil {
		return messages.WrapError(err, "error running program")
	}
	return nil
}
