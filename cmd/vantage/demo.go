package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/vantage/cmd/vantage/internal/ui"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Interactive viewport playground in the terminal",
		Long: `Demo opens a terminal playground backed by a real viewport
controller: drag with the mouse to pan, use the wheel or +/- to zoom,
f to fit the scene, and 0 to reset with an animated transition.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := ui.NewModel()
			if err != nil {
				return fmt.Errorf("demo: %w", err)
			}
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("demo: %w", err)
			}
			return nil
		},
	}
}
