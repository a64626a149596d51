package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/analytics"
	"github.com/Wanderer0074348/hlm/internal/tui"
	"github.com/Wanderer0074348/hlm/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	client, cfg := loadClient()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The local history is optional: a failed open degrades to a
	// dashboard without analytics rather than an error.
	store, err := analytics.Open(analytics.DefaultPath())
	if err != nil {
		store = nil
	} else {
		defer store.Close()
	}

	app := tui.NewApp(client, cfg, store)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
