// Package cmd implements the hlm CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL:       %s\n", config.BaseURL(cfg))
	if config.SessionCookie(cfg) != "" {
		fmt.Println("    Session cookie: (set)")
	} else {
		fmt.Println("    Session cookie: (not set)")
	}
	fmt.Println()

	fmt.Println("  [Chat]")
	if cfg.Chat.MaxTokens > 0 {
		fmt.Printf("    Max tokens:   %d\n", cfg.Chat.MaxTokens)
	} else {
		fmt.Println("    Max tokens:   backend default")
	}
	if cfg.Chat.Temperature > 0 {
		fmt.Printf("    Temperature:  %.2f\n", cfg.Chat.Temperature)
	} else {
		fmt.Println("    Temperature:  backend default")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)

	return nil
}
