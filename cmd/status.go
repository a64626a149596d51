package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()

	hs, err := client.Health(context.Background())
	if err != nil {
		return fmt.Errorf("backend unreachable at %s: %w", client.BaseURL(), err)
	}

	fmt.Println(cli.RenderTitle("HYBRIDLM STATUS"))
	fmt.Println()
	fmt.Printf("  Backend:   %s\n", client.BaseURL())
	fmt.Printf("  Status:    %s\n", cli.AccentStyle.Render(hs.Status))
	if !hs.Timestamp.IsZero() {
		fmt.Printf("  Reported:  %s\n", hs.Timestamp.Local().Format("Jan 02 15:04:05"))
	}
	fmt.Println()

	return nil
}
