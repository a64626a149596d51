package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/analytics"
	"github.com/Wanderer0074348/hlm/internal/cli"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Summarize your local query history",
	Long: "Aggregates the on-device history of recent chat responses: routing\n" +
		"split, cache performance, latency, and cost. This history lives only\n" +
		"on this machine and covers at most the last 100 queries.",
	RunE: runAnalytics,
}

var analyticsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local query history",
	RunE:  runAnalyticsClear,
}

func init() {
	analyticsCmd.AddCommand(analyticsClearCmd)
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(_ *cobra.Command, _ []string) error {
	store, err := analytics.Open(analytics.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent()
	if err != nil {
		// Unreadable history degrades to empty, never to a failure.
		records = nil
	}

	if len(records) == 0 {
		fmt.Println()
		fmt.Println("  No local history yet. Chat a little first: hlm")
		fmt.Println()
		return nil
	}

	s := analytics.Summarize(records)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title: fmt.Sprintf("Local History (last %d queries)", s.Queries),
		Rows: [][]string{
			{"Cache hits", fmt.Sprintf("%d (%s)", s.CacheHits, cli.FormatPercent(s.CacheHitRate))},
			{"Avg latency", cli.FormatLatency(s.AvgLatency)},
			{"Total tokens", cli.FormatTokens(s.TotalTokens)},
			{"Total cost", cli.FormatCost(s.TotalCost)},
			{"Est. savings", cli.FormatCost(s.TotalSavings)},
		},
	}))

	modelRows := make([][]string, 0, len(s.Models))
	for _, m := range s.Models {
		modelRows = append(modelRows, []string{m.Model, cli.FormatNumber(int64(m.Queries))})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Routing Split",
		Headers: []string{"Model", "Queries"},
		Rows:    modelRows,
	}))
	fmt.Println()

	return nil
}

func runAnalyticsClear(_ *cobra.Command, _ []string) error {
	store, err := analytics.Open(analytics.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Println("  Local history cleared.")
	}
	return nil
}
