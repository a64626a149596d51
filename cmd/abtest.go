package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/cli"
)

var abtestCmd = &cobra.Command{
	Use:   "abtest",
	Short: "Manage routing A/B tests",
	RunE:  runABTestActive, // bare `hlm abtest` shows the active test
}

var abtestCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Start a new A/B test",
	Args:  cobra.ExactArgs(1),
	RunE:  runABTestCreate,
}

var abtestEndCmd = &cobra.Command{
	Use:   "end <test-id>",
	Short: "End a running A/B test",
	Args:  cobra.ExactArgs(1),
	RunE:  runABTestEnd,
}

var abtestMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show per-group A/B test metrics",
	RunE:  runABTestMetrics,
}

var (
	abtestDescription string
	abtestControl     string
	abtestTreatment   string
	abtestSplit       float64
	abtestGroup       string
)

func init() {
	abtestCreateCmd.Flags().StringVar(&abtestDescription, "description", "", "Test description")
	abtestCreateCmd.Flags().StringVar(&abtestControl, "control", "rule-based", "Control group label")
	abtestCreateCmd.Flags().StringVar(&abtestTreatment, "treatment", "ml-enhanced", "Treatment group label")
	abtestCreateCmd.Flags().Float64Var(&abtestSplit, "split", 0.5, "Treatment traffic fraction in [0,1]")
	abtestMetricsCmd.Flags().StringVar(&abtestGroup, "group", "", "Filter to one group")

	abtestCmd.AddCommand(abtestCreateCmd)
	abtestCmd.AddCommand(abtestEndCmd)
	abtestCmd.AddCommand(abtestMetricsCmd)
	rootCmd.AddCommand(abtestCmd)
}

func runABTestActive(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()

	cfg, err := client.ActiveABTest(context.Background())
	if err != nil {
		return err
	}
	if cfg == nil {
		// Distinguished empty state: no test running is not an error.
		fmt.Println()
		fmt.Println("  No active A/B test.")
		fmt.Println("  Start one with: hlm abtest create <name>")
		fmt.Println()
		return nil
	}

	printABTest(cfg)
	return nil
}

func runABTestCreate(_ *cobra.Command, args []string) error {
	if abtestSplit < 0 || abtestSplit > 1 {
		return fmt.Errorf("--split %v outside [0,1]", abtestSplit)
	}

	client, _ := loadClient()

	cfg, err := client.CreateABTest(context.Background(), api.CreateABTestRequest{
		Name:           args[0],
		Description:    abtestDescription,
		ControlGroup:   abtestControl,
		TreatmentGroup: abtestTreatment,
		TrafficSplit:   abtestSplit,
	})
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Println("  A/B test started.")
	}
	printABTest(cfg)
	return nil
}

func runABTestEnd(_ *cobra.Command, args []string) error {
	client, _ := loadClient()

	if err := client.EndABTest(context.Background(), args[0]); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Printf("  Ended A/B test %s\n", args[0])
	}
	return nil
}

func runABTestMetrics(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()

	metrics, err := client.ABTestMetrics(context.Background(), abtestGroup)
	if err != nil {
		return err
	}

	if len(metrics) == 0 {
		fmt.Println()
		fmt.Println("  No metrics recorded yet.")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{
			m.Group,
			cli.FormatNumber(m.Requests),
			cli.FormatLatency(m.AvgLatency),
			cli.FormatPercent(m.CacheHitRate),
			cli.FormatCost(m.TotalCost),
			strconv.FormatFloat(m.AvgRating, 'f', 1, 64),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "A/B Test Metrics",
		Headers: []string{"Group", "Requests", "Avg latency", "Cache", "Cost", "Rating"},
		Rows:    rows,
	}))
	fmt.Println()

	return nil
}

func printABTest(cfg *api.ABTestConfig) {
	status := "ended"
	if cfg.IsActive {
		status = "active"
	}

	rows := [][]string{
		{"ID", cfg.ID},
		{"Name", cfg.Name},
		{"Status", status},
		{"Control", cfg.ControlGroup},
		{"Treatment", cfg.TreatmentGroup},
		{"Split", cli.FormatPercent(cfg.TrafficSplit) + " to treatment"},
		{"Started", cfg.StartedAt.Local().Format("Jan 02 15:04")},
	}
	if cfg.EndedAt != nil {
		rows = append(rows, []string{"Ended", cfg.EndedAt.Local().Format("Jan 02 15:04")})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Title: "A/B Test", Rows: rows}))
	fmt.Println()
}
