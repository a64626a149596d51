package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/cli"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a single-shot routed query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

var (
	queryContext     string
	queryMaxTokens   int
	queryTemperature float32
)

func init() {
	queryCmd.Flags().StringVarP(&queryContext, "context", "c", "", "Additional context for the query")
	queryCmd.Flags().IntVar(&queryMaxTokens, "max-tokens", 0, "Response token limit (0 = backend default)")
	queryCmd.Flags().Float32VarP(&queryTemperature, "temperature", "t", 0, "Sampling temperature (0 = backend default)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(_ *cobra.Command, args []string) error {
	client, _ := loadClient()

	req := api.InferenceRequest{
		Query:       strings.Join(args, " "),
		Context:     queryContext,
		MaxTokens:   queryMaxTokens,
		Temperature: queryTemperature,
	}

	res, err := client.Inference(context.Background(), req)
	if err != nil {
		return err
	}

	resp := res.Response
	fmt.Println()
	fmt.Println(resp.Response)
	fmt.Println()

	rows := [][]string{
		{"Model", resp.ModelUsed},
		{"Routing", resp.RoutingReason},
		{"Latency", cli.FormatLatency(resp.Latency)},
		{"Cache hit", fmt.Sprintf("%v", resp.CacheHit)},
	}
	if cm := resp.CostMetrics; cm != nil {
		rows = append(rows,
			[]string{"Tokens", fmt.Sprintf("%s in / %s out", cli.FormatTokens(cm.InputTokens), cli.FormatTokens(cm.OutputTokens))},
			[]string{"Cost", cli.FormatCost(cm.TotalCost)},
		)
		if cm.EstimatedSavings > 0 {
			rows = append(rows, []string{"Est. savings", cli.FormatCost(cm.EstimatedSavings)})
		}
	}
	if res.DecisionID != "" {
		rows = append(rows, []string{"Decision", res.DecisionID})
	}

	fmt.Print(cli.RenderTable(cli.Table{Title: "Routing", Rows: rows}))

	if res.DecisionID != "" && !flagQuiet {
		fmt.Println(cli.MutedStyle.Render(
			fmt.Sprintf("  Rate this response: hlm feedback %s --thumbs up", res.DecisionID)))
	}
	fmt.Println()

	return nil
}
