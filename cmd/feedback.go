package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/cli"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <decision-id>",
	Short: "Rate a routing decision",
	Long: "Attach feedback to the routing decision of a previous query or chat\n" +
		"turn. The decision id is printed by `hlm query` and shown in the TUI.",
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

var decisionCmd = &cobra.Command{
	Use:   "decision <decision-id>",
	Short: "Inspect a routing decision record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecision,
}

var (
	feedbackThumbs  string
	feedbackRating  int
	feedbackComment string
)

func init() {
	feedbackCmd.Flags().StringVar(&feedbackThumbs, "thumbs", "", `"up" or "down"`)
	feedbackCmd.Flags().IntVar(&feedbackRating, "rating", 0, "Star rating 1-5")
	feedbackCmd.Flags().StringVar(&feedbackComment, "comment", "", "Free-form comment")
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(decisionCmd)
}

func runFeedback(_ *cobra.Command, args []string) error {
	if feedbackThumbs == "" && feedbackRating == 0 && feedbackComment == "" {
		return errors.New("provide at least one of --thumbs, --rating, --comment")
	}
	if feedbackThumbs != "" && feedbackThumbs != "up" && feedbackThumbs != "down" {
		return fmt.Errorf("--thumbs must be %q or %q", "up", "down")
	}
	if feedbackRating < 0 || feedbackRating > 5 {
		return errors.New("--rating must be between 1 and 5")
	}

	client, _ := loadClient()

	msg, err := client.SubmitFeedback(context.Background(), api.FeedbackRequest{
		DecisionID: args[0],
		Thumbs:     feedbackThumbs,
		Rating:     feedbackRating,
		Comment:    feedbackComment,
	})
	if err != nil {
		return err
	}

	if !flagQuiet {
		if msg == "" {
			msg = "feedback recorded"
		}
		fmt.Printf("  %s\n", msg)
	}
	return nil
}

func runDecision(_ *cobra.Command, args []string) error {
	client, _ := loadClient()

	d, err := client.GetDecision(context.Background(), args[0])
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Decision", d.ID},
		{"Model", d.ModelUsed},
		{"Reason", d.RoutingReason},
	}
	if d.Confidence > 0 {
		rows = append(rows, []string{"Confidence", fmt.Sprintf("%.2f", d.Confidence)})
	}
	if d.ComplexityScore > 0 {
		rows = append(rows, []string{"Complexity", fmt.Sprintf("%.2f", d.ComplexityScore)})
	}
	if d.Latency > 0 {
		rows = append(rows, []string{"Latency", cli.FormatLatency(d.Latency)})
	}
	rows = append(rows, []string{"Cache hit", fmt.Sprintf("%v", d.CacheHit)})
	if cm := d.CostMetrics; cm != nil {
		rows = append(rows, []string{"Cost", cli.FormatCost(cm.TotalCost)})
	}
	if fb := d.Feedback; fb != nil {
		rows = append(rows, []string{"Feedback", fmt.Sprintf("+%d / -%d, avg %.1f★", fb.ThumbsUp, fb.ThumbsDown, fb.AvgRating)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Title: "Routing Decision", Rows: rows}))
	fmt.Println()

	return nil
}
