package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/cli"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Trigger a routing classifier training run",
	Long: "Asks the backend to retrain its routing classifier from accumulated\n" +
		"feedback. Prints the evaluation metrics the backend reports; there is\n" +
		"no progress polling beyond the synchronous response.",
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()

	res, err := client.TrainModel(context.Background())
	if err != nil {
		return err
	}

	m := res.Metrics
	fmt.Println()
	if res.Message != "" {
		fmt.Printf("  %s\n", res.Message)
	}
	if res.Version != "" {
		fmt.Printf("  Model version: %s\n", cli.AccentStyle.Render(res.Version))
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Evaluation",
		Rows: [][]string{
			{"Accuracy", cli.FormatPercent(m.Accuracy)},
			{"Precision", cli.FormatPercent(m.Precision)},
			{"Recall", cli.FormatPercent(m.Recall)},
			{"F1", cli.FormatPercent(m.F1Score)},
			{"Training samples", cli.FormatNumber(int64(m.TrainingSamples))},
			{"Validation samples", cli.FormatNumber(int64(m.ValidationSamples))},
		},
	}))
	fmt.Println()

	return nil
}
