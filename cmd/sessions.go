package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/cli"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List your chat sessions",
	RunE:  runSessions,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()

	list, err := client.ListSessions(context.Background())
	if err != nil {
		return err
	}

	if list.Count == 0 {
		fmt.Println()
		fmt.Println("  No sessions yet. Start one with: hlm")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(list.Sessions))
	for _, s := range list.Sessions {
		title := s.Title
		if title == "" {
			title = s.SessionID
		}
		rows = append(rows, []string{
			cli.Truncate(title, 40),
			s.SessionID,
			strconv.Itoa(s.MessageCount),
			cli.FormatRelativeTime(s.LastInteraction),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Sessions (%d)", list.Count),
		Headers: []string{"Title", "ID", "Msgs", "Last active"},
		Rows:    rows,
	}))
	fmt.Println()

	return nil
}

func runSessionsShow(_ *cobra.Command, args []string) error {
	client, _ := loadClient()

	sess, err := client.GetSession(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Session %s — %d messages, %s tokens\n\n",
		sess.SessionID, sess.MessageCount, cli.FormatTokens(sess.TotalTokens))

	for _, m := range sess.Messages {
		fmt.Printf("%s\n%s\n", cli.AccentStyle.Render("  "+string(m.Role)), indent(m.Content))
		if m.Metadata != nil {
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("    [%s · %s · %s]",
				m.Metadata.ModelUsed, m.Metadata.RoutingReason, cli.FormatLatency(m.Metadata.Latency))))
		}
		fmt.Println()
	}

	return nil
}

func runSessionsDelete(_ *cobra.Command, args []string) error {
	client, _ := loadClient()

	if err := client.DeleteSession(context.Background(), args[0]); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Printf("  Deleted session %s\n", args[0])
	}
	return nil
}

func indent(s string) string {
	out := "    "
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += "    "
		}
	}
	return out
}
