package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/cli"
	"github.com/Wanderer0074348/hlm/internal/config"
)

var (
	flagAPIURL  string
	flagSession string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "hlm",
	Short: "HybridLM client",
	Long: "Chat with the HybridLM routing backend, inspect routing decisions,\n" +
		"and track cost and cache performance from your terminal.",
	RunE:          runTUI,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("error: "+err.Error()))
		if api.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, cli.MutedStyle.Render("run `hlm login` to sign in"))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend base URL (overrides config and HLM_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagSession, "session-cookie", "", "Session cookie value (overrides config and HLM_SESSION)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadClient builds the API client from flags, env, and config file,
// in that precedence order. The shared construction path of every
// command: nothing else talks to the backend.
func loadClient() (*api.Client, config.Config) {
	cfg, _ := config.Load()

	baseURL := flagAPIURL
	if baseURL == "" {
		baseURL = config.BaseURL(cfg)
	}
	session := flagSession
	if session == "" {
		session = config.SessionCookie(cfg)
	}

	return api.NewClient(baseURL, session), cfg
}
