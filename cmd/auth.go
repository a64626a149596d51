package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wanderer0074348/hlm/internal/auth"
	"github.com/Wanderer0074348/hlm/internal/cli"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in via the backend's OAuth flow",
	Long: "Opens the backend's sign-in page in your browser. After completing\n" +
		"the flow, copy the hlm_session cookie into your config (hlm setup)\n" +
		"or the HLM_SESSION environment variable.",
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the backend",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()
	mgr := auth.New(client)

	if err := mgr.Login(context.Background()); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Println("  Opened the sign-in page in your browser.")
		fmt.Println("  Run `hlm whoami` after completing the flow.")
	}
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()
	mgr := auth.New(client)

	// Local state stays signed in unless the backend confirms.
	if err := mgr.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout failed, you are still signed in: %w", err)
	}

	if !flagQuiet {
		fmt.Println("  Signed out.")
	}
	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	client, _ := loadClient()
	mgr := auth.New(client)

	if mgr.Check(context.Background()) != auth.StateAuthenticated {
		fmt.Println()
		fmt.Println("  Not signed in. Run `hlm login` to start.")
		fmt.Println()
		return nil
	}

	u := mgr.User()
	fmt.Println()
	fmt.Printf("  %s\n", cli.AccentStyle.Render(u.Name))
	fmt.Printf("  %s", u.Email)
	if u.EmailVerified {
		fmt.Print(cli.MutedStyle.Render("  (verified)"))
	}
	fmt.Println()
	fmt.Println()

	return nil
}
