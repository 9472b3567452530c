package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/config"
	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/fixtures"
)

var rootCmd = &cobra.Command{
	Use:   "bloglist-fixtures",
	Short: "Prepare bloglist backend state by hand",
	Long: `Bloglist fixture tool

Issues the same reset and provisioning calls the e2e scenarios make, against
BLOG_E2E_BACKEND_URL (or --backend).`,
	SilenceUsage: true,
}

var (
	backendFlag   string
	resetPathFlag string
	usernameFlag  string
	nameFlag      string
	passwordFlag  string
	seedFileFlag  string
	noResetFlag   bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all test data on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✅ backend reset")
		return nil
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Provision one account",
	RunE: func(cmd *cobra.Command, args []string) error {
		account := fixtures.Account{Username: usernameFlag, Name: nameFlag, Password: passwordFlag}
		if err := newClient().CreateUser(cmd.Context(), account); err != nil {
			return err
		}
		fmt.Printf("✅ created user %s\n", usernameFlag)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the backend and load accounts and blogs from a YAML seed file",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Backend base URL (default from BLOG_E2E_BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&resetPathFlag, "reset-path", "", "Reset endpoint path (default from BLOG_E2E_RESET_PATH)")

	createUserCmd.Flags().StringVar(&usernameFlag, "username", "", "Username (required)")
	createUserCmd.Flags().StringVar(&nameFlag, "name", "", "Display name")
	createUserCmd.Flags().StringVar(&passwordFlag, "password", "", "Password (required)")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")

	seedCmd.Flags().StringVar(&seedFileFlag, "file", "fixtures.yaml", "Seed file")
	seedCmd.Flags().BoolVar(&noResetFlag, "no-reset", false, "Keep existing data")

	rootCmd.AddCommand(resetCmd, createUserCmd, seedCmd)
}

func newClient() *fixtures.Client {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
		os.Exit(1)
	}
	backend := cfg.BackendURL
	if backendFlag != "" {
		backend = backendFlag
	}
	resetPath := cfg.ResetPath
	if resetPathFlag != "" {
		resetPath = resetPathFlag
	}
	return fixtures.NewClient(backend, fixtures.WithResetPath(resetPath))
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := fixtures.LoadSeedFile(seedFileFlag)
	if err != nil {
		return err
	}

	client := newClient()
	if !noResetFlag {
		if err := client.Reset(cmd.Context()); err != nil {
			return err
		}
	}
	if err := client.Seed(cmd.Context(), f); err != nil {
		return err
	}
	fmt.Printf("✅ seeded %d accounts from %s\n", len(f.Accounts), seedFileFlag)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
