// Command meritctl scores candidate/job pairs and grades challenge
// submissions from JSON files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "meritctl",
		Short:         "MeritMatch scoring engine CLI",
		Long:          "meritctl runs compatibility matching and challenge grading with the configured AI providers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newGradeCmd())
	rootCmd.AddCommand(newSkillAverageCmd())
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
