package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uprise/meritmatch/internal/config"
	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/services"
)

type gradeOptions struct {
	requestPath string
	provider    string
}

func newGradeCmd() *cobra.Command {
	opts := &gradeOptions{}

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a challenge submission",
		Long:  "Grades a ChallengeGradingRequest JSON. There is no rule-based grading: a provider failure exits non-zero.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrade(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.requestPath, "request", "r", "", "Path to ChallengeGradingRequest JSON file (required)")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Provider tag: openai, grok, anthropic or gemini")

	if err := cmd.MarkFlagRequired("request"); err != nil {
		panic(fmt.Sprintf("failed to mark request flag as required: %v", err))
	}

	return cmd
}

func runGrade(cmd *cobra.Command, opts *gradeOptions) error {
	var req models.ChallengeGradingRequest
	if err := readJSONFile(opts.requestPath, &req); err != nil {
		return err
	}

	provider, err := providerFlag(opts.provider)
	if err != nil {
		return err
	}

	cfg := config.Load()
	grader := services.NewGradingOrchestrator(services.NewProviderAdapter(services.NewProviderConfig(cfg.AI)))

	result, err := grader.Grade(cmd.Context(), req, provider)
	if err != nil {
		return fmt.Errorf("route to manual grading: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
