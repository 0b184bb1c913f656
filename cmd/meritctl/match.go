package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uprise/meritmatch/internal/config"
	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/services"
)

type matchOptions struct {
	candidatePath string
	jobPath       string
	provider      string
	offline       bool
}

func newMatchCmd() *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score one candidate against one job",
		Long:  "Scores a CandidateProfile JSON against a JobRequirement JSON. Provider failures fall back to the rule-based score.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.candidatePath, "candidate", "c", "", "Path to CandidateProfile JSON file (required)")
	cmd.Flags().StringVarP(&opts.jobPath, "job", "j", "", "Path to JobRequirement JSON file (required)")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Provider tag: openai, grok, anthropic or gemini")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Use the rule-based scorer only")

	if err := cmd.MarkFlagRequired("candidate"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	return cmd
}

func runMatch(cmd *cobra.Command, opts *matchOptions) error {
	var candidate models.CandidateProfile
	if err := readJSONFile(opts.candidatePath, &candidate); err != nil {
		return err
	}

	var job models.JobRequirement
	if err := readJSONFile(opts.jobPath, &job); err != nil {
		return err
	}

	if opts.offline {
		return writeJSON(cmd.OutOrStdout(), services.FallbackScore(candidate, job))
	}

	provider, err := providerFlag(opts.provider)
	if err != nil {
		return err
	}

	cfg := config.Load()
	adapter := services.NewProviderAdapter(services.NewProviderConfig(cfg.AI))
	matcher := services.NewMatchService(adapter, cfg.AI.MatchingEnabled, 1)

	result := matcher.Match(cmd.Context(), candidate, job, provider)
	return writeJSON(cmd.OutOrStdout(), result)
}

func providerFlag(name string) (services.ProviderTag, error) {
	if name == "" {
		return "", nil
	}

	tag, ok := services.ParseProviderTag(name)
	if !ok {
		return "", fmt.Errorf("unknown provider %q", name)
	}
	return tag, nil
}
