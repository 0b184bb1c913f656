package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uprise/meritmatch/internal/services"
)

func newSkillAverageCmd() *cobra.Command {
	var score, count, observed int

	cmd := &cobra.Command{
		Use:   "skill-average",
		Short: "Preview a rolling skill-score update",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if score < 0 || score > 100 || observed < 0 || observed > 100 {
				return fmt.Errorf("scores must be within 0-100")
			}
			if count < 0 {
				return fmt.Errorf("count must not be negative")
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "score=%d submissions=%d\n",
				services.RollingAverage(score, count, observed), count+1)
			return err
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Current rolling score")
	cmd.Flags().IntVar(&count, "count", 0, "Submissions already counted")
	cmd.Flags().IntVar(&observed, "new", 0, "Newly graded overall score")

	if err := cmd.MarkFlagRequired("new"); err != nil {
		panic(fmt.Sprintf("failed to mark new flag as required: %v", err))
	}

	return cmd
}
