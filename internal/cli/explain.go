package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"package-visibility/internal/app"
)

func newExplainCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Trace every visibility rule for a caller/target pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplain(cmd.Context(), cmd, opts)
		},
	}
	addQueryFlags(cmd, &opts)
	return cmd
}

func runExplain(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	service := newAppService()
	result, err := service.Explain(ctx, app.ExplainRequest(queryRequest(cmd, opts)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "rules:")
	for _, step := range result.Steps {
		if step.Decisive {
			fmt.Fprintf(out, "- %s: %s (decisive)\n", step.Rule, step.Outcome)
			continue
		}
		fmt.Fprintf(out, "- %s: %s\n", step.Rule, step.Outcome)
	}
	fmt.Fprintf(out, "decision: %s (%s)\n", verdict(result.Decision.Filtered), result.Decision.Reason)
	return nil
}
