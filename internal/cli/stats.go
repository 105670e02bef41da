package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"package-visibility/internal/app"
)

type statsOptions struct {
	State  string
	Policy string
}

func newStatsCommand() *cobra.Command {
	opts := statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a state document and its index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.State, "state", "", "Installed-state file path")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Device policy file path")
	_ = viper.BindPFlag("state", cmd.Flags().Lookup("state"))
	_ = viper.BindPFlag("policy", cmd.Flags().Lookup("policy"))
	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, opts statsOptions) error {
	service := newAppService()
	result, err := service.Stats(ctx, app.StatsRequest{
		StatePath:  resolveString(cmd, opts.State, "state", "state"),
		PolicyPath: resolveString(cmd, opts.Policy, "policy", "policy"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "generation: %d\n", result.Generation)
	fmt.Fprintf(out, "packages: %d\n", result.Packages)
	fmt.Fprintf(out, "force_queryable: %d\n", result.ForceQueryable)
	fmt.Fprintf(out, "system: %d\n", result.SystemPackages)
	fmt.Fprintf(out, "declared_queries: %d\n", result.DeclaredQueries)
	fmt.Fprintf(out, "index: actions=%d schemes=%d authorities=%d\n",
		result.ActionKeys, result.SchemeKeys, result.AuthorityKeys)
	return nil
}
