package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"package-visibility/internal/app"
)

type indexOptions struct {
	State  string
	Policy string
}

func newIndexCommand() *cobra.Command {
	opts := indexOptions{}
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Dump the declaration index of a state document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.State, "state", "", "Installed-state file path")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Device policy file path")
	_ = viper.BindPFlag("state", cmd.Flags().Lookup("state"))
	_ = viper.BindPFlag("policy", cmd.Flags().Lookup("policy"))
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, opts indexOptions) error {
	service := newAppService()
	result, err := service.IndexDump(ctx, app.IndexDumpRequest{
		StatePath:  resolveString(cmd, opts.State, "state", "state"),
		PolicyPath: resolveString(cmd, opts.Policy, "policy", "policy"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printIndexSection(out, "actions", result.Actions)
	printIndexSection(out, "schemes", result.Schemes)
	printIndexSection(out, "authorities", result.Authorities)
	return nil
}

func printIndexSection(out io.Writer, title string, entries []app.IndexEntry) {
	fmt.Fprintf(out, "%s: %d\n", title, len(entries))
	for _, entry := range entries {
		fmt.Fprintf(out, "- %s: %s\n", entry.Key, strings.Join(entry.Packages, ", "))
	}
}
