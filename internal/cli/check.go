package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"package-visibility/internal/app"
)

type checkOptions struct {
	State     string
	Policy    string
	Caller    string
	CallerUID int
	Target    string
	User      int
	Ready     bool
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Decide whether a target package is filtered from a caller",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}
	addQueryFlags(cmd, &opts)
	return cmd
}

// addQueryFlags registers the caller/target flags shared by check and
// explain.
func addQueryFlags(cmd *cobra.Command, opts *checkOptions) {
	cmd.Flags().StringVar(&opts.State, "state", "", "Installed-state file path")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Device policy file path")
	cmd.Flags().StringVar(&opts.Caller, "caller", "", "Calling package name")
	cmd.Flags().IntVar(&opts.CallerUID, "caller-uid", 10000, "Calling UID")
	cmd.Flags().StringVar(&opts.Target, "target", "", "Target package name")
	cmd.Flags().IntVar(&opts.User, "user", 0, "User (tenant) id")
	cmd.Flags().BoolVar(&opts.Ready, "ready", false, "Treat exemption lists as loaded")
	_ = viper.BindPFlag("state", cmd.Flags().Lookup("state"))
	_ = viper.BindPFlag("policy", cmd.Flags().Lookup("policy"))
	_ = viper.BindPFlag("caller", cmd.Flags().Lookup("caller"))
	_ = viper.BindPFlag("caller_uid", cmd.Flags().Lookup("caller-uid"))
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("user", cmd.Flags().Lookup("user"))
	_ = viper.BindPFlag("ready", cmd.Flags().Lookup("ready"))
}

func queryRequest(cmd *cobra.Command, opts checkOptions) app.CheckRequest {
	return app.CheckRequest{
		StatePath:  resolveString(cmd, opts.State, "state", "state"),
		PolicyPath: resolveString(cmd, opts.Policy, "policy", "policy"),
		Caller:     resolveString(cmd, opts.Caller, "caller", "caller"),
		CallerUID:  resolveInt(cmd, opts.CallerUID, "caller_uid", "caller-uid"),
		Target:     resolveString(cmd, opts.Target, "target", "target"),
		UserID:     resolveInt(cmd, opts.User, "user", "user"),
		Ready:      resolveBool(cmd, opts.Ready, "ready", "ready"),
	}
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	service := newAppService()
	result, err := service.Check(ctx, queryRequest(cmd, opts))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict(result.Filtered), result.Reason)
	return nil
}

func verdict(filtered bool) string {
	if filtered {
		return "filtered"
	}
	return "visible"
}
