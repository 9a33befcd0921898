package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/assistant"
)

func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask the GBP assistant a question",
		Long: `Ask the Google Business Profile assistant about suspensions,
verification or optimization. The stored business identity is shared with
the assistant when it is set.

Examples:
  gbp-pulse ask "How long does a reinstatement request take?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			gw, err := a.gateway(ctx)
			if err != nil {
				return err
			}

			s := startSpinner("Thinking...")
			reqCtx, cancel := a.requestContext(ctx)
			defer cancel()
			reply, err := assistant.New(a.logger).Ask(reqCtx, gw, strings.Join(args, " "), a.state.Context())
			s.Stop()
			if err != nil {
				return userError(err)
			}
			return printer().Reply(reply)
		},
	}
}
