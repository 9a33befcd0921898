package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/plan"
)

func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the action plan and its progress",
		Long: `Show the action plan produced by the last diagnosis.

Examples:
  # Show the plan
  gbp-pulse plan

  # Mark a step done (or undo it)
  gbp-pulse plan toggle 3f0c...

  # Deep-dive guide for a step
  gbp-pulse plan guide 3f0c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printer().Plan(a.state.Context(), a.state.Plan())
		},
	}

	cmd.AddCommand(newPlanToggleCmd(), newPlanGuideCmd())
	return cmd
}

func newPlanToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle STEP_ID",
		Short: "Flip a step between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.state.Plan().Toggle(cmd.Context(), args[0]) {
				return fmt.Errorf("no step with id %q", args[0])
			}
			printSuccess(fmt.Sprintf("Progress: %d%%", a.state.Plan().Progress()))
			return printer().Plan(a.state.Context(), a.state.Plan())
		},
	}
}

func newPlanGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide STEP_ID",
		Short: "Explain a step in depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			step, ok := a.state.Plan().Step(args[0])
			if !ok {
				return fmt.Errorf("no step with id %q", args[0])
			}
			gw, err := a.gateway(ctx)
			if err != nil {
				return err
			}

			s := startSpinner("Preparing guide...")
			reqCtx, cancel := a.requestContext(ctx)
			defer cancel()
			guide, err := plan.NewGuides(gw, a.logger).Guide(reqCtx, a.state.Context(), step)
			s.Stop()
			if err != nil {
				if guide == nil {
					return fmt.Errorf("guide failed: %w", err)
				}
				printError(apperr.UserMessage(err))
			}
			return printer().Guide(guide)
		},
	}
}
