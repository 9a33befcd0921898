package cmd

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/tui"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an interactive GBP Pulse session",
		Long: `Start the interactive terminal session: dashboard, diagnosis, action plan,
content studio, profile creation wizard, claim guide and the assistant.

Type /help inside the session for the list of commands.`,
		Args: cobra.NoArgs,
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

			return tui.Run(ctx, tui.Options{
				State:     a.state,
				Gateway:   gw,
				Submitter: wizard.SimulatedSubmitter{Delay: a.cfg.Wizard.SubmitDelay},
				Copy:      clipboard.WriteAll,
				Timeout:   a.cfg.LLM.Timeout,
				Logger:    a.logger,
			})
		},
	}
}
