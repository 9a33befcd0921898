package cmd

import (
	"github.com/spf13/cobra"
)

func NewIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Show or set the business name and industry",
		Long: `Show the stored business identity, or set it.

Examples:
  gbp-pulse identity
  gbp-pulse identity set "Acme Plumbing" Plumbing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printer().Identity(a.state.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME INDUSTRY",
		Short: "Set the business name and industry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.state.SetIdentity(cmd.Context(), args[0], args[1]); err != nil {
				return userError(err)
			}
			printSuccess("Business identity saved")
			return printer().Identity(a.state.Context())
		},
	})

	return cmd
}
