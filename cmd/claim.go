package cmd

import (
	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/claim"
)

func NewClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim [SCENARIO]",
		Short: "Guide for claiming an existing Google Business Profile",
		Long: `Show how to claim a business listing on Google Maps.

Scenarios: unclaimed, owned, missing

Examples:
  # List the scenarios
  gbp-pulse claim

  # Someone else manages the listing
  gbp-pulse claim owned`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer()
			if len(args) == 0 {
				for _, g := range claim.Guides() {
					if err := p.Claim(g); err != nil {
						return err
					}
				}
				return nil
			}
			g, err := claim.Lookup(args[0])
			if err != nil {
				return err
			}
			return p.Claim(g)
		},
	}
}
