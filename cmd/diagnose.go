package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/diagnosis"
)

var (
	diagnoseName     string
	diagnoseIndustry string
)

func NewDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose ISSUE",
		Short: "Diagnose a Google Business Profile problem and build an action plan",
		Long: `Categorize a profile issue, explain the likely root cause and generate a
step-by-step action plan. The plan replaces any previous plan.

Examples:
  # Diagnose for the stored business identity
  gbp-pulse diagnose "Listing suspended for duplicate content"

  # Diagnose for a specific business
  gbp-pulse diagnose "Video verification keeps failing" --name "Acme Plumbing" --industry Plumbing

  # Machine-readable plan
  gbp-pulse diagnose "Dropped out of the map pack" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runDiagnose,
	}

	cmd.Flags().StringVar(&diagnoseName, "name", "", "Business name (default: stored identity)")
	cmd.Flags().StringVar(&diagnoseIndustry, "industry", "", "Industry (default: stored identity)")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	bc := a.state.Context()
	in := diagnosis.Input{Name: bc.Name, Industry: bc.Industry, IssueDescription: args[0]}
	if diagnoseName != "" {
		in.Name = diagnoseName
	}
	if diagnoseIndustry != "" {
		in.Industry = diagnoseIndustry
	}

	printHeader("GBP Pulse Diagnostic",
		fmt.Sprintf("🏢 Business: %s (%s)", in.Name, in.Industry),
		fmt.Sprintf("📝 Issue: %s", in.IssueDescription))

	gw, err := a.gateway(ctx)
	if err != nil {
		return err
	}
	pipeline := diagnosis.New(gw, a.logger)
	if _, err := pipeline.Check(in); err != nil {
		return userError(err)
	}

	s := startSpinner("Analyzing with AI...")
	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()
	res, err := pipeline.Run(reqCtx, in)
	s.Stop()
	if err != nil {
		printError(apperr.UserMessage(err))
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	if err := a.state.CompleteDiagnosis(ctx, a.state.Generation(), res); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Diagnosis complete: %d steps", len(res.Plan)))

	return printer().Plan(a.state.Context(), a.state.Plan())
}
