package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

var (
	auditName        string
	auditCategory    string
	auditAddress     string
	auditServiceArea bool
	auditPhone       string
	auditWebsite     string
	auditDescription string
	auditSubmit      bool
)

func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit a new profile draft against Google's guidelines",
		Long: `Walk a new profile draft through the creation wizard: basic info,
location, contact details, and the compliance audit. When the audit
suggests an optimized description it replaces the draft description.

Examples:
  # Audit a storefront draft
  gbp-pulse audit --name "Acme Plumbing" --category Plumber \
    --address "1 Main St, Springfield" --phone "555-0100" \
    --description "Best plumber in town!!! Call now"

  # Audit a service-area business and confirm the prepared profile
  gbp-pulse audit --name "Acme Plumbing" --service-area --address "Springfield" --submit`,
		Args: cobra.NoArgs,
		RunE: runAudit,
	}

	cmd.Flags().StringVar(&auditName, "name", "", "Business name (required)")
	cmd.Flags().StringVar(&auditCategory, "category", "", "Primary category")
	cmd.Flags().StringVar(&auditAddress, "address", "", "Street address, or the service area")
	cmd.Flags().BoolVar(&auditServiceArea, "service-area", false, "The business serves customers at their location")
	cmd.Flags().StringVar(&auditPhone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&auditWebsite, "website", "", "Website")
	cmd.Flags().StringVar(&auditDescription, "description", "", "Business description")
	cmd.Flags().BoolVar(&auditSubmit, "submit", false, "Confirm the prepared profile after the audit")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w := a.state.Wizard()
	if err := w.Edit(func(d *model.NewProfileData) {
		d.BusinessName = auditName
		d.Category = auditCategory
	}); err != nil {
		return userError(err)
	}
	if err := w.Next(); err != nil {
		return userError(err)
	}
	if err := w.Edit(func(d *model.NewProfileData) {
		d.IsServiceArea = auditServiceArea
		d.Address = auditAddress
	}); err != nil {
		return userError(err)
	}
	if err := w.Next(); err != nil {
		return userError(err)
	}
	if err := w.Edit(func(d *model.NewProfileData) {
		d.Phone = auditPhone
		d.Website = auditWebsite
		d.Description = auditDescription
	}); err != nil {
		return userError(err)
	}

	draft := w.Draft()
	printHeader("GBP Pulse Profile Audit",
		fmt.Sprintf("🏢 Business: %s", draft.BusinessName),
		fmt.Sprintf("📍 %s: %s", draft.LocationKind(), draft.Address))

	gw, err := a.gateway(ctx)
	if err != nil {
		return err
	}

	s := startSpinner("Auditing against Google's guidelines...")
	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()
	err = w.Advance(reqCtx, gw)
	s.Stop()
	if err != nil {
		return fmt.Errorf("audit failed: %w", userError(err))
	}

	if err := printer().Audit(w.Draft(), w.Result()); err != nil {
		return err
	}
	if !auditSubmit {
		return nil
	}

	s = startSpinner("Preparing profile...")
	err = w.Submit(ctx, wizard.SimulatedSubmitter{Delay: a.cfg.Wizard.SubmitDelay})
	s.Stop()
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	printSuccess("Profile ready. Transfer these values into Google Business Profile.")
	return printer().Summary(w.Summary())
}
