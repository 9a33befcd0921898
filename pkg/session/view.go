package session

import (
	"fmt"
	"strings"
)

// View is a top-level stage of the workflow.
type View string

const (
	ViewDashboard    View = "DASHBOARD"
	ViewDiagnostic   View = "DIAGNOSTIC"
	ViewPlan         View = "PLAN"
	ViewWriter       View = "WRITER"
	ViewCreateWizard View = "CREATE_WIZARD"
	ViewClaimGuide   View = "CLAIM_GUIDE"
)

var views = []struct {
	view    View
	label   string
	aliases []string
}{
	{ViewDashboard, "Dashboard", []string{"dashboard", "home"}},
	{ViewDiagnostic, "Diagnose Issue", []string{"diagnose", "diagnostic"}},
	{ViewPlan, "Action Plan", []string{"plan"}},
	{ViewWriter, "Content Studio", []string{"studio", "writer"}},
	{ViewCreateWizard, "Create Profile", []string{"create", "create_wizard", "wizard"}},
	{ViewClaimGuide, "Claim Business", []string{"claim", "claim_guide"}},
}

// Views returns the navigation menu in display order.
func Views() []View {
	out := make([]View, len(views))
	for i, v := range views {
		out[i] = v.view
	}
	return out
}

func (v View) Label() string {
	for _, e := range views {
		if e.view == v {
			return e.label
		}
	}
	return string(v)
}

func (v View) Valid() bool {
	for _, e := range views {
		if e.view == v {
			return true
		}
	}
	return false
}

// ParseView accepts a view name or one of its short aliases.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range views {
		if s == strings.ToLower(string(e.view)) {
			return e.view, nil
		}
		for _, a := range e.aliases {
			if s == a {
				return e.view, nil
			}
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}
