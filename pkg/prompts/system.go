package prompts

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

// System is the instruction shared by every gateway request.
const System = `You are GBP Pulse, a world-class Google Business Profile expert.
Your goal is to help businesses navigate complex issues like account suspensions, video verification hurdles, and ranking drops.
Always reference current Google Business Profile guidelines (2024/2025).
Be concise, professional, and empathetic.
When diagnosing, ask clarifying questions if the user provides vague details.`

// ChatSystem appends the business identity to System when one is set.
func ChatSystem(bc *model.BusinessContext) string {
	if bc == nil || !bc.HasIdentity() {
		return System
	}
	return System + fmt.Sprintf("\n\nCONTEXT: Business is %s, Industry is %s.", bc.Name, bc.Industry)
}
