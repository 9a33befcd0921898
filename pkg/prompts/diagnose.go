package prompts

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

func BuildDiagnosePrompt(bc model.BusinessContext) string {
	return fmt.Sprintf(`Analyze the following Google Business Profile issue based on official Google Guidelines (2024/2025):
Business Name: %s
Industry: %s
Issue Description: %s

1. Categorize the issue into one of these: SUSPENSION, VERIFICATION, RANKING, REVIEWS, OTHER.
2. Provide a clear, professional analysis (2-3 sentences) explaining the likely root cause.
3. Create a step-by-step action plan to resolve this issue, most urgent step first.

Respond in JSON format with this structure:
{
  "category": "SUSPENSION|VERIFICATION|RANKING|REVIEWS|OTHER",
  "analysis": "likely root cause in 2-3 sentences",
  "steps": [
    {
      "title": "short imperative title",
      "description": "what to do and where to do it"
    }
  ]
}`, bc.Name, bc.Industry, bc.IssueDescription)
}
