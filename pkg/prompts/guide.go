package prompts

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

func BuildGuidePrompt(title, description string, bc model.BusinessContext) string {
	return fmt.Sprintf(`Provide a deep-dive educational guide for the following Google Business Profile task.
Task: %s
Context Description: %s
Business Name: %s

Respond in JSON format with this structure:
{
  "title": "guide title",
  "bigPicture": "why this task matters",
  "steps": ["ordered instruction"],
  "pitfalls": ["common mistake"],
  "proTips": ["expert tip"]
}`, title, description, bc.Name)
}
