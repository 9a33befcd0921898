package prompts

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

var tasks = [model.NumTools]string{
	model.ToolDescription:   "Write a professional, SEO-friendly GBP description (max 750 chars). Focus on trustworthiness and local expertise.",
	model.ToolPost:          "Write a Google Business Profile 'Update' post (max 1500 chars) with a clear Call to Action. Focus on local engagement.",
	model.ToolReply:         "Write a professional, empathetic response to a customer review. Ensure a polite and solution-oriented tone.",
	model.ToolChallenge:     "Write a reinstatement appeal for a suspended or disputed Google Business Profile. Use the unique selling points and history below as evidence that the business is real, local and eligible under the guidelines.",
	model.ToolBlog:          "Write a 400-word local SEO blog post for the company website. Focus on a topic relevant to the business and its local community. Use clear headers and a call to action.",
	model.ToolReviewRemoval: "Write a formal request for review removal identifying specific Google policy violations (e.g., spam, harassment, off-topic).",
	model.ToolQandA:         "Generate 3 high-value Q&A pairs that highlight key services or common customer concerns.",
	model.ToolPhotoIdeas:    "Generate 8 photo ideas for their profile, specifically categorized (Interior, Exterior, Team, Product).",
}

// Task returns the instruction for a studio tool.
func Task(tool model.Tool) string {
	if !tool.Valid() {
		return ""
	}
	return tasks[tool]
}

func BuildContentPrompt(tool model.Tool, bc model.BusinessContext, details string) string {
	return fmt.Sprintf(`Business: %q in %q
Task: %s
User Details: %q

CRITICAL INSTRUCTION: Provide ONLY the generated content text. Do NOT include any introductory phrases or conversational filler.`,
		bc.Name, bc.Industry, Task(tool), details)
}
