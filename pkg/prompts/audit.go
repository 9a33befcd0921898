package prompts

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

func BuildAuditPrompt(d model.NewProfileData) string {
	return fmt.Sprintf(`Audit this GBP data for compliance and optimization:
Name: %s
Category: %s
Address: %s
Type: %s
Phone: %s
Website: %s
Description: %s

Flag keyword stuffing in the name, a category that does not match the business, a
storefront without a real address and anything else that breaks the guidelines.
If the description can be improved, rewrite it within 750 characters.

Respond in JSON format with this structure:
{
  "isValid": true,
  "issues": ["guideline violation, empty when valid"],
  "suggestions": ["optional improvement"],
  "optimizedDescription": "rewritten description or empty string",
  "verificationAdvice": {
    "method": "most likely verification method",
    "tips": ["how to pass it"]
  }
}`, d.BusinessName, d.Category, d.Address, d.LocationKind(), d.Phone, d.Website, d.Description)
}
