package parser

import (
	"strings"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

var validationSchema = mustSchema(`{
  "type": "object",
  "required": ["isValid", "issues"],
  "properties": {
    "isValid": {"type": "boolean"},
    "issues": {"type": "array", "items": {"type": "string"}},
    "suggestions": {"type": "array", "items": {"type": "string"}},
    "optimizedDescription": {"type": ["string", "null"]},
    "verificationAdvice": {
      "type": ["object", "null"],
      "properties": {
        "method": {"type": "string"},
        "tips": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`)

const genericIssue = "The profile does not meet Google Business Profile guidelines."

// ParseValidation decodes a profile audit. An invalid result always carries
// at least one issue and a blank optimized description is dropped.
func ParseValidation(raw string) (*model.ValidationResult, error) {
	var r model.ValidationResult
	if err := decode(raw, validationSchema, &r); err != nil {
		return &model.ValidationResult{IsValid: false, Issues: []string{genericIssue}}, err
	}

	if r.Issues == nil {
		r.Issues = []string{}
	}
	if !r.IsValid && len(r.Issues) == 0 {
		r.Issues = []string{genericIssue}
	}
	if r.OptimizedDescription != nil && strings.TrimSpace(*r.OptimizedDescription) == "" {
		r.OptimizedDescription = nil
	}
	return &r, nil
}
