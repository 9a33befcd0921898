package parser

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

var storedPlanSchema = mustSchema(`{
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "required": ["id", "title", "status"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "description": {"type": "string"},
      "status": {"enum": ["pending", "completed"]}
    }
  }
}`)

var storedContextSchema = mustSchema(`{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "industry": {"type": "string"},
    "issueDescription": {"type": "string"},
    "detectedCategory": {"type": "string"},
    "analysis": {"type": "string"}
  }
}`)

// ParseStoredPlan decodes a persisted action plan. Step ids must be unique
// and every status must be pending or completed.
func ParseStoredPlan(raw []byte) (model.ActionPlan, error) {
	var plan model.ActionPlan
	if err := decode(string(raw), storedPlanSchema, &plan); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(plan))
	for _, s := range plan {
		if seen[s.ID] {
			return nil, apperr.Malformed(fmt.Sprintf("duplicate step id %q", s.ID), nil)
		}
		seen[s.ID] = true
	}
	if plan == nil {
		plan = model.ActionPlan{}
	}
	return plan, nil
}

// ParseStoredContext decodes a persisted business context. A detected
// category outside the closed set is read as OTHER.
func ParseStoredContext(raw []byte) (model.BusinessContext, error) {
	var bc model.BusinessContext
	if err := decode(string(raw), storedContextSchema, &bc); err != nil {
		return model.BusinessContext{}, err
	}
	if bc.DetectedCategory != "" {
		bc.DetectedCategory = model.ParseCategory(string(bc.DetectedCategory))
	}
	return bc, nil
}
