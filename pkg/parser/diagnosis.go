package parser

import (
	"github.com/helmcode/gbp-pulse/pkg/model"
)

var diagnosisSchema = mustSchema(`{
  "type": "object",
  "required": ["category", "analysis", "steps"],
  "properties": {
    "category": {"type": "string"},
    "analysis": {"type": "string"},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "description"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"}
        }
      }
    }
  }
}`)

// ParseDiagnosis decodes a diagnosis answer. On error the returned value is an
// empty OTHER diagnosis that callers must not apply.
func ParseDiagnosis(raw string) (*model.Diagnosis, error) {
	var d model.Diagnosis
	if err := decode(raw, diagnosisSchema, &d); err != nil {
		return &model.Diagnosis{Category: string(model.CategoryOther), Steps: []model.DiagnosisStep{}}, err
	}
	d.Category = string(model.ParseCategory(d.Category))
	return &d, nil
}
