package parser

import (
	"github.com/helmcode/gbp-pulse/pkg/model"
)

var guideSchema = mustSchema(`{
  "type": "object",
  "required": ["title", "bigPicture", "steps", "pitfalls", "proTips"],
  "properties": {
    "title": {"type": "string"},
    "bigPicture": {"type": "string"},
    "steps": {"type": "array", "items": {"type": "string"}},
    "pitfalls": {"type": "array", "items": {"type": "string"}},
    "proTips": {"type": "array", "items": {"type": "string"}}
  }
}`)

// ParseGuide decodes a step guide. When the answer is not a guide the raw
// text is kept as the big picture so the user still sees something.
func ParseGuide(raw, stepTitle string) (*model.StepGuide, error) {
	var g model.StepGuide
	if err := decode(raw, guideSchema, &g); err != nil {
		return &model.StepGuide{
			Title:      stepTitle,
			BigPicture: raw,
			Steps:      []string{},
			Pitfalls:   []string{},
			ProTips:    []string{},
		}, err
	}
	if g.Title == "" {
		g.Title = stepTitle
	}
	return &g, nil
}
