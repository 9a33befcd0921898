package model

import (
	"fmt"
	"strings"
)

// Tool identifies one content studio capability. The set is closed: adding a
// tool means adding a constant before toolCount and a row in toolSpecs.
type Tool int

const (
	ToolDescription Tool = iota
	ToolPost
	ToolReply
	ToolChallenge
	ToolBlog
	ToolReviewRemoval
	ToolQandA
	ToolPhotoIdeas

	toolCount
)

// NumTools is the size of the closed tool set.
const NumTools = int(toolCount)

type toolSpec struct {
	id          string
	label       string
	placeholder string
}

var toolSpecs = [toolCount]toolSpec{
	ToolDescription:   {"description", "Bio", "List your history, services, and unique value proposition..."},
	ToolPost:          {"post", "Post", "What's the update or offer? (e.g., '10% off plumbing this week')..."},
	ToolReply:         {"reply", "Reply", "Paste the customer review here..."},
	ToolChallenge:     {"challenge", "Challenge", "e.g. Family owned since 1990, specializing in emergency plumbing..."},
	ToolBlog:          {"blog", "Blog", "What topic should the post cover? (e.g., 'Maintaining your AC in Summer')..."},
	ToolReviewRemoval: {"review_removal", "Flag", "Why should this be removed? (e.g. Off-topic, spam)..."},
	ToolQandA:         {"q_and_a", "FAQ", "Enter common questions or topics..."},
	ToolPhotoIdeas:    {"photo_ideas", "Photos", "Describe your workspace or location..."},
}

// Tools returns every tool in navigation order.
func Tools() []Tool {
	out := make([]Tool, 0, NumTools)
	for t := Tool(0); t < toolCount; t++ {
		out = append(out, t)
	}
	return out
}

func (t Tool) Valid() bool { return t >= 0 && t < toolCount }

func (t Tool) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolSpecs[t].id
}

func (t Tool) Label() string {
	if !t.Valid() {
		return "Content"
	}
	return toolSpecs[t].label
}

func (t Tool) Placeholder() string {
	if !t.Valid() {
		return ""
	}
	return toolSpecs[t].placeholder
}

// InputLabel is the caption shown above the tool input.
func (t Tool) InputLabel() string {
	if t == ToolChallenge {
		return "Unique Selling Points & History"
	}
	return "Input Prompt"
}

// ParseTool accepts either the tool id ("q_and_a") or its label ("FAQ").
func ParseTool(s string) (Tool, error) {
	for t := Tool(0); t < toolCount; t++ {
		spec := toolSpecs[t]
		if s == spec.id || strings.EqualFold(s, spec.label) {
			return t, nil
		}
	}
	return -1, fmt.Errorf("unknown tool %q", s)
}

func (t Tool) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tool %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(b []byte) error {
	parsed, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
