package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsAreFullyDescribed(t *testing.T) {
	tools := Tools()
	require.Len(t, tools, NumTools)

	seen := map[string]bool{}
	for _, tool := range tools {
		assert.NotEmpty(t, tool.String(), "tool %d has no id", int(tool))
		assert.NotEmpty(t, tool.Label(), "tool %s has no label", tool)
		assert.NotEmpty(t, tool.Placeholder(), "tool %s has no placeholder", tool)
		assert.False(t, seen[tool.String()], "duplicate tool id %s", tool)
		seen[tool.String()] = true
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		byID, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, byID)

		byLabel, err := ParseTool(tool.Label())
		require.NoError(t, err)
		assert.Equal(t, tool, byLabel)
	}

	got, err := ParseTool("faq")
	require.NoError(t, err)
	assert.Equal(t, ToolQandA, got)

	_, err = ParseTool("newsletter")
	assert.Error(t, err)
}

func TestToolJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Tool{"tool": ToolReply})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tool":"reply"}`, string(b))

	var out struct{ Tool Tool }
	require.NoError(t, json.Unmarshal([]byte(`{"Tool":"photo_ideas"}`), &out))
	assert.Equal(t, ToolPhotoIdeas, out.Tool)
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"SUSPENSION":    CategorySuspension,
		" verification": CategoryVerification,
		"Ranking":       CategoryRanking,
		"reviews":       CategoryReviews,
		"OTHER":         CategoryOther,
		"billing":       CategoryOther,
		"":              CategoryOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCategory(in), "input %q", in)
	}
}

func TestBusinessContextIdentity(t *testing.T) {
	assert.False(t, BusinessContext{}.HasIdentity())
	assert.False(t, BusinessContext{Name: "   "}.HasIdentity())
	assert.True(t, BusinessContext{Name: "Acme"}.HasIdentity())

	assert.False(t, BusinessContext{Name: "Acme", IssueDescription: "x"}.Diagnosed())
	assert.True(t, BusinessContext{DetectedCategory: CategoryRanking}.Diagnosed())
}

func TestActionPlanCloneIsIndependent(t *testing.T) {
	p := ActionPlan{{ID: "a", Status: StatusPending}}
	c := p.Clone()
	c[0].Status = StatusCompleted
	assert.Equal(t, StatusPending, p[0].Status)

	assert.NotNil(t, ActionPlan(nil).Clone())
}
