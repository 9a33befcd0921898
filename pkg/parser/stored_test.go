package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

func TestParseStoredPlan(t *testing.T) {
	plan, err := ParseStoredPlan([]byte(`[
  {"id":"s1","title":"Appeal","description":"File the form","status":"pending"},
  {"id":"s2","title":"Merge","description":"","status":"completed"}
]`))
	require.NoError(t, err)
	assert.Equal(t, model.ActionPlan{
		{ID: "s1", Title: "Appeal", Description: "File the form", Status: model.StatusPending},
		{ID: "s2", Title: "Merge", Status: model.StatusCompleted},
	}, plan)

	plan, err = ParseStoredPlan([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, plan)
	assert.Empty(t, plan)
}

func TestParseStoredPlanInvalid(t *testing.T) {
	for name, raw := range map[string]string{
		"object":        `{"not":"a list"}`,
		"duplicate ids": `[{"id":"x","title":"a","status":"pending"},{"id":"x","title":"b","status":"pending"}]`,
		"bad status":    `[{"id":"x","title":"a","status":"done"}]`,
		"blank id":      `[{"id":"","title":"a","status":"pending"}]`,
		"missing id":    `[{"title":"a","status":"pending"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseStoredPlan([]byte(raw))
			assert.True(t, apperr.Is(err, apperr.KindMalformed), "got %v", err)
		})
	}
}

func TestParseStoredContext(t *testing.T) {
	bc, err := ParseStoredContext([]byte(`{"name":"Acme","industry":"Plumbing","detectedCategory":"BOGUS","analysis":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, bc.DetectedCategory)
	assert.Equal(t, "Acme", bc.Name)

	bc, err = ParseStoredContext([]byte(`{"name":"Acme","industry":"Plumbing"}`))
	require.NoError(t, err)
	assert.Empty(t, bc.DetectedCategory, "an undiagnosed context stays undiagnosed")

	_, err = ParseStoredContext([]byte(`{"name": 7}`))
	assert.True(t, apperr.Is(err, apperr.KindMalformed))
}
