package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

var acme = model.BusinessContext{
	Name:             "Acme Plumbing",
	Industry:         "Plumbing",
	IssueDescription: "Listing suspended for duplicate content",
}

func TestEveryToolHasATask(t *testing.T) {
	for _, tool := range model.Tools() {
		assert.NotEmpty(t, Task(tool), tool.String())
	}
	assert.Empty(t, Task(model.Tool(99)))
}

func TestContentPromptCarriesIdentity(t *testing.T) {
	p := BuildContentPrompt(model.ToolReply, acme, "Great service!")
	assert.Contains(t, p, `"Acme Plumbing" in "Plumbing"`)
	assert.Contains(t, p, "customer review")
	assert.Contains(t, p, `"Great service!"`)
}

func TestDiagnosePrompt(t *testing.T) {
	p := BuildDiagnosePrompt(acme)
	assert.Contains(t, p, "Issue Description: Listing suspended for duplicate content")
	assert.Contains(t, p, "SUSPENSION, VERIFICATION, RANKING, REVIEWS, OTHER")
}

func TestAuditPromptLocationKind(t *testing.T) {
	d := model.NewProfileData{BusinessName: "Acme", IsServiceArea: true}
	assert.Contains(t, BuildAuditPrompt(d), "Type: Service Area")
	d.IsServiceArea = false
	assert.Contains(t, BuildAuditPrompt(d), "Type: Storefront")
}

func TestChatSystem(t *testing.T) {
	assert.Equal(t, System, ChatSystem(nil))
	assert.Equal(t, System, ChatSystem(&model.BusinessContext{}))
	assert.Equal(t, System+"\n\nCONTEXT: Business is Acme Plumbing, Industry is Plumbing.", ChatSystem(&acme))
}
