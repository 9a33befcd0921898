package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/helmcode/gbp-pulse/pkg/gateway/gatewaytest"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

var acme = model.BusinessContext{Name: "Acme Plumbing", Industry: "Plumbing"}

func TestStartsWithGreeting(t *testing.T) {
	msgs := New(nil).Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleModel, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestAskSendsPriorHistory(t *testing.T) {
	var gotHistory []model.ChatMessage
	var gotContext *model.BusinessContext
	gw := &gatewaytest.Fake{
		ChatFunc: func(_ context.Context, history []model.ChatMessage, msg string, bc *model.BusinessContext) (string, error) {
			gotHistory, gotContext = history, bc
			return "Request access, then wait 3 days.", nil
		},
	}
	c := New(zaptest.NewLogger(t))

	reply, err := c.Ask(context.Background(), gw, "  Someone owns my listing  ", acme)
	require.NoError(t, err)
	assert.Equal(t, "Request access, then wait 3 days.", reply.Text)

	require.Len(t, gotHistory, 1, "history excludes the new message")
	assert.Equal(t, Greeting, gotHistory[0].Text)
	require.NotNil(t, gotContext)
	assert.Equal(t, "Acme Plumbing", gotContext.Name)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Someone owns my listing", msgs[1].Text)
	assert.Equal(t, model.RoleUser, msgs[1].Role)
	assert.False(t, c.Thinking())
}

func TestNoIdentityNoContext(t *testing.T) {
	c := New(nil)
	ex, err := c.Prepare("hi", model.BusinessContext{Industry: "Plumbing"})
	require.NoError(t, err)
	assert.Nil(t, ex.Context)
}

func TestFallbackReplies(t *testing.T) {
	c := New(nil)
	_, err := c.Prepare("a", acme)
	require.NoError(t, err)
	assert.Equal(t, NoReply, c.Resolve("  ", nil).Text)

	_, err = c.Prepare("b", acme)
	require.NoError(t, err)
	assert.Equal(t, ErrorReply, c.Resolve("ignored", errors.New("offline")).Text)
	assert.False(t, c.Thinking())
}

func TestPrepareRejects(t *testing.T) {
	c := New(nil)
	_, err := c.Prepare("   ", acme)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = c.Prepare("first", acme)
	require.NoError(t, err)
	_, err = c.Prepare("second", acme)
	assert.ErrorIs(t, err, ErrThinking)
	assert.Len(t, c.Messages(), 2)
}
