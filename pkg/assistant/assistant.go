// Package assistant keeps the chat with the profile expert.
package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/gateway"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

const (
	Greeting   = "Hi! I'm your GBP Assistant. I can help with suspension appeals, verification questions, or general optimization tips. What's on your mind?"
	NoReply    = "I'm having trouble connecting right now."
	ErrorReply = "Sorry, I encountered an error processing your request."
)

var (
	ErrEmptyMessage = apperr.Input("Type a question first.")
	ErrThinking     = apperr.Input("The assistant is still answering.")
)

// Exchange is one question captured with the history that preceded it.
type Exchange struct {
	History []model.ChatMessage
	Message string
	Context *model.BusinessContext
}

type Conversation struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	thinking bool
	now      func() time.Time
	logger   *zap.Logger
}

// New starts a conversation with the greeting.
func New(logger *zap.Logger) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conversation{now: time.Now, logger: logger.Named("assistant")}
	c.messages = []model.ChatMessage{c.message(model.RoleModel, Greeting)}
	return c
}

func (c *Conversation) message(role model.Role, text string) model.ChatMessage {
	return model.ChatMessage{ID: uuid.NewString(), Role: role, Text: text, Timestamp: c.now()}
}

// Prepare appends the user's message. The business context is attached only
// when an identity is set.
func (c *Conversation) Prepare(text string, bc model.BusinessContext) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.thinking {
		return Exchange{}, ErrThinking
	}

	history := make([]model.ChatMessage, len(c.messages))
	copy(history, c.messages)
	c.messages = append(c.messages, c.message(model.RoleUser, text))
	c.thinking = true

	ex := Exchange{History: history, Message: text}
	if bc.HasIdentity() {
		ex.Context = &bc
	}
	return ex, nil
}

// Send asks the gateway. It touches no conversation state.
func Send(ctx context.Context, gw gateway.Gateway, ex Exchange) (string, error) {
	return gw.Chat(ctx, ex.History, ex.Message, ex.Context)
}

// Resolve appends the model's answer, or a fallback on failure.
func (c *Conversation) Resolve(reply string, err error) model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thinking = false

	switch {
	case err != nil:
		c.logger.Warn("chat failed", zap.Error(err))
		reply = ErrorReply
	case strings.TrimSpace(reply) == "":
		reply = NoReply
	}
	msg := c.message(model.RoleModel, reply)
	c.messages = append(c.messages, msg)
	return msg
}

// Ask runs a whole exchange synchronously.
func (c *Conversation) Ask(ctx context.Context, gw gateway.Gateway, text string, bc model.BusinessContext) (model.ChatMessage, error) {
	ex, err := c.Prepare(text, bc)
	if err != nil {
		return model.ChatMessage{}, err
	}
	reply, err := Send(ctx, gw, ex)
	return c.Resolve(reply, err), nil
}

func (c *Conversation) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Thinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking
}
