package llm

import "context"

// Role of a conversation turn. Providers map it to their own vocabulary.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role Role
	Text string
}

// Request is one provider-neutral completion request.
type Request struct {
	System   string
	Messages []Message
	// JSON asks the provider for a bare JSON document.
	JSON bool
	// Fast selects the provider's fast model tier when one is configured.
	Fast bool
}

// LLM is a chat completion backend.
type LLM interface {
	Chat(ctx context.Context, req Request) (string, error)
	Model() string
}

// Prompt builds a single-turn request.
func Prompt(system, prompt string) Request {
	return Request{System: system, Messages: []Message{{Role: RoleUser, Text: prompt}}}
}

func pickModel(req Request, model, fastModel string) string {
	if req.Fast && fastModel != "" {
		return fastModel
	}
	return model
}
