package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini talks to the Gemini API through the genai SDK.
type Gemini struct {
	client    *genai.Client
	model     string
	fastModel string
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	return NewGeminiWithModel(ctx, apiKey, "gemini-2.5-pro", "gemini-2.5-flash")
}

func NewGeminiWithModel(ctx context.Context, apiKey, model, fastModel string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, fastModel: fastModel}, nil
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Chat(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, pickModel(req, g.model, g.fastModel), contents, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}
