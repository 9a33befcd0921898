package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const claudeEndpoint = "https://api.anthropic.com/v1/messages"

type Claude struct {
	apiKey    string
	client    *http.Client
	model     string
	fastModel string
	endpoint  string
}

func NewClaude(apiKey string) *Claude {
	return NewClaudeWithModel(apiKey, "claude-sonnet-4-20250514", "")
}

func NewClaudeWithModel(apiKey, model, fastModel string) *Claude {
	return &Claude{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 60 * time.Second},
		model:     model,
		fastModel: fastModel,
		endpoint:  claudeEndpoint,
	}
}

func (c *Claude) Model() string { return c.model }

func (c *Claude) Chat(ctx context.Context, req Request) (string, error) {
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}
		messages = append(messages, map[string]string{"role": role, "content": m.Text})
	}

	body := map[string]interface{}{
		"model":       pickModel(req, c.model, c.fastModel),
		"messages":    messages,
		"max_tokens":  4000,
		"temperature": 0,
	}
	if req.System != "" {
		system := req.System
		if req.JSON {
			system += "\n\nRespond with a single JSON document and nothing else."
		}
		body["system"] = system
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Claude API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	// Minimal struct to pull out the content text.
	var claudeResp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &claudeResp); err != nil {
		return "", err
	}
	if claudeResp.Error.Message != "" {
		return "", fmt.Errorf("Claude API error: %s", claudeResp.Error.Message)
	}
	if len(claudeResp.Content) == 0 {
		return "", nil
	}
	return claudeResp.Content[0].Text, nil
}
