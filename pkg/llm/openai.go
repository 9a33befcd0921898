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

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

type OpenAI struct {
	apiKey    string
	client    *http.Client
	model     string
	fastModel string
	endpoint  string
}

func NewOpenAI(apiKey string) *OpenAI {
	return NewOpenAIWithModel(apiKey, "gpt-4o", "gpt-4o-mini")
}

func NewOpenAIWithModel(apiKey, model, fastModel string) *OpenAI {
	return &OpenAI{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 60 * time.Second},
		model:     model,
		fastModel: fastModel,
		endpoint:  openAIEndpoint,
	}
}

func (o *OpenAI) Chat(ctx context.Context, req Request) (string, error) {
	messages := make([]map[string]string, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}
		messages = append(messages, map[string]string{"role": role, "content": m.Text})
	}

	body := map[string]interface{}{
		"model":       pickModel(req, o.model, o.fastModel),
		"messages":    messages,
		"max_tokens":  4000,
		"temperature": 0,
	}
	if req.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &openaiResp); err != nil {
		return "", err
	}
	if openaiResp.Error.Message != "" {
		return "", fmt.Errorf("OpenAI API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 {
		return "", nil
	}
	return openaiResp.Choices[0].Message.Content, nil
}

// Model returns the model being used by this OpenAI client
func (o *OpenAI) Model() string {
	return o.model
}
