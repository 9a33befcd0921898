package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/gbp-pulse/pkg/config"
)

func capture(t *testing.T, status int, reply string) (*httptest.Server, *map[string]interface{}, *http.Header) {
	t.Helper()
	body := map[string]interface{}{}
	header := http.Header{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &body, &header
}

func conversation() Request {
	return Request{
		System: "be brief",
		Messages: []Message{
			{Role: RoleUser, Text: "hi"},
			{Role: RoleModel, Text: "hello"},
			{Role: RoleUser, Text: "help"},
		},
		Fast: true,
	}
}

func TestClaudeChat(t *testing.T) {
	srv, body, header := capture(t, http.StatusOK, `{"content":[{"type":"text","text":"done"}]}`)
	c := NewClaudeWithModel("key", "big", "small")
	c.endpoint = srv.URL

	out, err := c.Chat(context.Background(), conversation())
	require.NoError(t, err)
	assert.Equal(t, "done", out)

	assert.Equal(t, "key", header.Get("x-api-key"))
	assert.Equal(t, "small", (*body)["model"])
	assert.Equal(t, "be brief", (*body)["system"])
	msgs := (*body)["messages"].([]interface{})
	require.Len(t, msgs, 3)
	assert.Equal(t, "assistant", msgs[1].(map[string]interface{})["role"])
}

func TestClaudeJSONInstruction(t *testing.T) {
	srv, body, _ := capture(t, http.StatusOK, `{"content":[{"text":"{}"}]}`)
	c := NewClaudeWithModel("key", "big", "")
	c.endpoint = srv.URL

	req := Prompt("sys", "x")
	req.JSON = true
	req.Fast = true
	_, err := c.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "big", (*body)["model"], "no fast model configured")
	assert.Contains(t, (*body)["system"], "single JSON document")
}

func TestClaudeErrorStatus(t *testing.T) {
	srv, _, _ := capture(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`)
	c := NewClaudeWithModel("key", "big", "")
	c.endpoint = srv.URL

	_, err := c.Chat(context.Background(), Prompt("", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIChat(t *testing.T) {
	srv, body, header := capture(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)
	o := NewOpenAIWithModel("key", "big", "small")
	o.endpoint = srv.URL

	req := conversation()
	req.JSON = true
	out, err := o.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	assert.Equal(t, "Bearer key", header.Get("Authorization"))
	assert.Equal(t, "small", (*body)["model"])
	msgs := (*body)["messages"].([]interface{})
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, (*body)["response_format"])
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv, _, _ := capture(t, http.StatusOK, `{"choices":[]}`)
	o := NewOpenAIWithModel("key", "big", "")
	o.endpoint = srv.URL

	out, err := o.Chat(context.Background(), Prompt("", "x"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestChatHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()
	o := NewOpenAIWithModel("key", "big", "")
	o.endpoint = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := o.Chat(ctx, Prompt("", "x"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, config.LLMConfig{Provider: "claude"})
	assert.Error(t, err, "missing key")

	_, err = New(ctx, config.LLMConfig{Provider: "llama", APIKey: "k"})
	assert.Error(t, err)

	l, err := New(ctx, config.LLMConfig{Provider: "OpenAI", APIKey: "k", Model: "gpt-x", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "gpt-x", l.Model())
	assert.Equal(t, time.Second, l.(*OpenAI).client.Timeout)
	assert.Equal(t, "gpt-4o-mini", l.(*OpenAI).fastModel)

	l, err = New(ctx, config.LLMConfig{Provider: "claude", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", l.Model())
	assert.Equal(t, 60*time.Second, l.(*Claude).client.Timeout)

	l, err = New(ctx, config.LLMConfig{Provider: "gemini", APIKey: "k", FastModel: "flash"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", l.Model())
	assert.Equal(t, "flash", l.(*Gemini).fastModel)
}
