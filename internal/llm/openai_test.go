package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mailsift/internal/model"
)

func TestNewOpenAIClient(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		cfg     Config
		wantErr bool
	}{
		{name: "api key", cfg: Config{APIKey: "sk-test"}},
		{name: "local base url without key", cfg: Config{BaseURL: "http://localhost:8080/v1"}},
		{name: "neither", cfg: Config{}, wantErr: true, errMsg: "API key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := newOpenAIClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ProviderOpenAI, src.Name())
		})
	}
}

func TestOpenAIClient_Propose(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " Lecture "}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	src, err := newOpenAIClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1", Model: "gpt-4o-mini"})
	require.NoError(t, err)

	out, err := src.Propose(context.Background(), model.SuggestionRequest{
		Kind:       model.PromptSource,
		Sender:     "prof@charusat.ac.in",
		Content:    "Lecture moved to room 4",
		Categories: model.AcademicTaxonomy.Names(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lecture", out)

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "Lecture moved to room 4")
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	src, err := newOpenAIClient(Config{APIKey: "sk-bad", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = src.Propose(context.Background(), model.SuggestionRequest{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	src, err := newOpenAIClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = src.Propose(context.Background(), model.SuggestionRequest{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion choices")
}
