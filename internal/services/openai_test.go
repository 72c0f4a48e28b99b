package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/aventuria/pkg/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func openAITestServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Messages)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{
					"message":       chat.Message{Role: chat.RoleAssistant, Content: reply},
					"finish_reason": "stop",
				},
			},
		})
	}))
}

func TestOpenAIService_ResolveTurn(t *testing.T) {
	srv := openAITestServer(t, `{"story_text":"The door opens.","is_game_over":false}`, http.StatusOK)
	defer srv.Close()

	svc := NewOpenAIService("test-key", srv.URL, "test-model", testLogger())
	resp, err := svc.ResolveTurn(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "open the door"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The door opens.", resp.StoryText)
}

func TestOpenAIService_InvalidTurnRejected(t *testing.T) {
	srv := openAITestServer(t, `{"narration":"missing required field"}`, http.StatusOK)
	defer srv.Close()

	svc := NewOpenAIService("test-key", srv.URL, "test-model", testLogger())
	_, err := svc.ResolveTurn(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "open the door"},
	})
	assert.Error(t, err)
}

func TestOpenAIService_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewOpenAIService("test-key", srv.URL, "test-model", testLogger())
	_, err := svc.Suggest(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "hint?"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOpenAIService_InitModel(t *testing.T) {
	svc := NewOpenAIService("k", "http://localhost", "", testLogger())
	assert.Error(t, svc.InitModel(context.Background(), ""))
	assert.NoError(t, svc.InitModel(context.Background(), "test-model"))
}
