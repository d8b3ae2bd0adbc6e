package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	var posted map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer xoxb-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/conversations.list":
			_, _ = w.Write([]byte(`{"ok":true,"channels":[{"id":"C1","name":"general"},{"id":"C2","name":"random"}]}`))
		case "/conversations.history":
			assert.Equal(t, "C1", r.URL.Query().Get("channel"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"ok":true,"messages":[{"user":"U1","text":"hello","ts":"1.0"}]}`))
		case "/chat.postMessage":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error":"unknown_method"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, BotToken: "xoxb-1"})
	ctx := context.Background()

	channels, err := c.ListChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, channels, 2)

	msgs, err := c.History(ctx, "C1", 5)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text)

	require.NoError(t, c.SendMessage(ctx, "C2", "hi team"))
	assert.Equal(t, map[string]string{"channel": "C2", "text": "hi team"}, posted)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"not_in_channel"}`))
	}))
	defer srv.Close()

	err := NewClient(Config{BaseURL: srv.URL, BotToken: "x"}).SendMessage(context.Background(), "C1", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_in_channel")
}
