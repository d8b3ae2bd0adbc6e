package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "m", MaxRetries: 2})
	c.retryWait = time.Millisecond
	return c, &calls
}

func reply(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{map[string]any{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestChat(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "m", req.Model)
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		reply(w, `{"action":"help"}`)
	})

	out, err := c.Chat(context.Background(), "sys", "hi", Options{MaxTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, `{"action":"help"}`, out)
	assert.EqualValues(t, 1, *calls)
}

func TestChat_RetriesServerErrors(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		reply(w, "ok")
	})

	out, err := c.Chat(context.Background(), "sys", "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 2, *calls)
}

func TestChat_NoRetryOnClientError(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Chat(context.Background(), "sys", "hi", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrLLMUnavailable))
	assert.EqualValues(t, 1, *calls)
}

func TestChat_GivesUpAfterMaxRetries(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Chat(context.Background(), "sys", "hi", Options{})
	require.Error(t, err)
	assert.EqualValues(t, 3, *calls)
}

func TestChat_EmptyChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Chat(context.Background(), "sys", "hi", Options{})
	assert.Error(t, err)
}

func TestChat_NotConfigured(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Chat(context.Background(), "sys", "hi", Options{})
	assert.True(t, errors.Is(err, model.ErrLLMUnavailable))
}
