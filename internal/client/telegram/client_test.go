package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bot123:abc/getUpdates":
			_, _ = w.Write([]byte(`{"ok":true,"result":[
				{"update_id":1,"message":{"message_id":10,"chat":{"id":-100555,"type":"supergroup","title":"Family Group"},"date":1700000000,"text":"hi"}},
				{"update_id":2,"channel_post":{"message_id":11,"chat":{"id":-100777,"type":"channel","title":"News"},"date":1700000001,"text":"post"}}
			]}`))
		case "/bot123:abc/sendMessage":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":99,"chat":{"id":-100555,"type":"supergroup"},"date":1700000002,"text":"hello"}}`))
		case "/bot123:abc/banChatMember":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: not enough rights"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "123:abc")
	ctx := context.Background()

	updates, err := c.GetUpdates(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "Family Group", updates[0].Message.Chat.Title)
	assert.Equal(t, int64(-100777), updates[1].ChannelPost.Chat.ID)

	msg, err := c.SendMessage(ctx, "-100555", "hello", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(99), msg.MessageID)
	assert.Equal(t, "-100555", sent["chat_id"])
	assert.NotContains(t, sent, "reply_to_message_id")

	err = c.BanChatMember(ctx, "-100555", 7)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Code)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad").GetUpdates(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Code)
}
