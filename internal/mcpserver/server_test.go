package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/internal/logger"
	"saas-agent/internal/model"
)

type stubQuerier struct {
	got  []model.QueryRequest
	resp model.QueryResponse
	err  error
}

func (s *stubQuerier) Query(_ context.Context, req model.QueryRequest) (model.QueryResponse, error) {
	s.got = append(s.got, req)
	return s.resp, s.err
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "ask", Arguments: args}}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestAsk_ReturnsResponseJSON(t *testing.T) {
	q := &stubQuerier{resp: model.QueryResponse{TaskID: "t-9", Action: model.ActionHelp, Message: "I can help with mail."}}
	h := NewHandler(q, logger.Nop())

	res, err := h.handleAsk(context.Background(), call(map[string]any{"query": "what can you do", "session_id": "s7"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, "t-9", out["task_id"])
	assert.Equal(t, "help", out["action"])
	assert.Equal(t, "I can help with mail.", out["message"])

	require.Len(t, q.got, 1)
	assert.Equal(t, "s7", q.got[0].SessionID)
	assert.Equal(t, "what can you do", q.got[0].Query)
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		err       error
		wantCalls int
	}{
		{"missing query", map[string]any{}, nil, 0},
		{"invalid query", map[string]any{"query": " "}, fmt.Errorf("%w: query is required", model.ErrInvalidParams), 1},
		{"service failure", map[string]any{"query": "hi"}, fmt.Errorf("store closed"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &stubQuerier{err: tt.err}
			res, err := NewHandler(q, logger.Nop()).handleAsk(context.Background(), call(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.NotEmpty(t, text(t, res))
			assert.Len(t, q.got, tt.wantCalls)
		})
	}
}
