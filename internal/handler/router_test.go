package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/internal/logger"
	"saas-agent/internal/model"
)

func init() { gin.SetMode(gin.TestMode) }

type stubQuerier struct {
	got  []model.QueryRequest
	resp model.QueryResponse
	err  error
}

func (s *stubQuerier) Query(_ context.Context, req model.QueryRequest) (model.QueryResponse, error) {
	s.got = append(s.got, req)
	return s.resp, s.err
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/agent/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestQuery_OK(t *testing.T) {
	q := &stubQuerier{resp: model.QueryResponse{
		TaskID:  "t-1",
		Action:  model.ActionFetchNotes,
		Message: "Found 1 notes.",
		Data:    []model.Note{{ID: "n1", Title: "Todo"}},
	}}
	r := Router(q, logger.Nop())

	w := post(r, `{"query":"show my notes","session_id":"s1","google":{"access_token":"tok"},"slack_token":"xoxb"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "t-1", body["task_id"])
	assert.Equal(t, "fetch_notes", body["action"])
	assert.Equal(t, "Found 1 notes.", body["message"])
	assert.Len(t, body["data"], 1)

	require.Len(t, q.got, 1)
	assert.Equal(t, "s1", q.got[0].SessionID)
	assert.Equal(t, "tok", q.got[0].Google.AccessToken)
	assert.Equal(t, "xoxb", q.got[0].SlackToken)
}

func TestQuery_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"missing query", `{"session_id":"s1"}`, nil},
		{"malformed json", `{"query":`, nil},
		{"rejected by service", `{"query":" "}`, fmt.Errorf("%w: query is required", model.ErrInvalidParams)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Router(&stubQuerier{err: tt.err}, logger.Nop())
			w := post(r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestQuery_InternalError(t *testing.T) {
	r := Router(&stubQuerier{err: fmt.Errorf("store closed")}, logger.Nop())
	w := post(r, `{"query":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := Router(&stubQuerier{}, logger.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
