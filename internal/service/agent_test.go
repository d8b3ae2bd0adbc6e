package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/internal/logger"
	"saas-agent/internal/model"
	"saas-agent/internal/service/executor"
	"saas-agent/internal/store"
)

type stubResolver struct{ intent model.Intent }

func (s stubResolver) Resolve(context.Context, string) model.Intent { return s.intent }

type recordingDispatcher struct {
	result model.Result
	reqs   []executor.Request
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req executor.Request) model.Result {
	d.reqs = append(d.reqs, req)
	return d.result
}

type countingSummarizer struct{ calls int }

func (s *countingSummarizer) Summarize(context.Context, string, model.ActionTag, any) string {
	s.calls++
	return "You have two new notes about groceries."
}

type stubRefresher struct {
	err   error
	calls int
}

func (r *stubRefresher) Ensure(_ context.Context, _ string, c model.Credentials) (model.Credentials, error) {
	r.calls++
	if c.Google != nil {
		g := *c.Google
		g.AccessToken = "refreshed"
		c.Google = &g
	}
	return c, r.err
}

func newAgent(d Dispatcher, sum Summarizer, r CredentialRefresher, it model.Intent) (*AgentService, store.Store) {
	st := store.NewMemory()
	return NewAgentService(st, r, stubResolver{intent: it}, d, sum, AgentOptions{
		DefaultSession: "default",
		Summarize:      true,
	}, logger.Nop()), st
}

func TestQuery_RequiresText(t *testing.T) {
	svc, _ := newAgent(&recordingDispatcher{}, &countingSummarizer{}, nil, model.Intent{})
	resp, err := svc.Query(context.Background(), model.QueryRequest{Query: "   "})
	assert.ErrorIs(t, err, model.ErrInvalidParams)
	assert.NotEmpty(t, resp.TaskID)
}

func TestQuery_MergesAndPersistsCredentials(t *testing.T) {
	ctx := context.Background()
	d := &recordingDispatcher{result: model.Result{Response: model.Response{Action: model.ActionSendSlackMessage, Message: "Message sent to #general."}}}
	ref := &stubRefresher{}
	it := model.Intent{Action: model.ActionSendSlackMessage, Params: &model.SlackParams{Text: "hi"}}
	svc, st := newAgent(d, &countingSummarizer{}, ref, it)

	require.NoError(t, st.SaveCredentials(ctx, "s1", model.Credentials{
		Google: &model.OAuthToken{AccessToken: "old", RefreshToken: "r"},
	}))

	resp, err := svc.Query(ctx, model.QueryRequest{
		Query:       "post hi to slack",
		SessionID:   "s1",
		Credentials: model.Credentials{SlackToken: "xoxb"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Message sent to #general.", resp.Message)
	assert.Equal(t, it.Params, resp.Parameters)

	require.Len(t, d.reqs, 1)
	got := d.reqs[0]
	assert.Equal(t, "s1", got.Session)
	assert.Equal(t, "xoxb", got.Creds.SlackToken)
	assert.Equal(t, "refreshed", got.Creds.Google.AccessToken)
	assert.Equal(t, 1, ref.calls)

	saved, err := st.LoadCredentials(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "xoxb", saved.SlackToken)
	assert.Equal(t, "old", saved.Google.AccessToken)
}

func TestQuery_RefreshFailureStillDispatches(t *testing.T) {
	d := &recordingDispatcher{result: model.Result{Response: model.Response{Action: model.ActionNone, Message: "Hi!"}}}
	svc, _ := newAgent(d, &countingSummarizer{}, &stubRefresher{err: errors.New("invalid_grant")}, model.Intent{Action: model.ActionNone, Params: &model.NoParams{}})

	resp, err := svc.Query(context.Background(), model.QueryRequest{Query: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hi!", resp.Message)
	assert.Equal(t, "default", d.reqs[0].Session)
	assert.Nil(t, resp.Parameters)
}

func TestQuery_Summaries(t *testing.T) {
	notes := []model.Note{{ID: "n1", Title: "Groceries"}, {ID: "n2", Title: "More groceries"}}
	tests := []struct {
		name      string
		result    model.Result
		wantCalls int
		wantMsg   string
	}{
		{
			name:      "list result is summarized",
			result:    model.Result{Response: model.Response{Action: model.ActionFetchNotes, Message: "Found 2 notes.", Data: notes}},
			wantCalls: 1,
			wantMsg:   "You have two new notes about groceries.",
		},
		{
			name:    "empty list keeps the message",
			result:  model.Result{Response: model.Response{Action: model.ActionFetchNotes, Message: "Found 0 notes.", Data: []model.Note{}}},
			wantMsg: "Found 0 notes.",
		},
		{
			name:    "emails are answered, not summarized",
			result:  model.Result{Response: model.Response{Action: model.ActionFetchEmails, Message: "Found 1 emails. Yes.", Data: []model.Email{{ID: "1"}}}},
			wantMsg: "Found 1 emails. Yes.",
		},
		{
			name: "failures are not summarized",
			result: model.Result{
				Response: model.Response{Action: model.ActionFetchNotes, Message: "Failed to fetch notes."},
				Kind:     model.KindVendor,
			},
			wantMsg: "Failed to fetch notes.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := &countingSummarizer{}
			svc, _ := newAgent(&recordingDispatcher{result: tt.result}, sum, nil, model.Intent{Action: tt.result.Response.Action})
			resp, err := svc.Query(context.Background(), model.QueryRequest{Query: "show my stuff"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Equal(t, tt.wantCalls, sum.calls)
		})
	}
}
