package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientllm "saas-agent/internal/client/llm"
	"saas-agent/internal/logger"
	"saas-agent/internal/model"
)

type fakeChat struct {
	reply string
	err   error
	calls int
	last  struct {
		system, user string
		opts         clientllm.Options
	}
}

func (f *fakeChat) Chat(_ context.Context, system, user string, opts clientllm.Options) (string, error) {
	f.calls++
	f.last.system, f.last.user, f.last.opts = system, user, opts
	return f.reply, f.err
}

func newService(reply string, err error) (*Service, *fakeChat) {
	fc := &fakeChat{reply: reply, err: err}
	return NewService(fc, logger.Nop(), 200), fc
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Sure! {"a":{"b":2}} hope this helps`, `{"a":{"b":2}}`},
		{"no object", "nothing here", ""},
		{"only open brace", "{", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestResolve_LLM(t *testing.T) {
	svc, fc := newService("```json\n"+`{"action":"send_email","usesContext":true,"parameters":{"to":"bob@x.com"},"naturalResponse":"Sending."}`+"\n```", nil)

	it := svc.Resolve(context.Background(), "send this meet to bob@x.com")
	assert.Equal(t, model.ActionSendEmail, it.Action)
	assert.True(t, it.UsesContext)
	assert.Equal(t, "Sending.", it.NaturalResponse)
	assert.Equal(t, "bob@x.com", model.ParamsOf[model.SendEmailParams](it).To)

	assert.Equal(t, 1, fc.calls)
	assert.Zero(t, fc.last.opts.Temperature)
	assert.Equal(t, 500, fc.last.opts.MaxTokens)
}

func TestResolve_PromptLeavesSlackChannelUnset(t *testing.T) {
	svc, fc := newService(`{"action":"fetch_slack_history","parameters":{}}`, nil)

	it := svc.Resolve(context.Background(), "check slack")
	assert.Equal(t, model.ActionFetchSlackHistory, it.Action)
	assert.Empty(t, model.ParamsOf[model.SlackParams](it).ChannelName)

	assert.Equal(t, intentPrompt, fc.last.system)
	assert.Contains(t, fc.last.system, "fetch_slack_history (channelName)")
	assert.NotContains(t, fc.last.system, `default "general"`)
}

func TestResolve_UnknownActionIsNone(t *testing.T) {
	svc, _ := newService(`{"action":"launch_rocket","parameters":{"x":1}}`, nil)
	it := svc.Resolve(context.Background(), "launch a rocket")
	assert.Equal(t, model.ActionNone, it.Action)
	assert.Equal(t, "Okay.", it.NaturalResponse)
	assert.IsType(t, &model.NoParams{}, it.Params)
}

func TestResolve_PostProcessing(t *testing.T) {
	t.Run("limit clamped", func(t *testing.T) {
		svc, _ := newService(`{"action":"fetch_emails","parameters":{"limit":"1000"}}`, nil)
		it := svc.Resolve(context.Background(), "all my emails")
		assert.EqualValues(t, 200, model.ParamsOf[model.FetchEmailParams](it).Limit)
	})
	t.Run("course name default", func(t *testing.T) {
		svc, _ := newService(`{"action":"create_course","parameters":{}}`, nil)
		it := svc.Resolve(context.Background(), "create a class")
		assert.Equal(t, "New Classroom", model.ParamsOf[model.CreateCourseParams](it).Name)
	})
	t.Run("course name from title", func(t *testing.T) {
		svc, _ := newService(`{"action":"create_course","parameters":{"title":"Biology"}}`, nil)
		it := svc.Resolve(context.Background(), "create biology class")
		assert.Equal(t, "Biology", model.ParamsOf[model.CreateCourseParams](it).Name)
	})
	t.Run("usesContext must be boolean true", func(t *testing.T) {
		svc, _ := newService(`{"action":"create_meet","usesContext":"true"}`, nil)
		it := svc.Resolve(context.Background(), "meet")
		assert.False(t, it.UsesContext)
	})
}

func TestResolve_FallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"llm error", "", model.ErrLLMUnavailable},
		{"empty reply", "", nil},
		{"malformed json", `{"action": "fetch_emails",`, nil},
		{"bad parameter types", `{"action":"fetch_emails","parameters":{"limit":"lots"}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.reply, tt.err)
			it := svc.Resolve(context.Background(), "check slack")
			assert.Equal(t, model.ActionFetchSlackHistory, it.Action)
			assert.EqualValues(t, 10, model.ParamsOf[model.SlackParams](it).Limit)
		})
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		query   string
		action  model.ActionTag
		context bool
	}{
		{"post hello on slack", model.ActionSendSlackMessage, false},
		{"what's new in slack", model.ActionFetchSlackHistory, false},
		{"send hi on telegram", model.ActionSendTelegramMessage, false},
		{"ban him from the telegram group", model.ActionManageTelegramGroup, false},
		{"any telegram news", model.ActionFetchTelegramUpdates, false},
		{"youtube channel stats for mkbhd", model.ActionGetChannelStats, false},
		{"find cat videos on youtube", model.ActionSearchYouTube, false},
		{"create a google form", model.ActionCreateForm, false},
		{"show form responses", model.ActionFetchFormResponses, false},
		{"send an outlook email", model.ActionSendOutlookEmail, false},
		{"check outlook mail", model.ActionFetchOutlookEmails, false},
		{"outlook meeting at 3pm", model.ActionCreateOutlookEvent, false},
		{"create a new word doc", model.ActionCreateWordDoc, false},
		{"read the word file", model.ActionReadWordDoc, false},
		{"new excel workbook", model.ActionCreateExcelSheet, false},
		{"add a row to excel", model.ActionUpdateExcelSheet, false},
		{"open the budget excel", model.ActionReadExcelSheet, false},
		{"list onedrive", model.ActionFetchOneDriveFiles, false},
		{"list teams channels", model.ActionFetchTeamsChannels, false},
		{"any new chat", model.ActionFetchTeamsMessages, false},
		{"create a new classroom", model.ActionCreateCourse, false},
		{"homework for math class", model.ActionFetchAssignments, false},
		{"students in my course", model.ActionFetchStudents, false},
		{"my classes", model.ActionFetchCourses, false},
		{"send email with this meet to bob", model.ActionSendEmail, true},
		{"send an email", model.ActionSendEmail, false},
		{"check gmail", model.ActionFetchEmails, false},
		{"latest drive uploads", model.ActionFetchFiles, false},
		{"show shopify orders", model.ActionFetchOrders, false},
		{"what's upcoming this week", model.ActionFetchCalendar, false},
		{"cancel the meeting", model.ActionDeleteMeet, true},
		{"reschedule my meet", model.ActionUpdateMeet, false},
		{"set up a google meet at 5pm", model.ActionCreateMeet, false},
		{"create a new spreadsheet", model.ActionCreateSheet, false},
		{"show the sales sheet", model.ActionReadSheet, true},
		{"edit the sheet", model.ActionUpdateSheet, true},
		{"create a doc", model.ActionCreateDoc, false},
		{"open the notes document", model.ActionReadDoc, true},
		{"append to the doc", model.ActionAppendDoc, true},
		{"replace foo in the doc", model.ActionReplaceDoc, true},
		{"clear the doc", model.ActionClearDoc, true},
		{"post to discord", model.ActionSendDiscordMessage, false},
		{"kick spammer from discord", model.ActionKickDiscordUser, false},
		{"check discord", model.ActionFetchDiscordMessages, false},
		{"add a note: buy milk", model.ActionCreateNote, false},
		{"show my keep", model.ActionFetchNotes, false},
		{"hello there", model.ActionHelp, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			it := Fallback(tt.query)
			assert.Equal(t, tt.action, it.Action)
			assert.Equal(t, tt.context, it.UsesContext)
			assert.NotEmpty(t, it.NaturalResponse)
			require.NotNil(t, it.Params)
		})
	}
}

func TestFallback_Defaults(t *testing.T) {
	it := Fallback("CREATE A NEW GOOGLE FORM")
	assert.Equal(t, "Untitled Form", model.ParamsOf[model.FormParams](it).Title)

	it = Fallback("new class please")
	assert.Equal(t, "New Classroom", model.ParamsOf[model.CreateCourseParams](it).Name)

	it = Fallback("show my emails")
	assert.EqualValues(t, 50, model.ParamsOf[model.FetchEmailParams](it).Limit)
	assert.Equal(t, "Fetching your recent emails.", it.NaturalResponse)

	it = Fallback("what can you do")
	assert.Equal(t, HelpMessage, it.NaturalResponse)
}

func TestSummarize(t *testing.T) {
	svc, fc := newService("You have two files.", nil)
	data := []model.DriveFile{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}

	out := svc.Summarize(context.Background(), "my files", model.ActionFetchFiles, data)
	assert.Equal(t, "You have two files.", out)
	assert.Equal(t, 0.3, fc.last.opts.Temperature)
	assert.Equal(t, 250, fc.last.opts.MaxTokens)
	assert.Contains(t, fc.last.user, "Google Drive Files")
	assert.Contains(t, fc.last.user, `"name": "c"`)
	assert.NotContains(t, fc.last.user, `"name": "d"`)
}

func TestSummarize_Fallbacks(t *testing.T) {
	svc, fc := newService("", errors.New("down"))
	out := svc.Summarize(context.Background(), "q", model.ActionFetchNotes, []model.Note{{Title: "x"}, {Title: "y"}})
	assert.Equal(t, "Found 2 items.", out)

	fc.calls = 0
	out = svc.Summarize(context.Background(), "q", model.ActionFetchNotes, []model.Note{})
	assert.Equal(t, "Found 0 items.", out)
	assert.Zero(t, fc.calls)
}

func TestSummarizable(t *testing.T) {
	assert.True(t, Summarizable(model.ActionFetchSlackHistory))
	assert.False(t, Summarizable(model.ActionFetchEmails))
	assert.False(t, Summarizable(model.ActionSendEmail))
}

func TestAnswerFromEmails(t *testing.T) {
	svc, fc := newService("Alice sent the invoice.", nil)
	emails := []model.Email{{From: "alice@x.com", Subject: "Invoice", Snippet: "attached"}}

	out := svc.AnswerFromEmails(context.Background(), emails, "did alice send the invoice?", "2026-03-10")
	assert.Equal(t, "Alice sent the invoice.", out)
	assert.Zero(t, fc.last.opts.Temperature)
	assert.Equal(t, 350, fc.last.opts.MaxTokens)
	assert.True(t, strings.Contains(fc.last.user, "Requested date: 2026-03-10"))
	assert.Contains(t, fc.last.user, "alice@x.com")

	fc.calls = 0
	assert.Equal(t, NoEmailsAnswer, svc.AnswerFromEmails(context.Background(), nil, "q", ""))
	assert.Zero(t, fc.calls)
}
