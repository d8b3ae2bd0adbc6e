package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/internal/model"
)

// ---- more fake vendor methods ----

func (f *fakeGoogle) RecentFiles(context.Context, int) ([]model.DriveFile, error) {
	return f.files, nil
}

func (f *fakeGoogle) UpcomingEvents(_ context.Context, from, to time.Time, _ int) ([]model.Meeting, error) {
	f.window = [2]time.Time{from, to}
	return f.events, nil
}

func (f *fakeGoogle) ListNotes(context.Context, int) ([]model.Note, error) { return f.notes, nil }

func (f *fakeGoogle) CreateNote(_ context.Context, title, content string) (*model.Note, error) {
	n := model.Note{ID: "n1", Title: title, TextContent: content}
	f.notes = append(f.notes, n)
	return &n, nil
}

func (f *fakeGoogle) CreateDoc(_ context.Context, title string) (*model.Doc, error) {
	return &model.Doc{DocumentID: "d1", Title: title}, nil
}

func (f *fakeGoogle) ReadDoc(_ context.Context, id string) (*model.DocContent, error) {
	return &model.DocContent{DocumentID: id, Content: "hello world"}, nil
}

func (f *fakeGoogle) AppendText(_ context.Context, id, text string) error {
	f.appended = append(f.appended, id+":"+text)
	return nil
}

func (f *fakeGoogle) ReplaceText(context.Context, string, string, string) (int64, error) {
	return 2, nil
}

func (f *fakeGoogle) ClearDoc(_ context.Context, id string) error {
	f.cleared = append(f.cleared, id)
	return nil
}

func (f *fakeGoogle) CreateCourse(_ context.Context, p model.CreateCourseParams) (*model.Course, error) {
	return &model.Course{ID: "c9", Name: p.Name, EnrollmentCode: "abc123"}, nil
}

func (f *fakeGoogle) ListStudents(context.Context, string) ([]model.Student, error) {
	return f.students, nil
}

func (f *fakeGoogle) SearchVideos(_ context.Context, query string, _ int) ([]model.Video, error) {
	return []model.Video{{ID: "v1", Title: query}}, nil
}

func (f *fakeGoogle) UpdateRange(_ context.Context, id, rng string, _ model.Rows) error {
	f.updated = append(f.updated, id, rng)
	return nil
}

func (f *fakeMicrosoft) Messages(context.Context, int, string) ([]model.OutlookEmail, error) {
	return []model.OutlookEmail{{ID: "m1", Subject: "Invoice"}}, nil
}

func (f *fakeMicrosoft) SendMail(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentEmail{to, subject, body})
	return nil
}

func (f *fakeMicrosoft) RootFiles(context.Context, int) ([]model.OneDriveFile, error) {
	return f.files, nil
}

func (f *fakeMicrosoft) SearchFiles(_ context.Context, name string, _ int) ([]model.OneDriveFile, error) {
	f.searched = append(f.searched, name)
	return f.files, nil
}

func (f *fakeMicrosoft) Item(_ context.Context, id string) (*model.OneDriveFile, error) {
	for _, file := range f.files {
		if file.ID == id {
			return &file, nil
		}
	}
	return &model.OneDriveFile{ID: id, Name: id}, nil
}

func (f *fakeMicrosoft) CreateWordDoc(_ context.Context, title string) (*model.OneDriveFile, error) {
	return &model.OneDriveFile{ID: "w1", Name: title + ".docx", WebURL: "https://onedrive.example/w1"}, nil
}

func (f *fakeMicrosoft) CreateWorkbook(_ context.Context, title string) (*model.OneDriveFile, error) {
	return &model.OneDriveFile{ID: "x1", Name: title + ".xlsx", WebURL: "https://onedrive.example/x1"}, nil
}

func (f *fakeMicrosoft) UsedRange(context.Context, string) ([]model.SheetRow, error) {
	return []model.SheetRow{{Values: []string{"Item", "Cost"}}, {Values: []string{"Rent", "900"}}}, nil
}

func (f *fakeMicrosoft) AppendRow(_ context.Context, _ string, values []string) error {
	f.appended = append(f.appended, values)
	return nil
}

func (f *fakeMicrosoft) TeamsMessages(context.Context, int) ([]model.TeamsMessage, error) {
	return f.messages, nil
}

func (f *fakeMicrosoft) TeamsChannels(context.Context, int) ([]model.TeamsChannel, error) {
	return []model.TeamsChannel{{ID: "ch1", DisplayName: "General"}}, nil
}

// ---- vendors that must stay untouched ----

// 内嵌的都是 nil 接口：任何厂商调用都会 panic，Dispatch 会把它记为 KindUnexpected
type (
	untouchedGoogle    struct{ GoogleAPI }
	untouchedMicrosoft struct{ MicrosoftAPI }
	untouchedShopify   struct{ ShopifyAPI }
	untouchedSlack     struct{ SlackAPI }
	untouchedTelegram  struct{ TelegramAPI }
	untouchedDiscord   struct{ DiscordAPI }
)

type untouchedAdapters struct{}

func (untouchedAdapters) Google(context.Context, *model.OAuthToken) (GoogleAPI, error) {
	return untouchedGoogle{}, nil
}

func (untouchedAdapters) Microsoft(*model.OAuthToken) MicrosoftAPI { return untouchedMicrosoft{} }
func (untouchedAdapters) Shopify(model.ShopifyCredentials) ShopifyAPI { return untouchedShopify{} }
func (untouchedAdapters) Slack(string) SlackAPI { return untouchedSlack{} }
func (untouchedAdapters) Telegram(string) TelegramAPI { return untouchedTelegram{} }
func (untouchedAdapters) Discord(string) DiscordAPI { return untouchedDiscord{} }

var allCreds = model.Credentials{
	Google:        &model.OAuthToken{AccessToken: "g"},
	Microsoft:     &model.OAuthToken{AccessToken: "m"},
	Shopify:       &model.ShopifyCredentials{StoreURL: "x.myshopify.com", AccessToken: "s"},
	SlackToken:    "xoxb",
	TelegramToken: "123:abc",
	Discord:       &model.DiscordCredentials{BotToken: "d", GuildID: "g1"},
}

func TestDispatch_MissingParams(t *testing.T) {
	tests := []struct {
		name   string
		action model.ActionTag
		params model.Params
		want   string
	}{
		{"email date", model.ActionFetchEmails, &model.FetchEmailParams{Date: "next friday"}, "Invalid date format. Use YYYY-MM-DD."},
		{"email recipient", model.ActionSendEmail, &model.SendEmailParams{Body: "hi"}, "Who should I send the email to?"},
		{"email address", model.ActionSendEmail, &model.SendEmailParams{To: "bob"}, `"bob" is not a valid email address.`},
		{"meet time", model.ActionCreateMeet, &model.MeetingParams{}, "Please tell me the meeting time (e.g. 5pm)."},
		{"reschedule target time", model.ActionUpdateMeet, &model.MeetingParams{}, "What time should I move the meeting to?"},
		{"sheet title", model.ActionCreateSheet, &model.CreateSheetParams{}, "Please provide a name for the Google Sheet."},
		{"sheet to read", model.ActionReadSheet, &model.SheetParams{}, "Which spreadsheet should I read? Please provide its name."},
		{"sheet to update", model.ActionUpdateSheet, &model.SheetParams{Values: model.Rows{{"a"}}}, "Which spreadsheet should I update? Please provide its name."},
		{"sheet values", model.ActionUpdateSheet, &model.SheetParams{Title: "Budget"}, "Please provide the values to write."},
		{"doc title", model.ActionCreateDoc, &model.DocParams{}, "Please provide a title."},
		{"doc to read", model.ActionReadDoc, &model.DocParams{}, "Which document? Please provide its title."},
		{"doc text", model.ActionAppendDoc, &model.DocParams{Title: "Plan"}, "No text provided."},
		{"doc to append", model.ActionAppendDoc, &model.DocParams{Text: "more"}, "Which document? Please provide its title."},
		{"doc replacement", model.ActionReplaceDoc, &model.DocParams{Title: "Plan", FindText: "x"}, "Missing parameters. Tell me which text to find and what to replace it with."},
		{"doc to clear", model.ActionClearDoc, &model.DocParams{}, "Which document? Please provide its title."},
		{"course name", model.ActionCreateCourse, &model.CreateCourseParams{}, "Please provide a name for the classroom."},
		{"assignments course", model.ActionFetchAssignments, &model.CourseParams{}, "Please specify which classroom to list assignments from."},
		{"students course", model.ActionFetchStudents, &model.CourseParams{}, "Please specify a classroom name."},
		{"youtube query", model.ActionSearchYouTube, &model.YouTubeSearchParams{}, "What should I search for on YouTube?"},
		{"channel", model.ActionGetChannelStats, &model.ChannelStatsParams{}, "Please provide a channel name or ID."},
		{"form", model.ActionFetchFormResponses, &model.FormParams{}, "Which form? Please provide its name."},
		{"outlook recipient", model.ActionSendOutlookEmail, &model.SendEmailParams{}, "Who should I email?"},
		{"outlook time", model.ActionCreateOutlookEvent, &model.MeetingParams{}, "Please provide a time for the event."},
		{"word title", model.ActionCreateWordDoc, &model.OfficeFileParams{}, "Please provide a title."},
		{"excel title", model.ActionCreateExcelSheet, &model.OfficeFileParams{}, "Please provide a title."},
		{"word doc", model.ActionReadWordDoc, &model.OfficeFileParams{}, "Which Word document? Please provide its name."},
		{"excel to read", model.ActionReadExcelSheet, &model.OfficeFileParams{}, "Which Excel workbook? Please provide its name."},
		{"excel to update", model.ActionUpdateExcelSheet, &model.OfficeFileParams{Values: model.Rows{{"a"}}}, "Which Excel workbook? Please provide its name."},
		{"excel row", model.ActionUpdateExcelSheet, &model.OfficeFileParams{Title: "Budget"}, "Please provide values to append (row data)."},
		{"slack text", model.ActionSendSlackMessage, &model.SlackParams{}, "What should I send to Slack?"},
		{"telegram text", model.ActionSendTelegramMessage, &model.TelegramSendParams{ChatName: "Family"}, "What message should I send?"},
		{"telegram chat", model.ActionSendTelegramMessage, &model.TelegramSendParams{Text: "hi"}, "Which chat should I use? Please provide the group name or chat ID."},
		{"telegram op", model.ActionManageTelegramGroup, &model.TelegramManageParams{ChatID: "-1001"}, "Supported group actions: kick, pin, unpin, promote and title."},
		{"telegram kick user", model.ActionManageTelegramGroup, &model.TelegramManageParams{ChatID: "-1001", Op: "kick"}, "Which user? Please provide the user ID."},
		{"telegram pin message", model.ActionManageTelegramGroup, &model.TelegramManageParams{ChatID: "-1001", Op: "pin"}, "Which message should I pin? Please provide the message ID."},
		{"telegram title", model.ActionManageTelegramGroup, &model.TelegramManageParams{ChatID: "-1001", Op: "title"}, "What should the new group title be?"},
		{"discord text", model.ActionSendDiscordMessage, &model.DiscordParams{}, "What should I send to Discord?"},
		{"discord user", model.ActionKickDiscordUser, &model.DiscordParams{}, "Which user should I kick? Please provide the user ID."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestExecutor(nil)
			e.adapters = untouchedAdapters{}

			res := e.Dispatch(context.Background(), Request{
				Session: "s1",
				Intent:  intent(tt.action, tt.params),
				Creds:   allCreds,
			})
			require.Equal(t, model.KindMissingParam, res.Kind, res.Response.Message)
			assert.Equal(t, tt.want, res.Response.Message)
			assert.Equal(t, tt.action, res.Response.Action)
			assert.ErrorIs(t, res.Err, model.ErrInvalidParams)
			assert.Nil(t, res.Response.Data)
		})
	}
}

func dispatchGoogle(t *testing.T, g *fakeGoogle, action model.ActionTag, p model.Params) model.Result {
	t.Helper()
	e, _, _ := newTestExecutor(&fakeAdapters{google: g})
	res := e.Dispatch(context.Background(), Request{Session: "s1", Intent: intent(action, p), Creds: googleCreds})
	require.True(t, res.OK(), res.Response.Message)
	return res
}

func TestFetchFiles(t *testing.T) {
	g := &fakeGoogle{files: []model.DriveFile{{ID: "f1", Name: "Report"}, {ID: "f2", Name: "Budget"}}}
	res := dispatchGoogle(t, g, model.ActionFetchFiles, &model.FetchFileParams{})
	assert.Equal(t, "Fetched 2 files from Drive.", res.Response.Message)
	assert.Len(t, res.Response.Data, 2)
}

func TestFetchCalendar(t *testing.T) {
	t.Run("next seven days", func(t *testing.T) {
		g := &fakeGoogle{events: []model.Meeting{{EventID: "e1"}}}
		res := dispatchGoogle(t, g, model.ActionFetchCalendar, &model.MeetingParams{})
		assert.Equal(t, "Found 1 upcoming events.", res.Response.Message)
		assert.Equal(t, fixedNow, g.window[0])
		assert.Equal(t, 7*24*time.Hour, g.window[1].Sub(g.window[0]))
	})

	t.Run("empty", func(t *testing.T) {
		res := dispatchGoogle(t, &fakeGoogle{}, model.ActionFetchCalendar, &model.MeetingParams{})
		assert.Equal(t, "No upcoming events in the next 7 days.", res.Response.Message)
	})
}

func TestKeep(t *testing.T) {
	g := &fakeGoogle{}
	res := dispatchGoogle(t, g, model.ActionCreateNote, &model.NoteParams{})
	assert.Equal(t, `Created note: "New Note"`, res.Response.Message)
	assert.Equal(t, "No content", g.notes[0].TextContent)

	res = dispatchGoogle(t, g, model.ActionFetchNotes, &model.NoteParams{})
	assert.Equal(t, "Found 1 notes.", res.Response.Message)
}

func TestDocs(t *testing.T) {
	files := []model.DriveFile{{ID: "d7", Name: "Plan"}}
	with := func(s string) *string { return &s }

	tests := []struct {
		name   string
		action model.ActionTag
		params *model.DocParams
		want   string
	}{
		{"create with content", model.ActionCreateDoc, &model.DocParams{Title: "Plan", Content: "intro"}, "Doc created: Plan"},
		{"read by title", model.ActionReadDoc, &model.DocParams{Title: "Plan"}, `Read content from "Plan".`},
		{"append", model.ActionAppendDoc, &model.DocParams{Title: "Plan", Text: "more"}, `Added text to "Plan".`},
		{"replace with empty", model.ActionReplaceDoc, &model.DocParams{Title: "Plan", FindText: "draft", ReplaceText: with("")}, `Text replaced in "Plan" (2 occurrences).`},
		{"clear", model.ActionClearDoc, &model.DocParams{Title: "Plan"}, `Cleared content of "Plan".`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGoogle{files: files}
			res := dispatchGoogle(t, g, tt.action, tt.params)
			assert.Equal(t, tt.want, res.Response.Message)
		})
	}

	t.Run("content lands in the new doc", func(t *testing.T) {
		g := &fakeGoogle{}
		dispatchGoogle(t, g, model.ActionCreateDoc, &model.DocParams{Title: "Plan", Content: "intro"})
		assert.Equal(t, []string{"d1:intro"}, g.appended)
	})

	t.Run("unknown title", func(t *testing.T) {
		e, _, _ := newTestExecutor(&fakeAdapters{google: &fakeGoogle{}})
		res := e.Dispatch(context.Background(), Request{Intent: intent(model.ActionClearDoc, &model.DocParams{Title: "Ghost"}), Creds: googleCreds})
		assert.Equal(t, model.KindResolutionMiss, res.Kind)
		assert.Equal(t, `Could not find doc "Ghost".`, res.Response.Message)
	})
}

func TestUpdateSheet_ByID(t *testing.T) {
	g := &fakeGoogle{}
	res := dispatchGoogle(t, g, model.ActionUpdateSheet, &model.SheetParams{SpreadsheetID: "sp1", Values: model.Rows{{"a", "b"}}})
	assert.Equal(t, `Updated "sp1" successfully.`, res.Response.Message)
	assert.Equal(t, []string{"sp1", "Sheet1!A1"}, g.updated)
}

func TestClassroom(t *testing.T) {
	t.Run("create takes the title as name", func(t *testing.T) {
		res := dispatchGoogle(t, &fakeGoogle{}, model.ActionCreateCourse, &model.CreateCourseParams{Title: "Physics"})
		assert.Equal(t, `Created Classroom: "Physics" (Code: abc123)`, res.Response.Message)
	})

	t.Run("students filtered by name", func(t *testing.T) {
		g := &fakeGoogle{students: []model.Student{{FullName: "Alice Smith"}, {FullName: "Bob Jones"}}}
		res := dispatchGoogle(t, g, model.ActionFetchStudents, &model.CourseParams{CourseID: "c1", StudentName: "ali"})
		assert.Equal(t, "Found 1 students in the class.", res.Response.Message)
	})
}

func TestSearchYouTube(t *testing.T) {
	res := dispatchGoogle(t, &fakeGoogle{}, model.ActionSearchYouTube, &model.YouTubeSearchParams{Query: "lofi"})
	assert.Equal(t, `Found 1 videos for "lofi".`, res.Response.Message)
}

func TestMicrosoft(t *testing.T) {
	ctx := context.Background()
	msCreds := model.Credentials{Microsoft: &model.OAuthToken{AccessToken: "m"}}
	dispatch := func(m *fakeMicrosoft, action model.ActionTag, p model.Params) model.Result {
		e, _, _ := newTestExecutor(&fakeAdapters{microsoft: m})
		return e.Dispatch(ctx, Request{Intent: intent(action, p), Creds: msCreds})
	}

	t.Run("outlook inbox", func(t *testing.T) {
		res := dispatch(&fakeMicrosoft{}, model.ActionFetchOutlookEmails, &model.FetchEmailParams{})
		assert.Equal(t, "Found 1 Outlook emails.", res.Response.Message)
	})

	t.Run("outlook send default subject", func(t *testing.T) {
		m := &fakeMicrosoft{}
		res := dispatch(m, model.ActionSendOutlookEmail, &model.SendEmailParams{To: "amy@x.com", Body: "hi"})
		assert.Equal(t, "Outlook email sent successfully.", res.Response.Message)
		require.Len(t, m.sent, 1)
		assert.Equal(t, "No Subject", m.sent[0].subject)
	})

	t.Run("onedrive files", func(t *testing.T) {
		m := &fakeMicrosoft{files: []model.OneDriveFile{{ID: "1", Name: "a.txt"}}}
		res := dispatch(m, model.ActionFetchOneDriveFiles, &model.FetchFileParams{})
		assert.Equal(t, "Found 1 OneDrive files.", res.Response.Message)
	})

	t.Run("create word and excel", func(t *testing.T) {
		res := dispatch(&fakeMicrosoft{}, model.ActionCreateWordDoc, &model.OfficeFileParams{Title: "Notes"})
		assert.Equal(t, "Word document created: \"Notes.docx\"\nClick to Open: https://onedrive.example/w1", res.Response.Message)

		res = dispatch(&fakeMicrosoft{}, model.ActionCreateExcelSheet, &model.OfficeFileParams{Title: "Budget"})
		assert.Equal(t, "Excel workbook created: \"Budget.xlsx\"\nClick to Open: https://onedrive.example/x1", res.Response.Message)
	})

	t.Run("read excel by name", func(t *testing.T) {
		m := &fakeMicrosoft{files: []model.OneDriveFile{{ID: "x1", Name: "Budget"}}}
		res := dispatch(m, model.ActionReadExcelSheet, &model.OfficeFileParams{Title: "Budget"})
		assert.Equal(t, `Read 2 rows from "Budget".`, res.Response.Message)
		assert.Equal(t, []string{"Budget"}, m.searched)
	})

	t.Run("append excel row by id", func(t *testing.T) {
		m := &fakeMicrosoft{files: []model.OneDriveFile{{ID: "x1", Name: "Budget"}}}
		res := dispatch(m, model.ActionUpdateExcelSheet, &model.OfficeFileParams{SpreadsheetID: "x1", Values: model.Rows{{"Food", "200"}}})
		assert.Equal(t, `Added row to "Budget".`, res.Response.Message)
		assert.Equal(t, [][]string{{"Food", "200"}}, m.appended)
	})

	t.Run("word doc not found", func(t *testing.T) {
		res := dispatch(&fakeMicrosoft{}, model.ActionReadWordDoc, &model.OfficeFileParams{Title: "Ghost"})
		assert.Equal(t, model.KindResolutionMiss, res.Kind)
		assert.Equal(t, `Could not find Word doc "Ghost".`, res.Response.Message)
	})

	t.Run("teams messages filtered by search", func(t *testing.T) {
		m := &fakeMicrosoft{messages: []model.TeamsMessage{{ID: "1", Body: "Deploy at noon"}, {ID: "2", Body: "Lunch?"}}}
		res := dispatch(m, model.ActionFetchTeamsMessages, &model.TeamsParams{Search: "deploy"})
		assert.Equal(t, "Found 1 recent Teams messages.", res.Response.Message)
	})

	t.Run("teams channels", func(t *testing.T) {
		res := dispatch(&fakeMicrosoft{}, model.ActionFetchTeamsChannels, &model.TeamsParams{})
		assert.Equal(t, "Found 1 channels.", res.Response.Message)
	})
}
