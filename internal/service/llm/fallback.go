package llm

import (
	"strings"

	"saas-agent/internal/model"
)

// HelpMessage 规则表兜底时的帮助文本
const HelpMessage = "I can help with Gmail, Drive, Classroom, Shopify, Google Meet, Sheets, Docs, Keep, Teams, Telegram, Slack, YouTube and Forms."

// contextPhrases 指代之前创建的会议
var contextPhrases = []string{"this meet", "that meet", "that link", "previous meeting", "the meeting"}

type ctxMode int

const (
	ctxOff ctxMode = iota
	// ctxPhrase usesContext 取决于文本中是否有指代短语
	ctxPhrase
	ctxOn
)

type rule struct {
	when   func(q string) bool
	action model.ActionTag
	init   func(p model.Params)
	ctx    ctxMode
	reply  string
}

func has(words ...string) func(string) bool {
	return func(q string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

func all(preds ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, p := range preds {
			if !p(q) {
				return false
			}
		}
		return true
	}
}

func limit(n int) func(model.Params) {
	return func(p model.Params) {
		if lp, ok := p.(interface{ SetLimit(int) }); ok {
			lp.SetLimit(n)
		}
	}
}

// rules 按优先级排列，第一条命中的规则生效
var rules = []rule{
	// Slack
	{when: all(has("slack"), has("send", "post", "message", "say")), action: model.ActionSendSlackMessage,
		reply: "I can send that to Slack. Which channel?"},
	{when: has("slack"), action: model.ActionFetchSlackHistory, init: limit(10),
		reply: "Checking Slack messages..."},

	// Telegram
	{when: all(has("telegram"), has("send", "tell", "reply")), action: model.ActionSendTelegramMessage,
		reply: "Who should I message on Telegram?"},
	{when: all(has("telegram"), has("kick", "ban", "pin")), action: model.ActionManageTelegramGroup,
		reply: "I can manage the group. What is the action?"},
	{when: has("telegram"), action: model.ActionFetchTelegramUpdates, init: limit(5),
		reply: "Checking for new Telegram messages..."},

	// YouTube
	{when: all(has("youtube"), has("channel", "subscribers", "stats")), action: model.ActionGetChannelStats,
		reply: "I can get channel stats. Which channel?"},
	{when: has("youtube"), action: model.ActionSearchYouTube, init: limit(5),
		reply: "Searching YouTube..."},

	// Forms
	{when: all(has("form"), has("google", "create", "response"), has("create", "new")), action: model.ActionCreateForm,
		init:  func(p model.Params) { p.(*model.FormParams).Title = "Untitled Form" },
		reply: "Creating a new Google Form."},
	{when: all(has("form"), has("google", "create", "response"), has("response", "answer")), action: model.ActionFetchFormResponses,
		reply: "Fetching form responses."},

	// Outlook
	{when: all(has("outlook"), has("email", "mail"), has("send")), action: model.ActionSendOutlookEmail,
		reply: "Who should I email via Outlook?"},
	{when: all(has("outlook"), has("email", "mail")), action: model.ActionFetchOutlookEmails, init: limit(5),
		reply: "Checking your Outlook emails."},
	{when: all(has("outlook"), has("calendar", "event", "meeting")), action: model.ActionCreateOutlookEvent,
		reply: "I can schedule that in Outlook. What time?"},

	// Word / Excel / OneDrive
	{when: all(has("word"), has("doc", "file"), has("create", "new")), action: model.ActionCreateWordDoc,
		reply: "Creating a new Word document."},
	{when: all(has("word"), has("doc", "file"), has("read", "view")), action: model.ActionReadWordDoc,
		reply: "Reading the Word document."},
	{when: all(has("excel"), has("create", "new")), action: model.ActionCreateExcelSheet,
		reply: "Creating a new Excel workbook."},
	{when: all(has("excel"), has("update", "add")), action: model.ActionUpdateExcelSheet,
		reply: "Updating the Excel sheet."},
	{when: has("excel"), action: model.ActionReadExcelSheet,
		reply: "Reading the Excel sheet."},
	{when: has("onedrive"), action: model.ActionFetchOneDriveFiles, init: limit(5),
		reply: "Fetching OneDrive files."},

	// Teams
	{when: all(has("teams", "message", "chat"), has("channel")), action: model.ActionFetchTeamsChannels, init: limit(10),
		reply: "Fetching your Teams channels..."},
	{when: has("teams", "message", "chat"), action: model.ActionFetchTeamsMessages, init: limit(5),
		reply: "Fetching your latest Teams messages..."},

	// Classroom
	{when: all(has("classroom", "class", "course", "assignment", "student"), has("create", "new")), action: model.ActionCreateCourse,
		init:  func(p model.Params) { p.(*model.CreateCourseParams).Name = "New Classroom" },
		reply: "I can create a new Google Classroom for you. What should I name it?"},
	{when: all(has("classroom", "class", "course", "assignment", "student"), has("assignment", "homework")), action: model.ActionFetchAssignments, init: limit(10),
		reply: "Fetching your latest assignments."},
	{when: all(has("classroom", "class", "course", "assignment", "student"), has("student", "people")), action: model.ActionFetchStudents,
		reply: "Fetching students from your class."},
	{when: has("classroom", "class", "course", "assignment", "student"), action: model.ActionFetchCourses, init: limit(10),
		reply: "Fetching your Google Classrooms."},

	// Gmail / Drive / Shopify
	{when: all(has("send"), has("email")), action: model.ActionSendEmail, ctx: ctxPhrase,
		reply: "Who should I send the email to?"},
	{when: has("email", "gmail"), action: model.ActionFetchEmails, init: limit(50),
		reply: "Fetching your recent emails."},
	{when: has("drive", "file"), action: model.ActionFetchFiles, init: limit(50),
		reply: "Fetching your Drive files."},
	{when: has("order", "shopify"), action: model.ActionFetchOrders, init: limit(50),
		reply: "Fetching your Shopify orders."},

	// Calendar / Meet
	{when: has("calendar", "upcoming"), action: model.ActionFetchCalendar,
		reply: "Fetching your upcoming calendar events."},
	{when: all(has("meet"), has("delete", "cancel")), action: model.ActionDeleteMeet, ctx: ctxPhrase,
		reply: "I can delete the last created Google Meet for you."},
	{when: all(has("meet"), has("update", "reschedule", "move")), action: model.ActionUpdateMeet, ctx: ctxPhrase,
		reply: "I can reschedule the last created Google Meet. Please provide new date and/or time."},
	{when: has("meet"), action: model.ActionCreateMeet, ctx: ctxPhrase,
		reply: "I can create a Google Meet. Please provide a date and time if needed."},

	// Sheets
	{when: all(has("sheet", "spreadsheet"), has("create", "new")), action: model.ActionCreateSheet,
		reply: "I can create a new Google Sheet for you."},
	{when: all(has("sheet", "spreadsheet"), has("read", "view", "show")), action: model.ActionReadSheet, ctx: ctxOn,
		reply: "I can read data from the sheet."},
	{when: all(has("sheet", "spreadsheet"), has("update", "edit", "change")), action: model.ActionUpdateSheet, ctx: ctxOn,
		reply: "I can update values in the sheet."},

	// Docs
	{when: all(has("doc", "document"), has("create", "new")), action: model.ActionCreateDoc,
		reply: "I can create a new Google Doc for you."},
	{when: all(has("doc", "document"), has("read", "view", "open")), action: model.ActionReadDoc, ctx: ctxOn,
		reply: "I can read the document content."},
	{when: all(has("doc", "document"), has("append", "add")), action: model.ActionAppendDoc, ctx: ctxOn,
		reply: "I can add content to the document."},
	{when: all(has("doc", "document"), has("replace")), action: model.ActionReplaceDoc, ctx: ctxOn,
		reply: "I can replace text in the document."},
	{when: all(has("doc", "document"), has("clear")), action: model.ActionClearDoc, ctx: ctxOn,
		reply: "I can clear the document."},

	// Discord
	{when: all(has("discord"), has("send", "post", "message")), action: model.ActionSendDiscordMessage,
		reply: "I can send that to Discord. Which channel ID should I use?"},
	{when: all(has("discord"), has("kick", "remove")), action: model.ActionKickDiscordUser,
		reply: "I can kick that user. Please provide their Discord User ID."},
	{when: has("discord"), action: model.ActionFetchDiscordMessages, init: limit(10),
		reply: "Checking Discord messages..."},

	// Keep
	{when: all(has("note", "keep", "list"), has("create", "new", "add")), action: model.ActionCreateNote,
		reply: "I can create a new note in Google Keep."},
	{when: has("note", "keep", "list"), action: model.ActionFetchNotes, init: limit(10),
		reply: "Fetching your latest notes from Google Keep."},
}

// Fallback 关键词规则表：对小写文本依次匹配，全部未命中时返回 help
func Fallback(text string) model.Intent {
	q := strings.ToLower(text)
	for _, r := range rules {
		if !r.when(q) {
			continue
		}
		params := model.NewParams(r.action)
		if r.init != nil {
			r.init(params)
		}
		uses := false
		switch r.ctx {
		case ctxPhrase:
			uses = has(contextPhrases...)(q)
		case ctxOn:
			uses = true
		}
		return model.Intent{Action: r.action, Params: params, UsesContext: uses, NaturalResponse: r.reply}
	}
	return model.Intent{Action: model.ActionHelp, Params: model.NewParams(model.ActionHelp), NaturalResponse: HelpMessage}
}
