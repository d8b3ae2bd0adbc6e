package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Params 动作参数的和类型，每个 ActionTag 对应一个具体结构体
type Params interface {
	isParams()
}

// Paging 列表类动作共享的条数限制
type Paging struct {
	Limit FlexInt `json:"limit,omitempty"`
}

// LimitOr 返回 limit，未指定时返回 def
func (p Paging) LimitOr(def int) int {
	if p.Limit > 0 {
		return int(p.Limit)
	}
	return def
}

func (p *Paging) SetLimit(n int) { p.Limit = FlexInt(n) }

// ClampLimit 将 limit 限制在 max 以内
func (p *Paging) ClampLimit(max int) {
	if int(p.Limit) > max {
		p.Limit = FlexInt(max)
	}
}

// FetchEmailParams fetch_emails
type FetchEmailParams struct {
	Paging
	Search string `json:"search,omitempty"`
	Filter string `json:"filter,omitempty"`
	Date   string `json:"date,omitempty"` // YYYY-MM-DD
}

// SendEmailParams send_email / send_outlook_email
type SendEmailParams struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// FetchFileParams fetch_files / fetch_onedrive_files
type FetchFileParams struct {
	Paging
	Search string `json:"search,omitempty"`
}

// FetchOrderParams fetch_orders
type FetchOrderParams struct {
	Paging
	Status       string `json:"status,omitempty"`
	Filter       string `json:"filter,omitempty"`
	CreatedAtMin string `json:"created_at_min,omitempty"`
	CreatedAtMax string `json:"created_at_max,omitempty"`
}

// MeetingParams create_meet / update_meet / delete_meet / fetch_calendar / create_outlook_event
type MeetingParams struct {
	EventID string `json:"eventId,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
	Date    string `json:"date,omitempty"` // YYYY-MM-DD
	Time    string `json:"time,omitempty"` // 5pm / 17:00
	// FromTime 改期时用于定位原会议的时间
	FromTime string `json:"fromTime,omitempty"`
	EndTime  string `json:"endTime,omitempty"`
}

// CreateSheetParams create_sheet
type CreateSheetParams struct {
	Title     string `json:"title,omitempty"`
	SheetName string `json:"sheetName,omitempty"`
}

// SheetParams read_sheet / update_sheet
type SheetParams struct {
	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	Title         string `json:"title,omitempty"`
	Range         string `json:"range,omitempty"`
	Values        Rows   `json:"values,omitempty"`
}

// DocParams create_doc / read_doc / append_doc / replace_doc / clear_doc
type DocParams struct {
	DocumentID string `json:"documentId,omitempty"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
	Text       string `json:"text,omitempty"`
	FindText   string `json:"findText,omitempty"`
	// ReplaceText 允许替换为空串，因此用指针区分未指定
	ReplaceText *string `json:"replaceText,omitempty"`
}

// NoteParams fetch_notes / create_note
type NoteParams struct {
	Paging
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// CreateCourseParams create_course
type CreateCourseParams struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Section     string `json:"section,omitempty"`
	Description string `json:"description,omitempty"`
	Room        string `json:"room,omitempty"`
}

// CourseParams fetch_courses / fetch_assignments / fetch_students
type CourseParams struct {
	Paging
	Status      string `json:"status,omitempty"`
	CourseID    string `json:"courseId,omitempty"`
	CourseName  string `json:"courseName,omitempty"`
	StudentName string `json:"studentName,omitempty"`
}

// TeamsParams fetch_teams_messages / fetch_teams_channels
type TeamsParams struct {
	Paging
	Search string `json:"search,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// OfficeFileParams Word / Excel
type OfficeFileParams struct {
	Title         string `json:"title,omitempty"`
	DocumentID    string `json:"documentId,omitempty"`
	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	Values        Rows   `json:"values,omitempty"`
}

// TelegramFetchParams fetch_telegram_updates
type TelegramFetchParams struct {
	Paging
	ChatName string `json:"chatName,omitempty"`
	Filter   string `json:"filter,omitempty"`
}

// TelegramSendParams send_telegram_message
type TelegramSendParams struct {
	ChatID           FlexString `json:"chatId,omitempty"`
	ChatName         string     `json:"chatName,omitempty"`
	Text             string     `json:"text,omitempty"`
	ReplyToMessageID FlexInt    `json:"replyToMessageId,omitempty"`
}

// TelegramManageParams manage_telegram_group
type TelegramManageParams struct {
	ChatID    FlexString `json:"chatId,omitempty"`
	ChatName  string     `json:"chatName,omitempty"`
	Op        string     `json:"action,omitempty"` // kick, pin, unpin, promote, title
	UserID    FlexInt    `json:"userId,omitempty"`
	MessageID FlexInt    `json:"messageId,omitempty"`
	Value     string     `json:"value,omitempty"`
}

// YouTubeSearchParams search_youtube
type YouTubeSearchParams struct {
	Paging
	Query string `json:"query,omitempty"`
}

// ChannelStatsParams get_channel_stats
type ChannelStatsParams struct {
	ChannelName string `json:"channelName,omitempty"`
	ChannelID   string `json:"channelId,omitempty"`
}

// FormParams create_form / fetch_form_responses
type FormParams struct {
	FormID string `json:"formId,omitempty"`
	Title  string `json:"title,omitempty"`
}

// DiscordParams fetch_discord_messages / send_discord_message / kick_discord_user
type DiscordParams struct {
	Paging
	ChannelID FlexString `json:"channelId,omitempty"`
	GuildID   FlexString `json:"guildId,omitempty"`
	Text      string     `json:"text,omitempty"`
	UserID    FlexString `json:"userId,omitempty"`
}

// SlackParams fetch_slack_history / send_slack_message
type SlackParams struct {
	Paging
	ChannelName string `json:"channelName,omitempty"`
	Text        string `json:"text,omitempty"`
}

// NoParams help / none
type NoParams struct{}

func (*FetchEmailParams) isParams()     {}
func (*SendEmailParams) isParams()      {}
func (*FetchFileParams) isParams()      {}
func (*FetchOrderParams) isParams()     {}
func (*MeetingParams) isParams()        {}
func (*CreateSheetParams) isParams()    {}
func (*SheetParams) isParams()          {}
func (*DocParams) isParams()            {}
func (*NoteParams) isParams()           {}
func (*CreateCourseParams) isParams()   {}
func (*CourseParams) isParams()         {}
func (*TeamsParams) isParams()          {}
func (*OfficeFileParams) isParams()     {}
func (*TelegramFetchParams) isParams()  {}
func (*TelegramSendParams) isParams()   {}
func (*TelegramManageParams) isParams() {}
func (*YouTubeSearchParams) isParams()  {}
func (*ChannelStatsParams) isParams()   {}
func (*FormParams) isParams()           {}
func (*DiscordParams) isParams()        {}
func (*SlackParams) isParams()          {}
func (*NoParams) isParams()             {}

// paramFactories 动作 -> 参数结构体，同时也是已知动作的注册表
var paramFactories = map[ActionTag]func() Params{
	ActionFetchEmails:   func() Params { return &FetchEmailParams{} },
	ActionSendEmail:     func() Params { return &SendEmailParams{} },
	ActionFetchFiles:    func() Params { return &FetchFileParams{} },
	ActionFetchOrders:   func() Params { return &FetchOrderParams{} },
	ActionCreateMeet:    func() Params { return &MeetingParams{} },
	ActionUpdateMeet:    func() Params { return &MeetingParams{} },
	ActionDeleteMeet:    func() Params { return &MeetingParams{} },
	ActionFetchCalendar: func() Params { return &MeetingParams{} },

	ActionCreateSheet: func() Params { return &CreateSheetParams{} },
	ActionReadSheet:   func() Params { return &SheetParams{} },
	ActionUpdateSheet: func() Params { return &SheetParams{} },

	ActionCreateDoc:  func() Params { return &DocParams{} },
	ActionReadDoc:    func() Params { return &DocParams{} },
	ActionAppendDoc:  func() Params { return &DocParams{} },
	ActionReplaceDoc: func() Params { return &DocParams{} },
	ActionClearDoc:   func() Params { return &DocParams{} },

	ActionFetchNotes: func() Params { return &NoteParams{} },
	ActionCreateNote: func() Params { return &NoteParams{} },

	ActionCreateCourse:     func() Params { return &CreateCourseParams{} },
	ActionFetchCourses:     func() Params { return &CourseParams{} },
	ActionFetchAssignments: func() Params { return &CourseParams{} },
	ActionFetchStudents:    func() Params { return &CourseParams{} },

	ActionFetchTeamsMessages: func() Params { return &TeamsParams{} },
	ActionFetchTeamsChannels: func() Params { return &TeamsParams{} },

	ActionFetchOutlookEmails: func() Params { return &FetchEmailParams{} },
	ActionSendOutlookEmail:   func() Params { return &SendEmailParams{} },
	ActionCreateOutlookEvent: func() Params { return &MeetingParams{} },
	ActionFetchOneDriveFiles: func() Params { return &FetchFileParams{} },
	ActionCreateWordDoc:      func() Params { return &OfficeFileParams{} },
	ActionReadWordDoc:        func() Params { return &OfficeFileParams{} },
	ActionCreateExcelSheet:   func() Params { return &OfficeFileParams{} },
	ActionReadExcelSheet:     func() Params { return &OfficeFileParams{} },
	ActionUpdateExcelSheet:   func() Params { return &OfficeFileParams{} },

	ActionFetchTelegramUpdates: func() Params { return &TelegramFetchParams{} },
	ActionSendTelegramMessage:  func() Params { return &TelegramSendParams{} },
	ActionManageTelegramGroup:  func() Params { return &TelegramManageParams{} },

	ActionSearchYouTube:   func() Params { return &YouTubeSearchParams{} },
	ActionGetChannelStats: func() Params { return &ChannelStatsParams{} },

	ActionCreateForm:         func() Params { return &FormParams{} },
	ActionFetchFormResponses: func() Params { return &FormParams{} },

	ActionFetchDiscordMessages: func() Params { return &DiscordParams{} },
	ActionSendDiscordMessage:   func() Params { return &DiscordParams{} },
	ActionKickDiscordUser:      func() Params { return &DiscordParams{} },

	ActionFetchSlackHistory: func() Params { return &SlackParams{} },
	ActionSendSlackMessage:  func() Params { return &SlackParams{} },

	ActionHelp: func() Params { return &NoParams{} },
	ActionNone: func() Params { return &NoParams{} },
}

// NewParams 返回动作对应的空参数；未知动作返回 NoParams
func NewParams(action ActionTag) Params {
	if f, ok := paramFactories[action]; ok {
		return f()
	}
	return &NoParams{}
}

// DecodeParams 将原始 JSON 参数解码为动作对应的强类型参数。
// 未出现的字段保持零值，表示"未指定"。
func DecodeParams(action ActionTag, raw []byte) (Params, error) {
	p := NewParams(action)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return p, nil
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParams, action, err)
	}
	return p, nil
}
