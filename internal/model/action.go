package model

// ActionTag 意图动作类型（封闭枚举）
type ActionTag string

const (
	ActionFetchEmails   ActionTag = "fetch_emails"
	ActionSendEmail     ActionTag = "send_email"
	ActionFetchFiles    ActionTag = "fetch_files"
	ActionFetchOrders   ActionTag = "fetch_orders"
	ActionCreateMeet    ActionTag = "create_meet"
	ActionUpdateMeet    ActionTag = "update_meet"
	ActionDeleteMeet    ActionTag = "delete_meet"
	ActionFetchCalendar ActionTag = "fetch_calendar"

	ActionCreateSheet ActionTag = "create_sheet"
	ActionReadSheet   ActionTag = "read_sheet"
	ActionUpdateSheet ActionTag = "update_sheet"

	ActionCreateDoc  ActionTag = "create_doc"
	ActionReadDoc    ActionTag = "read_doc"
	ActionAppendDoc  ActionTag = "append_doc"
	ActionReplaceDoc ActionTag = "replace_doc"
	ActionClearDoc   ActionTag = "clear_doc"

	ActionFetchNotes ActionTag = "fetch_notes"
	ActionCreateNote ActionTag = "create_note"

	ActionCreateCourse     ActionTag = "create_course"
	ActionFetchCourses     ActionTag = "fetch_courses"
	ActionFetchAssignments ActionTag = "fetch_assignments"
	ActionFetchStudents    ActionTag = "fetch_students"

	ActionFetchTeamsMessages ActionTag = "fetch_teams_messages"
	ActionFetchTeamsChannels ActionTag = "fetch_teams_channels"

	ActionFetchOutlookEmails ActionTag = "fetch_outlook_emails"
	ActionSendOutlookEmail   ActionTag = "send_outlook_email"
	ActionCreateOutlookEvent ActionTag = "create_outlook_event"
	ActionFetchOneDriveFiles ActionTag = "fetch_onedrive_files"
	ActionCreateWordDoc      ActionTag = "create_word_doc"
	ActionReadWordDoc        ActionTag = "read_word_doc"
	ActionCreateExcelSheet   ActionTag = "create_excel_sheet"
	ActionReadExcelSheet     ActionTag = "read_excel_sheet"
	ActionUpdateExcelSheet   ActionTag = "update_excel_sheet"

	ActionFetchTelegramUpdates ActionTag = "fetch_telegram_updates"
	ActionSendTelegramMessage  ActionTag = "send_telegram_message"
	ActionManageTelegramGroup  ActionTag = "manage_telegram_group"

	ActionSearchYouTube   ActionTag = "search_youtube"
	ActionGetChannelStats ActionTag = "get_channel_stats"

	ActionCreateForm         ActionTag = "create_form"
	ActionFetchFormResponses ActionTag = "fetch_form_responses"

	ActionFetchDiscordMessages ActionTag = "fetch_discord_messages"
	ActionSendDiscordMessage   ActionTag = "send_discord_message"
	ActionKickDiscordUser      ActionTag = "kick_discord_user"

	ActionFetchSlackHistory ActionTag = "fetch_slack_history"
	ActionSendSlackMessage  ActionTag = "send_slack_message"

	ActionHelp ActionTag = "help"
	ActionNone ActionTag = "none"
)

// ParseActionTag 将字符串解析为已知动作；未知动作返回 false
func ParseActionTag(s string) (ActionTag, bool) {
	tag := ActionTag(s)
	_, ok := paramFactories[tag]
	return tag, ok
}

// Actions 返回全部已知动作（无序）
func Actions() []ActionTag {
	out := make([]ActionTag, 0, len(paramFactories))
	for tag := range paramFactories {
		out = append(out, tag)
	}
	return out
}

// Intent 从自由文本中解析出的结构化意图
type Intent struct {
	Action ActionTag `json:"action"`
	// Params 与 Action 对应的强类型参数，见 params.go
	Params          Params `json:"parameters"`
	UsesContext     bool   `json:"usesContext"`
	NaturalResponse string `json:"naturalResponse"`
}

// ParamsOf 取出意图参数；缺失或类型不符时返回零值参数，调用方无需判空
func ParamsOf[T any](it Intent) *T {
	if p, ok := any(it.Params).(*T); ok && p != nil {
		return p
	}
	return new(T)
}
