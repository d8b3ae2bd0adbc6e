package model

import "time"

// 以下为各厂商资源的归一化记录，Response.Data 中只会出现这些类型

// Email Gmail 邮件摘要
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"`
}

// DriveFile Google Drive 文件
type DriveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// Meeting 带 Meet 链接的日历事件，也是会议台账的条目
type Meeting struct {
	EventID     string    `json:"eventId"`
	JoinLink    string    `json:"meetLink"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Order Shopify 订单
type Order struct {
	ID                int64    `json:"id"`
	OrderNumber       int64    `json:"order_number"`
	Customer          Customer `json:"customer"`
	TotalPrice        string   `json:"total_price"`
	Currency          string   `json:"currency,omitempty"`
	CreatedAt         string   `json:"created_at"`
	FinancialStatus   string   `json:"financial_status"`
	FulfillmentStatus string   `json:"fulfillment_status,omitempty"`
}

// Customer 订单客户
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Spreadsheet 新建的表格
type Spreadsheet struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
}

// SheetRow 表格行
type SheetRow struct {
	RowNumber int      `json:"rowNumber,omitempty"`
	Values    []string `json:"values"`
}

// Doc Google 文档
type Doc struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
}

// DocContent 文档正文
type DocContent struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`
}

// Note Google Keep 笔记
type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	TextContent string `json:"textContent"`
	URL         string `json:"url,omitempty"`
}

// Course Classroom 课程
type Course struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Section            string `json:"section,omitempty"`
	DescriptionHeading string `json:"descriptionHeading,omitempty"`
	Room               string `json:"room,omitempty"`
	EnrollmentCode     string `json:"enrollmentCode,omitempty"`
	AlternateLink      string `json:"alternateLink,omitempty"`
	CourseState        string `json:"courseState,omitempty"`
}

// Assignment Classroom 作业
type Assignment struct {
	ID            string   `json:"id"`
	CourseID      string   `json:"courseId"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	DueDate       *DueDate `json:"dueDate,omitempty"`
	DueTime       *DueTime `json:"dueTime,omitempty"`
	AlternateLink string   `json:"alternateLink,omitempty"`
	State         string   `json:"state,omitempty"`
}

type DueDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type DueTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Student Classroom 学生
type Student struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"emailAddress,omitempty"`
}

// OutlookEmail Outlook 邮件
type OutlookEmail struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	BodyPreview      string `json:"bodyPreview"`
	SenderName       string `json:"senderName,omitempty"`
	SenderAddress    string `json:"senderAddress,omitempty"`
	ReceivedDateTime string `json:"receivedDateTime"`
	WebLink          string `json:"webLink,omitempty"`
}

// OutlookEvent Outlook 日历事件
type OutlookEvent struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Start    string `json:"start"`
	End      string `json:"end"`
	TimeZone string `json:"timeZone"`
	WebLink  string `json:"webLink,omitempty"`
}

// OneDriveFile OneDrive 文件（Word / Excel 也用此结构）
type OneDriveFile struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	WebURL               string `json:"webUrl"`
	Size                 int64  `json:"size,omitempty"`
	LastModifiedDateTime string `json:"lastModifiedDateTime,omitempty"`
	MimeType             string `json:"mimeType,omitempty"`
	IsFolder             bool   `json:"isFolder,omitempty"`
}

// TeamsMessage Teams 频道消息
type TeamsMessage struct {
	ID              string `json:"id"`
	Subject         string `json:"subject,omitempty"`
	Body            string `json:"body"`
	From            string `json:"from,omitempty"`
	CreatedDateTime string `json:"createdDateTime"`
	WebURL          string `json:"webUrl,omitempty"`
}

// TeamsChannel Teams 频道
type TeamsChannel struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description,omitempty"`
	MembershipType string `json:"membershipType,omitempty"`
	WebURL         string `json:"webUrl,omitempty"`
}

// TelegramMessage Telegram 消息
type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from,omitempty"`
	Chat      TelegramChat  `json:"chat"`
	Date      int64         `json:"date"`
	Text      string        `json:"text,omitempty"`
}

// TelegramChat Telegram 会话
type TelegramChat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// TelegramUser Telegram 用户
type TelegramUser struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// TelegramUpdate getUpdates 返回的单条更新
type TelegramUpdate struct {
	UpdateID      int64            `json:"update_id"`
	Message       *TelegramMessage `json:"message,omitempty"`
	ChannelPost   *TelegramMessage `json:"channel_post,omitempty"`
	EditedMessage *TelegramMessage `json:"edited_message,omitempty"`
}

// ChatEntry 名称 -> ID 目录中的一条会话
type ChatEntry struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title,omitempty"`
	Username string    `json:"username,omitempty"`
	LastSeen time.Time `json:"lastSeen"`
}

// Video YouTube 视频
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ChannelTitle string `json:"channelTitle"`
	PublishTime  string `json:"publishTime"`
	VideoURL     string `json:"videoUrl"`
}

// ChannelStats YouTube 频道统计
type ChannelStats struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	CustomURL       string `json:"customUrl,omitempty"`
	SubscriberCount string `json:"subscriberCount"`
	ViewCount       string `json:"viewCount"`
	VideoCount      string `json:"videoCount"`
	ThumbnailURL    string `json:"thumbnailUrl"`
}

// Form Google 表单
type Form struct {
	FormID        string `json:"formId"`
	Title         string `json:"title"`
	DocumentTitle string `json:"documentTitle,omitempty"`
	ResponderURI  string `json:"responderUri"`
	RevisionID    string `json:"revisionId,omitempty"`
	FormURI       string `json:"formUri,omitempty"`
}

// FormResponse 表单回复
type FormResponse struct {
	ResponseID        string       `json:"responseId"`
	CreateTime        string       `json:"createTime"`
	LastSubmittedTime string       `json:"lastSubmittedTime"`
	Answers           []FormAnswer `json:"answers"`
	RespondentEmail   string       `json:"respondentEmail,omitempty"`
}

type FormAnswer struct {
	QuestionID  string   `json:"questionId"`
	TextAnswers []string `json:"textAnswers"`
}

// DiscordMessage Discord 消息
type DiscordMessage struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsBot     bool      `json:"isBot"`
}

// SlackMessage Slack 消息
type SlackMessage struct {
	User string `json:"user"`
	Text string `json:"text"`
	TS   string `json:"ts"`
}
