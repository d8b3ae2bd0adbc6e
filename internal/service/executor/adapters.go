package executor

import (
	"context"
	"time"

	"google.golang.org/api/option"

	"saas-agent/config"
	"saas-agent/internal/client/discord"
	"saas-agent/internal/client/google"
	"saas-agent/internal/client/microsoft"
	"saas-agent/internal/client/shopify"
	"saas-agent/internal/client/slack"
	"saas-agent/internal/client/telegram"
	"saas-agent/internal/model"
)

// GoogleAPI Gmail、Drive、Calendar、Sheets、Docs、Keep、Classroom、YouTube、Forms
type GoogleAPI interface {
	ListEmails(ctx context.Context, q google.EmailQuery) ([]model.Email, error)
	SendEmail(ctx context.Context, to, subject, body string) error

	RecentFiles(ctx context.Context, limit int) ([]model.DriveFile, error)
	SearchFiles(ctx context.Context, name, mimeType string, limit int) ([]model.DriveFile, error)

	CreateMeet(ctx context.Context, summary, description string, start, end time.Time) (*model.Meeting, error)
	MoveEvent(ctx context.Context, eventID string, start, end time.Time) (*model.Meeting, error)
	DeleteEvent(ctx context.Context, eventID string) error
	UpcomingEvents(ctx context.Context, from, to time.Time, limit int) ([]model.Meeting, error)

	CreateSpreadsheet(ctx context.Context, title, sheetName string) (*model.Spreadsheet, error)
	ReadRange(ctx context.Context, spreadsheetID, rng string) ([]model.SheetRow, error)
	UpdateRange(ctx context.Context, spreadsheetID, rng string, values model.Rows) error

	CreateDoc(ctx context.Context, title string) (*model.Doc, error)
	ReadDoc(ctx context.Context, documentID string) (*model.DocContent, error)
	AppendText(ctx context.Context, documentID, text string) error
	ReplaceText(ctx context.Context, documentID, find, replace string) (int64, error)
	ClearDoc(ctx context.Context, documentID string) error

	ListNotes(ctx context.Context, limit int) ([]model.Note, error)
	CreateNote(ctx context.Context, title, content string) (*model.Note, error)

	ListCourses(ctx context.Context, limit int, status string) ([]model.Course, error)
	CreateCourse(ctx context.Context, p model.CreateCourseParams) (*model.Course, error)
	ListAssignments(ctx context.Context, courseID string, limit int) ([]model.Assignment, error)
	ListStudents(ctx context.Context, courseID string) ([]model.Student, error)

	SearchVideos(ctx context.Context, query string, limit int) ([]model.Video, error)
	ChannelStats(ctx context.Context, channelName, channelID string) ([]model.ChannelStats, error)

	CreateForm(ctx context.Context, title string) (*model.Form, error)
	FormResponses(ctx context.Context, formID string) ([]model.FormResponse, error)
}

// MicrosoftAPI Outlook、OneDrive、Word/Excel、Teams（Graph）
type MicrosoftAPI interface {
	Messages(ctx context.Context, top int, search string) ([]model.OutlookEmail, error)
	SendMail(ctx context.Context, to, subject, body string) error
	CreateEvent(ctx context.Context, subject, body, start, end, timeZone string) (*model.OutlookEvent, error)

	RootFiles(ctx context.Context, top int) ([]model.OneDriveFile, error)
	SearchFiles(ctx context.Context, name string, top int) ([]model.OneDriveFile, error)
	Item(ctx context.Context, id string) (*model.OneDriveFile, error)
	CreateWordDoc(ctx context.Context, title string) (*model.OneDriveFile, error)
	CreateWorkbook(ctx context.Context, title string) (*model.OneDriveFile, error)
	UsedRange(ctx context.Context, itemID string) ([]model.SheetRow, error)
	AppendRow(ctx context.Context, itemID string, values []string) error

	TeamsMessages(ctx context.Context, limit int) ([]model.TeamsMessage, error)
	TeamsChannels(ctx context.Context, limit int) ([]model.TeamsChannel, error)
}

type ShopifyAPI interface {
	Orders(ctx context.Context, q shopify.OrderQuery) ([]model.Order, error)
}

type SlackAPI interface {
	ListChannels(ctx context.Context) ([]slack.Channel, error)
	History(ctx context.Context, channelID string, limit int) ([]model.SlackMessage, error)
	SendMessage(ctx context.Context, channel, text string) error
}

type TelegramAPI interface {
	GetUpdates(ctx context.Context) ([]model.TelegramUpdate, error)
	SendMessage(ctx context.Context, chatID, text string, replyTo int64) (*model.TelegramMessage, error)
	BanChatMember(ctx context.Context, chatID string, userID int64) error
	PinChatMessage(ctx context.Context, chatID string, messageID int64) error
	UnpinChatMessage(ctx context.Context, chatID string, messageID int64) error
	PromoteChatMember(ctx context.Context, chatID string, userID int64) error
	SetChatTitle(ctx context.Context, chatID, title string) error
}

type DiscordAPI interface {
	Channels(ctx context.Context, guildID string) ([]discord.Channel, error)
	Messages(ctx context.Context, channelID string, limit int) ([]discord.Message, error)
	SendMessage(ctx context.Context, channelID, content string) (*discord.Message, error)
	KickMember(ctx context.Context, guildID, userID, reason string) error
}

// Adapters 按会话凭证构造各厂商客户端，凭证检查在调用前完成
type Adapters interface {
	Google(ctx context.Context, tok *model.OAuthToken) (GoogleAPI, error)
	Microsoft(tok *model.OAuthToken) MicrosoftAPI
	Shopify(c model.ShopifyCredentials) ShopifyAPI
	Slack(token string) SlackAPI
	Telegram(token string) TelegramAPI
	Discord(token string) DiscordAPI
}

// ClientFactory 基于配置中的 API 地址创建真实客户端
type ClientFactory struct {
	cfg *config.Config
}

func NewClientFactory(cfg *config.Config) *ClientFactory {
	return &ClientFactory{cfg: cfg}
}

func (f *ClientFactory) Google(ctx context.Context, tok *model.OAuthToken) (GoogleAPI, error) {
	var opts []option.ClientOption
	if f.cfg.Google.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(f.cfg.Google.BaseURL))
	}
	return google.New(ctx, google.StaticToken(tok.AccessToken), opts...)
}

func (f *ClientFactory) Microsoft(tok *model.OAuthToken) MicrosoftAPI {
	return microsoft.NewClient(f.cfg.Microsoft.BaseURL, tok.AccessToken)
}

func (f *ClientFactory) Shopify(c model.ShopifyCredentials) ShopifyAPI {
	return shopify.NewClient(c.StoreURL, c.AccessToken, f.cfg.Shopify.APIVersion)
}

func (f *ClientFactory) Slack(token string) SlackAPI {
	return slack.NewClient(slack.Config{BaseURL: f.cfg.Slack.APIBase, BotToken: token})
}

func (f *ClientFactory) Telegram(token string) TelegramAPI {
	return telegram.NewClient(f.cfg.Telegram.APIBase, token)
}

func (f *ClientFactory) Discord(token string) DiscordAPI {
	return discord.NewClient(f.cfg.Discord.APIBase, token)
}
