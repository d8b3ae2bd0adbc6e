package executor

import (
	"context"

	"saas-agent/internal/model"
)

type route struct {
	vendor model.Vendor
	run    func(e *Executor, ctx context.Context, req Request) model.Result
}

type (
	googleHandler    func(e *Executor, ctx context.Context, req Request, g GoogleAPI) model.Result
	microsoftHandler func(e *Executor, ctx context.Context, req Request, m MicrosoftAPI) model.Result
	shopifyHandler   func(e *Executor, ctx context.Context, req Request, s ShopifyAPI) model.Result
	slackHandler     func(e *Executor, ctx context.Context, req Request, s SlackAPI) model.Result
	telegramHandler  func(e *Executor, ctx context.Context, req Request, t TelegramAPI) model.Result
	discordHandler   func(e *Executor, ctx context.Context, req Request, d DiscordAPI) model.Result
)

func withGoogle(h googleHandler) route {
	return route{vendor: model.VendorGoogle, run: func(e *Executor, ctx context.Context, req Request) model.Result {
		g, err := e.adapters.Google(ctx, req.Creds.Google)
		if err != nil {
			return vendorFailed(req.Intent.Action, "Failed to connect to Google.", err)
		}
		return h(e, ctx, req, g)
	}}
}

func withMicrosoft(h microsoftHandler) route {
	return route{vendor: model.VendorMicrosoft, run: func(e *Executor, ctx context.Context, req Request) model.Result {
		return h(e, ctx, req, e.adapters.Microsoft(req.Creds.Microsoft))
	}}
}

func withShopify(h shopifyHandler) route {
	return route{vendor: model.VendorShopify, run: func(e *Executor, ctx context.Context, req Request) model.Result {
		return h(e, ctx, req, e.adapters.Shopify(*req.Creds.Shopify))
	}}
}

func withSlack(h slackHandler) route {
	return route{vendor: model.VendorSlack, run: func(e *Executor, ctx context.Context, req Request) model.Result {
		return h(e, ctx, req, e.adapters.Slack(req.Creds.SlackToken))
	}}
}

func withTelegram(h telegramHandler) route {
	return route{vendor: model.VendorTelegram, run: func(e *Executor, ctx context.Context, req Request) model.Result {
		return h(e, ctx, req, e.adapters.Telegram(req.Creds.TelegramToken))
	}}
}

func withDiscord(h discordHandler) route {
	return route{vendor: model.VendorDiscord, run: func(e *Executor, ctx context.Context, req Request) model.Result {
		return h(e, ctx, req, e.adapters.Discord(req.Creds.Discord.BotToken))
	}}
}

// routeTable 动作 -> 处理函数；help/none 在 Dispatch 中直接返回
func routeTable() map[model.ActionTag]route {
	return map[model.ActionTag]route{
		model.ActionFetchEmails: withGoogle((*Executor).fetchEmails),
		model.ActionSendEmail:   withGoogle((*Executor).sendEmail),
		model.ActionFetchFiles:  withGoogle((*Executor).fetchFiles),

		model.ActionCreateMeet:    withGoogle((*Executor).createMeet),
		model.ActionUpdateMeet:    withGoogle((*Executor).updateMeet),
		model.ActionDeleteMeet:    withGoogle((*Executor).deleteMeet),
		model.ActionFetchCalendar: withGoogle((*Executor).fetchCalendar),

		model.ActionCreateSheet: withGoogle((*Executor).createSheet),
		model.ActionReadSheet:   withGoogle((*Executor).readSheet),
		model.ActionUpdateSheet: withGoogle((*Executor).updateSheet),

		model.ActionCreateDoc:  withGoogle((*Executor).createDoc),
		model.ActionReadDoc:    withGoogle((*Executor).readDoc),
		model.ActionAppendDoc:  withGoogle((*Executor).appendDoc),
		model.ActionReplaceDoc: withGoogle((*Executor).replaceDoc),
		model.ActionClearDoc:   withGoogle((*Executor).clearDoc),

		model.ActionFetchNotes: withGoogle((*Executor).fetchNotes),
		model.ActionCreateNote: withGoogle((*Executor).createNote),

		model.ActionCreateCourse:     withGoogle((*Executor).createCourse),
		model.ActionFetchCourses:     withGoogle((*Executor).fetchCourses),
		model.ActionFetchAssignments: withGoogle((*Executor).fetchAssignments),
		model.ActionFetchStudents:    withGoogle((*Executor).fetchStudents),

		model.ActionSearchYouTube:   withGoogle((*Executor).searchYouTube),
		model.ActionGetChannelStats: withGoogle((*Executor).channelStats),

		model.ActionCreateForm:         withGoogle((*Executor).createForm),
		model.ActionFetchFormResponses: withGoogle((*Executor).fetchFormResponses),

		model.ActionFetchOutlookEmails: withMicrosoft((*Executor).fetchOutlookEmails),
		model.ActionSendOutlookEmail:   withMicrosoft((*Executor).sendOutlookEmail),
		model.ActionCreateOutlookEvent: withMicrosoft((*Executor).createOutlookEvent),
		model.ActionFetchOneDriveFiles: withMicrosoft((*Executor).fetchOneDriveFiles),
		model.ActionCreateWordDoc:      withMicrosoft((*Executor).createWordDoc),
		model.ActionReadWordDoc:        withMicrosoft((*Executor).readWordDoc),
		model.ActionCreateExcelSheet:   withMicrosoft((*Executor).createExcelSheet),
		model.ActionReadExcelSheet:     withMicrosoft((*Executor).readExcelSheet),
		model.ActionUpdateExcelSheet:   withMicrosoft((*Executor).updateExcelSheet),
		model.ActionFetchTeamsMessages: withMicrosoft((*Executor).fetchTeamsMessages),
		model.ActionFetchTeamsChannels: withMicrosoft((*Executor).fetchTeamsChannels),

		model.ActionFetchOrders: withShopify((*Executor).fetchOrders),

		model.ActionFetchSlackHistory: withSlack((*Executor).fetchSlackHistory),
		model.ActionSendSlackMessage:  withSlack((*Executor).sendSlackMessage),

		model.ActionFetchTelegramUpdates: withTelegram((*Executor).fetchTelegramUpdates),
		model.ActionSendTelegramMessage:  withTelegram((*Executor).sendTelegramMessage),
		model.ActionManageTelegramGroup:  withTelegram((*Executor).manageTelegramGroup),

		model.ActionFetchDiscordMessages: withDiscord((*Executor).fetchDiscordMessages),
		model.ActionSendDiscordMessage:   withDiscord((*Executor).sendDiscordMessage),
		model.ActionKickDiscordUser:      withDiscord((*Executor).kickDiscordUser),
	}
}
