package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	clientllm "saas-agent/internal/client/llm"
	"saas-agent/internal/model"
)

// summaryLabels 需要摘要的列表类动作及其数据描述
var summaryLabels = map[model.ActionTag]string{
	model.ActionFetchFiles:           "Google Drive Files",
	model.ActionFetchOrders:          "Shopify Orders",
	model.ActionFetchCalendar:        "Calendar Events",
	model.ActionFetchNotes:           "Google Keep Notes",
	model.ActionFetchCourses:         "Google Classrooms",
	model.ActionFetchAssignments:     "Class assignments",
	model.ActionFetchStudents:        "Class students",
	model.ActionSearchYouTube:        "YouTube Search Results",
	model.ActionGetChannelStats:      "YouTube Channel Statistics",
	model.ActionFetchFormResponses:   "Google Form Responses",
	model.ActionFetchOutlookEmails:   "Outlook Emails",
	model.ActionFetchOneDriveFiles:   "OneDrive Files",
	model.ActionReadExcelSheet:       "Excel Data",
	model.ActionFetchTeamsMessages:   "Teams Messages",
	model.ActionFetchTeamsChannels:   "Teams Channels",
	model.ActionFetchTelegramUpdates: "Telegram Messages",
	model.ActionFetchDiscordMessages: "Discord Channel Messages",
	model.ActionFetchSlackHistory:    "Slack Channel Messages",
}

// Summarizable 动作结果是否需要摘要（fetch_emails 已由 AnswerFromEmails 回答）
func Summarizable(action model.ActionTag) bool {
	_, ok := summaryLabels[action]
	return ok
}

const summaryPreviewItems = 3

// Summarize 用前几条数据生成 2-3 句摘要，失败时返回 "Found N items."
func (s *Service) Summarize(ctx context.Context, query string, action model.ActionTag, data any) string {
	n, items := preview(data, summaryPreviewItems)
	fallback := fmt.Sprintf("Found %d items.", n)
	if items == "" {
		return fallback
	}
	label, ok := summaryLabels[action]
	if !ok {
		label = string(action)
	}
	user := fmt.Sprintf("User asked: %q\n\nHere is the relevant data (%s):\n%s\n\nGive a concise 2-3 sentence response.", query, label, items)
	out, err := s.client.Chat(ctx, summaryPrompt, user, clientllm.Options{Temperature: 0.3, MaxTokens: 250})
	if err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Msg("summary failed")
		return fallback
	}
	if out = strings.TrimSpace(out); out == "" {
		return fallback
	}
	return out
}

// preview 返回切片长度与前 k 个元素的缩进 JSON
func preview(data any, k int) (int, string) {
	if data == nil {
		return 0, ""
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || v.Len() == 0 {
		return 0, ""
	}
	head := v.Slice(0, min(k, v.Len())).Interface()
	b, err := json.MarshalIndent(head, "", "  ")
	if err != nil {
		return v.Len(), ""
	}
	return v.Len(), string(b)
}

// NoEmailsAnswer 没有匹配邮件时的回答
const NoEmailsAnswer = "No matching emails found."

// AnswerFromEmails 仅依据 emails 回答问题；date 为用户指定的日期，可为空
func (s *Service) AnswerFromEmails(ctx context.Context, emails []model.Email, question, date string) string {
	if len(emails) == 0 {
		return NoEmailsAnswer
	}
	type compact struct {
		From    string `json:"from"`
		Subject string `json:"subject"`
		Snippet string `json:"snippet"`
	}
	list := make([]compact, 0, len(emails))
	for _, e := range emails {
		list = append(list, compact{From: e.From, Subject: e.Subject, Snippet: e.Snippet})
	}
	b, _ := json.MarshalIndent(list, "", "  ")
	if date == "" {
		date = "not specified"
	}
	user := fmt.Sprintf("User question:\n%q\n\nRequested date: %s\n\nEmails provided (%d strictly matching the user's request):\n%s",
		question, date, len(emails), b)

	out, err := s.client.Chat(ctx, emailAnswerPrompt, user, clientllm.Options{Temperature: 0, MaxTokens: 350})
	if err != nil {
		s.log.Warn().Err(err).Msg("email answer failed")
		return "No relevant information found in the emails."
	}
	if out = strings.TrimSpace(out); out == "" {
		return "No relevant information found in the emails."
	}
	return out
}
