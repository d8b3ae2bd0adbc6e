package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"

	"saas-agent/internal/model"
)

// gmailPageSize 列表每页条数
const gmailPageSize = 100

// EmailQuery 邮件查询
type EmailQuery struct {
	Search string
	Date   string // YYYY-MM-DD，转为 after/before 条件
	Limit  int
}

// DateQuery YYYY-MM-DD -> "after:2026/03/10 before:2026/03/11"
func DateQuery(date string) string {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return ""
	}
	next := d.AddDate(0, 0, 1)
	return fmt.Sprintf("after:%s before:%s", d.Format("2006/01/02"), next.Format("2006/01/02"))
}

// ListEmails 先分页取 ID，再逐封读取 From/Subject/Date 头
func (c *Client) ListEmails(ctx context.Context, q EmailQuery) ([]model.Email, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	parts := make([]string, 0, 2)
	if q.Search != "" {
		parts = append(parts, q.Search)
	}
	if dq := DateQuery(q.Date); dq != "" {
		parts = append(parts, dq)
	}
	query := strings.TrimSpace(strings.Join(parts, " "))

	var ids []string
	pageToken := ""
	for {
		call := c.gmail.Users.Messages.List("me").MaxResults(gmailPageSize).Context(ctx)
		if query != "" {
			call = call.Q(query)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gmail list: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		pageToken = res.NextPageToken
		if pageToken == "" || len(ids) >= q.Limit {
			break
		}
	}
	if len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}

	emails := make([]model.Email, 0, len(ids))
	for _, id := range ids {
		msg, err := c.gmail.Users.Messages.Get("me", id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("gmail get %s: %w", id, err)
		}
		e := model.Email{ID: msg.Id, ThreadID: msg.ThreadId, Snippet: msg.Snippet}
		if msg.Payload != nil {
			for _, h := range msg.Payload.Headers {
				switch h.Name {
				case "From":
					e.From = h.Value
				case "Subject":
					e.Subject = h.Value
				case "Date":
					e.Date = h.Value
				}
			}
		}
		if e.Subject == "" {
			e.Subject = "No subject"
		}
		emails = append(emails, e)
	}
	return emails, nil
}

// SendEmail 发送纯文本邮件
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	raw := BuildMessage(to, subject, body)
	_, err := c.gmail.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// BuildMessage 生成 RFC 822 报文，主题按 RFC 2047 编码
func BuildMessage(to, subject, body string) string {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
