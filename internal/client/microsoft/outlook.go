package microsoft

import (
	"context"
	"net/http"
	"strconv"

	"saas-agent/internal/model"
)

type emailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type graphMessage struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	BodyPreview      string `json:"bodyPreview"`
	ReceivedDateTime string `json:"receivedDateTime"`
	WebLink          string `json:"webLink"`
	Sender           struct {
		EmailAddress emailAddress `json:"emailAddress"`
	} `json:"sender"`
}

// Messages 收件箱最近的邮件，search 可为空
func (c *Client) Messages(ctx context.Context, top int, search string) ([]model.OutlookEmail, error) {
	q := map[string]string{
		"$select": "id,subject,bodyPreview,sender,receivedDateTime,webLink",
		"$top":    strconv.Itoa(top),
	}
	if search != "" {
		q["$search"] = strconv.Quote(search)
	}
	var out list[graphMessage]
	if err := c.do(ctx, http.MethodGet, "/me/messages", q, nil, &out); err != nil {
		return nil, err
	}
	emails := make([]model.OutlookEmail, 0, len(out.Value))
	for _, m := range out.Value {
		subject := m.Subject
		if subject == "" {
			subject = "No Subject"
		}
		name := m.Sender.EmailAddress.Name
		if name == "" {
			name = "Unknown"
		}
		emails = append(emails, model.OutlookEmail{
			ID:               m.ID,
			Subject:          subject,
			BodyPreview:      m.BodyPreview,
			SenderName:       name,
			SenderAddress:    m.Sender.EmailAddress.Address,
			ReceivedDateTime: m.ReceivedDateTime,
			WebLink:          m.WebLink,
		})
	}
	return emails, nil
}

// SendMail 纯文本邮件，保存到已发送
func (c *Client) SendMail(ctx context.Context, to, subject, body string) error {
	payload := map[string]any{
		"message": map[string]any{
			"subject": subject,
			"body":    map[string]string{"contentType": "Text", "content": body},
			"toRecipients": []any{
				map[string]any{"emailAddress": map[string]string{"address": to}},
			},
		},
		"saveToSentItems": true,
	}
	return c.do(ctx, http.MethodPost, "/me/sendMail", nil, payload, nil)
}

type dateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID      string       `json:"id"`
	Subject string       `json:"subject"`
	Start   dateTimeZone `json:"start"`
	End     dateTimeZone `json:"end"`
	WebLink string       `json:"webLink"`
}

// CreateEvent start/end 为不带偏移的本地时间（YYYY-MM-DDTHH:MM:SS），由 timeZone 解释
func (c *Client) CreateEvent(ctx context.Context, subject, body, start, end, timeZone string) (*model.OutlookEvent, error) {
	payload := map[string]any{
		"subject": subject,
		"start":   dateTimeZone{DateTime: start, TimeZone: timeZone},
		"end":     dateTimeZone{DateTime: end, TimeZone: timeZone},
	}
	if body != "" {
		payload["body"] = map[string]string{"contentType": "Text", "content": body}
	}
	var ev graphEvent
	if err := c.do(ctx, http.MethodPost, "/me/events", nil, payload, &ev); err != nil {
		return nil, err
	}
	return &model.OutlookEvent{
		ID:       ev.ID,
		Subject:  ev.Subject,
		Start:    ev.Start.DateTime,
		End:      ev.End.DateTime,
		TimeZone: ev.Start.TimeZone,
		WebLink:  ev.WebLink,
	}, nil
}
