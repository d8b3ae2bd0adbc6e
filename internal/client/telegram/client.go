// Package telegram Telegram Bot API 客户端
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"saas-agent/internal/model"
)

const defaultAPIBase = "https://api.telegram.org"

// Client 绑定单个 bot token
type Client struct {
	http *resty.Client
}

// NewClient baseURL 为空时使用官方地址
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	c := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", baseURL, token)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

// APIError Bot API 返回 ok=false
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

type envelope struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	var env envelope
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post("/" + method)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	if !env.OK {
		code := env.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		return &APIError{Code: code, Description: env.Description}
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}

// GetUpdates 拉取 bot 最近收到的更新
func (c *Client) GetUpdates(ctx context.Context) ([]model.TelegramUpdate, error) {
	var updates []model.TelegramUpdate
	if err := c.call(ctx, "getUpdates", map[string]any{"limit": 100}, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage chatID 可以是数字 ID 或 @username
func (c *Client) SendMessage(ctx context.Context, chatID, text string, replyTo int64) (*model.TelegramMessage, error) {
	body := map[string]any{"chat_id": chatID, "text": text}
	if replyTo > 0 {
		body["reply_to_message_id"] = replyTo
	}
	var msg model.TelegramMessage
	if err := c.call(ctx, "sendMessage", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) BanChatMember(ctx context.Context, chatID string, userID int64) error {
	return c.call(ctx, "banChatMember", map[string]any{"chat_id": chatID, "user_id": userID}, nil)
}

func (c *Client) PinChatMessage(ctx context.Context, chatID string, messageID int64) error {
	return c.call(ctx, "pinChatMessage", map[string]any{"chat_id": chatID, "message_id": messageID}, nil)
}

// UnpinChatMessage messageID 为 0 时取消最近的置顶
func (c *Client) UnpinChatMessage(ctx context.Context, chatID string, messageID int64) error {
	body := map[string]any{"chat_id": chatID}
	if messageID > 0 {
		body["message_id"] = messageID
	}
	return c.call(ctx, "unpinChatMessage", body, nil)
}

// PromoteChatMember 授予常用的管理权限
func (c *Client) PromoteChatMember(ctx context.Context, chatID string, userID int64) error {
	return c.call(ctx, "promoteChatMember", map[string]any{
		"chat_id":              chatID,
		"user_id":              userID,
		"can_delete_messages":  true,
		"can_restrict_members": true,
		"can_pin_messages":     true,
		"can_invite_users":     true,
	}, nil)
}

func (c *Client) SetChatTitle(ctx context.Context, chatID, title string) error {
	return c.call(ctx, "setChatTitle", map[string]any{"chat_id": chatID, "title": title}, nil)
}
