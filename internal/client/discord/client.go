// Package discord Discord REST API 客户端（机器人身份）
package discord

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultAPIBase = "https://discord.com/api/v10"

// ChannelTypeText 服务器文字频道
const ChannelTypeText = 0

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, botToken string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "Bot "+botToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

// StatusError 非 2xx 响应
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discord api error %d: %s", e.Code, e.Message)
}

type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("discord %s: %w", op, err)
	}
	if resp.IsError() {
		msg := resp.String()
		if e, ok := resp.Error().(*apiError); ok && e.Message != "" {
			msg = e.Message
		}
		return &StatusError{Code: resp.StatusCode(), Message: msg}
	}
	return nil
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Channels 列出服务器频道
func (c *Client) Channels(ctx context.Context, guildID string) ([]Channel, error) {
	var out []Channel
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/guilds/" + url.PathEscape(guildID) + "/channels")
	if err := check(resp, err, "list channels"); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages 频道最近的消息，按时间倒序
func (c *Client) Messages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	var out []Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/channels/" + url.PathEscape(channelID) + "/messages")
	if err := check(resp, err, "list messages"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string) (*Message, error) {
	var out Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"content": content}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/channels/" + url.PathEscape(channelID) + "/messages")
	if err := check(resp, err, "send message"); err != nil {
		return nil, err
	}
	return &out, nil
}

// KickMember reason 写入审计日志
func (c *Client) KickMember(ctx context.Context, guildID, userID, reason string) error {
	req := c.http.R().SetContext(ctx).SetError(&apiError{})
	if reason != "" {
		req.SetHeader("X-Audit-Log-Reason", url.PathEscape(reason))
	}
	resp, err := req.Delete("/guilds/" + url.PathEscape(guildID) + "/members/" + url.PathEscape(userID))
	return check(resp, err, "kick member")
}
