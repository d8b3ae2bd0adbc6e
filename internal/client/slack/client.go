package slack

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"saas-agent/internal/model"
)

// Config Slack 客户端配置
type Config struct {
	BaseURL  string
	BotToken string
}

// Client Slack Web API 客户端
type Client struct {
	http *resty.Client
}

const defaultAPIBase = "https://slack.com/api"

// NewClient 创建 Slack 客户端
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAPIBase
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.BotToken).
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

// apiResult Slack 接口统一用 ok/error 表示结果，HTTP 状态码总是 200
type apiResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r apiResult) err(method string) error {
	if r.OK {
		return nil
	}
	return fmt.Errorf("slack %s: %s", method, r.Error)
}

// Channel 频道
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListChannels 列出公开与私有频道（conversations.list）
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var out struct {
		apiResult
		Channels []Channel `json:"channels"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"types":            "public_channel,private_channel",
			"exclude_archived": "true",
			"limit":            "200",
		}).
		SetResult(&out).
		Get("/conversations.list")
	if err != nil {
		return nil, fmt.Errorf("slack conversations.list: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("slack conversations.list: %s", resp.Status())
	}
	return out.Channels, out.err("conversations.list")
}

// History 读取频道最近的消息（conversations.history），按时间倒序
func (c *Client) History(ctx context.Context, channelID string, limit int) ([]model.SlackMessage, error) {
	var out struct {
		apiResult
		Messages []model.SlackMessage `json:"messages"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"channel": channelID,
			"limit":   strconv.Itoa(limit),
		}).
		SetResult(&out).
		Get("/conversations.history")
	if err != nil {
		return nil, fmt.Errorf("slack conversations.history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("slack conversations.history: %s", resp.Status())
	}
	return out.Messages, out.err("conversations.history")
}

// SendMessage 发送消息到频道或用户（chat.postMessage）
func (c *Client) SendMessage(ctx context.Context, channel, text string) error {
	var out apiResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetBody(map[string]string{
			"channel": channel,
			"text":    text,
		}).
		SetResult(&out).
		Post("/chat.postMessage")
	if err != nil {
		return fmt.Errorf("slack chat.postMessage: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("slack chat.postMessage: %s", resp.Status())
	}
	return out.err("chat.postMessage")
}
