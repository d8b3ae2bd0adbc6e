package model

import "time"

// Vendor 需要凭证的外部服务
type Vendor string

const (
	VendorGoogle    Vendor = "google"
	VendorMicrosoft Vendor = "microsoft"
	VendorShopify   Vendor = "shopify"
	VendorSlack     Vendor = "slack"
	VendorTelegram  Vendor = "telegram"
	VendorDiscord   Vendor = "discord"
)

// OAuthToken OAuth 访问令牌（Google / Microsoft）
type OAuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scope        string    `json:"scope,omitempty"`
}

// tokenSkew 提前刷新的余量
const tokenSkew = time.Minute

// Usable 是否可用于调用（有 access token 或可刷新）
func (t *OAuthToken) Usable() bool {
	return t != nil && (t.AccessToken != "" || t.RefreshToken != "")
}

// Expired 是否需要刷新：没有 access token，或已到期（含余量）
func (t *OAuthToken) Expired(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return !t.Expiry.IsZero() && !t.Expiry.After(now.Add(tokenSkew))
}

// ShopifyCredentials 店铺地址与 Admin API token
type ShopifyCredentials struct {
	StoreURL    string `json:"store_url"`
	AccessToken string `json:"access_token"`
}

// DiscordCredentials 机器人 token 与已连接的服务器
type DiscordCredentials struct {
	BotToken string `json:"bot_token"`
	GuildID  string `json:"guild_id,omitempty"`
}

// Credentials 会话级别的各厂商凭证，均可为空
type Credentials struct {
	Google        *OAuthToken         `json:"google,omitempty"`
	Microsoft     *OAuthToken         `json:"microsoft,omitempty"`
	Shopify       *ShopifyCredentials `json:"shopify,omitempty"`
	SlackToken    string              `json:"slack_token,omitempty"`
	TelegramToken string              `json:"telegram_token,omitempty"`
	Discord       *DiscordCredentials `json:"discord,omitempty"`
}

// Merge 用 o 中非空的凭证覆盖当前凭证
func (c Credentials) Merge(o Credentials) Credentials {
	out := c
	if o.Google.Usable() {
		out.Google = o.Google
	}
	if o.Microsoft.Usable() {
		out.Microsoft = o.Microsoft
	}
	if o.Shopify != nil && o.Shopify.StoreURL != "" && o.Shopify.AccessToken != "" {
		out.Shopify = o.Shopify
	}
	if o.SlackToken != "" {
		out.SlackToken = o.SlackToken
	}
	if o.TelegramToken != "" {
		out.TelegramToken = o.TelegramToken
	}
	if o.Discord != nil && o.Discord.BotToken != "" {
		d := *o.Discord
		if d.GuildID == "" && out.Discord != nil {
			d.GuildID = out.Discord.GuildID
		}
		out.Discord = &d
	}
	return out
}

// IsZero 没有任何凭证
func (c Credentials) IsZero() bool {
	return c.Google == nil && c.Microsoft == nil && c.Shopify == nil &&
		c.SlackToken == "" && c.TelegramToken == "" && c.Discord == nil
}
