package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix 环境变量前缀，如 AGENT_LLM_API_KEY
const envPrefix = "AGENT"

// Config 应用总配置，按环境加载
type Config struct {
	Server    ServerConfig   `yaml:"server" envconfig:"server"`
	LLM       LLMConfig      `yaml:"llm" envconfig:"llm"`
	Google    OAuthAppConfig `yaml:"google" envconfig:"google"`
	Microsoft OAuthAppConfig `yaml:"microsoft" envconfig:"microsoft"`
	Shopify   ShopifyConfig  `yaml:"shopify" envconfig:"shopify"`
	Slack     SlackConfig    `yaml:"slack" envconfig:"slack"`
	Telegram  TelegramConfig `yaml:"telegram" envconfig:"telegram"`
	Discord   DiscordConfig  `yaml:"discord" envconfig:"discord"`
	Store     StoreConfig    `yaml:"store" envconfig:"store"`
	Agent     AgentConfig    `yaml:"agent" envconfig:"agent"`
	Log       LogConfig      `yaml:"log" envconfig:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port" envconfig:"port"`
	Mode string `yaml:"mode" envconfig:"mode"` // debug, release
}

type LLMConfig struct {
	Provider   string        `yaml:"provider" envconfig:"provider"` // openai, groq, dashscope 等 OpenAI 兼容接口
	APIKey     string        `yaml:"api_key" envconfig:"api_key"`
	BaseURL    string        `yaml:"base_url" envconfig:"base_url"`
	Model      string        `yaml:"model" envconfig:"model"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"timeout"`
	MaxRetries int           `yaml:"max_retries" envconfig:"max_retries"`
}

// OAuthAppConfig OAuth 应用信息，仅用于刷新过期令牌
type OAuthAppConfig struct {
	ClientID     string `yaml:"client_id" envconfig:"client_id"`
	ClientSecret string `yaml:"client_secret" envconfig:"client_secret"`
	RedirectURL  string `yaml:"redirect_url" envconfig:"redirect_url"`
	Tenant       string `yaml:"tenant" envconfig:"tenant"` // 仅 Microsoft，默认 common
	// BaseURL 覆盖 API 地址，测试时指向本地服务
	BaseURL string `yaml:"base_url" envconfig:"base_url"`
}

type ShopifyConfig struct {
	APIVersion string `yaml:"api_version" envconfig:"api_version"`
}

type SlackConfig struct {
	APIBase string `yaml:"api_base" envconfig:"api_base"`
}

type TelegramConfig struct {
	APIBase string `yaml:"api_base" envconfig:"api_base"`
	// BotToken 后台目录学习使用的 token，为空时不启动定时任务
	BotToken string `yaml:"bot_token" envconfig:"bot_token"`
	// LearnSchedule cron 表达式，如 "@every 5m"
	LearnSchedule string `yaml:"learn_schedule" envconfig:"learn_schedule"`
	// LearnSession 后台学习写入的会话
	LearnSession string `yaml:"learn_session" envconfig:"learn_session"`
}

type DiscordConfig struct {
	APIBase string `yaml:"api_base" envconfig:"api_base"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" envconfig:"driver"` // memory, file, sqlite
	Path   string `yaml:"path" envconfig:"path"`     // file 为目录，sqlite 为数据库文件
}

type AgentConfig struct {
	// MaxLimit 列表类动作 limit 上限
	MaxLimit int `yaml:"max_limit" envconfig:"max_limit"`
	// Timezone 解释 "5pm" 之类时间所用的时区
	Timezone string `yaml:"timezone" envconfig:"timezone"`
	// OutlookTimeZone 写入 Outlook 事件的 Windows 时区名
	OutlookTimeZone string `yaml:"outlook_time_zone" envconfig:"outlook_time_zone"`
	DefaultSession  string `yaml:"default_session" envconfig:"default_session"`
	// Summarize 列表结果是否调用大模型生成摘要
	Summarize bool `yaml:"summarize" envconfig:"summarize"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"level"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"format"` // json, console
}

// Default 内置默认值，配置文件与环境变量在此基础上覆盖
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080, Mode: "debug"},
		LLM: LLMConfig{
			Provider:   "openai",
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Microsoft: OAuthAppConfig{Tenant: "common"},
		Shopify:   ShopifyConfig{APIVersion: "2024-01"},
		Slack:     SlackConfig{APIBase: "https://slack.com/api"},
		Telegram: TelegramConfig{
			APIBase:       "https://api.telegram.org",
			LearnSchedule: "@every 5m",
			LearnSession:  "default",
		},
		Discord: DiscordConfig{APIBase: "https://discord.com/api/v10"},
		Store:   StoreConfig{Driver: "memory"},
		Agent: AgentConfig{
			MaxLimit:        200,
			Timezone:        "Asia/Kolkata",
			OutlookTimeZone: "India Standard Time",
			DefaultSession:  "default",
			Summarize:       true,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load 加载配置：path 为空时根据环境变量 APP_ENV 选择 config/<env>.yaml
// 支持: local, dev, prod，默认 local。之后再用 AGENT_ 前缀的环境变量覆盖。
func Load(path string) (*Config, error) {
	if path == "" {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "local"
		}
		path = fmt.Sprintf("config/%s.yaml", env)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML 并应用环境变量覆盖
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// 未设置的环境变量不会改动已有值
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("env override: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "file", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Agent.MaxLimit <= 0 {
		return fmt.Errorf("agent.max_limit must be positive")
	}
	if _, err := time.LoadLocation(c.Agent.Timezone); err != nil {
		return fmt.Errorf("agent.timezone: %w", err)
	}
	return nil
}

// Location 解析配置的时区
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Agent.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
