// Package auth OAuth 令牌刷新
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
	"golang.org/x/sync/singleflight"

	"saas-agent/config"
	"saas-agent/internal/metrics"
	"saas-agent/internal/model"
	"saas-agent/internal/store"
)

// Refresher 在分发前把会话中过期的 Google / Microsoft 令牌换成新的，并写回存储
type Refresher struct {
	configs map[model.Vendor]*oauth2.Config
	store   store.SessionStore
	log     zerolog.Logger
	group   singleflight.Group
	now     func() time.Time
}

// OAuthConfigs 由应用配置生成各厂商的 oauth2.Config，未配置 client_id 的厂商不参与刷新
func OAuthConfigs(cfg *config.Config) map[model.Vendor]*oauth2.Config {
	out := make(map[model.Vendor]*oauth2.Config, 2)
	if g := cfg.Google; g.ClientID != "" {
		out[model.VendorGoogle] = &oauth2.Config{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURL,
			Endpoint:     google.Endpoint,
		}
	}
	if m := cfg.Microsoft; m.ClientID != "" {
		tenant := m.Tenant
		if tenant == "" {
			tenant = "common"
		}
		out[model.VendorMicrosoft] = &oauth2.Config{
			ClientID:     m.ClientID,
			ClientSecret: m.ClientSecret,
			RedirectURL:  m.RedirectURL,
			Endpoint:     microsoft.AzureADEndpoint(tenant),
			Scopes:       []string{"offline_access", "https://graph.microsoft.com/.default"},
		}
	}
	return out
}

func NewRefresher(configs map[model.Vendor]*oauth2.Config, st store.SessionStore, log zerolog.Logger) *Refresher {
	return &Refresher{
		configs: configs,
		store:   st,
		log:     log.With().Str("component", "auth").Logger(),
		now:     time.Now,
	}
}

// Ensure 刷新过期令牌。刷新失败时返回原凭证和错误，调用方可继续使用旧令牌。
func (r *Refresher) Ensure(ctx context.Context, session string, creds model.Credentials) (model.Credentials, error) {
	out := creds
	changed := false
	var firstErr error

	refresh := func(vendor model.Vendor, tok *model.OAuthToken) *model.OAuthToken {
		if !tok.Usable() || !tok.Expired(r.now()) {
			return tok
		}
		fresh, err := r.refresh(ctx, session, vendor, tok)
		if err != nil {
			r.log.Warn().Err(err).Str("session", session).Str("vendor", string(vendor)).Msg("token refresh failed")
			if firstErr == nil {
				firstErr = err
			}
			return tok
		}
		changed = true
		return fresh
	}

	out.Google = refresh(model.VendorGoogle, creds.Google)
	out.Microsoft = refresh(model.VendorMicrosoft, creds.Microsoft)

	if changed {
		if err := r.store.SaveCredentials(ctx, session, out); err != nil {
			r.log.Error().Err(err).Str("session", session).Msg("persist refreshed token failed")
		}
	}
	return out, firstErr
}

// refresh 同一会话同一厂商的并发刷新只发起一次请求
func (r *Refresher) refresh(ctx context.Context, session string, vendor model.Vendor, tok *model.OAuthToken) (*model.OAuthToken, error) {
	if tok.RefreshToken == "" {
		return nil, model.ErrNoRefreshToken
	}
	cfg, ok := r.configs[vendor]
	if !ok {
		return nil, fmt.Errorf("no oauth app configured for %s", vendor)
	}

	v, err, _ := r.group.Do(string(vendor)+":"+session, func() (any, error) {
		// 不带 access token，强制走 refresh_token 授权
		src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken})
		t, err := src.Token()
		metrics.ObserveTokenRefresh(string(vendor), err)
		if err != nil {
			return nil, fmt.Errorf("refresh %s token: %w", vendor, err)
		}
		fresh := &model.OAuthToken{
			AccessToken:  t.AccessToken,
			RefreshToken: t.RefreshToken,
			Expiry:       t.Expiry,
			Scope:        tok.Scope,
		}
		// 部分厂商不回传 refresh_token，沿用旧值
		if fresh.RefreshToken == "" {
			fresh.RefreshToken = tok.RefreshToken
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.OAuthToken), nil
}
