package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"saas-agent/config"
	"saas-agent/internal/logger"
	"saas-agent/internal/model"
	"saas-agent/internal/store"
)

func tokenServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "rt-1", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRefresher(t *testing.T, tokenURL string, st store.SessionStore, now time.Time) *Refresher {
	t.Helper()
	r := NewRefresher(map[model.Vendor]*oauth2.Config{
		model.VendorGoogle: {
			ClientID: "id",
			Endpoint: oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		},
	}, st, logger.Nop())
	r.now = func() time.Time { return now }
	return r
}

func TestEnsure_RefreshesExpiredToken(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	st := store.NewMemory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newRefresher(t, srv.URL, st, now)

	creds := model.Credentials{Google: &model.OAuthToken{
		AccessToken:  "stale",
		RefreshToken: "rt-1",
		Expiry:       now.Add(-time.Hour),
	}}
	out, err := r.Ensure(context.Background(), "s1", creds)
	require.NoError(t, err)
	assert.Equal(t, "fresh", out.Google.AccessToken)
	assert.Equal(t, "rt-1", out.Google.RefreshToken)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	saved, err := st.LoadCredentials(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, saved.Google)
	assert.Equal(t, "fresh", saved.Google.AccessToken)
}

func TestEnsure_SkipsValidToken(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newRefresher(t, srv.URL, store.NewMemory(), now)

	creds := model.Credentials{Google: &model.OAuthToken{AccessToken: "ok", RefreshToken: "rt-1", Expiry: now.Add(time.Hour)}}
	out, err := r.Ensure(context.Background(), "s1", creds)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Google.AccessToken)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestEnsure_NoRefreshToken(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newRefresher(t, "http://127.0.0.1:0", store.NewMemory(), now)

	creds := model.Credentials{Google: &model.OAuthToken{AccessToken: "stale", Expiry: now.Add(-time.Hour)}}
	out, err := r.Ensure(context.Background(), "s1", creds)
	assert.ErrorIs(t, err, model.ErrNoRefreshToken)
	assert.Equal(t, "stale", out.Google.AccessToken)
}

func TestEnsure_VendorWithoutApp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newRefresher(t, "http://127.0.0.1:0", store.NewMemory(), now)

	creds := model.Credentials{Microsoft: &model.OAuthToken{RefreshToken: "rt"}}
	out, err := r.Ensure(context.Background(), "s1", creds)
	assert.Error(t, err)
	assert.Equal(t, "rt", out.Microsoft.RefreshToken)
}

func TestOAuthConfigs(t *testing.T) {
	cfg := config.Default()
	assert.Empty(t, OAuthConfigs(&cfg))

	cfg.Google.ClientID = "g"
	cfg.Microsoft.ClientID = "m"
	cfg.Microsoft.Tenant = "contoso"
	cs := OAuthConfigs(&cfg)
	require.Len(t, cs, 2)
	assert.Contains(t, cs[model.VendorMicrosoft].Endpoint.TokenURL, "contoso")
	assert.Equal(t, "https://oauth2.googleapis.com/token", cs[model.VendorGoogle].Endpoint.TokenURL)
}
