package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/config"
	"saas-agent/internal/logger"
)

func TestNewApp(t *testing.T) {
	tests := []struct {
		name       string
		botToken   string
		wantSyncer bool
	}{
		{"no server bot", "", false},
		{"server bot learns chats", "123:abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Telegram.BotToken = tt.botToken

			a, err := newApp(context.Background(), &cfg, logger.Nop())
			require.NoError(t, err)
			assert.NotNil(t, a.agent)
			assert.Equal(t, tt.wantSyncer, a.syncer != nil)
			assert.False(t, a.store.Durable())
			require.NoError(t, a.Close())
		})
	}
}

func TestNewApp_BadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Telegram.BotToken = "123:abc"
	cfg.Telegram.LearnSchedule = "not a schedule"

	_, err := newApp(context.Background(), &cfg, logger.Nop())
	assert.Error(t, err)
}
