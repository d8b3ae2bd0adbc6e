package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"saas-agent/config"
	"saas-agent/internal/client/llm"
	"saas-agent/internal/client/telegram"
	"saas-agent/internal/service"
	"saas-agent/internal/service/auth"
	"saas-agent/internal/service/directory"
	"saas-agent/internal/service/executor"
	servicellm "saas-agent/internal/service/llm"
	"saas-agent/internal/store"
)

// app 装配好的依赖
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  store.Store
	agent  *service.AgentService
	syncer *directory.Syncer
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !st.Durable() {
		log.Warn().Str("driver", cfg.Store.Driver).Msg("meeting history will not survive a restart")
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.Model,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
	})
	llmSvc := servicellm.NewService(llmClient, log, cfg.Agent.MaxLimit)

	refresher := auth.NewRefresher(auth.OAuthConfigs(cfg), st, log)
	dir := directory.New(st, log)

	exec := executor.New(executor.NewClientFactory(cfg), st, dir, llmSvc, executor.Options{
		MaxLimit:        cfg.Agent.MaxLimit,
		Location:        cfg.Location(),
		OutlookTimeZone: cfg.Agent.OutlookTimeZone,
	}, log)

	agent := service.NewAgentService(st, refresher, llmSvc, exec, llmSvc, service.AgentOptions{
		DefaultSession: cfg.Agent.DefaultSession,
		Summarize:      cfg.Agent.Summarize,
	}, log)

	a := &app{cfg: cfg, log: log, store: st, agent: agent}

	// 配置了服务端 Bot 时定期学习群组名称，用户不必先拉取消息
	if cfg.Telegram.BotToken != "" {
		src := telegram.NewClient(cfg.Telegram.APIBase, cfg.Telegram.BotToken)
		a.syncer, err = directory.NewSyncer(dir, src, cfg.Telegram.LearnSession, cfg.Telegram.LearnSchedule, log)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("telegram syncer: %w", err)
		}
	}
	return a, nil
}

func (a *app) startBackground() {
	if a.syncer != nil {
		a.syncer.Start()
		a.log.Info().Str("schedule", a.cfg.Telegram.LearnSchedule).Msg("telegram directory sync started")
	}
}

func (a *app) Close() error {
	if a.syncer != nil {
		a.syncer.Stop()
	}
	return a.store.Close()
}
