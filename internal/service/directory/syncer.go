package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Syncer 定时拉取机器人更新，让目录在没有用户请求时也能学到新会话
type Syncer struct {
	svc     *Service
	src     Updater
	session string
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// NewSyncer schedule 为标准 5 段 cron 表达式或 "@every 5m" 之类的描述符
func NewSyncer(svc *Service, src Updater, session, schedule string, log zerolog.Logger) (*Syncer, error) {
	s := &Syncer{
		svc:     svc,
		src:     src,
		session: session,
		cron:    cron.New(cron.WithParser(scheduleParser)),
		log:     log.With().Str("component", "directory_syncer").Logger(),
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("parse learn schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce 执行一次学习，错误只记日志
func (s *Syncer) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	updates, err := s.svc.Refresh(ctx, s.session, s.src)
	if err != nil {
		s.log.Warn().Err(err).Msg("directory sync failed")
		return
	}
	s.log.Debug().Int("updates", len(updates)).Msg("directory synced")
}

func (s *Syncer) Start() { s.cron.Start() }

// Stop 停止调度并等待正在执行的任务结束
func (s *Syncer) Stop() {
	<-s.cron.Stop().Done()
}
