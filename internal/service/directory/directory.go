// Package directory Telegram 会话名称 -> ID 目录：从入站消息中学习，发送时按名称解析
package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"saas-agent/internal/model"
	"saas-agent/internal/service/match"
	"saas-agent/internal/store"
)

// Updater 拉取 getUpdates 的来源
type Updater interface {
	GetUpdates(ctx context.Context) ([]model.TelegramUpdate, error)
}

type Service struct {
	dir store.ChatDirectory
	log zerolog.Logger
	now func() time.Time
}

func New(dir store.ChatDirectory, log zerolog.Logger) *Service {
	return &Service{
		dir: dir,
		log: log.With().Str("component", "directory").Logger(),
		now: time.Now,
	}
}

// Messages 取出更新中的全部消息（普通、频道、编辑）
func Messages(updates []model.TelegramUpdate) []model.TelegramMessage {
	out := make([]model.TelegramMessage, 0, len(updates))
	for _, u := range updates {
		for _, m := range []*model.TelegramMessage{u.Message, u.ChannelPost, u.EditedMessage} {
			if m != nil {
				out = append(out, *m)
			}
		}
	}
	return out
}

// Learn 记录更新中出现过的所有会话
func (s *Service) Learn(ctx context.Context, session string, updates []model.TelegramUpdate) error {
	msgs := Messages(updates)
	if len(msgs) == 0 {
		return nil
	}
	seen := make(map[int64]int, len(msgs))
	entries := make([]model.ChatEntry, 0, len(msgs))
	for _, m := range msgs {
		e := model.ChatEntry{
			ID:       m.Chat.ID,
			Type:     m.Chat.Type,
			Title:    m.Chat.Title,
			Username: m.Chat.Username,
			LastSeen: s.now().UTC(),
		}
		if m.Date > 0 {
			e.LastSeen = time.Unix(m.Date, 0).UTC()
		}
		// 私聊没有标题，用对方名字
		if e.Title == "" {
			e.Title = m.Chat.FirstName
		}
		if i, ok := seen[e.ID]; ok {
			entries[i] = e
			continue
		}
		seen[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := s.dir.UpsertChats(ctx, session, entries); err != nil {
		return fmt.Errorf("learn chats: %w", err)
	}
	s.log.Debug().Str("session", session).Int("chats", len(entries)).Msg("directory learned")
	return nil
}

// Refresh 拉取一次 getUpdates 并学习，返回拉到的更新
func (s *Service) Refresh(ctx context.Context, session string, src Updater) ([]model.TelegramUpdate, error) {
	updates, err := src.GetUpdates(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Learn(ctx, session, updates); err != nil {
		return updates, err
	}
	return updates, nil
}

// Resolve 按标题或用户名查找会话，"@name" 按用户名处理
func (s *Service) Resolve(ctx context.Context, session, name string) (model.ChatEntry, bool, error) {
	chats, err := s.dir.Chats(ctx, session)
	if err != nil {
		return model.ChatEntry{}, false, fmt.Errorf("load directory: %w", err)
	}
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	e, ok := match.Find(chats, name, func(c model.ChatEntry) []string {
		return []string{c.Title, c.Username}
	})
	return e, ok, nil
}
