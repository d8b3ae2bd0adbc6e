// Package store 会话状态持久化：凭证、会议台账、Telegram 会话目录
package store

import (
	"context"
	"fmt"

	"saas-agent/internal/model"
)

// SessionStore 会话凭证与会议台账
type SessionStore interface {
	// LoadCredentials 会话不存在时返回空凭证
	LoadCredentials(ctx context.Context, session string) (model.Credentials, error)
	SaveCredentials(ctx context.Context, session string, creds model.Credentials) error

	// Meetings 按创建顺序返回会话内的会议
	Meetings(ctx context.Context, session string) ([]model.Meeting, error)
	AppendMeeting(ctx context.Context, session string, m model.Meeting) error
	// ReplaceMeeting 按 eventID 原位替换，不存在时返回 ErrNotFound
	ReplaceMeeting(ctx context.Context, session, eventID string, m model.Meeting) error
	// RemoveMeeting 按 eventID 删除，不存在时不报错
	RemoveMeeting(ctx context.Context, session, eventID string) error
}

// ChatDirectory Telegram 会话名称 -> ID 目录
type ChatDirectory interface {
	// UpsertChats 按 ID 合并，新条目覆盖旧的名称信息
	UpsertChats(ctx context.Context, session string, chats []model.ChatEntry) error
	Chats(ctx context.Context, session string) ([]model.ChatEntry, error)
}

// Store 全部会话状态
type Store interface {
	SessionStore
	ChatDirectory
	// Durable 会议台账是否在重启后保留
	Durable() bool
	Close() error
}

// Open 根据驱动名创建存储：memory、file、sqlite
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(path)
	case "sqlite":
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := s.AutoMigrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// mergeChats 按 ID 合并目录条目，保持首次出现的顺序
func mergeChats(existing, incoming []model.ChatEntry) []model.ChatEntry {
	idx := make(map[int64]int, len(existing))
	out := make([]model.ChatEntry, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	for i, c := range out {
		idx[c.ID] = i
	}
	for _, c := range incoming {
		if i, ok := idx[c.ID]; ok {
			out[i] = mergeEntry(out[i], c)
			continue
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func mergeEntry(old, nw model.ChatEntry) model.ChatEntry {
	if nw.Type == "" {
		nw.Type = old.Type
	}
	if nw.Title == "" {
		nw.Title = old.Title
	}
	if nw.Username == "" {
		nw.Username = old.Username
	}
	if nw.LastSeen.Before(old.LastSeen) {
		nw.LastSeen = old.LastSeen
	}
	return nw
}
