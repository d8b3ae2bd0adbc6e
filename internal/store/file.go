package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"saas-agent/internal/model"
)

const (
	tokensFile = "tokens.json"
	chatsFile  = "telegram_chats.json"
)

// File 每个会话一个目录：tokens.json 保存凭证，telegram_chats.json 保存会话目录。
// 会议台账只在内存中，重启后丢失。
type File struct {
	dir string
	mu  sync.Mutex
	// meetings 复用内存实现
	meetings *Memory
}

func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &File{dir: dir, meetings: NewMemory()}, nil
}

// sessionDir 会话 ID 经 PathEscape 后作目录名，不同 ID 不会落到同一目录。
// PathEscape 不转义 "." 也不会单独输出 "%"，这两类特殊名另行编码。
func (f *File) sessionDir(session string) string {
	name := url.PathEscape(session)
	switch name {
	case "":
		name = "%"
	case ".", "..":
		name = strings.ReplaceAll(name, ".", "%2E")
	}
	return filepath.Join(f.dir, name)
}

func (f *File) readJSON(session, file string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(f.sessionDir(session), file))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", file, err)
	}
	return true, nil
}

// writeJSON 先写临时文件再 rename，避免读到半截内容
func (f *File) writeJSON(session, file string, v any) error {
	dir := f.sessionDir(session)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, file+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, file))
}

func (f *File) LoadCredentials(_ context.Context, session string) (model.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var creds model.Credentials
	if _, err := f.readJSON(session, tokensFile, &creds); err != nil {
		return model.Credentials{}, err
	}
	return creds, nil
}

func (f *File) SaveCredentials(_ context.Context, session string, creds model.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeJSON(session, tokensFile, creds)
}

func (f *File) Meetings(ctx context.Context, session string) ([]model.Meeting, error) {
	return f.meetings.Meetings(ctx, session)
}

func (f *File) AppendMeeting(ctx context.Context, session string, m model.Meeting) error {
	return f.meetings.AppendMeeting(ctx, session, m)
}

func (f *File) ReplaceMeeting(ctx context.Context, session, eventID string, m model.Meeting) error {
	return f.meetings.ReplaceMeeting(ctx, session, eventID, m)
}

func (f *File) RemoveMeeting(ctx context.Context, session, eventID string) error {
	return f.meetings.RemoveMeeting(ctx, session, eventID)
}

// chatIndex 文件格式：chat id -> 条目
type chatIndex map[string]model.ChatEntry

func (f *File) loadChats(session string) ([]model.ChatEntry, error) {
	idx := chatIndex{}
	if _, err := f.readJSON(session, chatsFile, &idx); err != nil {
		return nil, err
	}
	out := make([]model.ChatEntry, 0, len(idx))
	for _, c := range idx {
		out = append(out, c)
	}
	// map 无序，按首次出现的近似顺序（LastSeen）输出
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastSeen.Before(out[j].LastSeen)
	})
	return out, nil
}

func (f *File) UpsertChats(_ context.Context, session string, chats []model.ChatEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, err := f.loadChats(session)
	if err != nil {
		return err
	}
	merged := mergeChats(existing, chats)
	idx := make(chatIndex, len(merged))
	for _, c := range merged {
		idx[strconv.FormatInt(c.ID, 10)] = c
	}
	return f.writeJSON(session, chatsFile, idx)
}

func (f *File) Chats(_ context.Context, session string) ([]model.ChatEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadChats(session)
}

func (f *File) Durable() bool { return false }

func (f *File) Close() error { return nil }
