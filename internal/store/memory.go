package store

import (
	"context"
	"sync"

	"saas-agent/internal/model"
)

type sessionState struct {
	creds    model.Credentials
	meetings []model.Meeting
	chats    []model.ChatEntry
}

// Memory 进程内存储，重启后全部丢失
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*sessionState)}
}

func (m *Memory) state(session string) *sessionState {
	st, ok := m.sessions[session]
	if !ok {
		st = &sessionState{}
		m.sessions[session] = st
	}
	return st
}

func (m *Memory) LoadCredentials(_ context.Context, session string) (model.Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.sessions[session]; ok {
		return st.creds, nil
	}
	return model.Credentials{}, nil
}

func (m *Memory) SaveCredentials(_ context.Context, session string, creds model.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state(session).creds = creds
	return nil
}

func (m *Memory) Meetings(_ context.Context, session string) ([]model.Meeting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[session]
	if !ok {
		return nil, nil
	}
	return append([]model.Meeting(nil), st.meetings...), nil
}

func (m *Memory) AppendMeeting(_ context.Context, session string, mt model.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(session)
	st.meetings = append(st.meetings, mt)
	return nil
}

func (m *Memory) ReplaceMeeting(_ context.Context, session, eventID string, mt model.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(session)
	for i := range st.meetings {
		if st.meetings[i].EventID == eventID {
			st.meetings[i] = mt
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *Memory) RemoveMeeting(_ context.Context, session, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[session]
	if !ok {
		return nil
	}
	kept := st.meetings[:0]
	for _, mt := range st.meetings {
		if mt.EventID != eventID {
			kept = append(kept, mt)
		}
	}
	st.meetings = kept
	return nil
}

func (m *Memory) UpsertChats(_ context.Context, session string, chats []model.ChatEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(session)
	st.chats = mergeChats(st.chats, chats)
	return nil
}

func (m *Memory) Chats(_ context.Context, session string) ([]model.ChatEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[session]
	if !ok {
		return nil, nil
	}
	return append([]model.ChatEntry(nil), st.chats...), nil
}

func (m *Memory) Durable() bool { return false }

func (m *Memory) Close() error { return nil }
