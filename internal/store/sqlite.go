package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"saas-agent/internal/model"
)

// SQLite 持久化全部会话状态，会议台账重启后仍可用
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite pragmas: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) AutoMigrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			credentials TEXT NOT NULL,
			updated_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS meetings (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			event_id TEXT NOT NULL,
			join_link TEXT NOT NULL DEFAULT '',
			start_unix INTEGER NOT NULL,
			end_unix INTEGER NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_meetings_session ON meetings(session_id, seq);`,
		`CREATE TABLE IF NOT EXISTS telegram_chats (
			session_id TEXT NOT NULL,
			chat_id INTEGER NOT NULL,
			chat_type TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			first_seen_unix INTEGER NOT NULL,
			last_seen_unix INTEGER NOT NULL,
			PRIMARY KEY(session_id, chat_id)
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (s *SQLite) LoadCredentials(ctx context.Context, session string) (model.Credentials, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT credentials FROM sessions WHERE session_id = ?`, session).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credentials{}, nil
	}
	if err != nil {
		return model.Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	var creds model.Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return model.Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, nil
}

func (s *SQLite) SaveCredentials(ctx context.Context, session string, creds model.Credentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, credentials, updated_at_unix) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET credentials = excluded.credentials, updated_at_unix = excluded.updated_at_unix`,
		session, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *SQLite) Meetings(ctx context.Context, session string) ([]model.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, join_link, start_unix, end_unix, summary, description
		 FROM meetings WHERE session_id = ? ORDER BY seq ASC`, session)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var out []model.Meeting
	for rows.Next() {
		var (
			m          model.Meeting
			start, end int64
		)
		if err := rows.Scan(&m.EventID, &m.JoinLink, &start, &end, &m.Summary, &m.Description); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		m.Start = time.Unix(start, 0)
		m.End = time.Unix(end, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLite) AppendMeeting(ctx context.Context, session string, m model.Meeting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meetings (session_id, event_id, join_link, start_unix, end_unix, summary, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session, m.EventID, m.JoinLink, m.Start.Unix(), m.End.Unix(), m.Summary, m.Description)
	if err != nil {
		return fmt.Errorf("append meeting: %w", err)
	}
	return nil
}

func (s *SQLite) ReplaceMeeting(ctx context.Context, session, eventID string, m model.Meeting) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE meetings SET event_id = ?, join_link = ?, start_unix = ?, end_unix = ?, summary = ?, description = ?
		 WHERE session_id = ? AND event_id = ?`,
		m.EventID, m.JoinLink, m.Start.Unix(), m.End.Unix(), m.Summary, m.Description, session, eventID)
	if err != nil {
		return fmt.Errorf("replace meeting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *SQLite) RemoveMeeting(ctx context.Context, session, eventID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM meetings WHERE session_id = ? AND event_id = ?`, session, eventID); err != nil {
		return fmt.Errorf("remove meeting: %w", err)
	}
	return nil
}

func (s *SQLite) UpsertChats(ctx context.Context, session string, chats []model.ChatEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range chats {
		seen := c.LastSeen.Unix()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO telegram_chats (session_id, chat_id, chat_type, title, username, first_seen_unix, last_seen_unix)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, chat_id) DO UPDATE SET
			   chat_type = CASE WHEN excluded.chat_type != '' THEN excluded.chat_type ELSE chat_type END,
			   title = CASE WHEN excluded.title != '' THEN excluded.title ELSE title END,
			   username = CASE WHEN excluded.username != '' THEN excluded.username ELSE username END,
			   last_seen_unix = MAX(last_seen_unix, excluded.last_seen_unix)`,
			session, c.ID, c.Type, c.Title, c.Username, seen, seen); err != nil {
			return fmt.Errorf("upsert chat %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Chats(ctx context.Context, session string) ([]model.ChatEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, chat_type, title, username, last_seen_unix
		 FROM telegram_chats WHERE session_id = ? ORDER BY first_seen_unix ASC, chat_id ASC`, session)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var out []model.ChatEntry
	for rows.Next() {
		var (
			c    model.ChatEntry
			seen int64
		)
		if err := rows.Scan(&c.ID, &c.Type, &c.Title, &c.Username, &seen); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		c.LastSeen = time.Unix(seen, 0)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) Durable() bool { return true }

func (s *SQLite) Close() error { return s.db.Close() }
