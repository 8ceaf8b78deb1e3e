// Package store persists chat conversations and messages in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	user_id    TEXT,
	title      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'active',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id),
	role            TEXT NOT NULL,
	text            TEXT NOT NULL,
	content_json    TEXT,
	created_at      INTEGER NOT NULL,
	parent_id       TEXT
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, created_at);
`

// Conversation is one chat thread.
type Conversation struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Message is one chat turn. ContentJSON carries optional structured
// payload (search results the assistant grounded on, tool output).
type Message struct {
	ID          string          `json:"id"`
	Role        string          `json:"role"`
	Text        string          `json:"text"`
	ContentJSON json.RawMessage `json:"content_json,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	ParentID    string          `json:"parent_id,omitempty"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the chat database at path, applies
// the schema, and enables WAL and foreign keys.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateConversation starts a new thread and returns its id.
func (s *Store) CreateConversation(ctx context.Context, title, userID string) (string, error) {
	if title == "" {
		title = "New conversation"
	}
	id := "cv_" + uuid.NewString()
	ts := nowMs()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, status, created_at, updated_at)
		 VALUES (?, ?, ?, 'active', ?, ?)`,
		id, nullable(userID), title, ts, ts)
	if err != nil {
		return "", fmt.Errorf("create conversation: %w", err)
	}
	return id, nil
}

// GetConversation returns a thread, or nil when it does not exist.
func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, status, created_at, updated_at
		 FROM conversations WHERE id = ?`, id)

	var c Conversation
	var userID sql.NullString
	err := row.Scan(&c.ID, &userID, &c.Title, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	c.UserID = userID.String
	return &c, nil
}

// UpdateConversationTitle renames a thread and bumps updated_at.
func (s *Store) UpdateConversationTitle(ctx context.Context, id, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`,
		title, nowMs(), id)
	if err != nil {
		return fmt.Errorf("update conversation title: %w", err)
	}
	return nil
}

// AddMessage appends a message to a thread and returns the message id.
func (s *Store) AddMessage(ctx context.Context, conversationID, role, text string, contentJSON json.RawMessage, parentID string) (string, error) {
	id := "m_" + uuid.NewString()
	ts := nowMs()

	var content any
	if len(contentJSON) > 0 {
		content = string(contentJSON)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, text, content_json, created_at, parent_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, conversationID, role, text, content, ts, nullable(parentID))
	if err != nil {
		return "", fmt.Errorf("add message: %w", err)
	}
	return id, nil
}

// ListMessages returns up to limit messages of a thread, newest first.
// A non-zero beforeMs cursor restricts to messages created strictly
// before that timestamp, which pages backward through history.
func (s *Store) ListMessages(ctx context.Context, conversationID string, limit int, beforeMs int64) ([]Message, error) {
	if limit <= 0 {
		limit = 30
	}

	q := `SELECT id, role, text, content_json, created_at, parent_id
	      FROM messages WHERE conversation_id = ?`
	args := []any{conversationID}
	if beforeMs > 0 {
		q += ` AND created_at < ?`
		args = append(args, beforeMs)
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var content, parent sql.NullString
		if err := rows.Scan(&m.ID, &m.Role, &m.Text, &content, &m.CreatedAt, &parent); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if content.Valid {
			m.ContentJSON = json.RawMessage(content.String)
		}
		m.ParentID = parent.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
