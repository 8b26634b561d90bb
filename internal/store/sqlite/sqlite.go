package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/liaison-server/internal/store"
)

// MemoryDSN keeps the database inside the process.
const MemoryDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY,
	position   INTEGER NOT NULL,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recipients (
	message_id   INTEGER NOT NULL,
	position     INTEGER NOT NULL,
	name         TEXT NOT NULL,
	acknowledged BOOLEAN NOT NULL DEFAULT 0,
	PRIMARY KEY (message_id, position),
	FOREIGN KEY (message_id) REFERENCES messages(id)
);

CREATE INDEX IF NOT EXISTS idx_messages_position ON messages(position);
CREATE INDEX IF NOT EXISTS idx_recipients_name ON recipients(name);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db  *sql.DB
	seq store.Sequence
}

// New creates a new SQLite store and applies the schema.
// dbPath is usually MemoryDSN.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// An in-memory database exists per connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	st := &SQLiteStore{db: db}
	if err := st.syncSequence(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) syncSequence() error {
	var maxID sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(id) FROM messages`).Scan(&maxID); err != nil {
		return fmt.Errorf("read max id: %w", err)
	}
	if !maxID.Valid {
		return nil
	}
	if err := s.seq.Observe(maxID.Int64); err != nil {
		return fmt.Errorf("sync sequence: %w", err)
	}
	return nil
}

// CreateMessage assigns the next id and appends the message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, draft store.Draft) (*store.Message, error) {
	id, err := s.seq.Next()
	if err != nil {
		return nil, err
	}
	msg := draft.Build(id)
	if err := s.upsert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ReplaceMessage overwrites the message at id. Absent ids are appended.
func (s *SQLiteStore) ReplaceMessage(ctx context.Context, id int64, draft store.Draft) error {
	if err := s.seq.Observe(id); err != nil {
		return err
	}
	return s.upsert(ctx, draft.Build(id))
}

func (s *SQLiteStore) upsert(ctx context.Context, msg *store.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO messages (id, position, body, created_at)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM messages), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			created_at = excluded.created_at
	`
	if _, err := tx.ExecContext(ctx, query, msg.ID, msg.Body, formatTime(msg.CreatedAt)); err != nil {
		return fmt.Errorf("upsert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipients WHERE message_id = ?`, msg.ID); err != nil {
		return fmt.Errorf("clear recipients: %w", err)
	}

	for i, r := range msg.Recipients {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipients (message_id, position, name, acknowledged)
			VALUES (?, ?, ?, ?)
		`, msg.ID, i, r.Name, r.Acknowledged)
		if err != nil {
			return fmt.Errorf("insert recipient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by id.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (*store.Message, error) {
	return getMessage(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getMessage(ctx context.Context, q querier, id int64) (*store.Message, error) {
	var (
		msg       store.Message
		createdAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, body, created_at
		FROM messages
		WHERE id = ?
	`, id).Scan(&msg.ID, &msg.Body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query message: %w", err)
	}
	if msg.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT name, acknowledged
		FROM recipients
		WHERE message_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query recipients: %w", err)
	}
	defer rows.Close()

	msg.Recipients = []store.Recipient{}
	for rows.Next() {
		var r store.Recipient
		if err := rows.Scan(&r.Name, &r.Acknowledged); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		msg.Recipients = append(msg.Recipients, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}

	return &msg, nil
}

// ListMessages returns every message in insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*store.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, body, created_at
		FROM messages
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	var messages []*store.Message
	byID := make(map[int64]*store.Message)
	for rows.Next() {
		var (
			msg       store.Message
			createdAt string
		)
		if err := rows.Scan(&msg.ID, &msg.Body, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if msg.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		msg.Recipients = []store.Recipient{}
		messages = append(messages, &msg)
		byID[msg.ID] = &msg
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	rows.Close()

	recRows, err := s.db.QueryContext(ctx, `
		SELECT message_id, name, acknowledged
		FROM recipients
		ORDER BY message_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipients: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var (
			messageID int64
			r         store.Recipient
		)
		if err := recRows.Scan(&messageID, &r.Name, &r.Acknowledged); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		if msg, ok := byID[messageID]; ok {
			msg.Recipients = append(msg.Recipients, r)
		}
	}
	if err := recRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}

	if messages == nil {
		messages = []*store.Message{}
	}
	return messages, nil
}

// AcknowledgeMessage marks every recipient entry named name as acknowledged.
func (s *SQLiteStore) AcknowledgeMessage(ctx context.Context, id int64, name string) (*store.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM messages WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query message: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE recipients SET acknowledged = 1
		WHERE message_id = ? AND name = ?
	`, id, name)
	if err != nil {
		return nil, fmt.Errorf("acknowledge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotRecipient
	}

	msg, err := getMessage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return msg, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}

var _ store.Store = (*SQLiteStore)(nil)
