package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"project_armada/internal/entities"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStateStore keeps sessions in a single-file SQLite database
type SQLiteStateStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLiteStateStore(path string, ttl time.Duration) (*SQLiteStateStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			chat_id INTEGER PRIMARY KEY,
			category TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SQLiteStateStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStateStore) Get(ctx context.Context, chatID int64) (entities.Session, error) {
	var category string
	var updated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT category, updated_at FROM sessions WHERE chat_id = ?", chatID,
	).Scan(&category, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Session{ChatID: chatID}, nil
	}
	if err != nil {
		return entities.Session{}, entities.NewError(entities.KindStateStore, "sqlite get session", err)
	}

	session := entities.Session{ChatID: chatID, Category: category, UpdatedAt: time.Unix(updated, 0).UTC()}
	if s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl {
		return entities.Session{ChatID: chatID}, nil
	}
	return session, nil
}

func (s *SQLiteStateStore) Set(ctx context.Context, chatID int64, category string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (chat_id, category, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET category = excluded.category, updated_at = excluded.updated_at
	`, chatID, category, s.now().Unix())
	if err != nil {
		return entities.NewError(entities.KindStateStore, "sqlite set session", err)
	}
	return nil
}

func (s *SQLiteStateStore) Clear(ctx context.Context, chatID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE chat_id = ?", chatID); err != nil {
		return entities.NewError(entities.KindStateStore, "sqlite clear session", err)
	}
	return nil
}

// Purge deletes sessions idle longer than the TTL
func (s *SQLiteStateStore) Purge(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, entities.NewError(entities.KindStateStore, "sqlite purge sessions", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}
