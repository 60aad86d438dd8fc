// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuidiner/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so MAX() over text timestamps orders correctly.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for durable game state and the guess journal.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS guesses (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			selector TEXT NOT NULL,
			correct INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_guesses_level ON guesses(level);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key. The bool is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(timeLayout))
	return err
}

// AppendGuess journals a single guess.
func (s *Store) AppendGuess(ctx context.Context, ev model.GuessEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	correct := 0
	if ev.Correct {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO guesses (session_id, level, selector, correct, created_at) VALUES (?, ?, ?, ?, ?)`,
		ev.SessionID, ev.Level, ev.Selector, correct, at.UTC().Format(timeLayout))
	return err
}

// ListLevelAggregates summarizes journaled guesses per level, ordered by level.
func (s *Store) ListLevelAggregates(ctx context.Context) ([]model.LevelAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, COUNT(*) AS attempts, SUM(correct) AS correct, MAX(created_at) AS last_at
		 FROM guesses
		 GROUP BY level
		 ORDER BY level ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LevelAggregate
	for rows.Next() {
		var agg model.LevelAggregate
		var lastAt string
		if err := rows.Scan(&agg.Level, &agg.Attempts, &agg.Correct, &lastAt); err != nil {
			return nil, err
		}
		agg.Incorrect = agg.Attempts - agg.Correct
		parsed, err := time.Parse(timeLayout, lastAt)
		if err != nil {
			return nil, err
		}
		agg.LastAt = parsed
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRecentGuesses returns up to limit guesses, newest first.
func (s *Store) ListRecentGuesses(ctx context.Context, limit int) ([]model.GuessEvent, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, level, selector, correct, created_at
		 FROM guesses
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.GuessEvent
	for rows.Next() {
		var ev model.GuessEvent
		var correct int
		var createdAt string
		if err := rows.Scan(&ev.SessionID, &ev.Level, &ev.Selector, &correct, &createdAt); err != nil {
			return nil, err
		}
		ev.Correct = correct != 0
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		ev.At = parsed
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ClearGuesses deletes the whole guess journal.
func (s *Store) ClearGuesses(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM guesses`)
	return err
}
