package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"guild-progression/internal/adapters/storage/yamlfile"
	"guild-progression/internal/core/domain"
)

// Store keeps the YAML-encoded guild document in a single row.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS guild_document (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			body BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*domain.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM guild_document WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return yamlfile.Decode(body)
}

func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	body, err := yamlfile.Encode(doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guild_document (id, body, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`, body)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	_ = s.db.Close()
}
