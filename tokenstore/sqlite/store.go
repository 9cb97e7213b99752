// Package sqlite keeps the client's token record in a local SQLite file.
//
// It serves the same token source and session clearer contracts as the
// Redis store, for clients that have no Redis at hand.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goLiveness/tokenstore"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	subject TEXT NOT NULL DEFAULT '',
	access_token TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	access_expires_at INTEGER NOT NULL DEFAULT 0,
	refresh_expires_at INTEGER NOT NULL DEFAULT 0,
	saved_at INTEGER NOT NULL DEFAULT 0
);`

const upsertQuery = `
INSERT INTO credentials (id, subject, access_token, refresh_token, access_expires_at, refresh_expires_at, saved_at)
VALUES (1, :subject, :access_token, :refresh_token, :access_expires_at, :refresh_expires_at, :saved_at)
ON CONFLICT(id) DO UPDATE SET
	subject = excluded.subject,
	access_token = excluded.access_token,
	refresh_token = excluded.refresh_token,
	access_expires_at = excluded.access_expires_at,
	refresh_expires_at = excluded.refresh_expires_at,
	saved_at = excluded.saved_at`

type credentialRow struct {
	Subject          string `db:"subject"`
	AccessToken      string `db:"access_token"`
	RefreshToken     string `db:"refresh_token"`
	AccessExpiresAt  int64  `db:"access_expires_at"`
	RefreshExpiresAt int64  `db:"refresh_expires_at"`
	SavedAt          int64  `db:"saved_at"`
}

// Store persists a single [tokenstore.Record] in SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the credential database at path. Use ":memory:"
// for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored record.
func (s *Store) Save(ctx context.Context, rec *tokenstore.Record) error {
	row := credentialRow{
		Subject:          rec.Subject,
		AccessToken:      rec.AccessToken,
		RefreshToken:     rec.RefreshToken,
		AccessExpiresAt:  rec.AccessExpiresAt,
		RefreshExpiresAt: rec.RefreshExpiresAt,
		SavedAt:          rec.SavedAt,
	}
	if row.SavedAt == 0 {
		row.SavedAt = time.Now().Unix()
	}
	if _, err := s.db.NamedExecContext(ctx, upsertQuery, row); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load returns the stored record, or (nil, nil) when none is stored.
func (s *Store) Load(ctx context.Context) (*tokenstore.Record, error) {
	var row credentialRow
	err := s.db.GetContext(ctx, &row, `SELECT subject, access_token, refresh_token, access_expires_at, refresh_expires_at, saved_at FROM credentials WHERE id = 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return &tokenstore.Record{
		Subject:          row.Subject,
		AccessToken:      row.AccessToken,
		RefreshToken:     row.RefreshToken,
		AccessExpiresAt:  row.AccessExpiresAt,
		RefreshExpiresAt: row.RefreshExpiresAt,
		SavedAt:          row.SavedAt,
	}, nil
}

// AccessTokenExpiration implements the monitor's token source.
func (s *Store) AccessTokenExpiration(ctx context.Context) (time.Time, bool, error) {
	rec, err := s.Load(ctx)
	if err != nil || rec == nil {
		return time.Time{}, false, err
	}
	exp, ok := rec.AccessExpiration()
	return exp, ok, nil
}

// RefreshTokenExpiration implements the monitor's token source.
func (s *Store) RefreshTokenExpiration(ctx context.Context) (time.Time, bool, error) {
	rec, err := s.Load(ctx)
	if err != nil || rec == nil {
		return time.Time{}, false, err
	}
	exp, ok := rec.RefreshExpiration()
	return exp, ok, nil
}

// Logout deletes the stored record. It succeeds when nothing is stored.
func (s *Store) Logout(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
