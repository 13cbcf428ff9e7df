package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	apperrors "github.com/dygy/tunescribe/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	midi_path  TEXT NOT NULL,
	notes      INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS conversions_created_at ON conversions (created_at);
`

// Record is one completed conversion
type Record struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	MIDIPath  string    `json:"midi_path"`
	Notes     int       `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps the conversion history in SQLite
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under the HTTP server
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished conversion and returns it
func (s *Store) Record(ctx context.Context, source, midiPath string, notes int) (*Record, error) {
	rec := &Record{
		ID:        uuid.NewString(),
		Source:    source,
		MIDIPath:  midiPath,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (id, source, midi_path, notes, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.MIDIPath, rec.Notes, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversion: %w", err)
	}
	return rec, nil
}

// Get returns the conversion with the given id
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, midi_path, notes, created_at FROM conversions WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: conversion %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query conversion: %w", err)
	}
	return rec, nil
}

// List returns up to limit conversions, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, midi_path, notes, created_at FROM conversions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var created int64
	if err := row.Scan(&rec.ID, &rec.Source, &rec.MIDIPath, &rec.Notes, &created); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}
