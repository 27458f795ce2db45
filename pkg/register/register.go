// Package register keeps a local history of produced drawings in SQLite.
//
// Every successful `discdraw draw` adds one [Entry]: which parameters were
// drawn, on which template, into which files, and how many style warnings
// the run raised. `discdraw history` lists the entries.
package register

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema.sql
var schema string

// timeLayout sorts lexically in time order for UTC values.
const timeLayout = "2006-01-02T15:04:05.000Z"

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("drawing not found")

// Entry is one produced drawing.
type Entry struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	ParamsHash string        `json:"params_hash"`
	Diameter   float64       `json:"diameter"`
	Template   string        `json:"template,omitempty"`
	Outputs    []string      `json:"outputs"`
	Entities   int           `json:"entities"`
	Warnings   int           `json:"warnings"`
	Duration   time.Duration `json:"duration"`
}

// Register is a SQLite-backed drawing history.
type Register struct {
	db *sql.DB
}

// DefaultPath returns the per-user register location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "discdraw", "register.db"), nil
}

// Open opens or creates the register at path.
func Open(ctx context.Context, path string) (*Register, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir register dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Register{db: db}, nil
}

// Record stores e. An empty ID is replaced with a new UUID and a zero
// CreatedAt with the current time; the stored entry is returned.
func (r *Register) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Millisecond)
	if e.Outputs == nil {
		e.Outputs = []string{}
	}
	outputs, err := json.Marshal(e.Outputs)
	if err != nil {
		return Entry{}, err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO drawings (id, created_at, params_hash, diameter, template, outputs, entities, warnings, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		e.ID,
		e.CreatedAt.Format(timeLayout),
		e.ParamsHash,
		e.Diameter,
		e.Template,
		string(outputs),
		e.Entities,
		e.Warnings,
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record drawing: %w", err)
	}
	return e, nil
}

const selectEntry = `
        SELECT id, created_at, params_hash, diameter, template, outputs, entities, warnings, duration_ms
        FROM drawings`

// Get returns the entry with the given ID.
func (r *Register) Get(ctx context.Context, id string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// List returns up to limit entries, newest first. A limit of 0 returns all.
func (r *Register) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, selectEntry+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindByParams returns the entries drawn from the given parameter hash,
// newest first.
func (r *Register) FindByParams(ctx context.Context, paramsHash string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntry+` WHERE params_hash = ? ORDER BY created_at DESC, rowid DESC`, paramsHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *Register) Close() error { return r.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e        Entry
		created  string
		outputs  string
		duration int64
	)
	err := s.Scan(&e.ID, &created, &e.ParamsHash, &e.Diameter, &e.Template, &outputs, &e.Entities, &e.Warnings, &duration)
	if err != nil {
		return Entry{}, err
	}
	if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Entry{}, fmt.Errorf("drawing %s: created_at: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(outputs), &e.Outputs); err != nil {
		return Entry{}, fmt.Errorf("drawing %s: outputs: %w", e.ID, err)
	}
	e.Duration = time.Duration(duration) * time.Millisecond
	return e, nil
}
