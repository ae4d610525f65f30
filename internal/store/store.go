// Package store keeps a local history of analyses in sqlite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/veracity/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no report has the requested ID
var ErrNotFound = errors.New("report not found")

// DefaultListLimit is used when List is called with a non-positive limit
const DefaultListLimit = 20

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    subject TEXT NOT NULL,
    source TEXT,
    score INTEGER NOT NULL,
    label TEXT NOT NULL,
    analyzed_at TEXT NOT NULL,
    body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_analyzed_at ON reports(analyzed_at);
`

// Entry is the summary row shown by history listings
type Entry struct {
	ID         string           `json:"id"`
	Kind       model.ReportKind `json:"kind"`
	Subject    string           `json:"subject"`
	Source     string           `json:"source,omitempty"`
	Score      int              `json:"score"`
	Label      string           `json:"label"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

// Store is a sqlite-backed report history
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the history database at path and applies the schema
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; serialize through a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Debug("history store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a report under a new ID and returns it
func (s *Store) Save(ctx context.Context, report *model.Report) (string, error) {
	id := uuid.NewString()

	stored := *report
	stored.ID = id
	body, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	score, label := report.Headline()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, kind, subject, source, score, label, analyzed_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(report.Kind), report.Subject, report.Source, score, label,
		report.AnalyzedAt.UTC().Format(time.RFC3339Nano), string(body),
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	s.logger.Debug("report saved", "id", id, "kind", report.Kind)
	return id, nil
}

// List returns the most recent entries, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, subject, source, score, label, analyzed_at
		 FROM reports ORDER BY analyzed_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			kind       string
			source     sql.NullString
			analyzedAt string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Subject, &source, &e.Score, &e.Label, &analyzedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		e.Kind = model.ReportKind(kind)
		e.Source = source.String
		if t, err := time.Parse(time.RFC3339Nano, analyzedAt); err == nil {
			e.AnalyzedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return entries, nil
}

// Get returns the full report stored under id
func (s *Store) Get(ctx context.Context, id string) (*model.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

// Delete removes the report stored under id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}
