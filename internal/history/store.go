// Package history archives validation reports in a local SQLite database.
package history

import (
	"bytes"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"botlint/internal/errors"
	"botlint/internal/finding"
	"botlint/internal/report"
	"botlint/internal/slogutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	generated_at INTEGER NOT NULL,
	total        INTEGER NOT NULL,
	errors       INTEGER NOT NULL,
	warnings     INTEGER NOT NULL,
	report       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at DESC);
`

// Run summarises one archived report.
type Run struct {
	RunID       string    `json:"runId"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`
	Total       int       `json:"total"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
}

// Store is a report archive.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
	enc    *zstd.Encoder
	dec    *zstd.Decoder
}

// Open opens or creates the database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	logger = slogutil.WithComponent(logger, "history")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot create history directory", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot open history database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.HistoryUnavailable, "failed to set pragma", err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.New(errors.HistoryUnavailable, "failed to initialize schema", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	logger.Debug("History store opened", "path", path)
	return &Store{conn: conn, logger: logger, path: path, enc: enc, dec: dec}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.logger.Warn("Closing encoder failed", "error", err)
	}
	return s.conn.Close()
}

// Save archives r, replacing any earlier run with the same ID.
func (s *Store) Save(r *report.Report) error {
	data, err := encodeReport(r)
	if err != nil {
		return err
	}
	blob := s.enc.EncodeAll(data, nil)

	_, err = s.conn.Exec(`
		INSERT OR REPLACE INTO runs (run_id, source, generated_at, total, errors, warnings, report)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Source, r.GeneratedAt.UnixNano(), r.Summary.Total,
		r.Summary.BySeverity[finding.SeverityError], r.Summary.BySeverity[finding.SeverityWarning], blob)
	if err != nil {
		return errors.New(errors.HistoryUnavailable, "failed to save run", err)
	}

	s.logger.Debug("Run archived", "runId", r.RunID, "bytes", len(data), "stored", len(blob))
	return nil
}

// Get loads an archived report.
func (s *Store) Get(runID string) (*report.Report, error) {
	var blob []byte
	err := s.conn.QueryRow(`SELECT report FROM runs WHERE run_id = ?`, runID).Scan(&blob)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.New(errors.RunNotFound, fmt.Sprintf("run %s not found", runID), nil)
	}
	if err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "failed to load run", err)
	}

	data, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, errors.New(errors.InternalError, "corrupt run record", err)
	}
	return report.Decode(data)
}

// List returns up to limit runs, newest first. limit <= 0 means 20.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(`
		SELECT run_id, source, generated_at, total, errors, warnings
		FROM runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "failed to list runs", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var ts int64
		if err := rows.Scan(&r.RunID, &r.Source, &ts, &r.Total, &r.Errors, &r.Warnings); err != nil {
			return nil, errors.New(errors.HistoryUnavailable, "failed to scan run", err)
		}
		r.GeneratedAt = time.Unix(0, ts).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func encodeReport(r *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.EncodeJSON(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
