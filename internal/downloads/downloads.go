// Package downloads records the history of track downloads.
package downloads

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/wavecast/internal/db"
)

// Status constants for download records.
const (
	StatusPending     = "pending"
	StatusDownloading = "downloading"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
)

// ErrNotFound is returned when no record matches an ID.
var ErrNotFound = errors.New("downloads: record not found")

// Record is a single download job.
type Record struct {
	ID        string
	URL       string
	Filename  string
	Path      string
	Status    string
	Bytes     int64
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFinished reports whether the download reached a terminal status.
func (r Record) IsFinished() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Store provides database operations for download records.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path (empty for the default XDG
// location) and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and ensures the schema exists.
func New(db *sql.DB) (*Store, error) {
	if err := initSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS downloads (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			filename TEXT NOT NULL,
			path TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			bytes INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
	`)
	return err
}

// Create inserts a new pending record.
func (s *Store) Create(ctx context.Context, rec Record) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (id, url, filename, path, status, bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, rec.ID, rec.URL, rec.Filename, dbutil.ToNullString(rec.Path), StatusPending, now, now)
	return err
}

// MarkDownloading moves a record to the downloading status.
func (s *Store) MarkDownloading(ctx context.Context, id string) error {
	return s.updateStatus(ctx, id, func(tx *sql.Tx, now int64) (sql.Result, error) {
		return tx.Exec(`
			UPDATE downloads SET status = ?, updated_at = ? WHERE id = ?
		`, StatusDownloading, now, id)
	})
}

// Finish stores the terminal status of a record.
func (s *Store) Finish(ctx context.Context, id, status, path string, bytes int64, errMsg string) error {
	return s.updateStatus(ctx, id, func(tx *sql.Tx, now int64) (sql.Result, error) {
		return tx.Exec(`
			UPDATE downloads
			SET status = ?, path = COALESCE(?, path), bytes = ?, error = ?, updated_at = ?
			WHERE id = ?
		`, status, dbutil.ToNullString(path), bytes, dbutil.ToNullString(errMsg), now, id)
	})
}

func (s *Store) updateStatus(
	ctx context.Context,
	id string,
	update func(tx *sql.Tx, now int64) (sql.Result, error),
) error {
	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := update(tx, time.Now().Unix())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

const selectColumns = `
	SELECT id, url, filename, path, status, bytes, error, created_at, updated_at
	FROM downloads
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var path, errMsg sql.NullString
	var createdAt, updatedAt int64
	if err := sc.Scan(
		&r.ID, &r.URL, &r.Filename, &path, &r.Status, &r.Bytes, &errMsg,
		&createdAt, &updatedAt,
	); err != nil {
		return Record{}, err
	}
	r.Path = dbutil.NullStringValue(path)
	r.Error = dbutil.NullStringValue(errMsg)
	r.CreatedAt = time.Unix(createdAt, 0)
	r.UpdatedAt = time.Unix(updatedAt, 0)
	return r, nil
}

// Get returns a record by its ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteFinished removes completed and failed records and returns how many
// were deleted.
func (s *Store) DeleteFinished(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM downloads WHERE status IN (?, ?)
	`, StatusCompleted, StatusFailed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
