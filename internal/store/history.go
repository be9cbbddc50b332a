package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/gpstime/internal/convert"
)

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("record not found")

// Record is one stored conversion.
type Record struct {
	ID          string
	Kind        string
	Input       string
	TableSource string
	Result      convert.Fields
	Warnings    []string
	RecordedAt  time.Time
}

// ListOptions filters List. Zero values mean no filter.
type ListOptions struct {
	// Limit caps the number of records; 0 means all.
	Limit int

	// Kind keeps only records of this input kind.
	Kind string

	// Since keeps only records stamped at or after this time.
	Since time.Time
}

// Append stores rec, assigning its ID and RecordedAt. The completed record
// is returned.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	rec.ID = s.ids.Generate()
	rec.RecordedAt = s.clock.Now().UTC().Truncate(time.Microsecond)

	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return Record{}, fmt.Errorf("append record: %w", err)
	}
	warnings := rec.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return Record{}, fmt.Errorf("append record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversions
		(id, kind, input, table_source, result, warnings, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Kind,
		rec.Input,
		rec.TableSource,
		string(resultJSON),
		string(warningsJSON),
		rec.RecordedAt.UnixMicro(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("append record: %w", err)
	}
	return rec, nil
}

// List returns records newest first.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, opts.Kind)
	}
	if !opts.Since.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, opts.Since.UnixMicro())
	}

	query := `SELECT id, kind, input, table_source, result, warnings, recorded_at FROM conversions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return records, nil
}

// Get returns the record with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, input, table_source, result, warnings, recorded_at
		FROM conversions
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count conversions: %w", err)
	}
	return n, nil
}

// Clear deletes every record and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversions`)
	if err != nil {
		return 0, fmt.Errorf("clear conversions: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec          Record
		resultJSON   string
		warningsJSON string
		recordedAt   int64
	)
	err := row.Scan(&rec.ID, &rec.Kind, &rec.Input, &rec.TableSource, &resultJSON, &warningsJSON, &recordedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan conversion: %w", err)
	}

	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return Record{}, fmt.Errorf("decode result of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &rec.Warnings); err != nil {
		return Record{}, fmt.Errorf("decode warnings of %s: %w", rec.ID, err)
	}
	if len(rec.Warnings) == 0 {
		rec.Warnings = nil
	}
	rec.RecordedAt = time.UnixMicro(recordedAt).UTC()
	return rec, nil
}
