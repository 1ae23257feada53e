package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"corpusprep/internal/manifest"
	"corpusprep/internal/services"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const upsertState = `INSERT INTO datasets (category, split, state, updated_at, last_error)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (category, split) DO UPDATE SET
    state = excluded.state,
    updated_at = excluded.updated_at,
    last_error = excluded.last_error`

// SetState records that a dataset reached state and clears any prior error.
func (s *Store) SetState(ctx context.Context, key Key, state State) error {
	if _, ok := ParseState(string(state)); !ok {
		return services.Wrap(services.ErrValidation, "ledger", "set state", string(state), nil)
	}
	if _, err := s.db.ExecContext(ctx, upsertState, key.Category, key.Split, string(state), now(), nil); err != nil {
		return fmt.Errorf("set state %s/%s: %w", key.Split, key.Category, err)
	}
	return nil
}

// RecordDiscovery stores label and missing-audio counts and marks the dataset
// discovered.
func (s *Store) RecordDiscovery(ctx context.Context, key Key, labels, missing int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin discovery tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertState, key.Category, key.Split, string(StateDiscovered), now(), nil); err != nil {
		return fmt.Errorf("set discovered: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE datasets SET label_count = ?, missing_audio = ? WHERE category = ? AND split = ?`,
		labels, missing, key.Category, key.Split,
	); err != nil {
		return fmt.Errorf("update discovery counts: %w", err)
	}
	return tx.Commit()
}

// MarkFailed records a failure for the dataset.
func (s *Store) MarkFailed(ctx context.Context, key Key, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if _, err := s.db.ExecContext(ctx, upsertState, key.Category, key.Split, string(StateFailed), now(), msg); err != nil {
		return fmt.Errorf("mark failed %s/%s: %w", key.Split, key.Category, err)
	}
	return nil
}

// ReplaceRecords swaps the stored records of a dataset for records and marks
// it processed, atomically.
func (s *Store) ReplaceRecords(ctx context.Context, key Key, records []manifest.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin records tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertState, key.Category, key.Split, string(StateProcessed), now(), nil); err != nil {
		return fmt.Errorf("set processed: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE category = ? AND split = ?`, key.Category, key.Split,
	); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (category, split, audio_filepath, duration, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, key.Category, key.Split, rec.AudioFilepath, rec.Duration, rec.Text); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE datasets SET record_count = ? WHERE category = ? AND split = ?`,
		len(records), key.Category, key.Split,
	); err != nil {
		return fmt.Errorf("update record count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}
	return nil
}

// Records returns the records of every processed dataset in split, skipping
// the excluded categories, in the order the datasets were processed.
func (s *Store) Records(ctx context.Context, split string, exclude []string) ([]manifest.Record, error) {
	query := `SELECT r.audio_filepath, r.duration, r.text
FROM records r
JOIN datasets d ON d.category = r.category AND d.split = r.split
WHERE r.split = ? AND d.state = ?`
	args := []any{split, string(StateProcessed)}
	if len(exclude) > 0 {
		query += " AND r.category NOT IN (" + placeholders(len(exclude)) + ")"
		for _, category := range exclude {
			args = append(args, category)
		}
	}
	query += " ORDER BY d.updated_at, r.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []manifest.Record
	for rows.Next() {
		var rec manifest.Record
		if err := rows.Scan(&rec.AudioFilepath, &rec.Duration, &rec.Text); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const datasetColumns = "category, split, state, label_count, record_count, missing_audio, updated_at, last_error"

// Datasets lists every tracked dataset ordered by split and update time.
func (s *Store) Datasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+datasetColumns+" FROM datasets ORDER BY split, updated_at, category")
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Dataset fetches one dataset. Unknown keys return services.ErrNotFound.
func (s *Store) Dataset(ctx context.Context, key Key) (Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+datasetColumns+" FROM datasets WHERE category = ? AND split = ?",
		key.Category, key.Split)
	ds, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, services.Wrap(services.ErrNotFound, "ledger", "get dataset", key.Split+"/"+key.Category, nil)
	}
	return ds, err
}

func scanDataset(scanner interface{ Scan(dest ...any) error }) (Dataset, error) {
	var (
		ds         Dataset
		stateRaw   string
		updatedRaw string
		lastError  sql.NullString
	)
	if err := scanner.Scan(
		&ds.Category,
		&ds.Split,
		&stateRaw,
		&ds.LabelCount,
		&ds.RecordCount,
		&ds.MissingAudio,
		&updatedRaw,
		&lastError,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dataset{}, err
		}
		return Dataset{}, fmt.Errorf("scan dataset: %w", err)
	}
	state, ok := ParseState(stateRaw)
	if !ok {
		return Dataset{}, services.Wrap(services.ErrMalformedInput, "ledger", "scan dataset", "unknown state "+stateRaw, nil)
	}
	ds.State = state
	if ts, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		ds.UpdatedAt = ts
	}
	ds.LastError = lastError.String
	return ds, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// timestampLayout is fixed width so stored values sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}
