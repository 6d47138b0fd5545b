package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run id matches no stored run.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, seq, batch_hash, output_hash, source, generator_version, ir_version, created_at`

// ReadRuns returns the newest runs first, without their declarations.
// A limit of zero or less returns every run.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ReadRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun retrieves a run by id, with its declarations in emission order.
// Returns ErrRunNotFound if there is no such run.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return s.completeRun(ctx, row)
}

// LatestRun retrieves the run with the highest seq.
// Returns ErrRunNotFound if the store is empty.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT 1`)
	return s.completeRun(ctx, row)
}

// FindRunByBatch retrieves the newest run of an identical batch.
// Returns ErrRunNotFound if the batch was never generated.
func (s *Store) FindRunByBatch(ctx context.Context, batchHash string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE batch_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, batchHash)
	return s.completeRun(ctx, row)
}

func (s *Store) completeRun(ctx context.Context, row *sql.Row) (Run, error) {
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}

	decls, err := s.readDeclarations(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	run.Declarations = decls
	return run, nil
}

func (s *Store) readDeclarations(ctx context.Context, runID string) ([]DeclarationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, name, kind, recursive, fingerprint
		FROM declarations
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query declarations: %w", err)
	}
	defer rows.Close()

	decls := []DeclarationRecord{}
	for rows.Next() {
		var d DeclarationRecord
		if err := rows.Scan(&d.Position, &d.Name, &d.Kind, &d.Recursive, &d.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		decls = append(decls, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate declarations: %w", err)
	}
	return decls, nil
}

// DeclarationVersion is the fingerprint a declaration had in one run.
type DeclarationVersion struct {
	RunID       string `json:"run_id"`
	Seq         int64  `json:"seq"`
	Fingerprint string `json:"fingerprint"`
	Recursive   bool   `json:"recursive"`
}

// DeclarationHistory returns every run that emitted name, oldest first.
// Returns an empty slice (not nil) if the name was never emitted.
func (s *Store) DeclarationHistory(ctx context.Context, name string) ([]DeclarationVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.seq, d.fingerprint, d.recursive
		FROM declarations d
		JOIN runs r ON d.run_id = r.id
		WHERE d.name = ?
		ORDER BY r.seq ASC, r.id COLLATE BINARY ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query declaration history: %w", err)
	}
	defer rows.Close()

	versions := []DeclarationVersion{}
	for rows.Next() {
		var v DeclarationVersion
		if err := rows.Scan(&v.RunID, &v.Seq, &v.Fingerprint, &v.Recursive); err != nil {
			return nil, fmt.Errorf("scan declaration history: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate declaration history: %w", err)
	}
	return versions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(
		&run.ID, &run.Seq, &run.BatchHash, &run.OutputHash, &run.Source,
		&run.GeneratorVersion, &run.IRVersion, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: created_at: %w", err)
	}
	run.CreatedAt = t
	return run, nil
}
