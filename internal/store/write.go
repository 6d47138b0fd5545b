package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/iogen/internal/ir"
)

// Run is one recorded generation.
type Run struct {
	ID               string              `json:"id"`
	Seq              int64               `json:"seq"`
	BatchHash        string              `json:"batch_hash"`
	OutputHash       string              `json:"output_hash"`
	Source           string              `json:"source"`
	GeneratorVersion string              `json:"generator_version"`
	IRVersion        string              `json:"ir_version"`
	CreatedAt        time.Time           `json:"created_at"`
	Declarations     []DeclarationRecord `json:"declarations,omitempty"`
}

// DeclarationRecord is one emitted declaration of a run.
type DeclarationRecord struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Recursive   bool   `json:"recursive"`
	Fingerprint string `json:"fingerprint"`
}

// NewRun builds a run record for declarations in emission order and the
// document generated from them. Seq is assigned by WriteRun.
func NewRun(decls []ir.Declaration, output, source string) (Run, error) {
	batch, err := ir.BatchFingerprint(decls)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}

	run := Run{
		ID:               uuid.Must(uuid.NewV7()).String(),
		BatchHash:        batch,
		OutputHash:       ir.OutputFingerprint(output),
		Source:           source,
		GeneratorVersion: ir.GeneratorVersion,
		IRVersion:        ir.IRVersion,
		CreatedAt:        time.Now().UTC(),
		Declarations:     make([]DeclarationRecord, len(decls)),
	}

	for i, d := range decls {
		fp, err := ir.Fingerprint(d)
		if err != nil {
			return Run{}, fmt.Errorf("new run: %w", err)
		}
		rec := DeclarationRecord{Position: i, Name: d.DeclarationName(), Kind: "custom", Fingerprint: fp}
		if td, ok := d.(ir.TypeDeclaration); ok {
			rec.Kind = "type"
			rec.Recursive = td.IsRecursive()
		}
		run.Declarations[i] = rec
	}
	return run, nil
}

// WriteRun inserts a run and its declarations in one transaction and sets
// run.Seq to the next logical clock value.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same run
// twice keeps the first copy and leaves run.Seq at the stored value.
func (s *Store) WriteRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&existing)
	if err == nil {
		run.Seq = existing
		return tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("write run: lookup: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, batch_hash, output_hash, source, generator_version, ir_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.BatchHash,
		run.OutputHash,
		run.Source,
		run.GeneratorVersion,
		run.IRVersion,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: insert: %w", err)
	}

	for _, d := range run.Declarations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO declarations
			(run_id, position, name, kind, recursive, fingerprint)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			d.Position,
			d.Name,
			d.Kind,
			d.Recursive,
			d.Fingerprint,
		)
		if err != nil {
			return fmt.Errorf("write run: declaration %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	run.Seq = seq
	return nil
}

// Prune deletes all but the newest keep runs and returns how many were
// removed. Declarations go with their run.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE seq NOT IN (SELECT seq FROM runs ORDER BY seq DESC LIMIT ?)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}
	return n, nil
}
