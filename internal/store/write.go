package store

import (
	"context"
	"fmt"

	"github.com/roach88/cantus/internal/canonical"
	"github.com/roach88/cantus/internal/pitch"
)

// Run describes one enumeration.
type Run struct {
	ID       string
	Exercise string
	Cantus   string
	Voice    string
	Mode     string
	Policy   string

	// Filled by FinishRun.
	Digest   string
	Distinct int
	Total    int
}

// WriteRun inserts the run parameters, or fills them in for a run that
// Record has already created.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, exercise, cantus, voice, mode, policy)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			exercise = excluded.exercise,
			cantus   = excluded.cantus,
			voice    = excluded.voice,
			mode     = excluded.mode,
			policy   = excluded.policy
	`, r.ID, r.Exercise, r.Cantus, r.Voice, r.Mode, r.Policy)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// FinishRun records the digest and counts of a completed run.
func (s *Store) FinishRun(ctx context.Context, runID, digest string, distinct, total int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET digest = ?, distinct_lines = ?, total_lines = ?
		WHERE id = ?
	`, digest, distinct, total, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// Record stores one derivation of a completed line. The first derivation
// inserts the line and its notes; later ones increment its count.
//
// Record implements engine.Sink and is safe for concurrent use.
func (s *Store) Record(ctx context.Context, runID, key string, line []pitch.Note) error {
	names := make([]string, len(line))
	for i, n := range line {
		names[i] = pitch.Name(n)
	}
	hash, err := canonical.Digest(canonical.DomainLine, names)
	if err != nil {
		return fmt.Errorf("record line: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record line: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id) VALUES (?) ON CONFLICT(id) DO NOTHING`, runID); err != nil {
		return fmt.Errorf("record line: run: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO results (run_id, line, line_hash, count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(run_id, line) DO NOTHING
	`, runID, key, hash)
	if err != nil {
		return fmt.Errorf("record line: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record line: %w", err)
	}

	if inserted == 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE results SET count = count + 1 WHERE run_id = ? AND line = ?
		`, runID, key); err != nil {
			return fmt.Errorf("record line: count: %w", err)
		}
	} else {
		for i, n := range line {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO result_notes (run_id, line, position, name, class, octave)
				VALUES (?, ?, ?, ?, ?, ?)
			`, runID, key, i, names[i], n.Class, n.Octave); err != nil {
				return fmt.Errorf("record line: note %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record line: commit: %w", err)
	}
	return nil
}
