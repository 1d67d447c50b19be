package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// LineCount is a stored line and its derivation count.
type LineCount struct {
	Line  string
	Hash  string
	Count int
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	var (
		r      Run
		digest sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, exercise, cantus, voice, mode, policy, digest, distinct_lines, total_lines
		FROM runs WHERE id = ?
	`, runID).Scan(&r.ID, &r.Exercise, &r.Cantus, &r.Voice, &r.Mode, &r.Policy, &digest, &r.Distinct, &r.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	r.Digest = digest.String
	return r, nil
}

// Lines returns every stored line of a run, ordered by line.
// Returns an empty slice (not nil) if the run has no lines.
func (s *Store) Lines(ctx context.Context, runID string) ([]LineCount, error) {
	return s.queryLines(ctx, `
		SELECT line, line_hash, count FROM results
		WHERE run_id = ?
		ORDER BY line COLLATE BINARY ASC
	`, runID)
}

// Duplicates returns the lines of a run derived more than once.
func (s *Store) Duplicates(ctx context.Context, runID string) ([]LineCount, error) {
	return s.queryLines(ctx, `
		SELECT line, line_hash, count FROM results
		WHERE run_id = ? AND count > 1
		ORDER BY line COLLATE BINARY ASC
	`, runID)
}

// LinesWith returns the lines of a run with the named note at position
// (0-based).
func (s *Store) LinesWith(ctx context.Context, runID string, position int, name string) ([]LineCount, error) {
	return s.queryLines(ctx, `
		SELECT r.line, r.line_hash, r.count
		FROM results r
		JOIN result_notes n ON n.run_id = r.run_id AND n.line = r.line
		WHERE r.run_id = ? AND n.position = ? AND n.name = ?
		ORDER BY r.line COLLATE BINARY ASC
	`, runID, position, name)
}

func (s *Store) queryLines(ctx context.Context, query string, args ...any) ([]LineCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	lines := []LineCount{}
	for rows.Next() {
		var lc LineCount
		if err := rows.Scan(&lc.Line, &lc.Hash, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}
	return lines, nil
}

// CountLines returns the number of distinct lines and the total number of
// derivations stored for a run.
func (s *Store) CountLines(ctx context.Context, runID string) (distinct, total int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(count), 0) FROM results WHERE run_id = ?
	`, runID).Scan(&distinct, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("count lines: %w", err)
	}
	return distinct, total, nil
}

// NotesAt returns the distinct note names used at position (0-based)
// across a run's lines, in pitch order.
func (s *Store) NotesAt(ctx context.Context, runID string, position int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT name, octave, class FROM result_notes
		WHERE run_id = ? AND position = ?
		ORDER BY octave ASC, class ASC
	`, runID, position)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var (
			name          string
			octave, class int
		)
		if err := rows.Scan(&name, &octave, &class); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return names, nil
}
