package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/exprparams"
)

// LoadController reads a controller by name. Unknown names wrap ErrNotFound.
func (s *Store) LoadController(ctx context.Context, name string) (*animator.Controller, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM controllers WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("controller %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load controller %q: %w", name, err)
	}
	return unmarshalController(body)
}

// ListControllers returns controller names in byte order.
func (s *Store) ListControllers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM controllers ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query controllers: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan controller: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate controllers: %w", err)
	}
	return names, nil
}

// LoadExpressionParameters reads a list by name. Unknown names wrap
// ErrNotFound.
func (s *Store) LoadExpressionParameters(ctx context.Context, name string) (*exprparams.List, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM expression_parameters WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expression parameters %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load expression parameters %q: %w", name, err)
	}
	return exprparams.Decode([]byte(body))
}

// LoadClip finds a clip by path, or by name when path is empty. When
// several paths share a name the first in byte order wins.
func (s *Store) LoadClip(ctx context.Context, name, path string) (clips.Ref, bool, error) {
	query := `SELECT name, path, hash FROM clips WHERE path = ?`
	arg := path
	if path == "" {
		query = `SELECT name, path, hash FROM clips WHERE name = ? ORDER BY path COLLATE BINARY ASC LIMIT 1`
		arg = name
	}

	var ref clips.Ref
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&ref.Name, &ref.Path, &ref.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return clips.Ref{}, false, nil
	}
	if err != nil {
		return clips.Ref{}, false, fmt.Errorf("load clip: %w", err)
	}
	return ref, true, nil
}

// ReadClip returns the clip stored at path.
func (s *Store) ReadClip(ctx context.Context, path string) (*clips.Clip, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM clips WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("clip %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read clip %q: %w", path, err)
	}
	return unmarshalClip(body)
}

// CountClips returns the number of clips in container.
func (s *Store) CountClips(ctx context.Context, container string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clips WHERE container = ?`, container).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clips: %w", err)
	}
	return n, nil
}

// Runs returns the committed run reports for a controller, oldest first.
//
// Returns an empty slice (not nil) when there are none.
func (s *Store) Runs(ctx context.Context, controller string) ([]engine.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT report FROM runs
		WHERE controller = ?
		ORDER BY seq ASC
	`, controller)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	reports := []engine.Report{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var r engine.Report
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return reports, nil
}

var _ engine.Host = (*Store)(nil)
