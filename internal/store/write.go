package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/exprparams"
)

// CreateController inserts an empty controller. It reports false when a
// controller with that name already exists, which is left untouched.
func (s *Store) CreateController(ctx context.Context, name string) (bool, error) {
	body, err := marshalController(animator.NewController(name))
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO controllers (name, body, layer_count)
		VALUES (?, ?, 0)
		ON CONFLICT(name) DO NOTHING
	`, name, body)
	if err != nil {
		return false, fmt.Errorf("create controller: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create controller: %w", err)
	}
	return n == 1, nil
}

// CreateExpressionParameters inserts an empty list unless one exists.
func (s *Store) CreateExpressionParameters(ctx context.Context, name string) (bool, error) {
	body, err := marshalJSON(exprparams.New(name))
	if err != nil {
		return false, fmt.Errorf("create expression parameters: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expression_parameters (name, body)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, body)
	if err != nil {
		return false, fmt.Errorf("create expression parameters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create expression parameters: %w", err)
	}
	return n == 1, nil
}

// ImportClip stores an existing clip, creating its container if needed.
// The clip body is stored in canonical form and the hash recomputed.
func (s *Store) ImportClip(ctx context.Context, container string, c *clips.Clip) (clips.Ref, error) {
	hash, err := clips.ContentHash(c)
	if err != nil {
		return clips.Ref{}, fmt.Errorf("import clip: %w", err)
	}
	ref := clips.Ref{Name: c.Name, Path: clips.AssetPath(container, c.Name), Hash: hash}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContainer(ctx, tx, container); err != nil {
			return err
		}
		return upsertClip(ctx, tx, container, ref, c)
	})
	if err != nil {
		return clips.Ref{}, err
	}
	return ref, nil
}

// Commit applies cs in a single transaction. Either every row is written
// or none is.
func (s *Store) Commit(ctx context.Context, cs *engine.Changeset) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContainer(ctx, tx, cs.Container); err != nil {
			return err
		}
		for _, gc := range cs.Clips {
			if err := upsertClip(ctx, tx, cs.Container, gc.Ref, gc.Clip); err != nil {
				return err
			}
		}
		if err := upsertController(ctx, tx, cs.Controller, cs.RunID); err != nil {
			return err
		}
		if cs.ExpressionParameters != nil {
			if err := upsertExpressionParameters(ctx, tx, cs.ExpressionParameters); err != nil {
				return err
			}
		}
		if cs.Report != nil {
			if err := insertRun(ctx, tx, cs.Report); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func ensureContainer(ctx context.Context, tx *sql.Tx, path string) error {
	if path == "" {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO containers (path) VALUES (?)
		ON CONFLICT(path) DO NOTHING
	`, path)
	if err != nil {
		return fmt.Errorf("ensure container %q: %w", path, err)
	}
	return nil
}

// upsertClip overwrites any clip already stored at the same path.
func upsertClip(ctx context.Context, tx *sql.Tx, container string, ref clips.Ref, c *clips.Clip) error {
	body, err := marshalClip(c)
	if err != nil {
		return err
	}
	var containerArg any
	if container != "" {
		containerArg = container
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO clips (path, name, container, hash, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			container = excluded.container,
			hash = excluded.hash,
			body = excluded.body
	`, ref.Path, ref.Name, containerArg, ref.Hash, body)
	if err != nil {
		return fmt.Errorf("write clip %q: %w", ref.Path, err)
	}
	return nil
}

func upsertController(ctx context.Context, tx *sql.Tx, c *animator.Controller, runID string) error {
	body, err := marshalController(c)
	if err != nil {
		return err
	}
	var runArg any
	if runID != "" {
		runArg = runID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO controllers (name, body, layer_count, updated_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			layer_count = excluded.layer_count,
			updated_by = excluded.updated_by
	`, c.Name, body, len(c.Layers), runArg)
	if err != nil {
		return fmt.Errorf("write controller %q: %w", c.Name, err)
	}
	return nil
}

func upsertExpressionParameters(ctx context.Context, tx *sql.Tx, l *exprparams.List) error {
	body, err := marshalJSON(l)
	if err != nil {
		return fmt.Errorf("marshal expression parameters %q: %w", l.Name, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO expression_parameters (name, body)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body
	`, l.Name, body)
	if err != nil {
		return fmt.Errorf("write expression parameters %q: %w", l.Name, err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, r *engine.Report) error {
	body, err := marshalJSON(r)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, controller, report) VALUES (?, ?, ?)
	`, r.RunID, r.Controller, body)
	if err != nil {
		return fmt.Errorf("write run %s: %w", r.RunID, err)
	}
	return nil
}
