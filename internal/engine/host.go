package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/exprparams"
	"github.com/roach88/toerig/internal/ir"
	"github.com/roach88/toerig/internal/skeleton"
)

// Host is the asset store a run reads from and commits to.
//
// Loads return values the engine may keep; the engine clones anything it
// mutates. Commit must apply the whole Changeset or nothing.
type Host interface {
	LoadController(ctx context.Context, name string) (*animator.Controller, error)
	LoadExpressionParameters(ctx context.Context, name string) (*exprparams.List, error)
	// LoadClip looks up an existing clip by name, or by path when path is
	// set. A miss is (Ref{}, false, nil).
	LoadClip(ctx context.Context, name, path string) (clips.Ref, bool, error)
	Commit(ctx context.Context, cs *Changeset) error
}

// BoneResolver returns the bones of one toe ordered root to tip.
// A toe with no bone yields a *skeleton.MissingBoneError.
type BoneResolver interface {
	ResolveBoneChain(ref ir.ToeRef) ([]*skeleton.Bone, error)
}

// GeneratedClip is a clip synthesized by a run together with its handle.
type GeneratedClip struct {
	Ref  clips.Ref
	Clip *clips.Clip
}

// Changeset is everything a run writes.
type Changeset struct {
	RunID string
	// Container is created if missing before clips are written.
	Container  string
	Clips      []GeneratedClip
	Controller *animator.Controller
	// ExpressionParameters is nil when the run had no list configured.
	ExpressionParameters *exprparams.List
	Report               *Report
}

// MemoryHost is an in-process Host. It backs dry runs and tests.
type MemoryHost struct {
	mu          sync.Mutex
	controllers map[string]*animator.Controller
	params      map[string]*exprparams.List
	clips       map[string]GeneratedClip // by path
	containers  map[string]bool
	runs        []*Report

	// CommitErr, when set, makes Commit fail without applying anything.
	CommitErr error
}

// NewMemoryHost returns an empty host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		controllers: make(map[string]*animator.Controller),
		params:      make(map[string]*exprparams.List),
		clips:       make(map[string]GeneratedClip),
		containers:  make(map[string]bool),
	}
}

// PutController stores a copy of c.
func (h *MemoryHost) PutController(c *animator.Controller) error {
	cp, err := c.Clone()
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controllers[c.Name] = cp
	return nil
}

// PutExpressionParameters stores a copy of l.
func (h *MemoryHost) PutExpressionParameters(l *exprparams.List) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.params[l.Name] = l.Clone()
}

// PutClip stores an existing clip asset.
func (h *MemoryHost) PutClip(ref clips.Ref, c *clips.Clip) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clips[ref.Path] = GeneratedClip{Ref: ref, Clip: c}
}

func (h *MemoryHost) LoadController(_ context.Context, name string) (*animator.Controller, error) {
	h.mu.Lock()
	c, ok := h.controllers[name]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("controller %q not found", name)
	}
	return c.Clone()
}

func (h *MemoryHost) LoadExpressionParameters(_ context.Context, name string) (*exprparams.List, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.params[name]
	if !ok {
		return nil, fmt.Errorf("expression parameters %q not found", name)
	}
	return l.Clone(), nil
}

func (h *MemoryHost) LoadClip(_ context.Context, name, path string) (clips.Ref, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if path != "" {
		gc, ok := h.clips[path]
		return gc.Ref, ok, nil
	}
	for _, p := range h.clipPaths() {
		if gc := h.clips[p]; gc.Ref.Name == name {
			return gc.Ref, true, nil
		}
	}
	return clips.Ref{}, false, nil
}

// clipPaths returns stored paths sorted so name lookups are deterministic.
func (h *MemoryHost) clipPaths() []string {
	paths := make([]string, 0, len(h.clips))
	for p := range h.clips {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (h *MemoryHost) Commit(_ context.Context, cs *Changeset) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.CommitErr != nil {
		return h.CommitErr
	}

	ctrl, err := cs.Controller.Clone()
	if err != nil {
		return err
	}
	h.containers[cs.Container] = true
	for _, gc := range cs.Clips {
		h.clips[gc.Ref.Path] = gc
	}
	h.controllers[ctrl.Name] = ctrl
	if cs.ExpressionParameters != nil {
		h.params[cs.ExpressionParameters.Name] = cs.ExpressionParameters.Clone()
	}
	if cs.Report != nil {
		h.runs = append(h.runs, cs.Report)
	}
	return nil
}

// Clip returns the clip stored at path.
func (h *MemoryHost) Clip(path string) (*clips.Clip, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	gc, ok := h.clips[path]
	return gc.Clip, ok
}

// ClipCount returns the number of stored clips.
func (h *MemoryHost) ClipCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clips)
}

// HasContainer reports whether a commit created path.
func (h *MemoryHost) HasContainer(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.containers[path]
}

// Runs returns the reports of committed runs in commit order.
func (h *MemoryHost) Runs() []*Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Report(nil), h.runs...)
}
