package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/ir"
	"github.com/roach88/toerig/internal/offsets"
	"github.com/roach88/toerig/internal/wiring"
)

// DefaultContainer is where generated clips go when a request names none.
const DefaultContainer = "Assets/Animations/ToeBlendAnimations"

// RunIDGenerator generates unique run IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// Engine performs injection runs against one Host. Each Run owns its clip
// cache, so concurrent runs share nothing but the host.
type Engine struct {
	host   Host
	ids    RunIDGenerator
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRunIDs replaces the UUIDv7 run ID generator.
func WithRunIDs(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an Engine committing to host.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:   host,
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is the input of one run.
type Request struct {
	Document *ir.Document
	// Controller names the target controller in the host store. It also
	// prefixes every generated clip name.
	Controller string
	// ExpressionParameters names the synced list to update. Empty skips
	// the list with a warning.
	ExpressionParameters string
	// Container is the output container for generated clips.
	Container string
	Profile   offsets.Profile
	Bones     BoneResolver
}

// Report summarizes a committed run.
type Report struct {
	RunID      string        `json:"run_id"`
	Controller string        `json:"controller"`
	Container  string        `json:"container"`
	Layers     []LayerReport `json:"layers"`
	Clips      []clips.Ref   `json:"clips"`
	// Parameters lists the controller parameters this run declared.
	Parameters []string `json:"parameters"`
	Warnings   []string `json:"warnings"`
}

// LayerReport describes one injected layer.
type LayerReport struct {
	Name         string        `json:"name"`
	Toe          string        `json:"toe"`
	Replaced     bool          `json:"replaced"`
	Destroyed    int           `json:"destroyed"`
	States       int           `json:"states"`
	DefaultState string        `json:"default_state"`
	Transitions  wiring.Result `json:"transitions"`
}

// Run performs one injection. On error nothing has been committed.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Document == nil {
		return nil, configParseError("", "no layer document")
	}
	if req.Controller == "" {
		return nil, configParseError("", "no target controller")
	}
	if req.Bones == nil {
		return nil, configParseError("", "no bone resolver")
	}
	if err := req.Profile.Validate(); err != nil {
		return nil, &RunError{Code: ErrCodeConfigParse, Message: "invalid offset profile", Err: err}
	}
	toes, err := resolveToes(req.Document)
	if err != nil {
		return nil, err
	}
	if req.Container == "" {
		req.Container = DefaultContainer
	}

	runID := e.ids.Generate()
	log := e.logger.With("run_id", runID, "controller", req.Controller)
	log.Info("injection starting", "layers", len(req.Document.Layers))

	r, err := e.prepare(ctx, req, runID, log)
	if err != nil {
		return nil, err
	}

	r.declareParameters(req.Document.Parameters)
	for i, layer := range req.Document.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.buildLayer(ctx, layer, toes[i]); err != nil {
			return nil, err
		}
	}

	cs := r.changeset()
	if err := e.host.Commit(ctx, cs); err != nil {
		return nil, assetIOError("", "commit", err)
	}
	log.Info("injection committed",
		"layers", len(r.report.Layers),
		"clips", len(r.report.Clips),
		"warnings", len(r.report.Warnings))
	return r.report, nil
}

// resolveToes checks every layer name before any host access.
func resolveToes(doc *ir.Document) ([]ir.ToeRef, error) {
	toes := make([]ir.ToeRef, len(doc.Layers))
	for i, layer := range doc.Layers {
		ref, err := ir.ToeRefOf(layer.Name)
		if err != nil {
			return nil, &RunError{Code: ErrCodeConfigParse, Layer: layer.Name, Message: "bad layer name", Err: err}
		}
		toes[i] = ref
	}
	return toes, nil
}
