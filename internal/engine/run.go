package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/blendtree"
	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/exprparams"
	"github.com/roach88/toerig/internal/ir"
	"github.com/roach88/toerig/internal/merge"
	"github.com/roach88/toerig/internal/offsets"
	"github.com/roach88/toerig/internal/skeleton"
	"github.com/roach88/toerig/internal/wiring"
)

// run holds the working copies of one injection.
type run struct {
	e        *Engine
	req      Request
	log      *slog.Logger
	resolver *offsets.Resolver

	ctrl   *animator.Controller
	params *exprparams.List
	cache  *clips.Cache

	generated []GeneratedClip
	warned    map[ir.ToeRef]bool
	report    *Report
}

func (e *Engine) prepare(ctx context.Context, req Request, runID string, log *slog.Logger) (*run, error) {
	ctrl, err := e.host.LoadController(ctx, req.Controller)
	if err != nil {
		return nil, assetIOError("", "load_controller", err)
	}
	work, err := ctrl.Clone()
	if err != nil {
		return nil, assetIOError("", "load_controller", err)
	}

	r := &run{
		e:        e,
		req:      req,
		log:      log,
		resolver: offsets.NewResolver(req.Profile),
		ctrl:     work,
		cache:    clips.NewCache(),
		warned:   make(map[ir.ToeRef]bool),
		report: &Report{
			RunID:      runID,
			Controller: req.Controller,
			Container:  req.Container,
			Layers:     []LayerReport{},
			Clips:      []clips.Ref{},
			Parameters: []string{},
			Warnings:   []string{},
		},
	}

	if req.ExpressionParameters == "" {
		r.warnf("no expression parameter list configured; synced parameters not updated")
		return r, nil
	}
	list, err := e.host.LoadExpressionParameters(ctx, req.ExpressionParameters)
	if err != nil {
		return nil, assetIOError("", "load_expression_parameters", err)
	}
	r.params = list.Clone()
	return r, nil
}

func (r *run) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.report.Warnings = append(r.report.Warnings, msg)
	r.log.Warn(msg)
}

func (r *run) changeset() *Changeset {
	return &Changeset{
		RunID:                r.report.RunID,
		Container:            r.req.Container,
		Clips:                r.generated,
		Controller:           r.ctrl,
		ExpressionParameters: r.params,
		Report:               r.report,
	}
}

// declareParameters adds document parameters to the controller. Bool and
// float parameters are also synced through the expression list.
func (r *run) declareParameters(specs []ir.ParameterSpec) {
	for _, spec := range specs {
		r.declare(animator.Parameter{
			Name:         spec.Name,
			Type:         spec.Type,
			DefaultFloat: spec.DefaultFloat,
			DefaultInt:   spec.DefaultInt,
			DefaultBool:  spec.DefaultBool,
		}, spec.Type != ir.ParameterInt)
	}
}

func (r *run) declare(p animator.Parameter, synced bool) {
	if r.ctrl.DeclareParameter(p) {
		r.report.Parameters = append(r.report.Parameters, p.Name)
		r.log.Debug("parameter declared", "name", p.Name, "type", p.Type.String())
	}
	if !synced || r.params == nil {
		return
	}
	vt, err := exprparams.ValueTypeOf(p.Type)
	if err != nil {
		r.warnf("parameter %q: %v", p.Name, err)
		return
	}
	r.params.AddMissing(exprparams.Synced(p.Name, vt))
}

func (r *run) buildLayer(ctx context.Context, spec ir.LayerSpec, toe ir.ToeRef) error {
	reg := r.ctrl.Objects
	lr := LayerReport{Name: spec.Name, Toe: toe.String()}

	// The old layer's objects are gone before the first new one exists.
	if ev, ok := merge.Evict(r.ctrl, spec.Name); ok {
		lr.Replaced = true
		lr.Destroyed = ev.Destroyed
		r.log.Debug("layer evicted", "layer", spec.Name, "destroyed", ev.Destroyed)
	}

	sm := animator.NewStateMachine(reg, spec.Name)
	for _, st := range spec.States {
		state := sm.AddState(reg, st.Name)
		if sm.DefaultState == 0 {
			sm.DefaultState = state.ID
			lr.DefaultState = state.Name
		}

		var err error
		if st.IsBlendTree {
			state.Motion, err = r.blendMotion(spec.Name, st, toe)
		} else {
			state.Motion, err = r.flatMotion(ctx, spec.Name, st, toe)
		}
		if err != nil {
			return err
		}
		lr.States++
	}

	lr.Transitions = wiring.Wire(reg, sm, spec.Transitions)
	for _, skipped := range lr.Transitions.Skipped {
		r.warnf("layer %s: transition %s dropped: destination state not found", spec.Name, skipped)
	}

	merge.Append(r.ctrl, &animator.Layer{Name: spec.Name, StateMachine: sm})
	r.report.Layers = append(r.report.Layers, lr)
	r.log.Info("layer built", "layer", spec.Name, "toe", toe.String(), "states", lr.States, "replaced", lr.Replaced)
	return nil
}

func (r *run) blendMotion(layer string, st ir.StateSpec, toe ir.ToeRef) (*animator.Motion, error) {
	splayed := ir.IsSplayed(st.Name)
	names := clips.NamesFor(r.req.Controller, layer, splayed)
	if err := r.ensureClips(layer, names, toe, splayed); err != nil {
		return nil, err
	}

	bt := blendtree.Assemble(r.ctrl.Objects, st.Name, r.cache, names)
	if len(bt.Children) < 3 {
		r.log.Debug("blend tree incomplete", "layer", layer, "state", st.Name, "children", len(bt.Children))
	}
	if st.BlendParameter == "" {
		r.warnf("layer %s: blend state %q has no blend parameter", layer, st.Name)
		return bt.Motion(), nil
	}

	r.declare(animator.Parameter{Name: st.BlendParameter, Type: ir.ParameterFloat}, true)
	blendtree.BindParameter(bt, st.BlendParameter, r.req.Profile.OSCSmooth, r.req.Profile.OSCPrefix)
	return bt.Motion(), nil
}

// flatMotion picks the clip of a non-blend state: the named clip when the
// state has one, otherwise the layer's unsplayed neutral clip.
func (r *run) flatMotion(ctx context.Context, layer string, st ir.StateSpec, toe ir.ToeRef) (*animator.Motion, error) {
	if st.ClipName != "" || st.ClipPath != "" {
		if ref, ok := r.cache.Get(st.ClipName); ok && st.ClipPath == "" {
			return animator.ClipRef(ref.Name, ref.Path), nil
		}
		ref, ok, err := r.e.host.LoadClip(ctx, st.ClipName, st.ClipPath)
		if err != nil {
			return nil, assetIOError(layer, "load_clip", err)
		}
		if !ok {
			r.warnf("layer %s: state %q: clip %q not found; state has no motion", layer, st.Name, clipLabel(st))
			return nil, nil
		}
		return animator.ClipRef(ref.Name, ref.Path), nil
	}

	names := clips.NamesFor(r.req.Controller, layer, false)
	if err := r.ensureClips(layer, names, toe, false); err != nil {
		return nil, err
	}
	ref, ok := r.cache.Get(names.Neutral)
	if !ok {
		if r.req.Profile.MissingBone == offsets.MissingBoneSkip {
			return nil, nil
		}
		r.warnf("layer %s: state %q: no neutral clip; state has no motion", layer, st.Name)
		return nil, nil
	}
	return animator.ClipRef(ref.Name, ref.Path), nil
}

func clipLabel(st ir.StateSpec) string {
	if st.ClipPath != "" {
		return st.ClipPath
	}
	return st.ClipName
}

// ensureClips synthesizes the clip set for names unless the run already
// produced it.
func (r *run) ensureClips(layer string, names clips.Names, toe ir.ToeRef, splayed bool) error {
	_, err := r.cache.Ensure(names, func() ([]clips.Ref, error) {
		bones, err := r.req.Bones.ResolveBoneChain(toe)
		if err != nil {
			return nil, r.missingBone(layer, toe, err)
		}

		set := clips.Synthesize(clips.Input{
			Names:        names,
			Chain:        r.segments(bones),
			Offsets:      r.resolver.Resolve(toe, splayed),
			Distribution: r.req.Profile.Distribution,
		})

		refs := make([]clips.Ref, 0, 3)
		for _, c := range set.All() {
			hash, err := clips.ContentHash(c)
			if err != nil {
				return nil, fmt.Errorf("hash clip %s: %w", c.Name, err)
			}
			ref := clips.Ref{Name: c.Name, Path: clips.AssetPath(r.req.Container, c.Name), Hash: hash}
			r.generated = append(r.generated, GeneratedClip{Ref: ref, Clip: c})
			r.report.Clips = append(r.report.Clips, ref)
			refs = append(refs, ref)
		}
		r.log.Debug("clips synthesized", "layer", layer, "bent", names.Bent, "segments", len(bones), "cached", r.cache.Len()+len(refs))
		return refs, nil
	})
	return err
}

// missingBone applies the profile's policy. A nil return means the clips
// are skipped and the run continues.
func (r *run) missingBone(layer string, toe ir.ToeRef, err error) error {
	if !skeleton.IsMissingBone(err) {
		return &RunError{Code: ErrCodeMissingBone, Layer: layer, Message: "resolving bone chain", Err: err}
	}
	switch r.req.Profile.MissingBone {
	case offsets.MissingBoneFail:
		return &RunError{Code: ErrCodeMissingBone, Layer: layer, Message: "toe has no bone", Err: err}
	case offsets.MissingBoneWarn:
		if !r.warned[toe] {
			r.warned[toe] = true
			r.warnf("layer %s: %v; clips skipped", layer, err)
		}
	}
	return nil
}

func (r *run) segments(bones []*skeleton.Bone) []clips.Segment {
	segs := make([]clips.Segment, len(bones))
	for i, b := range bones {
		segs[i] = clips.Segment{
			Path:  skeleton.Path(b, r.req.Profile.RootMarker, r.req.Profile.RootMatch),
			Euler: b.Euler,
		}
	}
	return segs
}
