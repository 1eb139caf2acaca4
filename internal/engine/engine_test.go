package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/blendtree"
	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/exprparams"
	"github.com/roach88/toerig/internal/ir"
	"github.com/roach88/toerig/internal/offsets"
	"github.com/roach88/toerig/internal/skeleton"
)

const testController = "Avatar"

type fixture struct {
	host    *MemoryHost
	engine  *Engine
	rig     *skeleton.Rig
	profile offsets.Profile
}

// newFixture sets up a host holding an empty controller and expression
// list, and a rig with left toe 1 bound to a single bone resting at
// (0, 0, 10).
func newFixture(t *testing.T, runIDs ...string) *fixture {
	t.Helper()
	if len(runIDs) == 0 {
		runIDs = []string{"run-1", "run-2", "run-3"}
	}

	host := NewMemoryHost()
	require.NoError(t, host.PutController(animator.NewController(testController)))
	host.PutExpressionParameters(exprparams.New("Params"))

	root := &skeleton.Bone{Name: "Avatar"}
	armature := root.AddChild("Armature", [3]float64{})
	foot := armature.AddChild("LeftFoot", [3]float64{})
	foot.AddChild("LeftToe1", [3]float64{0, 0, 10})

	profile := offsets.DefaultProfile()
	profile.Left.Splay = []float64{30}
	profile.CurlMin = -60
	profile.CurlMax = 60
	profile.Chain = skeleton.ChainSingle
	profile.Left.Bones = []string{"Armature/LeftFoot/LeftToe1"}

	left, right := profile.BonePaths()
	return &fixture{
		host:    host,
		engine:  New(host, WithRunIDs(NewFixedGenerator(runIDs...))),
		rig:     skeleton.NewRig(root, profile.Chain, left, right),
		profile: profile,
	}
}

func (f *fixture) request(doc *ir.Document) Request {
	return Request{
		Document:             doc,
		Controller:           testController,
		ExpressionParameters: "Params",
		Container:            "Out",
		Profile:              f.profile,
		Bones:                f.rig,
	}
}

func (f *fixture) controller(t *testing.T) *animator.Controller {
	t.Helper()
	c, err := f.host.LoadController(context.Background(), testController)
	require.NoError(t, err)
	return c
}

func toeDocument(layer string) *ir.Document {
	return &ir.Document{
		Layers: []ir.LayerSpec{{
			Name: layer,
			States: []ir.StateSpec{
				{Name: "Splayed", IsBlendTree: true, BlendParameter: "ToeCurl"},
				{Name: "Flat"},
			},
			Transitions: []ir.TransitionSpec{
				{From: "Flat", To: "Splayed", HasExitTime: true, ExitTime: 0.5, Duration: 0.1,
					Conditions: []ir.ConditionSpec{{Parameter: "Splay", Mode: ir.ConditionIf}}},
				{To: "Flat", HasExitTime: true, Duration: 0.2,
					Conditions: []ir.ConditionSpec{{Parameter: "Splay", Mode: ir.ConditionIfNot}}},
			},
		}},
		Parameters: []ir.ParameterSpec{{Name: "Splay", Type: ir.ParameterBool}},
	}
}

func TestRun_SplayedClipValues(t *testing.T) {
	f := newFixture(t)
	report, err := f.engine.Run(context.Background(), f.request(toeDocument("LeftToe1")))
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)

	names := clips.NamesFor(testController, "LeftToe1", true)
	assert.Equal(t, "AvatarSplayedLeftToe1Bent", names.Bent)

	const path = "Armature/LeftFoot/LeftToe1"
	for _, name := range names.All() {
		c, ok := f.host.Clip(clips.AssetPath("Out", name))
		require.True(t, ok, name)
		z, ok := c.Value(path, offsets.AxisZ)
		require.True(t, ok)
		assert.Equal(t, 40.0, z, "%s splay axis", name)
		assert.Equal(t, clips.FrameRate, c.FrameRate)
		assert.Equal(t, clips.WrapMode, c.WrapMode)
	}

	bent, _ := f.host.Clip(clips.AssetPath("Out", names.Bent))
	x, _ := bent.Value(path, offsets.AxisX)
	assert.Equal(t, -60.0, x)

	neutral, _ := f.host.Clip(clips.AssetPath("Out", names.Neutral))
	x, _ = neutral.Value(path, offsets.AxisX)
	assert.Equal(t, 0.0, x)

	tip, _ := f.host.Clip(clips.AssetPath("Out", names.Tip))
	x, _ = tip.Value(path, offsets.AxisX)
	assert.Equal(t, 60.0, x)

	// Flat state pulled in the unsplayed set.
	flat, ok := f.host.Clip(clips.AssetPath("Out", "AvatarLeftToe1Neutral"))
	require.True(t, ok)
	z, _ := flat.Value(path, offsets.AxisZ)
	assert.Equal(t, 10.0, z)
	assert.Equal(t, 6, f.host.ClipCount())
	assert.True(t, f.host.HasContainer("Out"))
}

func TestRun_LayerShape(t *testing.T) {
	f := newFixture(t)
	report, err := f.engine.Run(context.Background(), f.request(toeDocument("LeftToe1")))
	require.NoError(t, err)

	c := f.controller(t)
	require.Equal(t, []string{"LeftToe1"}, c.LayerNames())
	layer := c.Layers[0]
	assert.Equal(t, 1.0, layer.DefaultWeight)

	sm := layer.StateMachine
	require.Len(t, sm.States, 2)
	splayed, flat := sm.States[0], sm.States[1]
	assert.Equal(t, splayed.ID, sm.DefaultState)
	assert.Equal(t, "Splayed", report.Layers[0].DefaultState)

	require.NotNil(t, splayed.Motion)
	require.Equal(t, animator.MotionBlendTree, splayed.Motion.Kind)
	bt := splayed.Motion.BlendTree
	assert.Equal(t, "ToeCurl", bt.Parameter)
	require.Len(t, bt.Children, 3)
	assert.Equal(t, []float64{blendtree.ThresholdBent, blendtree.ThresholdNeutral, blendtree.ThresholdTip},
		[]float64{bt.Children[0].Threshold, bt.Children[1].Threshold, bt.Children[2].Threshold})
	assert.Equal(t, "AvatarSplayedLeftToe1Bent", bt.Children[0].Motion.Clip.Name)
	assert.False(t, bt.Children[0].Motion.Clip.Embedded())

	require.NotNil(t, flat.Motion)
	assert.Equal(t, "AvatarLeftToe1Neutral", flat.Motion.Clip.Name)
	assert.Equal(t, "Out/AvatarLeftToe1Neutral.anim", flat.Motion.Clip.Path)

	require.Len(t, flat.Transitions, 1)
	ordinary := flat.Transitions[0]
	assert.Equal(t, splayed.ID, ordinary.Destination)
	assert.True(t, ordinary.HasExitTime)
	assert.Equal(t, 0.5, ordinary.ExitTime)

	require.Len(t, sm.AnyStateTransitions, 1)
	anyState := sm.AnyStateTransitions[0]
	assert.Equal(t, flat.ID, anyState.Destination)
	assert.False(t, anyState.HasExitTime)
	assert.Equal(t, 0.2, anyState.Duration)
	assert.Equal(t, []animator.Condition{{Mode: ir.ConditionIfNot, Parameter: "Splay"}}, anyState.Conditions)

	assert.Equal(t, 1, report.Layers[0].Transitions.Ordinary)
	assert.Equal(t, 1, report.Layers[0].Transitions.AnyState)
}

func TestRun_TwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	doc := toeDocument("LeftToe1")

	_, err := f.engine.Run(context.Background(), f.request(doc))
	require.NoError(t, err)
	first := f.controller(t)

	report, err := f.engine.Run(context.Background(), f.request(doc))
	require.NoError(t, err)
	second := f.controller(t)

	assert.Equal(t, []string{"LeftToe1"}, second.LayerNames())
	assert.Equal(t, first.Objects.Len(), second.Objects.Len())
	assert.Equal(t, first.Objects.CountByKind(), second.Objects.CountByKind())
	assert.Empty(t, animator.Orphans(second))
	assert.Len(t, second.Parameters, 2)
	assert.Equal(t, 6, f.host.ClipCount())

	require.Len(t, report.Layers, 1)
	assert.True(t, report.Layers[0].Replaced)
	assert.Equal(t, 6, report.Layers[0].Destroyed)
	assert.Empty(t, report.Parameters)
}

func TestRun_ReplacedLayerMovesToEnd(t *testing.T) {
	f := newFixture(t)
	c := animator.NewController(testController)
	for _, name := range []string{"Base", "LeftToe1", "Gesture"} {
		sm := animator.NewStateMachine(c.Objects, name)
		st := sm.AddState(c.Objects, "Idle")
		st.Motion = animator.EmbeddedClip(c.Objects, "Idle")
		sm.DefaultState = st.ID
		c.Layers = append(c.Layers, &animator.Layer{Name: name, DefaultWeight: 0.5, StateMachine: sm})
	}
	require.NoError(t, f.host.PutController(c))

	_, err := f.engine.Run(context.Background(), f.request(toeDocument("LeftToe1")))
	require.NoError(t, err)

	got := f.controller(t)
	assert.Equal(t, []string{"Base", "Gesture", "LeftToe1"}, got.LayerNames())
	assert.Equal(t, 0.5, got.Layers[0].DefaultWeight)
	assert.Empty(t, animator.Orphans(got))
	assert.Equal(t, 2, got.Objects.CountByKind()[animator.KindClip])
}

func TestRun_Parameters(t *testing.T) {
	f := newFixture(t)
	f.profile.OSCSmooth = true

	report, err := f.engine.Run(context.Background(), f.request(toeDocument("LeftToe1")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Splay", "ToeCurl"}, report.Parameters)

	c := f.controller(t)
	curl, ok := c.Parameter("ToeCurl")
	require.True(t, ok)
	assert.Equal(t, ir.ParameterFloat, curl.Type)
	_, ok = c.Parameter(offsets.DefaultOSCPrefix + "ToeCurl")
	assert.False(t, ok)
	assert.Equal(t, offsets.DefaultOSCPrefix+"ToeCurl", c.Layers[0].StateMachine.States[0].Motion.BlendTree.Parameter)

	list, err := f.host.LoadExpressionParameters(context.Background(), "Params")
	require.NoError(t, err)
	assert.Equal(t, []exprparams.Parameter{
		exprparams.Synced("Splay", exprparams.ValueBool),
		exprparams.Synced("ToeCurl", exprparams.ValueFloat),
	}, list.Parameters)
}

func TestRun_DocumentFloatParameterSynced(t *testing.T) {
	f := newFixture(t)
	doc := toeDocument("LeftToe1")
	doc.Parameters = append(doc.Parameters,
		ir.ParameterSpec{Name: "Spread", Type: ir.ParameterFloat, DefaultFloat: 0.5},
		ir.ParameterSpec{Name: "Mode", Type: ir.ParameterInt},
	)

	_, err := f.engine.Run(context.Background(), f.request(doc))
	require.NoError(t, err)

	list, err := f.host.LoadExpressionParameters(context.Background(), "Params")
	require.NoError(t, err)
	spread, ok := list.Find("Spread")
	require.True(t, ok)
	assert.Equal(t, exprparams.ValueFloat, spread.ValueType)
	assert.True(t, spread.NetworkSynced)
	_, ok = list.Find("Mode")
	assert.False(t, ok, "int parameters are not synced")

	_, ok = f.controller(t).Parameter("Mode")
	assert.True(t, ok)
}

func TestRun_ExistingParameterKeepsType(t *testing.T) {
	f := newFixture(t)
	c := animator.NewController(testController)
	c.DeclareParameter(animator.Parameter{Name: "Splay", Type: ir.ParameterInt, DefaultInt: 2})
	require.NoError(t, f.host.PutController(c))

	report, err := f.engine.Run(context.Background(), f.request(toeDocument("LeftToe1")))
	require.NoError(t, err)
	assert.Equal(t, []string{"ToeCurl"}, report.Parameters)

	p, ok := f.controller(t).Parameter("Splay")
	require.True(t, ok)
	assert.Equal(t, ir.ParameterInt, p.Type)
	assert.Equal(t, int32(2), p.DefaultInt)
}

func TestRun_NoExpressionList(t *testing.T) {
	f := newFixture(t)
	req := f.request(toeDocument("LeftToe1"))
	req.ExpressionParameters = ""

	report, err := f.engine.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "no expression parameter list")
}

func TestRun_ConcurrentRunsKeepOwnClips(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.host.PutController(animator.NewController("Other")))

	reqs := []Request{f.request(toeDocument("LeftToe1")), f.request(toeDocument("LeftToe1"))}
	reqs[1].Controller = "Other"
	reqs[1].Container = "OtherOut"

	reports := make([]*Report, len(reqs))
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = f.engine.Run(context.Background(), reqs[i])
		}(i)
	}
	wg.Wait()

	for i, req := range reqs {
		require.NoError(t, errs[i])
		require.NotEmpty(t, reports[i].Clips)
		assert.Len(t, reports[i].Clips, len(reports[0].Clips))
		for _, ref := range reports[i].Clips {
			assert.True(t, strings.HasPrefix(ref.Path, req.Container+"/"), "run %d got clip %s", i, ref.Path)
		}
	}
}

func TestRun_MissingBonePolicies(t *testing.T) {
	doc := toeDocument("LeftToe2")

	t.Run("skip", func(t *testing.T) {
		f := newFixture(t)
		f.profile.MissingBone = offsets.MissingBoneSkip
		report, err := f.engine.Run(context.Background(), f.request(doc))
		require.NoError(t, err)

		sm := f.controller(t).Layers[0].StateMachine
		assert.Empty(t, sm.States[0].Motion.BlendTree.Children)
		assert.Nil(t, sm.States[1].Motion)
		assert.Equal(t, 0, f.host.ClipCount())
		assert.Empty(t, report.Warnings)
	})

	t.Run("warn", func(t *testing.T) {
		f := newFixture(t)
		report, err := f.engine.Run(context.Background(), f.request(doc))
		require.NoError(t, err)
		require.Len(t, report.Warnings, 2)
		assert.Contains(t, report.Warnings[0], "no bone bound for left toe 2")
	})

	t.Run("fail", func(t *testing.T) {
		f := newFixture(t)
		f.profile.MissingBone = offsets.MissingBoneFail
		_, err := f.engine.Run(context.Background(), f.request(doc))
		require.Error(t, err)
		assert.Equal(t, ErrCodeMissingBone, CodeOf(err))
		assert.True(t, skeleton.IsMissingBone(err))

		assert.Empty(t, f.controller(t).Layers)
		assert.Empty(t, f.host.Runs())
	})
}

func TestRun_BadLayerNameRejectedBeforeLoad(t *testing.T) {
	f := newFixture(t)
	req := f.request(&ir.Document{Layers: []ir.LayerSpec{{Name: "LeftToe1"}, {Name: "Gesture"}}})
	req.Controller = "Unknown"

	_, err := f.engine.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsConfigParse(err))
	assert.False(t, IsAssetIO(err))

	var re *RunError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Gesture", re.Layer)
}

func TestRun_UnknownControllerIsAssetIO(t *testing.T) {
	f := newFixture(t)
	req := f.request(toeDocument("LeftToe1"))
	req.Controller = "Unknown"

	_, err := f.engine.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsAssetIO(err))
	assert.Equal(t, ErrCodeAssetIO, CodeOf(err))
}

func TestRun_CommitFailureLeavesHostUntouched(t *testing.T) {
	f := newFixture(t)
	f.host.CommitErr = errors.New("disk full")

	_, err := f.engine.Run(context.Background(), f.request(toeDocument("LeftToe1")))
	require.Error(t, err)
	assert.True(t, IsAssetIO(err))
	assert.Contains(t, err.Error(), "disk full")

	assert.Empty(t, f.controller(t).Layers)
	assert.Equal(t, 0, f.host.ClipCount())
}

func TestRun_FlatStateNamedClip(t *testing.T) {
	f := newFixture(t)
	f.host.PutClip(clips.Ref{Name: "Relaxed", Path: "Shared/Relaxed.anim"}, &clips.Clip{Name: "Relaxed"})

	doc := &ir.Document{Layers: []ir.LayerSpec{{
		Name: "LeftToe1",
		States: []ir.StateSpec{
			{Name: "Rest", ClipName: "Relaxed"},
			{Name: "Gone", ClipName: "Missing"},
		},
	}}}
	report, err := f.engine.Run(context.Background(), f.request(doc))
	require.NoError(t, err)

	states := f.controller(t).Layers[0].StateMachine.States
	require.NotNil(t, states[0].Motion)
	assert.Equal(t, "Shared/Relaxed.anim", states[0].Motion.Clip.Path)
	assert.Nil(t, states[1].Motion)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], `clip "Missing" not found`)
	assert.Empty(t, report.Clips)
}

func TestRun_DroppedTransitionWarns(t *testing.T) {
	f := newFixture(t)
	doc := toeDocument("LeftToe1")
	doc.Layers[0].Transitions = append(doc.Layers[0].Transitions, ir.TransitionSpec{From: "Flat", To: "Nowhere"})

	report, err := f.engine.Run(context.Background(), f.request(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Layers[0].Transitions.Dropped)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Flat -> Nowhere")
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Run(ctx, f.request(toeDocument("LeftToe1")))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.host.Runs())
}

func TestRun_DefaultContainer(t *testing.T) {
	f := newFixture(t)
	req := f.request(toeDocument("LeftToe1"))
	req.Container = ""

	report, err := f.engine.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DefaultContainer, report.Container)
	assert.True(t, f.host.HasContainer(DefaultContainer))
}
