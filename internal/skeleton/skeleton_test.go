package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toerig/internal/ir"
)

const avatarYAML = `
name: Avatar
children:
  - name: Armature
    children:
      - name: Hips
        children:
          - name: LeftFoot
            children:
              - name: LeftToe1
                rotation: [10, 20, 30]
                children:
                  - name: LeftToe1.001
                    rotation: [5, 0, 0]
              - name: LeftToe2
                children:
                  - name: LeftToe2_end
`

func loadAvatar(t *testing.T) *Bone {
	t.Helper()
	root, err := Parse([]byte(avatarYAML))
	require.NoError(t, err)
	return root
}

func TestParse_BuildsHierarchy(t *testing.T) {
	root := loadAvatar(t)

	toe := root.Find("Armature/Hips/LeftFoot/LeftToe1")
	require.NotNil(t, toe)
	assert.Equal(t, [3]float64{10, 20, 30}, toe.Euler)
	assert.Equal(t, "LeftFoot", toe.Parent.Name)
	assert.Equal(t, "Armature/Hips/LeftFoot/LeftToe1", Path(toe, "Armature", MatchExact))

	assert.Nil(t, root.Find("Armature/Hips/RightFoot"))
	assert.Same(t, root, root.Find(""))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("children: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("name: A\nchildren:\n  - rotation: [1, 2, 3]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("name: A\nchildren: [~]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty child at index 0")

	_, err = Parse([]byte("name: A\nrotation: [1, 2]\n"))
	assert.Error(t, err)
}

func TestPath_StopsAtRootMarker(t *testing.T) {
	root := loadAvatar(t)
	toe := root.Find("Armature/Hips/LeftFoot/LeftToe1")

	assert.Equal(t, "Armature/Hips/LeftFoot/LeftToe1", Path(toe, DefaultRootMarker, MatchPrefix))
	assert.Equal(t, "Armature/Hips/LeftFoot/LeftToe1", Path(toe, DefaultRootMarker, MatchExact))
	assert.Equal(t, "Hips/LeftFoot/LeftToe1", Path(toe, "Hips", MatchExact))
	assert.Equal(t, "", Path(nil, DefaultRootMarker, MatchPrefix))
}

func TestPath_PrefixVersusExact(t *testing.T) {
	root := &Bone{Name: "Scene"}
	arm := root.AddChild("Armature.001", [3]float64{})
	toe := arm.AddChild("Foot", [3]float64{}).AddChild("Toe", [3]float64{})

	assert.Equal(t, "Armature.001/Foot/Toe", Path(toe, "Armature", MatchPrefix))
	// No exact match: the walk reaches the hierarchy root.
	assert.Equal(t, "Scene/Armature.001/Foot/Toe", Path(toe, "Armature", MatchExact))
}

func TestChain(t *testing.T) {
	root := loadAvatar(t)
	toe1 := root.Find("Armature/Hips/LeftFoot/LeftToe1")
	toe2 := root.Find("Armature/Hips/LeftFoot/LeftToe2")

	chain := Chain(toe1, ChainWithChild)
	require.Len(t, chain, 2)
	assert.Equal(t, "LeftToe1.001", chain[1].Name)

	assert.Len(t, Chain(toe1, ChainSingle), 1)
	assert.Len(t, Chain(toe2, ChainWithChild), 1, "_end children are not segments")
}

func TestRig_ResolveBoneChain(t *testing.T) {
	root := loadAvatar(t)
	var left, right [ToesPerFoot]string
	left[0] = "Armature/Hips/LeftFoot/LeftToe1"
	left[1] = "/Armature/Hips/LeftFoot/LeftToe2/"
	left[2] = "Armature/Hips/LeftFoot/LeftToe3"

	rig := NewRig(root, ChainWithChild, left, right)

	chain, err := rig.ResolveBoneChain(ir.ToeRef{Side: ir.Left, Index: 0})
	require.NoError(t, err)
	assert.Len(t, chain, 2)

	chain, err = rig.ResolveBoneChain(ir.ToeRef{Side: ir.Left, Index: 1})
	require.NoError(t, err)
	assert.Len(t, chain, 1)

	_, err = rig.ResolveBoneChain(ir.ToeRef{Side: ir.Left, Index: 2})
	var mb *MissingBoneError
	require.ErrorAs(t, err, &mb)
	assert.Equal(t, "Armature/Hips/LeftFoot/LeftToe3", mb.Path)

	_, err = rig.ResolveBoneChain(ir.ToeRef{Side: ir.Right, Index: 0})
	assert.True(t, IsMissingBone(err))

	_, err = rig.ResolveBoneChain(ir.ToeRef{Side: ir.Right, Index: 7})
	assert.True(t, IsMissingBone(err))
}
