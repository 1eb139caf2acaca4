package skeleton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/toerig/internal/ir"
)

// ChainPolicy decides how many bones make up a toe.
type ChainPolicy string

const (
	// ChainWithChild adds the toe's first child unless it is an "_end" marker.
	ChainWithChild ChainPolicy = "child"
	// ChainSingle uses the bound bone alone.
	ChainSingle ChainPolicy = "single"
)

// ToesPerFoot is the number of bindable toes on each foot.
const ToesPerFoot = 5

const endMarkerSuffix = "_end"

// MissingBoneError reports a toe with no bound bone.
type MissingBoneError struct {
	Toe  ir.ToeRef
	Path string // configured path, empty when the toe is unset
}

func (e *MissingBoneError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("no bone for %s: %q not found in skeleton", e.Toe, e.Path)
	}
	return fmt.Sprintf("no bone bound for %s", e.Toe)
}

// IsMissingBone reports whether err is or wraps a *MissingBoneError.
func IsMissingBone(err error) bool {
	var mb *MissingBoneError
	return errors.As(err, &mb)
}

// Rig binds toe bones of a skeleton for both feet.
type Rig struct {
	root   *Bone
	chain  ChainPolicy
	left   [ToesPerFoot]*Bone
	right  [ToesPerFoot]*Bone
	lPaths [ToesPerFoot]string
	rPaths [ToesPerFoot]string
}

// NewRig resolves the configured root-relative paths against root.
// Unresolvable paths leave the toe unset; ResolveBoneChain reports them.
func NewRig(root *Bone, chain ChainPolicy, left, right [ToesPerFoot]string) *Rig {
	r := &Rig{root: root, chain: chain, lPaths: left, rPaths: right}
	for i := range left {
		r.left[i] = r.find(left[i])
		r.right[i] = r.find(right[i])
	}
	return r
}

func (r *Rig) find(path string) *Bone {
	path = strings.Trim(path, "/")
	if r.root == nil || path == "" {
		return nil
	}
	return r.root.Find(path)
}

// ResolveBoneChain returns the toe's bones ordered root to tip.
func (r *Rig) ResolveBoneChain(ref ir.ToeRef) ([]*Bone, error) {
	if ref.Index < 0 || ref.Index >= len(r.left) {
		return nil, &MissingBoneError{Toe: ref}
	}

	bone, path := r.right[ref.Index], r.rPaths[ref.Index]
	if ref.Side == ir.Left {
		bone, path = r.left[ref.Index], r.lPaths[ref.Index]
	}
	if bone == nil {
		return nil, &MissingBoneError{Toe: ref, Path: path}
	}
	return Chain(bone, r.chain), nil
}

// Chain expands a toe bone into its segment list.
func Chain(b *Bone, policy ChainPolicy) []*Bone {
	chain := []*Bone{b}
	if policy == ChainSingle || len(b.Children) == 0 {
		return chain
	}
	if child := b.Children[0]; !strings.HasSuffix(child.Name, endMarkerSuffix) {
		chain = append(chain, child)
	}
	return chain
}
