package skeleton

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bone is one joint of the hierarchy. Euler is the local rest rotation in
// degrees (x, y, z).
type Bone struct {
	Name     string
	Euler    [3]float64
	Parent   *Bone
	Children []*Bone
}

// AddChild attaches a new child bone and returns it.
func (b *Bone) AddChild(name string, euler [3]float64) *Bone {
	child := &Bone{Name: name, Euler: euler, Parent: b}
	b.Children = append(b.Children, child)
	return child
}

// Find resolves a root-relative path such as "Armature/Hips/LeftFoot".
// The first child with a matching name wins at each level.
func (b *Bone) Find(path string) *Bone {
	if path == "" {
		return b
	}
	cur := b
	for _, name := range strings.Split(path, "/") {
		var next *Bone
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// nodeFile is the YAML form of a bone subtree.
type nodeFile struct {
	Name     string      `yaml:"name"`
	Rotation []float64   `yaml:"rotation,omitempty"`
	Children []*nodeFile `yaml:"children,omitempty"`
}

// Load reads a skeleton hierarchy from a YAML file.
func Load(path string) (*Bone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("skeleton: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML hierarchy of the form
//
//	name: Avatar
//	children:
//	  - name: Armature
//	    rotation: [270, 0, 0]
//	    children: [...]
func Parse(data []byte) (*Bone, error) {
	var root nodeFile
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("skeleton: parse: %w", err)
	}
	if root.Name == "" {
		return nil, fmt.Errorf("skeleton: root bone has no name")
	}
	return build(&root, nil)
}

func build(n *nodeFile, parent *Bone) (*Bone, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("skeleton: unnamed bone under %q", parent.Name)
	}
	if len(n.Rotation) != 0 && len(n.Rotation) != 3 {
		return nil, fmt.Errorf("skeleton: bone %q rotation needs 3 values, got %d", n.Name, len(n.Rotation))
	}

	b := &Bone{Name: n.Name, Parent: parent}
	copy(b.Euler[:], n.Rotation)
	for i, c := range n.Children {
		if c == nil {
			return nil, fmt.Errorf("skeleton: bone %q has an empty child at index %d", n.Name, i)
		}
		child, err := build(c, b)
		if err != nil {
			return nil, err
		}
		b.Children = append(b.Children, child)
	}
	return b, nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
