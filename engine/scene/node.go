package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

type NodeKind int

const (
	NodeKindGroup NodeKind = iota
	NodeKindMesh
)

/**
 * @brief A node of the scene graph. Groups only carry a transform and
 * children; meshes also reference a geometry and a material, which may
 * be shared between any number of meshes.
 */
type Node struct {
	math.Transform

	ID      uuid.UUID
	Name    string
	Kind    NodeKind
	Visible bool

	Geometry *metadata.Geometry
	Material *metadata.Material

	parent   *Node
	children []*Node
}

func newNode(name string, kind NodeKind) *Node {
	n := &Node{
		ID:      uuid.New(),
		Name:    name,
		Kind:    kind,
		Visible: true,
	}
	n.SetPositionRotationScale(math.NewVec3Zero(), math.NewVec3Zero(), math.NewVec3One())
	return n
}

func NewGroup(name string) *Node {
	return newNode(name, NodeKindGroup)
}

func NewMesh(name string, geometry *metadata.Geometry, material *metadata.Material) *Node {
	n := newNode(name, NodeKindMesh)
	n.Geometry = geometry
	n.Material = material
	return n
}

// Add attaches the children to n, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		c.Transform.Parent = &n.Transform
		n.children = append(n.children, c)
	}
}

func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			c.parent = nil
			c.Transform.Parent = nil
			return true
		}
	}
	return false
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// Traverse visits n and its descendants depth first. Returning false from
// fn skips the node's children.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// IsVisible reports whether n and all of its ancestors are visible.
func (n *Node) IsVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
