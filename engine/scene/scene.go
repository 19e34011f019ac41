package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spaghettifunk/quadn/engine/math"
)

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrInvalidProperty = errors.New("invalid property path")
)

// Scene owns the root of a node graph.
type Scene struct {
	Root *Node
}

func New() *Scene {
	return &Scene{Root: NewGroup("scene")}
}

func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// FindByName returns the first node with the given name, depth first.
func (s *Scene) FindByName(name string) *Node {
	var found *Node
	s.Root.Traverse(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Meshes returns every visible mesh node in traversal order.
func (s *Scene) Meshes() []*Node {
	var meshes []*Node
	s.Root.Traverse(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.Kind == NodeKindMesh && n.Geometry != nil {
			meshes = append(meshes, n)
		}
		return true
	})
	return meshes
}

// Property resolves a path such as "n2.position.x" or "group.rotation.y"
// to the scalar it names, so animations can write to it directly.
func (s *Scene) Property(path string) (*float32, error) {
	parts := strings.Split(path, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: `%s`, expected node.property.axis", ErrInvalidProperty, path)
	}
	n := s.FindByName(parts[0])
	if n == nil {
		return nil, fmt.Errorf("%w: `%s`", ErrNodeNotFound, parts[0])
	}

	var v *math.Vec3
	switch parts[1] {
	case "position":
		v = &n.Position
	case "rotation":
		v = &n.Rotation
	case "scale":
		v = &n.Scale
	default:
		return nil, fmt.Errorf("%w: unknown property `%s`", ErrInvalidProperty, parts[1])
	}

	switch parts[2] {
	case "x":
		return &v.X, nil
	case "y":
		return &v.Y, nil
	case "z":
		return &v.Z, nil
	}
	return nil, fmt.Errorf("%w: unknown axis `%s`", ErrInvalidProperty, parts[2])
}
