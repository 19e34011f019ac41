package scene

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

func TestPropertyWritesThroughToTransform(t *testing.T) {
	s := New()
	group := NewGroup("group")
	n2 := NewMesh("n2", nil, nil)
	group.Add(n2)
	s.Add(group)

	p, err := s.Property("n2.position.x")
	if err != nil {
		t.Fatal(err)
	}
	*p = 0.5
	if n2.Position.X != 0.5 {
		t.Fatalf("position.x = %f", n2.Position.X)
	}

	r, err := s.Property("group.rotation.y")
	if err != nil {
		t.Fatal(err)
	}
	*r = math.K_HALF_PI
	world := n2.GetWorld()
	got := math.NewVec3Zero().Transform(world)
	if !got.Compare(math.NewVec3(0, 0, -0.5), 1e-5) {
		t.Fatalf("world position = %+v", got)
	}
}

func TestPropertyErrors(t *testing.T) {
	s := New()
	s.Add(NewGroup("group"))

	tests := []struct {
		path string
		want error
	}{
		{"missing.position.x", ErrNodeNotFound},
		{"group.position", ErrInvalidProperty},
		{"group.colour.x", ErrInvalidProperty},
		{"group.position.w", ErrInvalidProperty},
	}
	for _, tt := range tests {
		if _, err := s.Property(tt.path); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.path, err, tt.want)
		}
	}
}

func TestAddReparentsAndMeshesShareResources(t *testing.T) {
	geometry := metadata.NewGeometry("glyph", nil, nil)
	material := metadata.NewMatcapMaterial("matcap", nil)

	a := NewGroup("a")
	b := NewGroup("b")
	m := NewMesh("m", geometry, material)
	a.Add(m)
	b.Add(m)

	if len(a.Children()) != 0 || m.Parent() != b {
		t.Fatal("mesh not moved to its new parent")
	}
	if m.Transform.Parent != &b.Transform {
		t.Fatal("transform parent not updated")
	}

	s := New()
	s.Add(b)
	b.Visible = false
	if len(s.Meshes()) != 0 {
		t.Fatal("hidden group should hide its meshes")
	}
	b.Visible = true
	meshes := s.Meshes()
	if len(meshes) != 1 || meshes[0].Geometry != geometry || meshes[0].Material != material {
		t.Fatal("mesh resources not preserved")
	}
}
