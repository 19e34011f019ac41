package components

import (
	"testing"

	"github.com/spaghettifunk/quadn/engine/math"
)

func TestSetAspectRebuildsProjection(t *testing.T) {
	c := NewPerspectiveCamera(75, 16.0/9.0, 0.1, 100)
	before := c.GetProjection()
	c.SetAspect(1)
	after := c.GetProjection()
	if c.Aspect != 1 {
		t.Fatalf("aspect = %f", c.Aspect)
	}
	if before.Data[0] == after.Data[0] {
		t.Fatal("projection not rebuilt on aspect change")
	}
	if math.Abs(after.Data[0]-after.Data[5]) > 1e-6 {
		t.Fatalf("square viewport should scale x and y equally: %f vs %f", after.Data[0], after.Data[5])
	}
}

func TestCameraAxes(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 100)
	c.SetPosition(math.NewVec3(0, 0, 2))
	c.LookAt(math.NewVec3Zero())

	if !c.Forward().Compare(math.NewVec3(0, 0, -1), 1e-6) {
		t.Fatalf("forward = %+v", c.Forward())
	}
	if !c.Right().Compare(math.NewVec3(1, 0, 0), 1e-6) {
		t.Fatalf("right = %+v", c.Right())
	}
	if !c.CameraUp().Compare(math.NewVec3(0, 1, 0), 1e-6) {
		t.Fatalf("up = %+v", c.CameraUp())
	}
}
