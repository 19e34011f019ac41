package controls

import (
	"testing"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/components"
)

func newControls(position math.Vec3, height float32) *OrbitControls {
	camera := components.NewPerspectiveCamera(75, 1, 0.1, 100)
	camera.SetPosition(position)
	camera.LookAt(math.NewVec3Zero())
	return NewOrbitControls(camera, height, height)
}

func near(a, b, tolerance float32) bool {
	return math.Abs(a-b) <= tolerance
}

func TestRotateKeepsDistance(t *testing.T) {
	oc := newControls(math.NewVec3(1, 1, 2), 500)
	distance := oc.Distance()
	theta := oc.AzimuthalAngle()

	oc.RotateLeft(0.5)
	if !oc.Update() {
		t.Fatal("update reported no change")
	}
	if !near(oc.Distance(), distance, 1e-4) {
		t.Fatalf("distance = %f, want %f", oc.Distance(), distance)
	}
	if !near(oc.AzimuthalAngle(), theta-0.5, 1e-4) {
		t.Fatalf("azimuth = %f, want %f", oc.AzimuthalAngle(), theta-0.5)
	}
	if oc.Camera.Target != oc.Target {
		t.Fatal("camera does not look at the target")
	}
}

func TestPolarAngleIsClamped(t *testing.T) {
	oc := newControls(math.NewVec3(1, 1, 2), 500)
	distance := oc.Distance()

	oc.RotateUp(10)
	oc.Update()
	if p := oc.PolarAngle(); p > 1e-3 {
		t.Fatalf("polar angle = %f, want close to 0", p)
	}
	if !near(oc.Distance(), distance, 1e-4) {
		t.Fatalf("distance = %f, want %f", oc.Distance(), distance)
	}

	oc.MaxPolarAngle = math.K_HALF_PI
	oc.RotateUp(-10)
	oc.Update()
	if p := oc.PolarAngle(); !near(p, math.K_HALF_PI, 1e-4) {
		t.Fatalf("polar angle = %f, want %f", p, math.K_HALF_PI)
	}
	if y := oc.Camera.GetPosition().Y; !near(y, 0, 1e-4) {
		t.Fatalf("camera y = %f, want 0", y)
	}
}

func TestDampingDecays(t *testing.T) {
	oc := newControls(math.NewVec3(1, 1, 2), 500)
	oc.EnableDamping = true
	start := oc.AzimuthalAngle()

	oc.RotateLeft(1)
	previous := start
	var lastStep float32 = 1
	for i := 0; i < 5; i++ {
		oc.Update()
		current := oc.AzimuthalAngle()
		step := previous - current
		if step <= 0 || step >= lastStep {
			t.Fatalf("update %d moved %f after %f, want a shrinking positive step", i, step, lastStep)
		}
		if i == 0 && !near(step, 0.05, 1e-4) {
			t.Fatalf("first step = %f, want 0.05", step)
		}
		previous, lastStep = current, step
	}

	for i := 0; i < 300; i++ {
		oc.Update()
	}
	if total := start - oc.AzimuthalAngle(); !near(total, 1, 1e-3) {
		t.Fatalf("total rotation = %f, want 1", total)
	}
}

func TestDollyClampsDistance(t *testing.T) {
	oc := newControls(math.NewVec3(1, 1, 2), 500)
	oc.MinDistance = 1
	oc.MaxDistance = 3
	distance := oc.Distance()

	oc.DollyIn(0.5)
	oc.Update()
	if !near(oc.Distance(), distance*0.5, 1e-4) {
		t.Fatalf("distance = %f, want %f", oc.Distance(), distance*0.5)
	}
	oc.DollyIn(0.5)
	oc.Update()
	if !near(oc.Distance(), 1, 1e-4) {
		t.Fatalf("distance = %f, want clamp to 1", oc.Distance())
	}
	oc.DollyOut(0.1)
	oc.Update()
	if !near(oc.Distance(), 3, 1e-4) {
		t.Fatalf("distance = %f, want clamp to 3", oc.Distance())
	}
}

func TestPanMovesTargetAndCamera(t *testing.T) {
	oc := newControls(math.NewVec3(0, 0, 2), 100)

	oc.Pan(10, 0)
	oc.Update()

	want := -2 * 10 * 2 * math.Tan(math.DegToRad(75)/2) / 100
	if !near(oc.Target.X, want, 1e-4) || !near(oc.Target.Y, 0, 1e-5) {
		t.Fatalf("target = %+v, want x %f", oc.Target, want)
	}
	if !near(oc.Camera.GetPosition().X, want, 1e-4) || !near(oc.Distance(), 2, 1e-4) {
		t.Fatalf("camera = %+v, distance %f", oc.Camera.GetPosition(), oc.Distance())
	}

	oc.Pan(0, 10)
	oc.Update()
	if oc.Target.Y <= 0 {
		t.Fatalf("dragging down should move the target up, got %+v", oc.Target)
	}
}

func TestResetRestoresSavedState(t *testing.T) {
	oc := newControls(math.NewVec3(1, 1, 2), 500)
	oc.RotateLeft(1)
	oc.Pan(20, 20)
	oc.Update()

	oc.Reset()
	if !oc.Camera.GetPosition().Compare(math.NewVec3(1, 1, 2), 1e-4) {
		t.Fatalf("position = %+v", oc.Camera.GetPosition())
	}
	if !oc.Target.Compare(math.NewVec3Zero(), 1e-6) {
		t.Fatalf("target = %+v", oc.Target)
	}
}

func TestInputEvents(t *testing.T) {
	if !core.EventSystemInitialize() {
		t.Fatal("event system already initialized")
	}
	t.Cleanup(func() { _ = core.EventSystemShutdown() })

	oc := newControls(math.NewVec3(1, 1, 2), 500)
	oc.Listen()
	t.Cleanup(oc.Dispose)

	theta := oc.AzimuthalAngle()
	distance := oc.Distance()

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_BUTTON_PRESSED, Data: &core.MouseEvent{Button: core.BUTTON_LEFT, PosX: 100, PosY: 100}})
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_MOUSE_MOVED, Data: &core.MouseEvent{PosX: 150, PosY: 100}})
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_BUTTON_RELEASED, Data: &core.MouseEvent{Button: core.BUTTON_LEFT, PosX: 150, PosY: 100}})

	want := theta - math.K_PI_2*50/500
	if !near(oc.AzimuthalAngle(), want, 1e-4) {
		t.Fatalf("azimuth = %f, want %f", oc.AzimuthalAngle(), want)
	}

	// Moving without a pressed button does nothing.
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_MOUSE_MOVED, Data: &core.MouseEvent{PosX: 300, PosY: 300}})
	if !near(oc.AzimuthalAngle(), want, 1e-4) {
		t.Fatalf("azimuth changed without a drag: %f", oc.AzimuthalAngle())
	}

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{Scroll: 1}})
	if !near(oc.Distance(), distance*0.95, 1e-4) {
		t.Fatalf("distance = %f, want %f", oc.Distance(), distance*0.95)
	}

	oc.Dispose()
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{Scroll: 1}})
	if !near(oc.Distance(), distance*0.95, 1e-4) {
		t.Fatal("disposed controls still react to input")
	}
}
