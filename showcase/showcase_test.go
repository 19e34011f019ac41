package showcase

import (
	"errors"
	"math"
	"testing"

	"github.com/spaghettifunk/quadn/engine/config"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/geometry"
	qmath "github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	"github.com/spaghettifunk/quadn/engine/renderer/offscreen"
	"github.com/spaghettifunk/quadn/engine/tween"
)

const typefaceN = `{"familyName": "Test", "resolution": 1000, "ascender": 1000, "descender": -200,
  "glyphs": {"N": {"ha": 944, "o": "m 92 0 l 92 1013 l 235 1013 l 718 192 l 718 1013 l 850 1013 l 850 0 l 707 0 l 224 820 l 224 0 z "}}}`

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func newTestContext(t *testing.T, width, height uint32, dpr float32) *Context {
	r := renderer.New(offscreen.New("", 0), qmath.NewVec4(0, 0, 0, 1))
	if err := r.Initialize("test", width, height); err != nil {
		t.Fatal(err)
	}
	c, err := NewContext(r, nil, OptionsFromConfig(config.Default(), width, height, dpr))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func letterResources(t *testing.T) (*metadata.Geometry, *metadata.Material) {
	f, err := font.ParseTypeface([]byte(typefaceN))
	if err != nil {
		t.Fatal(err)
	}
	g, err := geometry.NewTextGeometry("N", f, TextOptionsFromConfig(config.Default().Text))
	if err != nil {
		t.Fatal(err)
	}
	g.CenterOnOrigin()
	return g, metadata.NewMatcapMaterial("letters", nil)
}

func TestEffectivePixelRatio(t *testing.T) {
	tests := []struct {
		dpr, max, want float32
	}{
		{1, 2, 1},
		{1.5, 2, 1.5},
		{3, 2, 2},
		{3, 0, 2},
		{0, 2, 1},
		{4, 3, 3},
	}
	for _, tt := range tests {
		if got := EffectivePixelRatio(tt.dpr, tt.max); got != tt.want {
			t.Errorf("EffectivePixelRatio(%v, %v) = %v, want %v", tt.dpr, tt.max, got, tt.want)
		}
	}
}

func TestNewContext(t *testing.T) {
	c := newTestContext(t, 1280, 720, 3)

	if !near(c.Camera.Aspect, 1280.0/720.0) {
		t.Errorf("aspect = %f", c.Camera.Aspect)
	}
	if c.Camera.Fov != 75 || c.Camera.Near != 0.1 || c.Camera.Far != 100 {
		t.Errorf("unexpected camera %+v", c.Camera)
	}
	if p := c.Camera.GetPosition(); p != qmath.NewVec3(1, 1, 2) {
		t.Errorf("camera position = %+v", p)
	}
	if c.Renderer.PixelRatio() != 2 {
		t.Errorf("pixel ratio should be capped at 2, got %f", c.Renderer.PixelRatio())
	}
	if w, h := c.Renderer.DrawingBufferSize(); w != 2560 || h != 1440 {
		t.Errorf("drawing buffer = %dx%d", w, h)
	}
	if !c.Controls.EnableDamping {
		t.Error("damping should be enabled")
	}
	if c.Scene.FindByName(GroupName) != c.Group {
		t.Error("the group should be in the scene")
	}

	if _, err := NewContext(nil, nil, Options{Width: 1, Height: 1}); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized without renderer, got %v", err)
	}
	if _, err := NewContext(c.Renderer, nil, Options{}); err == nil {
		t.Error("expected an error for an empty viewport")
	}
}

func TestResize(t *testing.T) {
	c := newTestContext(t, 1280, 720, 1)

	if err := c.Resize(800, 800, 1.25); err != nil {
		t.Fatal(err)
	}
	if !near(c.Camera.Aspect, 1) {
		t.Errorf("aspect = %f", c.Camera.Aspect)
	}
	if c.Renderer.PixelRatio() != 1.25 {
		t.Errorf("pixel ratio = %f", c.Renderer.PixelRatio())
	}
	if w, h := c.Renderer.Size(); w != 800 || h != 800 {
		t.Errorf("renderer size = %dx%d", w, h)
	}

	// zero sizes leave everything as it was
	if err := c.Resize(0, 600, 1); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 800 || h != 800 || !near(c.Camera.Aspect, 1) {
		t.Errorf("zero sized resize should be ignored, got %dx%d", w, h)
	}

	if err := c.Resize(1920, 1080, 4); err != nil {
		t.Fatal(err)
	}
	if c.Renderer.PixelRatio() != 2 {
		t.Errorf("pixel ratio should be capped at 2, got %f", c.Renderer.PixelRatio())
	}
}

func TestBuildLetters(t *testing.T) {
	c := newTestContext(t, 320, 240, 1)

	if _, err := c.Animate(QuadChoreography()); !errors.Is(err, ErrLettersNotBuilt) {
		t.Errorf("expected ErrLettersNotBuilt, got %v", err)
	}

	g, m := letterResources(t)
	letters, err := c.BuildLetters(g, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(letters) != LetterCount || len(c.Group.Children()) != LetterCount {
		t.Fatalf("expected %d letters in the group, got %d", LetterCount, len(c.Group.Children()))
	}
	for i, l := range letters {
		if l.Geometry != g || l.Material != m {
			t.Errorf("letter %d does not share the geometry and material", i)
		}
		if l.Parent() != c.Group {
			t.Errorf("letter %d is not in the group", i)
		}
	}
	if len(c.Scene.Meshes()) != LetterCount {
		t.Errorf("scene has %d meshes", len(c.Scene.Meshes()))
	}

	want := []struct {
		pos qmath.Vec3
		ry  float32
	}{
		{qmath.NewVec3(0, 0, 0), 0},
		{qmath.NewVec3(0.17, 0, -0.17), qmath.K_HALF_PI},
		{qmath.NewVec3(-0.17, 0, -0.17), -qmath.K_HALF_PI},
		{qmath.NewVec3(0, 0, -0.34), qmath.K_PI},
	}
	for i, w := range want {
		if letters[i].Position != w.pos || letters[i].Rotation.Y != w.ry {
			t.Errorf("letter %d at %+v rot %f", i, letters[i].Position, letters[i].Rotation.Y)
		}
	}

	if _, err := c.BuildLetters(g, m); !errors.Is(err, ErrLettersBuilt) {
		t.Errorf("expected ErrLettersBuilt, got %v", err)
	}
	if err := c.Frame(); err != nil {
		t.Fatal(err)
	}

	c.Dispose()
	if len(c.Scene.Meshes()) != 0 {
		t.Error("dispose should empty the scene")
	}
}

func TestAnimation(t *testing.T) {
	c := newTestContext(t, 320, 240, 1)
	g, m := letterResources(t)
	letters, err := c.BuildLetters(g, m)
	if err != nil {
		t.Fatal(err)
	}
	tl, err := c.Animate(QuadChoreography())
	if err != nil {
		t.Fatal(err)
	}
	if tl.Duration() != 3.25 || tl.CycleDuration() != 3.75 {
		t.Fatalf("unexpected durations %f / %f", tl.Duration(), tl.CycleDuration())
	}

	// first moves are done after their delay and duration
	tl.Update(1.25)
	if !near(letters[0].Position.Z, 0.5) || !near(letters[1].Position.X, 0.5) ||
		!near(letters[2].Position.X, -0.5) || !near(letters[3].Position.Z, -0.84) {
		t.Errorf("letters not spread out at 1.25s")
	}

	// end of the cycle, held through the repeat delay
	tl.Update(2.05)
	if !near(c.Group.Rotation.Y, 6.29) {
		t.Errorf("group rotation = %f", c.Group.Rotation.Y)
	}
	for i, w := range letterLayout {
		if !near(letters[i].Position.X, w.position.X) || !near(letters[i].Position.Z, w.position.Z) {
			t.Errorf("letter %d not back at %+v: %+v", i, w.position, letters[i].Position)
		}
	}
	if st := tl.State(); st.Iteration != 0 {
		t.Errorf("still in the first iteration, got %d", st.Iteration)
	}

	// past the repeat delay the loop starts again from the recorded values
	tl.Update(0.5)
	if st := tl.State(); st.Iteration != 1 {
		t.Errorf("expected the second iteration, got %d", st.Iteration)
	}
}

func TestPlaybackCommands(t *testing.T) {
	c := newTestContext(t, 320, 240, 1)
	g, m := letterResources(t)
	letters, err := c.BuildLetters(g, m)
	if err != nil {
		t.Fatal(err)
	}
	tl, err := c.Animate(QuadChoreography())
	if err != nil {
		t.Fatal(err)
	}

	tl.Update(0.75)
	if err := Dispatch(tl, CommandPause); err != nil {
		t.Fatal(err)
	}
	z := letters[0].Position.Z
	tl.Update(0.5)
	if letters[0].Position.Z != z || !tl.IsPaused() {
		t.Error("a paused timeline should not move")
	}

	if err := Dispatch(tl, CommandResume); err != nil {
		t.Fatal(err)
	}
	tl.Update(0.25)
	if tl.TotalTime() != 1 {
		t.Errorf("expected to continue from 0.75, at %f", tl.TotalTime())
	}

	if err := Dispatch(tl, CommandReverse); err != nil {
		t.Fatal(err)
	}
	tl.Update(0.5)
	if !tl.IsReversed() || tl.TotalTime() != 0.5 {
		t.Errorf("expected to play backward to 0.5, at %f", tl.TotalTime())
	}

	if err := Dispatch(tl, CommandPlay); err != nil {
		t.Fatal(err)
	}
	tl.Update(0.25)
	if tl.IsReversed() || tl.TotalTime() != 0.75 {
		t.Errorf("play should go forward again, at %f", tl.TotalTime())
	}

	if err := Dispatch(tl, CommandRestart); err != nil {
		t.Fatal(err)
	}
	if tl.TotalTime() != 0 || letters[0].Position.Z != 0 {
		t.Errorf("restart should rewind, at %f z %f", tl.TotalTime(), letters[0].Position.Z)
	}

	if err := Dispatch(nil, CommandPlay); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := Dispatch(tl, Command("jump")); !errors.Is(err, core.ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	for _, name := range []string{"play", "#pause", " Resume ", "#REVERSE", "restart"} {
		if _, err := ParseCommand(name); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
	if c, _ := ParseCommand("#Pause"); c != CommandPause {
		t.Errorf("got %q", c)
	}
	if _, err := ParseCommand("stop"); !errors.Is(err, core.ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestCommandQueue(t *testing.T) {
	q := NewCommandQueue(2)
	if err := q.Enqueue("#Play"); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(CommandPause); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(CommandRestart); !errors.Is(err, core.ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if err := q.Enqueue("fly"); !errors.Is(err, core.ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}

	var got []Command
	if n := q.Drain(func(c Command) { got = append(got, c) }); n != 2 {
		t.Fatalf("drained %d", n)
	}
	if got[0] != CommandPlay || got[1] != CommandPause {
		t.Errorf("unexpected order %v", got)
	}
	if n := q.Drain(func(Command) {}); n != 0 {
		t.Errorf("queue should be empty, drained %d", n)
	}
}

func TestStateSnapshot(t *testing.T) {
	var s StateSnapshot
	if _, ok := s.Load(); ok {
		t.Error("empty snapshot should not be ready")
	}
	s.Store(tween.State{Iteration: 3})
	if st, ok := s.Load(); !ok || st.Iteration != 3 {
		t.Errorf("unexpected snapshot %+v %t", st, ok)
	}
}
