package systems

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/quadn/engine/assets"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/geometry"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/components"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	"github.com/spaghettifunk/quadn/engine/tween"
)

const typefaceN = `{"familyName": "Test", "resolution": 1000,
  "glyphs": {"N": {"ha": 944, "o": "m 92 0 l 92 1013 l 235 1013 l 718 192 l 718 1013 l 850 1013 l 850 0 l 707 0 l 224 820 l 224 0 z "}}}`

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func newSystems(t *testing.T, dir string) *SystemManager {
	t.Helper()
	am, err := assets.NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(dir, false); err != nil {
		t.Fatal(err)
	}
	sm, err := NewSystemManager(am, SystemManagerConfig{Workers: 2, QueueSize: 4, DebugLogging: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = sm.Shutdown()
		_ = am.Shutdown()
	})
	return sm
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func TestLoadAllJoinsResources(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "matcap.png"), red)
	if err := os.WriteFile(filepath.Join(dir, "n.typeface.json"), []byte(typefaceN), 0o644); err != nil {
		t.Fatal(err)
	}
	sm := newSystems(t, dir)

	var loaded []string
	calls := 0
	var result error
	err := sm.Resources().LoadAll([]ResourceRequest{
		{Name: "matcap.png", OnLoad: func(r *metadata.Resource) { loaded = append(loaded, r.Name) }},
		{Name: "n.typeface.json", OnLoad: func(r *metadata.Resource) { loaded = append(loaded, r.Name) }},
	}, func(err error) {
		calls++
		result = err
	})
	if err != nil {
		t.Fatal(err)
	}
	pump(t, sm.Update, func() bool { return calls > 0 })
	if result != nil || len(loaded) != 2 {
		t.Fatalf("result = %v, loaded = %v", result, loaded)
	}
	if calls != 1 {
		t.Fatalf("onDone called %d times", calls)
	}
}

func TestLoadAllReportsTheFirstError(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "matcap.png"), red)
	sm := newSystems(t, dir)

	calls := 0
	var result error
	err := sm.Resources().LoadAll([]ResourceRequest{
		{Name: "matcap.png"},
		{Name: "missing.typeface.json"},
	}, func(err error) {
		calls++
		result = err
	})
	if err != nil {
		t.Fatal(err)
	}
	pump(t, sm.Update, func() bool { return calls > 0 && sm.Jobs().Pending() == 0 })
	if !errors.Is(result, core.ErrAssetNotFound) {
		t.Fatalf("result = %v, want ErrAssetNotFound", result)
	}
	if calls != 1 {
		t.Fatalf("onDone called %d times", calls)
	}
}

func TestTextureReloadSwapsPixelsInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matcap.png")
	writePNG(t, path, red)
	sm := newSystems(t, dir)

	tex, err := sm.Textures().Acquire("matcap.png", nil, metadata.ColorSpaceSRGB)
	if err != nil {
		t.Fatal(err)
	}
	again, err := sm.Textures().Acquire("matcap.png", nil, metadata.ColorSpaceSRGB)
	if err != nil || again != tex {
		t.Fatalf("second acquire returned %p (%v), want %p", again, err, tex)
	}
	material := sm.Materials().AcquireMatcap("letters", tex)

	writePNG(t, path, blue)
	if err := sm.Textures().Reload("matcap.png"); err != nil {
		t.Fatal(err)
	}
	pump(t, sm.Update, func() bool { return tex.Generation == 1 })
	if got := material.Matcap.Texture.Image.RGBAAt(0, 0); got != blue {
		t.Fatalf("material samples %v after reload, want blue", got)
	}
	if tex.ColorSpace != metadata.ColorSpaceSRGB {
		t.Fatal("reload changed the colour space")
	}

	if err := sm.Textures().Reload("unknown.png"); !errors.Is(err, core.ErrAssetNotFound) {
		t.Fatalf("err = %v, want ErrAssetNotFound", err)
	}
	sm.Textures().Release("matcap.png")
	sm.Textures().Release("matcap.png")
	if _, ok := sm.Textures().Get("matcap.png"); ok {
		t.Fatal("texture still registered after the last release")
	}
}

func TestMaterialAndGeometryAreShared(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "n.typeface.json"), []byte(typefaceN), 0o644); err != nil {
		t.Fatal(err)
	}
	sm := newSystems(t, dir)

	f, err := sm.Fonts().Acquire("n.typeface.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Fonts().AcquireBitmap("n.typeface.json"); err == nil {
		t.Fatal("outline font returned as a bitmap font")
	}

	opts := geometry.DefaultTextOptions()
	opts.Size = 0.5
	a, err := sm.Geometries().AcquireText("N", f, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sm.Geometries().AcquireText("N", f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("same text and options built two geometries")
	}
	if c := a.Center; math.Abs(c.X) > 1e-4 || math.Abs(c.Y) > 1e-4 || math.Abs(c.Z) > 1e-4 {
		t.Fatalf("geometry center = %+v, want origin", c)
	}
	opts.Size = 1
	if c, _ := sm.Geometries().AcquireText("N", f, opts); c == a {
		t.Fatal("different options shared a geometry")
	}

	m1 := sm.Materials().AcquireMatcap("letters", nil)
	m2 := sm.Materials().AcquireMatcap("letters", nil)
	if m1 != m2 {
		t.Fatal("material not shared")
	}
	if m1.Matcap.Texture != sm.Textures().GetDefault() {
		t.Fatal("material without matcap should use the default texture")
	}
}

func TestCameraSystem(t *testing.T) {
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1})
	if err != nil {
		t.Fatal(err)
	}
	def, _ := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	if def != cs.GetDefault() {
		t.Fatal("default camera not returned")
	}
	a, err := cs.Acquire("world")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := cs.Acquire("world")
	if a != b {
		t.Fatal("same name returned two cameras")
	}
	if _, err := cs.Acquire("other"); err == nil {
		t.Fatal("acquire beyond MaxCameraCount succeeded")
	}
	a.SetPosition(math.NewVec3(1, 2, 3))
	cs.Release("world")
	cs.Release("world")
	if a.Position != math.NewVec3Zero() {
		t.Fatal("camera not reset on last release")
	}
	if _, err := cs.Acquire("other"); err != nil {
		t.Fatalf("slot not freed: %v", err)
	}
}

func TestAnimationSystemAdvancesTimelines(t *testing.T) {
	as := NewAnimationSystem()
	var x float32
	tl := tween.NewTimeline(tween.Options{})
	tl.To("x", 0, tween.Vars{Duration: 1, Ease: tween.Linear}, tween.PropertyTo{Target: &x, To: 1})

	if err := as.Register("main", tl); err != nil {
		t.Fatal(err)
	}
	if err := as.Register("main", tl); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	as.Update(0.5)
	if math.Abs(x-0.5) > 1e-6 {
		t.Fatalf("x = %f, want 0.5", x)
	}
	if got, ok := as.Get("main"); !ok || got != tl {
		t.Fatal("Get did not return the registered timeline")
	}
	if !as.Remove("main") || as.Remove("main") {
		t.Fatal("Remove should succeed exactly once")
	}
	as.Update(0.5)
	if math.Abs(x-0.5) > 1e-6 {
		t.Fatal("removed timeline still advanced")
	}
}
