package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

func newBar(clicks map[string]int) *ButtonBar {
	bb := NewButtonBar(nil)
	for _, id := range []string{"play", "pause", "resume"} {
		id := id
		bb.Add(id, id, func() { clicks[id]++ })
	}
	return bb
}

func TestLayoutIsARow(t *testing.T) {
	bb := newBar(map[string]int{})
	buttons := bb.Buttons()
	for i, b := range buttons {
		if want := 7*len(b.Label) + 12; b.Rect.Dx() != want {
			t.Errorf("%s width = %d, want %d", b.ID, b.Rect.Dx(), want)
		}
		if b.Rect.Min.Y != 10 {
			t.Errorf("%s top = %d, want 10", b.ID, b.Rect.Min.Y)
		}
		if i > 0 && b.Rect.Min.X <= buttons[i-1].Rect.Max.X {
			t.Errorf("%s overlaps %s", b.ID, buttons[i-1].ID)
		}
	}
	if bb.Bounds().Min != image.Pt(10, 10) {
		t.Fatalf("bounds = %v", bb.Bounds())
	}
}

func TestClickRunsTheButtonUnderTheCursor(t *testing.T) {
	clicks := map[string]int{}
	bb := newBar(clicks)
	pause := bb.Buttons()[1].Rect

	if !bb.Click(int32(pause.Min.X+1), int32(pause.Min.Y+1)) {
		t.Fatal("click on pause missed")
	}
	if bb.Click(500, 500) {
		t.Fatal("click outside the bar hit a button")
	}
	bb.Visible = false
	if bb.Click(int32(pause.Min.X+1), int32(pause.Min.Y+1)) {
		t.Fatal("hidden bar accepted a click")
	}
	if clicks["pause"] != 1 || clicks["play"] != 0 {
		t.Fatalf("clicks = %v", clicks)
	}
}

func TestBarConsumesClicksBeforeLaterListeners(t *testing.T) {
	core.EventSystemInitialize()
	t.Cleanup(func() { _ = core.EventSystemShutdown() })

	clicks := map[string]int{}
	bb := newBar(clicks)
	bb.Listen()
	defer bb.Dispose()

	camera := 0
	core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, &camera, func(core.EventContext) bool {
		camera++
		return false
	})

	play := bb.Buttons()[0].Rect
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_BUTTON_PRESSED,
		Data: &core.MouseEvent{Button: core.BUTTON_LEFT, PosX: int32(play.Min.X + 2), PosY: int32(play.Min.Y + 2)},
	})
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_BUTTON_PRESSED,
		Data: &core.MouseEvent{Button: core.BUTTON_RIGHT, PosX: int32(play.Min.X + 2), PosY: int32(play.Min.Y + 2)},
	})
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_BUTTON_PRESSED,
		Data: &core.MouseEvent{Button: core.BUTTON_LEFT, PosX: 600, PosY: 400},
	})

	if clicks["play"] != 1 {
		t.Fatalf("play clicked %d times, want 1", clicks["play"])
	}
	if camera != 2 {
		t.Fatalf("camera saw %d presses, want 2", camera)
	}

	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_MOUSE_MOVED,
		Data: &core.MouseEvent{PosX: int32(play.Min.X + 2), PosY: int32(play.Min.Y + 2)},
	})
	if bb.hovered != 0 {
		t.Fatalf("hovered = %d, want 0", bb.hovered)
	}
}

func TestDrawOverlayScalesWithPixelRatio(t *testing.T) {
	bb := newBar(map[string]int{})
	bounds := bb.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0, 400, 200))
	bb.DrawOverlay(dst, 2)

	if dst.RGBAAt(2*bounds.Min.X+1, 2*bounds.Min.Y+1).A == 0 {
		t.Fatal("button background missing at the scaled position")
	}
	if dst.RGBAAt(bounds.Min.X-1, bounds.Min.Y-1).A != 0 {
		t.Fatal("overlay drew outside the bar")
	}
	if dst.RGBAAt(399, 199).A != 0 {
		t.Fatal("overlay drew outside the bar")
	}

	bb.Visible = false
	clean := image.NewRGBA(image.Rect(0, 0, 400, 200))
	bb.DrawOverlay(clean, 1)
	if clean.RGBAAt(bounds.Min.X+1, bounds.Min.Y+1).A != 0 {
		t.Fatal("hidden bar was drawn")
	}
}

func TestBitmapLabelFont(t *testing.T) {
	page := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			page.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	bf := &metadata.BitmapFont{
		LineHeight: 9,
		Glyphs: map[int32]*metadata.FontGlyph{
			'A': {Codepoint: 'A', Width: 4, Height: 6, YOffset: 1, XAdvance: 5},
		},
		Kernings: map[[2]int32]int16{{'A', 'A'}: -1},
		Pages:    []*metadata.BitmapFontPage{{ID: 0, Image: page}},
	}
	lf := NewBitmapLabelFont(bf)
	if w, h := lf.Measure("AA?"); w != 9 || h != 9 {
		t.Fatalf("measure = %dx%d, want 9x9", w, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	lf.Draw(dst, image.Pt(2, 2), "A", color.RGBA{R: 255, A: 255})
	if got := dst.RGBAAt(2, 3); got.R != 255 || got.A != 255 {
		t.Fatalf("glyph pixel = %v", got)
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("y offset ignored, pixel = %v", got)
	}
	if got := dst.RGBAAt(6, 3); got.A != 0 {
		t.Fatalf("glyph wider than its rectangle, pixel = %v", got)
	}
}
