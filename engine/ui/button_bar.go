package ui

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/quadn/engine/core"
)

/** @brief A clickable label. Rect is in window units. */
type Button struct {
	ID      string
	Label   string
	OnClick func()
	Rect    image.Rectangle
}

var (
	buttonColour      = color.RGBA{R: 40, G: 40, B: 40, A: 200}
	buttonHoverColour = color.RGBA{R: 80, G: 80, B: 80, A: 220}
	labelColour       = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

/**
 * @brief A horizontal row of buttons in the top-left corner of the
 * window, drawn over the scene. Left clicks on a button are consumed so
 * camera controls registered after the bar never see them.
 */
type ButtonBar struct {
	Visible bool

	buttons []*Button
	font    LabelFont
	margin  int
	padding int
	spacing int
	hovered int

	// 1x rendering of the bar, rebuilt when the layout or hover changes.
	cache      *image.RGBA
	cacheHover int
}

func NewButtonBar(font LabelFont) *ButtonBar {
	if font == nil {
		font = NewBasicLabelFont()
	}
	return &ButtonBar{
		Visible: true,
		font:    font,
		margin:  10,
		padding: 6,
		spacing: 6,
		hovered: -1,
	}
}

// Add appends a button and lays the bar out again.
func (bb *ButtonBar) Add(id, label string, onClick func()) *Button {
	b := &Button{ID: id, Label: label, OnClick: onClick}
	bb.buttons = append(bb.buttons, b)
	bb.layout()
	return b
}

func (bb *ButtonBar) Buttons() []*Button {
	return bb.buttons
}

// SetFont replaces the label font and lays the bar out again.
func (bb *ButtonBar) SetFont(font LabelFont) {
	bb.font = font
	bb.layout()
}

func (bb *ButtonBar) layout() {
	x := bb.margin
	for _, b := range bb.buttons {
		w, h := bb.font.Measure(b.Label)
		b.Rect = image.Rect(x, bb.margin, x+w+2*bb.padding, bb.margin+h+2*bb.padding)
		x = b.Rect.Max.X + bb.spacing
	}
	bb.cache = nil
}

// Bounds is the union of every button rectangle.
func (bb *ButtonBar) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, b := range bb.buttons {
		r = r.Union(b.Rect)
	}
	return r
}

// HitTest returns the button under the window position, or nil.
func (bb *ButtonBar) HitTest(x, y int32) *Button {
	if !bb.Visible {
		return nil
	}
	p := image.Pt(int(x), int(y))
	for _, b := range bb.buttons {
		if p.In(b.Rect) {
			return b
		}
	}
	return nil
}

// Click runs the button under the position. Returns true if one was hit.
func (bb *ButtonBar) Click(x, y int32) bool {
	b := bb.HitTest(x, y)
	if b == nil {
		return false
	}
	core.LogDebug("Button '%s' clicked.", b.ID)
	if b.OnClick != nil {
		b.OnClick()
	}
	return true
}

func (bb *ButtonBar) render() *image.RGBA {
	bounds := bb.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, bounds.Max.X, bounds.Max.Y))
	for i, b := range bb.buttons {
		bg := buttonColour
		if i == bb.hovered {
			bg = buttonHoverColour
		}
		draw.Draw(img, b.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
		bb.font.Draw(img, b.Rect.Min.Add(image.Pt(bb.padding, bb.padding)), b.Label, labelColour)
	}
	return img
}

// DrawOverlay composites the bar over dst, scaled by the pixel ratio.
func (bb *ButtonBar) DrawOverlay(dst *image.RGBA, pixelRatio float32) {
	if !bb.Visible || len(bb.buttons) == 0 {
		return
	}
	if bb.cache == nil || bb.cacheHover != bb.hovered {
		bb.cache = bb.render()
		bb.cacheHover = bb.hovered
	}
	src := bb.cache.Bounds()
	if pixelRatio == 1 {
		draw.Draw(dst, src, bb.cache, image.Point{}, draw.Over)
		return
	}
	target := image.Rect(0, 0, int(float32(src.Dx())*pixelRatio), int(float32(src.Dy())*pixelRatio))
	draw.NearestNeighbor.Scale(dst, target, bb.cache, src, draw.Over, nil)
}

/**
 * @brief Registers for mouse events. Must be called before anything else
 * listening to button presses, so consumed clicks stop here.
 */
func (bb *ButtonBar) Listen() {
	core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, bb, bb.onButtonPressed)
	core.EventRegister(core.EVENT_CODE_MOUSE_MOVED, bb, bb.onMouseMoved)
}

func (bb *ButtonBar) Dispose() {
	core.EventUnregister(core.EVENT_CODE_BUTTON_PRESSED, bb)
	core.EventUnregister(core.EVENT_CODE_MOUSE_MOVED, bb)
}

func (bb *ButtonBar) onButtonPressed(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || me.Button != core.BUTTON_LEFT {
		return false
	}
	return bb.Click(me.PosX, me.PosY)
}

// Hover never consumes the event, the camera still needs the motion.
func (bb *ButtonBar) onMouseMoved(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	bb.hovered = -1
	if hit := bb.HitTest(me.PosX, me.PosY); hit != nil {
		for i, b := range bb.buttons {
			if b == hit {
				bb.hovered = i
			}
		}
	}
	return false
}
