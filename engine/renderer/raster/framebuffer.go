package raster

import (
	"image"

	"github.com/spaghettifunk/quadn/engine/math"
)

// Stats counts what the last frame did. Reset by Clear.
type Stats struct {
	Triangles uint32
	Culled    uint32
	Clipped   uint32
	Fragments uint32
}

/**
 * @brief A colour and depth target the rasterizer draws into. The colour
 * attachment holds sRGB encoded pixels ready to be presented.
 */
type Framebuffer struct {
	Color *image.RGBA
	Depth []float32
	Stats Stats

	width   int
	height  int
	scratch []clipVertex
}

func NewFramebuffer(width, height int) *Framebuffer {
	f := &Framebuffer{}
	f.Resize(width, height)
	return f
}

func (f *Framebuffer) Size() (int, int) {
	return f.width, f.height
}

// Resize reallocates the attachments when the size changes. Contents are lost.
func (f *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if f.Color != nil && width == f.width && height == f.height {
		return
	}
	f.width, f.height = width, height
	f.Color = image.NewRGBA(image.Rect(0, 0, width, height))
	f.Depth = make([]float32, width*height)
	for i := range f.Depth {
		f.Depth[i] = 1
	}
}

// Clear fills the colour attachment with an sRGB colour and resets depth.
func (f *Framebuffer) Clear(colour math.Vec4) {
	r := toByte(colour.X)
	g := toByte(colour.Y)
	b := toByte(colour.Z)
	a := toByte(colour.W)
	pix := f.Color.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = a
	}
	for i := range f.Depth {
		f.Depth[i] = 1
	}
	f.Stats = Stats{}
}

func toByte(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}

// CopyScaled writes the colour attachment into dst as tightly packed
// width*height pixels, nearest sampled. With bgra set the red and blue
// channels are swapped for surfaces that expect that order.
func (f *Framebuffer) CopyScaled(dst []byte, width, height int, bgra bool) {
	if width <= 0 || height <= 0 || len(dst) < width*height*4 {
		return
	}
	if f.width == 0 || f.height == 0 {
		clear(dst[:width*height*4])
		return
	}
	src := f.Color.Pix
	stride := f.Color.Stride
	for y := 0; y < height; y++ {
		sy := y * f.height / height
		row := sy * stride
		o := y * width * 4
		for x := 0; x < width; x++ {
			s := row + (x*f.width/width)*4
			if bgra {
				dst[o+0] = src[s+2]
				dst[o+1] = src[s+1]
				dst[o+2] = src[s+0]
			} else {
				dst[o+0] = src[s+0]
				dst[o+1] = src[s+1]
				dst[o+2] = src[s+2]
			}
			dst[o+3] = src[s+3]
			o += 4
		}
	}
}
