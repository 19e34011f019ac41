package offscreen

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/raster"
)

/**
 * @brief A backend without a window. It keeps a copy of the last frame
 * and, when a directory is set, writes every Nth frame as a PNG.
 */
type OffscreenRenderer struct {
	mutex sync.RWMutex

	dir   string
	every uint64

	width  uint32
	height uint32
	frames uint64
	last   *image.RGBA
}

func New(snapshotDir string, snapshotEvery uint64) *OffscreenRenderer {
	return &OffscreenRenderer{dir: snapshotDir, every: snapshotEvery}
}

func (o *OffscreenRenderer) Initialize(appName string, width, height uint32) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.width, o.height = width, height
	if o.dir != "" {
		if err := os.MkdirAll(o.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	core.LogInfo("Offscreen renderer for `%s` initialized (%dx%d).", appName, width, height)
	return nil
}

func (o *OffscreenRenderer) Resized(width, height uint32) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.width, o.height = width, height
	core.LogDebug("Offscreen renderer resized: w/h: %d/%d", width, height)
	return nil
}

func (o *OffscreenRenderer) Present(frame *raster.Framebuffer) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	src := frame.Color
	if o.last == nil || o.last.Bounds() != src.Bounds() {
		o.last = image.NewRGBA(src.Bounds())
	}
	copy(o.last.Pix, src.Pix)
	o.frames++

	if o.dir != "" && o.every > 0 && o.frames%o.every == 0 {
		return o.writeSnapshot(filepath.Join(o.dir, fmt.Sprintf("frame_%06d.png", o.frames)))
	}
	return nil
}

func (o *OffscreenRenderer) writeSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := png.Encode(f, o.last); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return f.Close()
}

func (o *OffscreenRenderer) Shutdown() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.dir != "" && o.last != nil {
		if err := o.writeSnapshot(filepath.Join(o.dir, "last.png")); err != nil {
			return err
		}
	}
	core.LogInfo("Offscreen renderer shut down after %d frames.", o.frames)
	return nil
}

// Last returns a copy of the most recently presented frame, or nil.
func (o *OffscreenRenderer) Last() *image.RGBA {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if o.last == nil {
		return nil
	}
	img := image.NewRGBA(o.last.Bounds())
	copy(img.Pix, o.last.Pix)
	return img
}

func (o *OffscreenRenderer) Frames() uint64 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.frames
}

func (o *OffscreenRenderer) Size() (uint32, uint32) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.width, o.height
}
