package systems

import (
	"fmt"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

/**
 * @brief Keeps loaded fonts by asset name: outline fonts (typeface JSON,
 * TrueType) used to build text geometry, and bitmap fonts used for
 * on-screen labels.
 */
type FontSystem struct {
	resources   *ResourceSystem
	outline     map[string]*font.Font
	bitmapFonts map[string]*metadata.BitmapFont
}

func NewFontSystem(rs *ResourceSystem) *FontSystem {
	return &FontSystem{
		resources:   rs,
		outline:     make(map[string]*font.Font),
		bitmapFonts: make(map[string]*metadata.BitmapFont),
	}
}

func (fs *FontSystem) Shutdown() error {
	fs.outline = make(map[string]*font.Font)
	fs.bitmapFonts = make(map[string]*metadata.BitmapFont)
	return nil
}

// Register keeps a font from a loaded resource.
func (fs *FontSystem) Register(res *metadata.Resource) error {
	switch data := res.Data.(type) {
	case *font.Font:
		fs.outline[res.Name] = data
		core.LogDebug("Font '%s' (%s) registered.", res.Name, data.Family)
	case *metadata.BitmapFont:
		fs.bitmapFonts[res.Name] = data
		core.LogDebug("Bitmap font '%s' (%s %d) registered.", res.Name, data.Face, data.Size)
	default:
		return fmt.Errorf("resource `%s` is a %s, not a font", res.Name, res.Type)
	}
	return nil
}

// Acquire returns an outline font, loading it synchronously the first time.
func (fs *FontSystem) Acquire(name string) (*font.Font, error) {
	if f, ok := fs.outline[name]; ok {
		return f, nil
	}
	if err := fs.load(name); err != nil {
		return nil, err
	}
	f, ok := fs.outline[name]
	if !ok {
		return nil, fmt.Errorf("`%s` is not an outline font", name)
	}
	return f, nil
}

// AcquireBitmap returns a bitmap font, loading it synchronously the first time.
func (fs *FontSystem) AcquireBitmap(name string) (*metadata.BitmapFont, error) {
	if f, ok := fs.bitmapFonts[name]; ok {
		return f, nil
	}
	if err := fs.load(name); err != nil {
		return nil, err
	}
	f, ok := fs.bitmapFonts[name]
	if !ok {
		return nil, fmt.Errorf("`%s` is not a bitmap font", name)
	}
	return f, nil
}

func (fs *FontSystem) load(name string) error {
	res, err := fs.resources.Load(name, nil)
	if err != nil {
		return err
	}
	return fs.Register(res)
}
