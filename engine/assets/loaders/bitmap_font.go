package loaders

import (
	"path/filepath"
	"sort"

	"github.com/fzipp/bmfont"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

// BitmapFontLoader reads AngelCode text .fnt descriptors and their page images.
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load bitmap font %q", path)
	}
	desc := font.Descriptor

	out := &metadata.BitmapFont{
		Face:       desc.Info.Face,
		Size:       uint32(desc.Info.Size),
		LineHeight: int32(desc.Common.LineHeight),
		Baseline:   int32(desc.Common.Base),
		AtlasSizeX: int32(desc.Common.ScaleW),
		AtlasSizeY: int32(desc.Common.ScaleH),
		Glyphs:     make(map[int32]*metadata.FontGlyph, len(desc.Chars)),
		Kernings:   make(map[[2]int32]int16, len(desc.Kerning)),
	}

	// Page files are relative to the descriptor.
	dir := filepath.Dir(path)
	var size uint64
	for _, p := range desc.Pages {
		img, err := decodeImageFile(filepath.Join(dir, p.File))
		if err != nil {
			return nil, errors.Wrapf(err, "bitmap font %q page %d", path, p.ID)
		}
		size += uint64(len(img.Pix))
		out.Pages = append(out.Pages, &metadata.BitmapFontPage{
			ID:    int8(p.ID),
			File:  p.File,
			Image: img,
		})
	}

	// Glyphs address pages by index.
	sort.Slice(out.Pages, func(i, j int) bool { return out.Pages[i].ID < out.Pages[j].ID })

	for _, g := range desc.Chars {
		out.Glyphs[int32(g.ID)] = &metadata.FontGlyph{
			Codepoint: int32(g.ID),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		}
	}
	for pair, k := range desc.Kerning {
		out.Kernings[[2]int32{int32(pair.First), int32(pair.Second)}] = int16(k.Amount)
	}

	return &metadata.Resource{
		Type:     metadata.ResourceTypeBitmapFont,
		FullPath: path,
		DataSize: size,
		Data:     out,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *metadata.Resource) error {
	if data, ok := resource.Data.(*metadata.BitmapFont); ok {
		data.Glyphs = nil
		data.Kernings = nil
		data.Pages = nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
