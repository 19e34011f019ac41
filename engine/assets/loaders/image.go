package loaders

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoader decodes PNG, JPEG, BMP and WebP files into RGBA pixels.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	var flipY bool
	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil {
		flipY = p.FlipY
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image %q", path)
	}
	defer file.Close()

	rgba, format, err := decodeImage(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %q", path)
	}
	if flipY {
		flipVertical(rgba)
	}

	b := rgba.Bounds()
	return &metadata.Resource{
		Type:     metadata.ResourceTypeImage,
		FullPath: path,
		DataSize: uint64(len(rgba.Pix)),
		Data: &metadata.ImageResourceData{
			Width:  uint32(b.Dx()),
			Height: uint32(b.Dy()),
			Pixels: rgba,
			Format: format,
		},
	}, nil
}

func (il *ImageLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// decodeImage reads any registered image format and converts it to RGBA
// with its origin at (0, 0).
func decodeImage(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, format, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, format, nil
}

func decodeImageFile(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image %q", path)
	}
	defer file.Close()
	rgba, _, err := decodeImage(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %q", path)
	}
	return rgba, nil
}

func flipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
