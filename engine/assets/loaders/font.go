package loaders

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

// TypefaceLoader reads three.js typeface JSON fonts.
type TypefaceLoader struct{}

func (tl *TypefaceLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read typeface %q", path)
	}
	f, err := font.ParseTypeface(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse typeface %q", path)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeTypefaceFont,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     f,
	}, nil
}

func (tl *TypefaceLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}

// TrueTypeLoader reads TrueType and OpenType fonts.
type TrueTypeLoader struct{}

func (tl *TrueTypeLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read font %q", path)
	}
	f, err := font.ParseSFNT(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse font %q", path)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeTrueTypeFont,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     f,
	}, nil
}

func (tl *TrueTypeLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}
