package loaders

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	"github.com/spaghettifunk/quadn/engine/tween"
)

// ChoreographyLoader reads timeline choreographies from YAML.
type ChoreographyLoader struct{}

func (cl *ChoreographyLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read choreography %q", path)
	}
	c, err := tween.ParseChoreography(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid choreography %q", path)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeChoreography,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     c,
	}, nil
}

func (cl *ChoreographyLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}
