package assets

import "github.com/spaghettifunk/quadn/engine/renderer/metadata"

// Loader turns a file into a resource. Load receives the absolute path and
// loader specific parameters, which may be nil.
type Loader interface {
	Load(path string, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
