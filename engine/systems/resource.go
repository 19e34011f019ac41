package systems

import (
	"fmt"

	"github.com/spaghettifunk/quadn/engine/assets"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

/**
 * @brief Loads resources through the asset manager, either directly or
 * on the job system with completions delivered on the main thread.
 */
type ResourceSystem struct {
	assetManager *assets.AssetManager
	jobSystem    *JobSystem
	// Log progress of grouped loads.
	debug bool
}

/** @brief A single entry of a grouped load. */
type ResourceRequest struct {
	Name   string
	Params interface{}
	// Called on the main thread once the resource is loaded. Optional.
	OnLoad func(resource *metadata.Resource)
}

func NewResourceSystem(am *assets.AssetManager, js *JobSystem, debug bool) (*ResourceSystem, error) {
	if am == nil || js == nil {
		return nil, fmt.Errorf("func NewResourceSystem - asset manager and job system are required: %w", core.ErrNotInitialized)
	}
	core.LogInfo("Resource system initialized with base path '%s'.", am.Dir())
	return &ResourceSystem{
		assetManager: am,
		jobSystem:    js,
		debug:        debug,
	}, nil
}

func (rs *ResourceSystem) Shutdown() error {
	return nil
}

// Load reads a resource synchronously on the calling goroutine.
func (rs *ResourceSystem) Load(name string, params interface{}) (*metadata.Resource, error) {
	return rs.assetManager.Load(name, params)
}

func (rs *ResourceSystem) Unload(resource *metadata.Resource) error {
	return rs.assetManager.Unload(resource)
}

// Changes reports assets rewritten on disk after they were loaded.
func (rs *ResourceSystem) Changes() <-chan string {
	return rs.assetManager.Changes()
}

/**
 * @brief Loads a resource on a worker. Exactly one of onLoad or onError is
 * called later, from JobSystem.Update.
 */
func (rs *ResourceSystem) LoadAsync(name string, params interface{}, onLoad func(*metadata.Resource), onError func(error)) error {
	return rs.jobSystem.Submit(metadata.JobTask{
		Name: "load " + name,
		OnStart: func() (interface{}, error) {
			return rs.assetManager.Load(name, params)
		},
		OnComplete: func(result interface{}) {
			if onLoad != nil {
				onLoad(result.(*metadata.Resource))
			}
		},
		OnFailure: func(err error) {
			if onError != nil {
				onError(err)
			}
		},
	})
}

/**
 * @brief Loads every request concurrently and joins them. Each OnLoad runs
 * as its resource arrives; onDone runs once, after the last one succeeded
 * or with the first error. Results arriving after a failure are ignored.
 */
func (rs *ResourceSystem) LoadAll(requests []ResourceRequest, onDone func(err error)) error {
	total := len(requests)
	if total == 0 {
		if onDone != nil {
			onDone(nil)
		}
		return nil
	}

	loaded := 0
	failed := false
	finish := func(err error) {
		if onDone != nil {
			onDone(err)
		}
	}

	if rs.debug {
		core.LogInfo("loading started: %d resources", total)
	}
	for _, req := range requests {
		req := req
		err := rs.LoadAsync(req.Name, req.Params,
			func(res *metadata.Resource) {
				if failed {
					return
				}
				loaded++
				if rs.debug {
					core.LogInfo("loading progressing: %s (%d/%d)", req.Name, loaded, total)
				}
				if req.OnLoad != nil {
					req.OnLoad(res)
				}
				if loaded == total {
					if rs.debug {
						core.LogInfo("loading finished: %d resources", total)
					}
					finish(nil)
				}
			},
			func(err error) {
				if failed {
					return
				}
				failed = true
				core.LogError("loading error: %s: %s", req.Name, err)
				finish(fmt.Errorf("could not load `%s`: %w", req.Name, err))
			})
		if err != nil {
			failed = true
			return fmt.Errorf("could not queue `%s`: %w", req.Name, err)
		}
	}
	return nil
}
