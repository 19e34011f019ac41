package systems

import (
	"runtime"

	"github.com/spaghettifunk/quadn/engine/assets"
)

/** @brief Configuration shared by every system. */
type SystemManagerConfig struct {
	// Number of job workers. Zero uses one per CPU, up to 4.
	Workers int
	// Size of the job queue.
	QueueSize int
	// Log progress of grouped resource loads.
	DebugLogging bool
}

type SystemManager struct {
	cameraSystem    *CameraSystem
	geometrySystem  *GeometrySystem
	jobSystem       *JobSystem
	materialSystem  *MaterialSystem
	textureSystem   *TextureSystem
	resourceSystem  *ResourceSystem
	fontSystem      *FontSystem
	animationSystem *AnimationSystem
}

func NewSystemManager(am *assets.AssetManager, config SystemManagerConfig) (*SystemManager, error) {
	workers := config.Workers
	if workers == 0 {
		workers = min(runtime.NumCPU(), 4)
	}
	js, err := NewJobSystem(workers, config.QueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 16,
	})
	if err != nil {
		return nil, err
	}
	rs, err := NewResourceSystem(am, js, config.DebugLogging)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(rs)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		cameraSystem:    cs,
		jobSystem:       js,
		resourceSystem:  rs,
		textureSystem:   ts,
		materialSystem:  NewMaterialSystem(ts),
		geometrySystem:  NewGeometrySystem(),
		fontSystem:      NewFontSystem(rs),
		animationSystem: NewAnimationSystem(),
	}, nil
}

/**
 * @brief Delivers job completions and picks up changed assets. Should
 * happen once an update cycle, on the main thread.
 */
func (sm *SystemManager) Update() {
	sm.textureSystem.Update()
	sm.jobSystem.Update()
}

func (sm *SystemManager) Cameras() *CameraSystem { return sm.cameraSystem }
func (sm *SystemManager) Geometries() *GeometrySystem { return sm.geometrySystem }
func (sm *SystemManager) Jobs() *JobSystem { return sm.jobSystem }
func (sm *SystemManager) Materials() *MaterialSystem { return sm.materialSystem }
func (sm *SystemManager) Textures() *TextureSystem { return sm.textureSystem }
func (sm *SystemManager) Resources() *ResourceSystem { return sm.resourceSystem }
func (sm *SystemManager) Fonts() *FontSystem { return sm.fontSystem }
func (sm *SystemManager) Animations() *AnimationSystem { return sm.animationSystem }

func (sm *SystemManager) Shutdown() error {
	if err := sm.animationSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.materialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.fontSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.textureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.resourceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
