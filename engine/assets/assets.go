package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/quadn/engine/assets/loaders"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

// The number of change notifications buffered before new ones are dropped.
const changeBufferSize = 64

type AssetInfo struct {
	// Name relative to the asset directory, with forward slashes.
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
	// Set once the asset went through a loader; only those report changes.
	Loaded bool
}

/**
 * @brief Indexes an asset directory and loads files through the loader
 * registered for their type. When watching, writes to loaded assets are
 * reported on Changes.
 */
type AssetManager struct {
	dir     string
	assets  map[string]*AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
}

func NewAssetManager() (*AssetManager, error) {
	return &AssetManager{
		assets:  make(map[string]*AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		changes: make(chan string, changeBufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	dir, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	if s, err := os.Stat(dir); err != nil {
		return fmt.Errorf("asset directory %q: %w", assetsDir, err)
	} else if !s.IsDir() {
		return fmt.Errorf("asset directory %q is not a directory", assetsDir)
	}
	am.dir = dir

	// Register loaders
	am.RegisterLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(metadata.ResourceTypeTypefaceFont, &loaders.TypefaceLoader{})
	am.RegisterLoader(metadata.ResourceTypeTrueTypeFont, &loaders.TrueTypeLoader{})
	am.RegisterLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	am.RegisterLoader(metadata.ResourceTypeChoreography, &loaders.ChoreographyLoader{})

	if !watch {
		return am.watchRecursive(dir, false)
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch
	if err := am.watchRecursive(dir, false); err != nil {
		fsWatch.Close()
		return err
	}
	go am.start()

	core.LogInfo("Watching asset directory '%s'.", dir)
	return nil
}

func (am *AssetManager) Dir() string {
	return am.dir
}

// RegisterLoader sets the loader for an asset type, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Load an asset using the loader registered for its file extension.
func (am *AssetManager) Load(name string, params interface{}) (*metadata.Resource, error) {
	return am.LoadAs(name, metadata.ResourceTypeNone, params)
}

/**
 * @brief Loads an asset by name, relative to the asset directory.
 * @param resourceType Overrides the type guessed from the extension unless ResourceTypeNone.
 */
func (am *AssetManager) LoadAs(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	name = cleanName(name)

	am.mutex.Lock()
	asset, exists := am.assets[name]
	if !exists {
		// Files created after indexing are only seen by the watcher.
		path := filepath.Join(am.dir, filepath.FromSlash(name))
		if s, err := os.Stat(path); err == nil && !s.IsDir() {
			asset = &AssetInfo{Name: name, Path: path, Type: determineAssetType(path)}
			am.assets[name] = asset
			exists = true
		}
	}
	if !exists {
		am.mutex.Unlock()
		return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
	}
	if resourceType == metadata.ResourceTypeNone {
		resourceType = asset.Type
	}
	loader, loaderExists := am.loaders[resourceType]
	path := asset.Path
	am.mutex.Unlock()

	if !loaderExists {
		return nil, fmt.Errorf("%w: %s (%s)", core.ErrNoLoader, resourceType, name)
	}

	res, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}
	res.Name = name
	res.Type = resourceType

	am.mutex.Lock()
	asset.Loaded = true
	asset.LastLoaded = time.Now()
	am.mutex.Unlock()
	return res, nil
}

func (am *AssetManager) Unload(res *metadata.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[res.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNoLoader, res.Type)
	}
	return loader.Unload(res)
}

// Assets returns the indexed assets sorted by name.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Changes delivers the names of loaded assets that were written on disk.
// The channel is closed by Shutdown.
func (am *AssetManager) Changes() <-chan string {
	return am.changes
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	if am.fsnotify != nil {
		<-am.stopped
	}
	close(am.changes)
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Op&fsnotify.Create != 0 {
			if err := am.watchRecursive(e.Name, false); err != nil {
				core.LogWarn("could not watch '%s': %s", e.Name, err)
			}
		}
		return
	}
	// Can't stat a deleted file; forget it and stop watching in case it was a directory.
	if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		am.removeAsset(e.Name)
		_ = am.fsnotify.Remove(e.Name)
		return
	}
	if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	name, loaded := am.handleFileEvent(e.Name)
	if !loaded {
		return
	}
	select {
	case am.changes <- name:
	default:
		core.LogWarn("asset change queue full, dropping '%s'", name)
	}
}

// watchRecursive indexes every file under path and, when watching, adds
// every directory to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent indexes a created or modified file and reports whether it
// had been loaded before.
func (am *AssetManager) handleFileEvent(path string) (string, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return "", false
	}
	name, err := am.relative(path)
	if err != nil {
		return "", false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if asset, ok := am.assets[name]; ok {
		return name, asset.Loaded
	}
	am.assets[name] = &AssetInfo{
		Name: name,
		Path: path,
		Type: assetType,
	}
	return name, false
}

// Remove the asset from the index if it was deleted. Loaded assets stay
// indexed so an editor replacing the file still reports a change.
func (am *AssetManager) removeAsset(path string) {
	name, err := am.relative(path)
	if err != nil {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if asset, ok := am.assets[name]; ok && !asset.Loaded {
		delete(am.assets, name)
	}
}

func (am *AssetManager) relative(path string) (string, error) {
	rel, err := filepath.Rel(am.dir, path)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", errors.New("path outside the asset directory")
	}
	return filepath.ToSlash(rel), nil
}

func cleanName(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(name)), "./")
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".webp":
		return metadata.ResourceTypeImage
	case ".json":
		return metadata.ResourceTypeTypefaceFont
	case ".ttf", ".otf":
		return metadata.ResourceTypeTrueTypeFont
	case ".fnt":
		return metadata.ResourceTypeBitmapFont
	case ".yaml", ".yml":
		return metadata.ResourceTypeChoreography
	default:
		return metadata.ResourceTypeNone
	}
}
