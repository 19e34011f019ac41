package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration, read from TOML.
type Config struct {
	Application Application `toml:"application"`
	Assets      Assets      `toml:"assets"`
	Text        Text        `toml:"text"`
	Camera      Camera      `toml:"camera"`
	Controls    Controls    `toml:"controls"`
	Renderer    Renderer    `toml:"renderer"`
	Playback    Playback    `toml:"playback"`
	Remote      Remote      `toml:"remote"`
}

type Application struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position.
	PosX uint32 `toml:"pos_x"`
	PosY uint32 `toml:"pos_y"`
	// Window starting size in screen coordinates.
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	// Render without a window using the offscreen backend.
	Headless bool `toml:"headless"`
	// Number of frames to render in headless mode. Zero runs until interrupted.
	Frames uint64 `toml:"frames"`
	// Directory receiving PNG snapshots in headless mode. Empty disables them.
	SnapshotDir string `toml:"snapshot_dir"`
	// Write every Nth frame when SnapshotDir is set.
	SnapshotEvery uint64 `toml:"snapshot_every"`
	// Device pixel ratio used in headless mode, where no monitor reports one.
	DevicePixelRatio float32 `toml:"device_pixel_ratio"`
}

type Assets struct {
	// Root directory every other asset path is relative to.
	Dir    string `toml:"dir"`
	Matcap string `toml:"matcap"`
	Font   string `toml:"font"`
	// Optional YAML choreography replacing the built-in one.
	Choreography string `toml:"choreography"`
	// Reload textures when they change on disk.
	Watch bool `toml:"watch"`
	// Optional AngelCode .fnt used for the button labels.
	HUDFont string `toml:"hud_font"`
}

type Text struct {
	Content        string  `toml:"content"`
	Size           float32 `toml:"size"`
	Depth          float32 `toml:"depth"`
	CurveSegments  int     `toml:"curve_segments"`
	BevelEnabled   bool    `toml:"bevel_enabled"`
	BevelThickness float32 `toml:"bevel_thickness"`
	BevelSize      float32 `toml:"bevel_size"`
	BevelOffset    float32 `toml:"bevel_offset"`
	BevelSegments  int     `toml:"bevel_segments"`
}

type Camera struct {
	// Vertical field of view in degrees.
	Fov      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Position [3]float32 `toml:"position"`
}

type Controls struct {
	EnableDamping  bool    `toml:"enable_damping"`
	DampingFactor  float32 `toml:"damping_factor"`
	RotateSpeed    float32 `toml:"rotate_speed"`
	ZoomSpeed      float32 `toml:"zoom_speed"`
	PanSpeed       float32 `toml:"pan_speed"`
	MinDistance    float32 `toml:"min_distance"`
	MaxDistance    float32 `toml:"max_distance"`
	EnablePan      bool    `toml:"enable_pan"`
	EnableZoom     bool    `toml:"enable_zoom"`
	EnableRotate   bool    `toml:"enable_rotate"`
	ScreenSpacePan bool    `toml:"screen_space_panning"`
}

type Renderer struct {
	MaxPixelRatio float32    `toml:"max_pixel_ratio"`
	ClearColor    [4]float32 `toml:"clear_color"`
}

type Playback struct {
	// Show the button bar and bind the playback keys.
	Enabled bool `toml:"enabled"`
	// Log asset progress and timeline state changes.
	DebugLogging bool `toml:"debug_logging"`
}

type Remote struct {
	// Address for the HTTP control surface, e.g. "127.0.0.1:8088". Empty disables it.
	Listen string `toml:"listen"`
}

// Default returns the configuration of the stock scene.
func Default() *Config {
	return &Config{
		Application: Application{
			Name:             "Quad N",
			PosX:             100,
			PosY:             100,
			Width:            1280,
			Height:           720,
			LogLevel:         "info",
			SnapshotEvery:    60,
			DevicePixelRatio: 1,
		},
		Assets: Assets{
			Dir:    "assets",
			Matcap: "textures/matcaps/navosMatcap.png",
			Font:   "fonts/helvetiker_regular.typeface.json",
			Watch:  true,
		},
		Text: Text{
			Content:        "N",
			Size:           0.5,
			Depth:          0.05,
			CurveSegments:  12,
			BevelEnabled:   true,
			BevelThickness: 0.03,
			BevelSize:      0.02,
			BevelOffset:    0,
			BevelSegments:  5,
		},
		Camera: Camera{
			Fov:      75,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{1, 1, 2},
		},
		Controls: Controls{
			EnableDamping:  true,
			DampingFactor:  0.05,
			RotateSpeed:    1,
			ZoomSpeed:      1,
			PanSpeed:       1,
			MinDistance:    0,
			MaxDistance:    1e30,
			EnablePan:      true,
			EnableZoom:     true,
			EnableRotate:   true,
			ScreenSpacePan: true,
		},
		Renderer: Renderer{
			MaxPixelRatio: 2,
			ClearColor:    [4]float32{0, 0, 0, 1},
		},
		Playback: Playback{
			Enabled:      true,
			DebugLogging: true,
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys that do not map to a
// field are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config `%s`: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", sme.String())
		}
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Application.Width == 0 || c.Application.Height == 0 {
		errs = append(errs, fmt.Errorf("application size must be positive, got %dx%d", c.Application.Width, c.Application.Height))
	}
	if c.Application.DevicePixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("device_pixel_ratio must be positive, got %f", c.Application.DevicePixelRatio))
	}
	if c.Application.SnapshotDir != "" && c.Application.SnapshotEvery == 0 {
		errs = append(errs, errors.New("snapshot_every must be positive when snapshot_dir is set"))
	}
	if c.Assets.Matcap == "" || c.Assets.Font == "" {
		errs = append(errs, errors.New("assets.matcap and assets.font are required"))
	}
	if c.Text.Content == "" {
		errs = append(errs, errors.New("text.content must not be empty"))
	}
	if c.Text.Size <= 0 || c.Text.Depth < 0 {
		errs = append(errs, fmt.Errorf("text size must be positive and depth non negative, got %f/%f", c.Text.Size, c.Text.Depth))
	}
	if c.Text.CurveSegments < 1 || c.Text.BevelSegments < 1 {
		errs = append(errs, errors.New("text curve_segments and bevel_segments must be at least 1"))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180), got %f", c.Camera.Fov))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes must satisfy 0 < near < far, got %f/%f", c.Camera.Near, c.Camera.Far))
	}
	if c.Controls.DampingFactor <= 0 || c.Controls.DampingFactor > 1 {
		errs = append(errs, fmt.Errorf("controls damping_factor must be in (0, 1], got %f", c.Controls.DampingFactor))
	}
	if c.Controls.MinDistance < 0 || c.Controls.MaxDistance < c.Controls.MinDistance {
		errs = append(errs, errors.New("controls distances must satisfy 0 <= min <= max"))
	}
	if c.Renderer.MaxPixelRatio < 1 {
		errs = append(errs, fmt.Errorf("renderer max_pixel_ratio must be at least 1, got %f", c.Renderer.MaxPixelRatio))
	}
	return errors.Join(errs...)
}
