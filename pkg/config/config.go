// Package config loads boardview settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/boardview/config.toml, falling
// back to ~/.config/boardview/config.toml. A missing file at the default
// location means defaults; every key is optional and unset keys keep their
// default value.
//
//	[camera]
//	min_zoom = 0.1
//	max_zoom = 5.0
//	zoom_step = 1.1
//
//	[layout]
//	node_width = 180
//
//	[route]
//	resolution = "ancestry"
//
//	[render]
//	formats = ["svg", "png"]
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[loader]
//	skip = ["docs"]
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/layout"
	"github.com/matzehuels/boardview/pkg/core/route"
	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/interact"
)

// AppName names the config directory.
const AppName = "boardview"

// Config is the complete configuration.
type Config struct {
	Camera CameraConfig  `toml:"camera"`
	Layout layout.Config `toml:"layout"`
	Route  route.Config  `toml:"route"`
	Render RenderConfig  `toml:"render"`
	Server ServerConfig  `toml:"server"`
	Loader LoaderConfig  `toml:"loader"`
}

// CameraConfig holds zoom bounds, the zoom step and the initial viewport.
type CameraConfig struct {
	MinZoom   float64 `toml:"min_zoom" validate:"gt=0"`
	MaxZoom   float64 `toml:"max_zoom" validate:"gtefield=MinZoom"`
	ZoomStep  float64 `toml:"zoom_step" validate:"gt=1"`
	ViewportW float64 `toml:"viewport_width" validate:"gt=0"`
	ViewportH float64 `toml:"viewport_height" validate:"gt=0"`
}

// RenderConfig controls the render command and its artifact cache.
type RenderConfig struct {
	Formats  []string      `toml:"formats" validate:"dive,oneof=svg dot png json"`
	Scale    float64       `toml:"scale" validate:"gt=0,lte=8"`
	Detailed bool          `toml:"detailed"`
	CacheDir string        `toml:"cache_dir"`
	CacheTTL time.Duration `toml:"cache_ttl" validate:"gte=0"`
	// RedisAddr switches the artifact cache to Redis when set.
	RedisAddr string `toml:"redis_addr" validate:"omitempty,hostname_port"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr     string        `toml:"addr" validate:"required"`
	MaxViews int           `toml:"max_views" validate:"gt=0"`
	ViewTTL  time.Duration `toml:"view_ttl" validate:"gte=0"`
}

// LoaderConfig controls directory loading.
type LoaderConfig struct {
	Skip        []string `toml:"skip"`
	NoGitignore bool     `toml:"no_gitignore"`
	MaxDepth    int      `toml:"max_depth" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cam := camera.DefaultConfig()
	return &Config{
		Camera: CameraConfig{
			MinZoom:   cam.MinZoom,
			MaxZoom:   cam.MaxZoom,
			ZoomStep:  interact.DefaultZoomStep,
			ViewportW: cam.ViewportW,
			ViewportH: cam.ViewportH,
		},
		Layout: layout.DefaultConfig(),
		Route:  route.DefaultConfig(),
		Render: RenderConfig{
			Formats:  []string{"svg"},
			Scale:    2,
			CacheTTL: 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			MaxViews: 256,
			ViewTTL:  time.Hour,
		},
	}
}

// Dir returns the boardview config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path over the defaults. An empty path means
// [DefaultPath], where a missing file is not an error. An explicitly named
// file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New()

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+": field is required")
		case "gt", "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must be %s %s", field, e.Tag(), e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// CameraSettings returns the camera bounds and viewport of the camera section.
func (c *Config) CameraSettings() camera.Config {
	return camera.Config{
		MinZoom:   c.Camera.MinZoom,
		MaxZoom:   c.Camera.MaxZoom,
		ViewportW: c.Camera.ViewportW,
		ViewportH: c.Camera.ViewportH,
	}
}

// NewCamera returns a camera built from the camera section.
func (c *Config) NewCamera() (*camera.Camera, error) {
	cam, err := camera.New(c.CameraSettings())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "camera")
	}
	return cam, nil
}

// ControllerOptions returns the layout, routing and zoom settings for an
// interaction controller.
func (c *Config) ControllerOptions() interact.Options {
	return interact.Options{
		Layout:   c.Layout,
		Route:    c.Route,
		ZoomStep: c.Camera.ZoomStep,
	}
}
