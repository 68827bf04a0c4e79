// Package config loads terrain settings and the SDF scene from YAML.
package config

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/memmaker/sdfterrain/engine/voxel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Threads is the number of terrain workers. Zero picks 75% of the CPUs, at least one.
	// A negative value generates every chunk inline on the update goroutine.
	Threads         int      `yaml:"threads"`
	Render          bool     `yaml:"render"`
	ViewRadius      float32  `yaml:"view_radius"`
	MaxLoadedChunks int      `yaml:"max_loaded_chunks"`
	MaxActiveChunks int      `yaml:"max_active_chunks"`
	MaxFrames       int      `yaml:"max_frames"`
	LogLevel        string   `yaml:"log_level"`
	LogCategories   []string `yaml:"log_categories"`

	Camera Camera        `yaml:"camera"`
	Window Window        `yaml:"window"`
	Scene  []ShapeConfig `yaml:"scene"`

	// dir resolves relative heightmap paths
	dir string
}

type Camera struct {
	Position    [3]float32 `yaml:"position"`
	Focus       [3]float32 `yaml:"focus"`
	OrbitSpeed  float32    `yaml:"orbit_speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	InvertY     bool       `yaml:"invert_y"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func Default() Config {
	return Config{
		Threads:         0,
		Render:          true,
		ViewRadius:      256,
		MaxLoadedChunks: voxel.DEFAULT_MAX_LOADED_CHUNKS,
		MaxActiveChunks: voxel.DEFAULT_MAX_ACTIVE_CHUNKS,
		MaxFrames:       10000,
		LogLevel:        "info",
		LogCategories:   []string{"system", "io"},
		Camera: Camera{
			Position:    [3]float32{150, 150, 60},
			Focus:       [3]float32{100, 100, 20},
			OrbitSpeed:  0.1,
			Sensitivity: 0.1,
		},
		Window: Window{
			Title:  "sdf terrain",
			Width:  1280,
			Height: 720,
		},
		Scene: []ShapeConfig{
			{Type: ShapeBox, Position: [3]float32{100, 100, 8}, Size: [3]float32{160, 160, 16}},
			{Type: ShapeSphere, Position: [3]float32{100, 100, 16}, Radius: 24, Op: "smooth_union", Smoothing: 6, Material: 1},
			{Type: ShapeArch, Position: [3]float32{60, 120, 24}, Size: [3]float32{32, 12, 24}, Radius: 8, Material: 2},
			{Type: ShapeCylinder, Position: [3]float32{140, 70, 16}, Radius: 10, Height: 20, Op: "subtraction"},
		},
	}
}

// Load reads a YAML file over the defaults. A scene in the file replaces the
// default scene as a whole.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if len(raw) > 0 {
		cfg.Scene = nil
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
		if cfg.Scene == nil {
			cfg.Scene = Default().Scene
		}
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ViewRadius <= 0 {
		return errors.Errorf("view_radius must be positive, got %v", c.ViewRadius)
	}
	if c.MaxLoadedChunks <= 0 {
		return errors.Errorf("max_loaded_chunks must be positive, got %d", c.MaxLoadedChunks)
	}
	if c.MaxActiveChunks <= 0 {
		return errors.Errorf("max_active_chunks must be positive, got %d", c.MaxActiveChunks)
	}
	if c.MaxFrames <= 0 {
		return errors.Errorf("max_frames must be positive, got %d", c.MaxFrames)
	}
	if _, err := util.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := util.ParseLogCategories(c.LogCategories); err != nil {
		return err
	}
	for i, shape := range c.Scene {
		if err := shape.Validate(); err != nil {
			return errors.Wrapf(err, "scene[%d]", i)
		}
	}
	return nil
}

// WorkerCount resolves Threads.
func (c Config) WorkerCount() int {
	switch {
	case c.Threads < 0:
		return 0
	case c.Threads == 0:
		return max(1, int(float32(runtime.NumCPU())*0.75))
	}
	return c.Threads
}

func (c Config) TerrainOptions() voxel.Options {
	return voxel.Options{
		MaxLoadedChunks: c.MaxLoadedChunks,
		MaxActiveChunks: c.MaxActiveChunks,
	}
}

// NewLogger builds the category filtered logger the config asks for.
func (c Config) NewLogger(w io.Writer) (*util.Logger, error) {
	level, err := util.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	categories, err := util.ParseLogCategories(c.LogCategories)
	if err != nil {
		return nil, err
	}
	return util.NewLogger(w, level, categories), nil
}

func (c Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}
