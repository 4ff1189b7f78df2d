package config

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/Carmen-Shannon/rove-go/engine/collision"
	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"
)

// Default values applied to fields left unset in the config file.
const (
	DefaultWindowTitle  = "rove"
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720

	DefaultTickRate  = 60
	DefaultFrameRate = 60

	DefaultFovDegrees float32 = 60.0
	DefaultNear       float32 = 0.1
	DefaultFar        float32 = 500.0
	DefaultSpeed      float32 = 5.0
)

// Config holds all engine configuration values
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Engine    EngineConfig    `yaml:"engine"`
	Camera    CameraConfig    `yaml:"camera"`
	Collision CollisionConfig `yaml:"collision"`
	Scene     SceneConfig     `yaml:"scene"`
}

type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Resizable     bool   `yaml:"resizable"`
	CaptureCursor bool   `yaml:"capture_cursor"`
}

type EngineConfig struct {
	TickRate       int  `yaml:"tick_rate"`
	FrameRate      int  `yaml:"frame_rate"`
	EnableProfiler bool `yaml:"enable_profiler"`
}

type CameraConfig struct {
	FovDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Speed      float32 `yaml:"speed"`
}

type CollisionConfig struct {
	Enabled          bool    `yaml:"enabled"`
	ProbeRadius      float32 `yaml:"probe_radius"`
	DensityThreshold float32 `yaml:"density_threshold"`
	BuildWorkers     int     `yaml:"build_workers"` // 0 selects a worker count from the CPU count
}

type SceneConfig struct {
	CloudPath      string `yaml:"cloud_path"`
	CullWorkers    int    `yaml:"cull_workers"` // 0 selects a worker count from the CPU count
	DisableCulling bool   `yaml:"disable_culling"`
}

var GlobalConfig *Config

// LoadConfig loads the configuration from a yaml file, fills unset fields with
// defaults, and validates the result.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config for easy access
	GlobalConfig = &config

	return &config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	return config
}

// DefaultConfig returns a configuration with every field at its default value.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// applyDefaults fills zero-valued fields with their defaults. Booleans keep
// their zero value; false is meaningful for them.
func (c *Config) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, DefaultWindowTitle)
	c.Window.Width = common.Coalesce(c.Window.Width, DefaultWindowWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, DefaultWindowHeight)

	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, DefaultTickRate)
	c.Engine.FrameRate = common.Coalesce(c.Engine.FrameRate, DefaultFrameRate)

	c.Camera.FovDegrees = common.Coalesce(c.Camera.FovDegrees, DefaultFovDegrees)
	c.Camera.Near = common.Coalesce(c.Camera.Near, DefaultNear)
	c.Camera.Far = common.Coalesce(c.Camera.Far, DefaultFar)
	c.Camera.Speed = common.Coalesce(c.Camera.Speed, DefaultSpeed)

	c.Collision.ProbeRadius = common.Coalesce(c.Collision.ProbeRadius, collision.DefaultProbeRadius)
	c.Collision.DensityThreshold = common.Coalesce(c.Collision.DensityThreshold, collision.DefaultDensityThreshold)
}

// Validate reports the first configuration value that is out of range.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window dimensions must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("config: engine tick_rate must be positive, got %d", c.Engine.TickRate)
	}
	if c.Engine.FrameRate <= 0 {
		return fmt.Errorf("config: engine frame_rate must be positive, got %d", c.Engine.FrameRate)
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return fmt.Errorf("config: camera fov_degrees must be in (0, 180), got %v", c.Camera.FovDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("config: camera planes must satisfy 0 < near < far, got near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Speed < 0 {
		return fmt.Errorf("config: camera speed must be non-negative, got %v", c.Camera.Speed)
	}
	if c.Collision.ProbeRadius <= 0 {
		return fmt.Errorf("config: collision probe_radius must be positive, got %v", c.Collision.ProbeRadius)
	}
	if c.Collision.DensityThreshold <= 0 {
		return fmt.Errorf("config: collision density_threshold must be positive, got %v", c.Collision.DensityThreshold)
	}
	if c.Collision.BuildWorkers < 0 {
		return fmt.Errorf("config: collision build_workers must be non-negative, got %d", c.Collision.BuildWorkers)
	}
	if c.Scene.CullWorkers < 0 {
		return fmt.Errorf("config: scene cull_workers must be non-negative, got %d", c.Scene.CullWorkers)
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) FovRadians() float32 {
	return c.Camera.FovDegrees * math32.Pi / 180.0
}

func (c *Config) ViewportWidth() float32 {
	return float32(c.Window.Width)
}

func (c *Config) ViewportHeight() float32 {
	return float32(c.Window.Height)
}
