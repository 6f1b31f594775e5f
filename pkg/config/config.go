package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Layer type tags
const (
	LayerNoise          = "noise"
	LayerRadialGradient = "radial_gradient"
	LayerFalloff        = "falloff"
)

// Config represents the main configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Terrain TerrainConfig `yaml:"terrain"`
	Layers  []LayerConfig `yaml:"layers"`
	Erosion ErosionConfig `yaml:"erosion"`
	Mesh    MeshConfig    `yaml:"mesh"`
	World   WorldConfig   `yaml:"world"`
	Viewer  ViewerConfig  `yaml:"viewer"`
}

// LoggingConfig selects log level and an optional log file
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty: console only
}

// TerrainConfig holds world-wide generation settings
type TerrainConfig struct {
	Seed int64 `yaml:"seed"` // added to every layer and erosion seed
}

// LayerConfig describes one procedural layer of the stack
type LayerConfig struct {
	Type     string         `yaml:"type"`      // noise, radial_gradient, falloff
	DrawMode string         `yaml:"draw_mode"` // mix, add, subtract, multiply, overwrite
	Strength float64        `yaml:"strength"`  // 0-2
	Noise    NoiseConfig    `yaml:"noise,omitempty"`
	Gradient GradientConfig `yaml:"gradient,omitempty"`
	Falloff  FalloffConfig  `yaml:"falloff,omitempty"`
}

// NoiseConfig contains fractal noise parameters
type NoiseConfig struct {
	Scale       float64 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Seed        int64   `yaml:"seed"`
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`
	Basis       string  `yaml:"basis"` // value, perlin, simplex
}

// CurveKey is one keyframe of a response curve
type CurveKey struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
}

// GradientConfig contains radial gradient parameters
type GradientConfig struct {
	OffsetX float64    `yaml:"offset_x"`
	OffsetY float64    `yaml:"offset_y"`
	Radius  float64    `yaml:"radius"`
	Curve   []CurveKey `yaml:"curve"`
	Smooth  bool       `yaml:"smooth"` // smoothstep between keys instead of linear
}

// FalloffConfig contains edge falloff parameters
type FalloffConfig struct {
	Steepness float64 `yaml:"steepness"`
	Tightness float64 `yaml:"tightness"`
}

// ErosionConfig contains droplet erosion parameters
type ErosionConfig struct {
	Seed         int64   `yaml:"seed"`
	Passes       int     `yaml:"passes"`
	Iterations   int     `yaml:"iterations"` // droplets per pass
	MaxLifetime  int     `yaml:"max_lifetime"`
	Inertia      float64 `yaml:"inertia"`
	Capacity     float64 `yaml:"capacity"`
	MinSlope     float64 `yaml:"min_slope"`
	Deposition   float64 `yaml:"deposition"`
	ErosionRate  float64 `yaml:"erosion_rate"`
	Gravity      float64 `yaml:"gravity"`
	InitialWater float64 `yaml:"initial_water"`
	Evaporation  float64 `yaml:"evaporation"`
	Radius       int     `yaml:"radius"`
}

// MeshConfig contains tessellation parameters
type MeshConfig struct {
	VertexSpacing float64 `yaml:"vertex_spacing"`
	Floor         float64 `yaml:"floor"`
	Ceiling       float64 `yaml:"ceiling"`
	BorderWidth   int     `yaml:"border_width"`
}

// WorldConfig contains chunk grid parameters
type WorldConfig struct {
	Size       int `yaml:"size"`        // chunks per axis
	ChunkCells int `yaml:"chunk_cells"` // quads per chunk side
	NearLOD    int `yaml:"near_lod"`
	FarLOD     int `yaml:"far_lod"`
}

// ViewerConfig contains viewer window configuration
type ViewerConfig struct {
	Width                int     `yaml:"width"`
	Height               int     `yaml:"height"`
	Title                string  `yaml:"title"`
	VSync                bool    `yaml:"vsync"`
	FrameRate            int     `yaml:"framerate"`
	MoveSpeed            float64 `yaml:"move_speed"`
	ErosionTicksPerFrame int     `yaml:"erosion_ticks_per_frame"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Terrain: TerrainConfig{
			Seed: 0,
		},
		Layers: []LayerConfig{
			{
				Type:     LayerNoise,
				DrawMode: "add",
				Strength: 1,
				Noise: NoiseConfig{
					Scale:       80,
					Octaves:     5,
					Persistence: 0.5,
					Lacunarity:  2,
					Seed:        42,
					Basis:       "value",
				},
			},
			{
				Type:     LayerFalloff,
				DrawMode: "subtract",
				Strength: 1,
				Falloff: FalloffConfig{
					Steepness: 3,
					Tightness: 2.2,
				},
			},
		},
		Erosion: ErosionConfig{
			Seed:         1,
			Passes:       10,
			Iterations:   5000,
			MaxLifetime:  30,
			Inertia:      0.05,
			Capacity:     4,
			MinSlope:     0.01,
			Deposition:   0.3,
			ErosionRate:  0.3,
			Gravity:      4,
			InitialWater: 1,
			Evaporation:  0.01,
			Radius:       3,
		},
		Mesh: MeshConfig{
			VertexSpacing: 1,
			Floor:         0,
			Ceiling:       40,
			BorderWidth:   1,
		},
		World: WorldConfig{
			Size:       3,
			ChunkCells: 240,
			NearLOD:    0,
			FarLOD:     3,
		},
		Viewer: ViewerConfig{
			Width:                1280,
			Height:               720,
			Title:                "landscape",
			VSync:                true,
			FrameRate:            60,
			MoveSpeed:            60,
			ErosionTicksPerFrame: 1,
		},
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	// Create default config
	config := DefaultConfig()

	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	// Layers in the file replace the default stack rather than merging into it
	config.Layers = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}
	if config.Layers == nil {
		config.Layers = DefaultConfig().Layers
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	// Convert to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	// Write file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate reports every invalid field, joined into one error
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for i, layer := range c.Layers {
		switch layer.Type {
		case LayerNoise:
			if layer.Noise.Scale <= 0 {
				add("layers[%d]: noise scale must be positive, got %v", i, layer.Noise.Scale)
			}
			if layer.Noise.Octaves < 1 {
				add("layers[%d]: noise octaves must be at least 1, got %d", i, layer.Noise.Octaves)
			}
			if layer.Noise.Lacunarity < 1 {
				add("layers[%d]: noise lacunarity must be at least 1, got %v", i, layer.Noise.Lacunarity)
			}
			if layer.Noise.Persistence < 0 || layer.Noise.Persistence > 1 {
				add("layers[%d]: noise persistence must be in [0,1], got %v", i, layer.Noise.Persistence)
			}
			switch layer.Noise.Basis {
			case "", "value", "perlin", "simplex":
			default:
				add("layers[%d]: unknown noise basis %q", i, layer.Noise.Basis)
			}
		case LayerRadialGradient:
			if layer.Gradient.Radius <= 0 {
				add("layers[%d]: gradient radius must be positive, got %v", i, layer.Gradient.Radius)
			}
		case LayerFalloff:
			if layer.Falloff.Steepness <= 0 {
				add("layers[%d]: falloff steepness must be positive, got %v", i, layer.Falloff.Steepness)
			}
		default:
			add("layers[%d]: unknown layer type %q", i, layer.Type)
		}

		switch layer.DrawMode {
		case "mix", "add", "subtract", "multiply", "overwrite":
		default:
			add("layers[%d]: unknown draw mode %q", i, layer.DrawMode)
		}
		if layer.Strength < 0 || layer.Strength > 2 {
			add("layers[%d]: strength must be in [0,2], got %v", i, layer.Strength)
		}
	}

	e := c.Erosion
	if e.Passes < 0 || e.Iterations < 0 || e.MaxLifetime < 0 {
		add("erosion: passes, iterations and max_lifetime must not be negative")
	}
	if e.Inertia < 0 || e.Inertia > 1 {
		add("erosion: inertia must be in [0,1], got %v", e.Inertia)
	}
	if e.Evaporation < 0 || e.Evaporation > 1 {
		add("erosion: evaporation must be in [0,1], got %v", e.Evaporation)
	}
	if e.Radius < 1 {
		add("erosion: radius must be at least 1, got %d", e.Radius)
	}

	if c.Mesh.VertexSpacing <= 0 {
		add("mesh: vertex_spacing must be positive, got %v", c.Mesh.VertexSpacing)
	}
	if c.Mesh.Ceiling < c.Mesh.Floor {
		add("mesh: ceiling %v is below floor %v", c.Mesh.Ceiling, c.Mesh.Floor)
	}
	if c.Mesh.BorderWidth < 1 {
		add("mesh: border_width must be at least 1, got %d", c.Mesh.BorderWidth)
	}

	if c.World.Size < 1 {
		add("world: size must be at least 1, got %d", c.World.Size)
	}
	if c.World.ChunkCells < 1 {
		add("world: chunk_cells must be at least 1, got %d", c.World.ChunkCells)
	} else {
		for _, lod := range []int{c.World.NearLOD, c.World.FarLOD} {
			if lod < 0 || c.World.ChunkCells%(lod+1) != 0 {
				add("world: lod %d does not divide chunk_cells %d", lod, c.World.ChunkCells)
			}
		}
	}

	return errors.Join(errs...)
}
