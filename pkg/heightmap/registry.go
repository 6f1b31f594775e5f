package heightmap

import (
	"fmt"

	"landscape/pkg/config"
)

// Kind identifies a layer type
type Kind int

// Layer kinds
const (
	KindNoise Kind = iota
	KindRadialGradient
	KindFalloff
)

type kindInfo struct {
	tag         string
	displayName string
	construct   func() Layer
}

// registry is the closed table of layer constructors with their default parameters
var registry = map[Kind]kindInfo{
	KindNoise: {
		tag:         config.LayerNoise,
		displayName: "Noise",
		construct: func() Layer {
			return &NoiseLayer{
				Blend:       Blend{Mode: Add, Strength: 1},
				Scale:       10,
				Octaves:     4,
				Persistence: 0.5,
				Lacunarity:  2,
			}
		},
	},
	KindRadialGradient: {
		tag:         config.LayerRadialGradient,
		displayName: "Radial Gradient",
		construct: func() Layer {
			return &RadialGradient{
				Blend:  Blend{Mode: Add, Strength: 1},
				Radius: 64,
				Curve:  LinearCurve(),
			}
		},
	},
	KindFalloff: {
		tag:         config.LayerFalloff,
		displayName: "Falloff",
		construct: func() Layer {
			return &Falloff{
				Blend:     Blend{Mode: Subtract, Strength: 1},
				Steepness: 1,
				Tightness: 1,
			}
		},
	},
}

// String returns the config tag of the kind
func (k Kind) String() string {
	if info, ok := registry[k]; ok {
		return info.tag
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DisplayName returns a human readable name for editors
func (k Kind) DisplayName() string {
	if info, ok := registry[k]; ok {
		return info.displayName
	}
	return k.String()
}

// Kinds lists every registered layer kind in a stable order
func Kinds() []Kind {
	return []Kind{KindNoise, KindRadialGradient, KindFalloff}
}

// ParseKind converts a config tag to a Kind
func ParseKind(tag string) (Kind, error) {
	for _, k := range Kinds() {
		if registry[k].tag == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayerType, tag)
}

// NewLayer creates a layer of the given kind with default parameters
func NewLayer(kind Kind) (Layer, error) {
	info, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownLayerType, kind)
	}
	return info.construct(), nil
}

// LayerFromConfig builds a layer from its config entry. seed is added to the
// layer's own noise seed.
func LayerFromConfig(cfg config.LayerConfig, seed int64) (Layer, error) {
	kind, err := ParseKind(cfg.Type)
	if err != nil {
		return nil, err
	}
	mode, err := ParseDrawMode(cfg.DrawMode)
	if err != nil {
		return nil, err
	}
	blend := Blend{Mode: mode, Strength: float32(cfg.Strength)}

	switch kind {
	case KindNoise:
		n := cfg.Noise
		return &NoiseLayer{
			Blend:       blend,
			Scale:       n.Scale,
			Octaves:     n.Octaves,
			Persistence: n.Persistence,
			Lacunarity:  n.Lacunarity,
			Seed:        n.Seed + seed,
			OffsetX:     n.OffsetX,
			OffsetY:     n.OffsetY,
			Basis:       n.Basis,
		}, nil
	case KindRadialGradient:
		g := cfg.Gradient
		curve := LinearCurve()
		if len(g.Curve) > 0 {
			keys := make([]Key, len(g.Curve))
			for i, k := range g.Curve {
				keys[i] = Key{Time: float32(k.Time), Value: float32(k.Value)}
			}
			curve = NewCurve(g.Smooth, keys...)
		}
		return &RadialGradient{
			Blend:   blend,
			OffsetX: g.OffsetX,
			OffsetY: g.OffsetY,
			Radius:  g.Radius,
			Curve:   curve,
		}, nil
	default:
		return &Falloff{
			Blend:     blend,
			Steepness: cfg.Falloff.Steepness,
			Tightness: cfg.Falloff.Tightness,
		}, nil
	}
}
