package material

import (
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// TextureKind identifies how a Texture varies over the surface
type TextureKind int

const (
	TextureConstant TextureKind = iota
	TextureCheckerboard
)

// Texture provides spatially-varying colors for materials, indexed by UV
type Texture struct {
	Kind  TextureKind
	A, B  core.Vec3 // A is the constant color; B the second checkerboard color
	Scale float64   // Checks per unit of UV
}

// NewConstantTexture creates a texture with a single color
func NewConstantTexture(color core.Vec3) Texture {
	return Texture{Kind: TextureConstant, A: color}
}

// NewCheckerboardTexture alternates between a and b every 1/(2*scale) in u and v
func NewCheckerboardTexture(a, b core.Vec3, scale float64) Texture {
	return Texture{Kind: TextureCheckerboard, A: a, B: b, Scale: scale}
}

// Evaluate returns the color at uv
func (t Texture) Evaluate(uv core.Vec2) core.Vec3 {
	switch t.Kind {
	case TextureCheckerboard:
		u := int(math.Floor(uv.X * t.Scale * 2))
		v := int(math.Floor(uv.Y * t.Scale * 2))
		if (u&1)^(v&1) == 0 {
			return t.A
		}
		return t.B
	default:
		return t.A
	}
}
