package scene

import (
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/material"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, then cube
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

const sphereGridSize = 10

// NewSphereGridScene creates a 10x10 grid of spheres alternating between
// matte and metal, with hues sweeping across the grid
func NewSphereGridScene(config Config) (*Scene, error) {
	camera := newCamera(config, core.NewVec3(4.5, 6, -9), core.NewVec3(4.5, 0.8, 4.5), 40)

	ground := material.NewMatte(material.NewConstantTexture(core.NewVec3(0.5, 0.5, 0.5)), 0)
	primitives := []*Primitive{
		NewPrimitive(groundDisk(core.NewVec3(4.5, 0, 4.5), 20), ground),
	}

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			hue := float64(i*sphereGridSize+j) / float64(sphereGridSize*sphereGridSize) * 360
			color := oklchToRGB(0.7, 0.15, hue)

			var mat *material.Material
			if (i+j)%2 == 0 {
				mat = material.NewMatte(material.NewConstantTexture(color), 0)
			} else {
				// A colored conductor: eta near 0.2 reflects strongly, k tints
				mat = material.NewMetal(core.NewVec3(0.2, 0.2, 0.2), color.Multiply(4))
			}

			center := core.NewVec3(float64(i), 0.4, float64(j))
			primitives = append(primitives, NewPrimitive(geometry.NewSphereAt(center, 0.4), mat))
		}
	}

	sceneLights := []*lights.Light{
		lights.NewInfiniteLight(core.NewVec3(0.5, 0.6, 0.8)),
		lights.NewDistantLight(core.NewVec3(1, 3, -2), core.NewVec3(2, 2, 2)),
	}

	return New(camera, primitives, sceneLights, config)
}
