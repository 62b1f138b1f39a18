package scene

import (
	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/material"
)

// NewGlassScene places a row of specular and glossy spheres on a rough
// ground, lit by a sky and a low sun
func NewGlassScene(config Config) (*Scene, error) {
	camera := newCamera(config, core.NewVec3(0, 2.5, -9), core.NewVec3(0, 0.8, 0), 35)

	white := material.NewConstantTexture(core.White)
	glass := material.NewGlass(1.5, white, white)
	gold := material.NewMetal(core.NewVec3(0.143, 0.374, 1.442), core.NewVec3(3.983, 2.385, 1.603))
	mirror := material.NewMirror(material.NewConstantTexture(core.NewVec3(0.9, 0.9, 0.9)))
	plastic := material.NewPlastic(material.NewConstantTexture(core.NewVec3(0.1, 0.25, 0.6)), white)
	ground := material.NewMatte(material.NewCheckerboardTexture(
		core.NewVec3(0.8, 0.8, 0.8),
		core.NewVec3(0.3, 0.3, 0.3),
		8,
	), 20)

	primitives := []*Primitive{
		NewPrimitive(geometry.NewSphereAt(core.NewVec3(-3, 1, 0), 1), gold),
		NewPrimitive(geometry.NewSphereAt(core.NewVec3(-1, 1, 0), 1), glass),
		NewPrimitive(geometry.NewSphereAt(core.NewVec3(1, 1, 0), 1), mirror),
		NewPrimitive(geometry.NewSphereAt(core.NewVec3(3, 1, 0), 1), plastic),
		NewPrimitive(groundDisk(core.NewVec3(0, 0, 0), 30), ground),
	}
	sceneLights := []*lights.Light{
		lights.NewInfiniteLight(core.NewVec3(0.4, 0.5, 0.7)),
		lights.NewDistantLight(core.NewVec3(-1, 2, -1), core.NewVec3(2.5, 2.3, 2)),
	}

	return New(camera, primitives, sceneLights, config)
}
