package scene

import (
	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/material"
)

// NewSimpleScene creates a white diffuse sphere resting on a checkerboard
// disk, lit by a single point light above it
func NewSimpleScene(config Config) (*Scene, error) {
	camera := newCamera(config, core.NewVec3(0, 1.5, -6), core.NewVec3(0, 0.5, 0), 40)

	white := material.NewMatte(material.NewConstantTexture(core.NewVec3(0.8, 0.8, 0.8)), 0)
	checker := material.NewMatte(material.NewCheckerboardTexture(
		core.NewVec3(0.7, 0.7, 0.7),
		core.NewVec3(0.2, 0.3, 0.4),
		4,
	), 0)

	primitives := []*Primitive{
		NewPrimitive(geometry.NewSphereAt(core.NewVec3(0, 1, 0), 1), white),
		NewPrimitive(groundDisk(core.NewVec3(0, 0, 0), 6), checker),
	}
	sceneLights := []*lights.Light{
		lights.NewPointLight(core.NewVec3(0, 6, 0), core.NewVec3(60, 60, 60)),
	}

	return New(camera, primitives, sceneLights, config)
}
