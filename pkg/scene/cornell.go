package scene

import (
	"fmt"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/material"
)

// NewCornellScene creates a classic Cornell box with triangle walls and a
// ceiling area light
func NewCornellScene(config Config) (*Scene, error) {
	camera := newCamera(config, core.NewVec3(278, 278, -800), core.NewVec3(278, 278, 0), 40)

	// Create materials
	white := material.NewMatte(material.NewConstantTexture(core.NewVec3(0.73, 0.73, 0.73)), 0)
	red := material.NewMatte(material.NewConstantTexture(core.NewVec3(0.65, 0.05, 0.05)), 0)
	green := material.NewMatte(material.NewConstantTexture(core.NewVec3(0.12, 0.45, 0.15)), 0)
	glass := material.NewGlass(1.5, material.NewConstantTexture(core.White), material.NewConstantTexture(core.White))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	walls := []struct {
		name         string
		corner, u, v core.Vec3
		mat          *material.Material
	}{
		{"floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), white},
		{"ceiling", core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white},
		{"back", core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), white},
		{"left", core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), red},
		{"right", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), green},
	}

	var primitives []*Primitive
	for _, wall := range walls {
		shapes, ok := geometry.NewQuad(wall.corner, wall.u, wall.v)
		if !ok {
			return nil, fmt.Errorf("degenerate %s wall", wall.name)
		}
		primitives = append(primitives, NewPrimitives(shapes, wall.mat)...)
	}

	// Ceiling light (smaller quad in the center of the ceiling)
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	lightShapes, ok := geometry.NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(lightSize, 0, 0),
	)
	if !ok {
		return nil, fmt.Errorf("degenerate ceiling light")
	}
	lightPrimitives, sceneLights := newAreaLights(lightShapes, core.NewVec3(15, 15, 15))
	primitives = append(primitives, lightPrimitives...)

	// Tall box, rotated about its base
	boxTransform := core.Rotate(15, core.NewVec3(0, 1, 0)).Then(core.Translate(core.NewVec3(265, 0, 295)))
	box, ok := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 330, 165), &boxTransform)
	if !ok {
		return nil, fmt.Errorf("degenerate box")
	}
	primitives = append(primitives, NewPrimitives(box, white)...)

	// Glass sphere in the front
	primitives = append(primitives, NewPrimitive(geometry.NewSphereAt(core.NewVec3(185, 90, 169), 90), glass))

	return New(camera, primitives, sceneLights, config)
}
