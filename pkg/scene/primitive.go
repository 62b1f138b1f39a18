package scene

import (
	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/material"
)

// Primitive is a shape that is either shaded by a material or is the surface
// of an area light, never both
type Primitive struct {
	Shape    *geometry.Shape
	Material *material.Material
	Light    *lights.Light
}

// NewPrimitive creates a shaded primitive
func NewPrimitive(shape *geometry.Shape, mat *material.Material) *Primitive {
	return &Primitive{Shape: shape, Material: mat}
}

// NewEmissivePrimitive creates the primitive for an area light's surface
func NewEmissivePrimitive(light *lights.Light) *Primitive {
	return &Primitive{Shape: light.Shape, Light: light}
}

// NewPrimitives pairs every shape with the same material
func NewPrimitives(shapes []*geometry.Shape, mat *material.Material) []*Primitive {
	primitives := make([]*Primitive, len(shapes))
	for i, shape := range shapes {
		primitives[i] = NewPrimitive(shape, mat)
	}
	return primitives
}

// Bounds returns the world-space bounds of the shape
func (p *Primitive) Bounds() core.AABB {
	return p.Shape.Bounds()
}

// Intersect finds the hit of ray with the primitive, shrinking the ray's max distance
func (p *Primitive) Intersect(ray *core.Ray) (Intersection, bool) {
	hit, ok := p.Shape.Intersect(ray)
	if !ok {
		return Intersection{}, false
	}
	return Intersection{ShapeIntersection: hit, Primitive: p}, true
}

// Intersects reports whether ray hits the primitive
func (p *Primitive) Intersects(ray core.Ray) bool {
	return p.Shape.Intersects(ray)
}

// Intersection is the nearest surface found along a ray
type Intersection struct {
	geometry.ShapeIntersection
	Primitive *Primitive
}

// Material returns the surface material, or nil for light surfaces
func (i *Intersection) Material() *material.Material {
	return i.Primitive.Material
}

// AreaLight returns the light whose surface was hit, or nil
func (i *Intersection) AreaLight() *lights.Light {
	return i.Primitive.Light
}

// Le is the radiance emitted by the surface towards wo
func (i *Intersection) Le(wo core.Vec3) core.Vec3 {
	if i.Primitive.Light == nil {
		return core.Black
	}
	return i.Primitive.Light.L(wo)
}
