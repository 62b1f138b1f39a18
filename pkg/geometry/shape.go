package geometry

import (
	"fmt"
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// ShapeKind identifies the variant stored in a Shape
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindTriangle
	KindDisk
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	case KindDisk:
		return "disk"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ShapeIntersection describes where a ray hit a shape, in world space
type ShapeIntersection struct {
	Distance float64
	Location core.Vec3
	Normal   core.Vec3 // Unit shading normal
	UV       core.Vec2
}

// Shape is a closed set of surfaces: spheres, triangles and disks.
// Spheres and disks live in object space and carry a shared object-to-world
// transform. Shapes are immutable after construction.
type Shape struct {
	Kind ShapeKind

	// Sphere and disk
	transform   *core.Transform
	radius      float64
	innerRadius float64

	// Triangle
	v0, e1, e2      core.Vec3
	n0, n01, n02    core.Vec3
	uv0, uv01, uv02 core.Vec2
	faceNormal      core.Vec3
}

// Intersect finds the hit of ray with the shape. On success the ray's
// MaxDistance shrinks to the hit distance.
func (s *Shape) Intersect(ray *core.Ray) (ShapeIntersection, bool) {
	switch s.Kind {
	case KindSphere:
		return s.intersectSphere(ray)
	case KindTriangle:
		return s.intersectTriangle(ray)
	case KindDisk:
		return s.intersectDisk(ray)
	}
	return ShapeIntersection{}, false
}

// Intersects reports whether ray hits the shape without computing shading data.
// The caller's ray is not modified.
func (s *Shape) Intersects(ray core.Ray) bool {
	switch s.Kind {
	case KindSphere:
		_, ok := s.hitSphere(ray)
		return ok
	case KindTriangle:
		_, _, _, ok := s.hitTriangle(ray)
		return ok
	case KindDisk:
		_, _, ok := s.hitDisk(ray)
		return ok
	}
	return false
}

// Bounds returns the world-space bounding box
func (s *Shape) Bounds() core.AABB {
	switch s.Kind {
	case KindSphere:
		r := s.radius
		return s.transformBounds(core.NewAABB(core.NewVec3(-r, -r, -r), core.NewVec3(r, r, r)))
	case KindTriangle:
		return core.NewAABBFromPoints(s.v0, s.v0.Add(s.e1), s.v0.Add(s.e2))
	case KindDisk:
		r := s.radius
		return s.transformBounds(core.NewAABB(core.NewVec3(-r, -r, 0), core.NewVec3(r, r, 0)))
	}
	return core.AABB{}
}

// Area returns the world-space surface area. Sphere and disk areas assume the
// transform is a similarity (rotation, translation, uniform scale).
func (s *Shape) Area() float64 {
	switch s.Kind {
	case KindSphere:
		r := s.radius * s.scale()
		return 4 * math.Pi * r * r
	case KindTriangle:
		return 0.5 * s.e1.Cross(s.e2).Length()
	case KindDisk:
		k := s.scale()
		return math.Pi * (s.radius*s.radius - s.innerRadius*s.innerRadius) * k * k
	}
	return 0
}

// Sample returns a point distributed uniformly by area on the surface and the
// surface normal there
func (s *Shape) Sample(u core.Vec2) (core.Vec3, core.Vec3) {
	switch s.Kind {
	case KindSphere:
		p := core.SampleUniformSphere(u).Multiply(s.radius)
		return s.transform.Point(p), s.transform.Normal(p)
	case KindTriangle:
		b0, b1 := core.SampleUniformTriangle(u)
		p := s.v0.Add(s.e1.Multiply(b1)).Add(s.e2.Multiply(1 - b0 - b1))
		return p, s.faceNormal
	case KindDisk:
		d := core.SampleConcentricDisk(u)
		r2 := d.X*d.X + d.Y*d.Y
		var p core.Vec3
		if r2 > 0 {
			// Remap the unit disk radius onto the annulus with constant density
			ri2 := s.innerRadius * s.innerRadius
			r := math.Sqrt(ri2 + r2*(s.radius*s.radius-ri2))
			scale := r / math.Sqrt(r2)
			p = core.NewVec3(d.X*scale, d.Y*scale, 0)
		} else {
			p = core.NewVec3(s.innerRadius, 0, 0)
		}
		return s.transform.Point(p), s.transform.Normal(core.NewVec3(0, 0, 1))
	}
	return core.Vec3{}, core.Vec3{}
}

// SampleFrom samples a point on the surface for a reference point and returns
// it with the unit direction toward it and the solid-angle density of that
// direction
func (s *Shape) SampleFrom(ref core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, core.Pdf) {
	point, normal := s.Sample(u)
	wi := point.Subtract(ref)
	d2 := wi.LengthSquared()
	if d2 == 0 {
		return point, core.Vec3{}, core.NonDeltaPdf(0)
	}
	wi = wi.Divide(math.Sqrt(d2))
	return point, wi, s.solidAnglePdf(d2, normal.Dot(wi))
}

// PdfFrom returns the solid-angle density of sampling direction wi from ref
// with SampleFrom. Directions that miss the shape have zero density.
func (s *Shape) PdfFrom(ref, wi core.Vec3) core.Pdf {
	ray := core.NewRay(ref, wi)
	hit, ok := s.Intersect(&ray)
	if !ok {
		return core.NonDeltaPdf(0)
	}
	normal := hit.Normal
	if s.Kind == KindTriangle {
		normal = s.faceNormal
	}
	d2 := hit.Location.Subtract(ref).LengthSquared()
	return s.solidAnglePdf(d2, normal.Dot(wi))
}

func (s *Shape) solidAnglePdf(distanceSquared, cosTheta float64) core.Pdf {
	cosTheta = math.Abs(cosTheta)
	area := s.Area()
	if cosTheta == 0 || area == 0 {
		return core.NonDeltaPdf(0)
	}
	return core.NonDeltaPdf(distanceSquared / (cosTheta * area))
}

func (s *Shape) transformBounds(local core.AABB) core.AABB {
	corners := make([]core.Vec3, 0, 8)
	for i := 0; i < 8; i++ {
		c := local.Min
		if i&1 != 0 {
			c.X = local.Max.X
		}
		if i&2 != 0 {
			c.Y = local.Max.Y
		}
		if i&4 != 0 {
			c.Z = local.Max.Z
		}
		corners = append(corners, s.transform.Point(c))
	}
	return core.NewAABBFromPoints(corners...)
}

// scale returns the length scale of the object-to-world transform
func (s *Shape) scale() float64 {
	return s.transform.Vector(core.NewVec3(1, 0, 0)).Length()
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s%v", s.Kind, s.Bounds())
}
