package geometry

import (
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// NewDisk creates an annulus on the object-space z=0 plane, centered at the
// origin and facing +z. innerRadius may be zero for a full disk.
func NewDisk(objectToWorld *core.Transform, radius, innerRadius float64) *Shape {
	return &Shape{
		Kind:        KindDisk,
		transform:   objectToWorld,
		radius:      radius,
		innerRadius: innerRadius,
	}
}

// hitDisk intersects the supporting plane and rejects points outside
// [innerRadius, radius]. Returns the distance and the object-space hit point.
func (s *Shape) hitDisk(ray core.Ray) (float64, core.Vec3, bool) {
	local := s.transform.Inverse().Ray(ray)

	// Ray is parallel to the plane
	if math.Abs(local.Direction.Z) < core.Epsilon {
		return 0, core.Vec3{}, false
	}

	t := -local.Origin.Z / local.Direction.Z
	if !ray.Accepts(t) {
		return 0, core.Vec3{}, false
	}

	p := local.At(t)
	dist2 := p.X*p.X + p.Y*p.Y
	if dist2 > s.radius*s.radius || dist2 < s.innerRadius*s.innerRadius {
		return 0, core.Vec3{}, false
	}
	p.Z = 0
	return t, p, true
}

func (s *Shape) intersectDisk(ray *core.Ray) (ShapeIntersection, bool) {
	t, p, ok := s.hitDisk(*ray)
	if !ok {
		return ShapeIntersection{}, false
	}
	location, ok := ray.UpdateMaxDistance(t)
	if !ok {
		return ShapeIntersection{}, false
	}

	phi := math.Atan2(p.Y, p.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	dist := math.Sqrt(p.X*p.X + p.Y*p.Y)
	v := 0.0
	if s.radius > s.innerRadius {
		v = (s.radius - dist) / (s.radius - s.innerRadius)
	}

	return ShapeIntersection{
		Distance: t,
		Location: location,
		Normal:   s.transform.Normal(core.NewVec3(0, 0, 1)),
		UV:       core.NewVec2(phi/(2*math.Pi), v),
	}, true
}
