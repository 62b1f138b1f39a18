package geometry

import (
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// NewSphere creates a sphere of the given radius centered at the origin of
// the object space defined by objectToWorld
func NewSphere(objectToWorld *core.Transform, radius float64) *Shape {
	return &Shape{
		Kind:      KindSphere,
		transform: objectToWorld,
		radius:    radius,
	}
}

// NewSphereAt creates a sphere with its own translation transform
func NewSphereAt(center core.Vec3, radius float64) *Shape {
	t := core.Translate(center)
	return NewSphere(&t, radius)
}

// hitSphere solves the quadratic in object space. The object-space direction is
// not normalized, so the roots are distances along the world ray.
func (s *Shape) hitSphere(ray core.Ray) (float64, bool) {
	local := s.transform.Inverse().Ray(ray)

	a := local.Direction.LengthSquared()
	halfB := local.Origin.Dot(local.Direction)
	c := local.Origin.LengthSquared() - s.radius*s.radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || math.IsNaN(discriminant) || math.IsInf(discriminant, 0) {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if ray.Accepts(root) {
		return root, true
	}
	root = (-halfB + sqrtD) / a
	if ray.Accepts(root) {
		return root, true
	}
	return 0, false
}

func (s *Shape) intersectSphere(ray *core.Ray) (ShapeIntersection, bool) {
	t, ok := s.hitSphere(*ray)
	if !ok {
		return ShapeIntersection{}, false
	}
	location, ok := ray.UpdateMaxDistance(t)
	if !ok {
		return ShapeIntersection{}, false
	}

	p := s.transform.Inverse().Point(location)
	return ShapeIntersection{
		Distance: t,
		Location: location,
		Normal:   s.transform.Normal(p),
		UV:       sphereUV(p, s.radius),
	}, true
}

// sphereUV maps an object-space point to (phi/2π, theta/π)
func sphereUV(p core.Vec3, radius float64) core.Vec2 {
	phi := math.Atan2(p.Y, p.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	cosTheta := math.Max(-1, math.Min(1, p.Z/radius))
	return core.NewVec2(phi/(2*math.Pi), math.Acos(cosTheta)/math.Pi)
}
