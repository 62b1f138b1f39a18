package core

import "math"

// Epsilon is the smallest hit distance a ray accepts. Hits closer than this
// are treated as self-intersections of the surface the ray was spawned from.
const Epsilon = 1e-7

// Ray represents a ray with an origin, a unit direction and a maximum distance.
// MaxDistance only ever shrinks as closer hits are found.
type Ray struct {
	Origin      Vec3
	Direction   Vec3
	MaxDistance float64
}

// NewRay creates a new unbounded ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, MaxDistance: math.Inf(1)}
}

// NewBoundedRay creates a ray that only accepts hits up to maxDistance
func NewBoundedRay(origin, direction Vec3, maxDistance float64) Ray {
	return Ray{Origin: origin, Direction: direction, MaxDistance: maxDistance}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Accepts reports whether distance lies in (Epsilon, MaxDistance)
func (r Ray) Accepts(distance float64) bool {
	return distance > Epsilon && distance < r.MaxDistance
}

// UpdateMaxDistance shrinks MaxDistance to distance if it is an acceptable hit
// and returns the corresponding point.
func (r *Ray) UpdateMaxDistance(distance float64) (Vec3, bool) {
	if !r.Accepts(distance) {
		return Vec3{}, false
	}
	r.MaxDistance = distance
	return r.At(distance), true
}
