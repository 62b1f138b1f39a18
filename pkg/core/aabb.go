package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Intersect tests the ray against the box using the slab method and returns
// the distance at which the ray enters the box. Only the part of the ray in
// [Epsilon, ray.MaxDistance] is considered, so a ray starting inside the box
// reports the exit distance instead.
func (aabb AABB) Intersect(ray Ray) (float64, bool) {
	tMin := Epsilon
	tMax := ray.MaxDistance
	entry := math.Inf(-1)

	for axis := AxisX; axis <= AxisZ; axis++ {
		min := aabb.Min.Get(axis)
		max := aabb.Max.Get(axis)
		origin := ray.Origin.Get(axis)
		direction := ray.Direction.Get(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		entry = math.Max(entry, t1)
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if entry >= Epsilon {
		return entry, true
	}
	return tMax, true
}

// Hit reports whether the ray overlaps the box anywhere in [Epsilon, MaxDistance]
func (aabb AABB) Hit(ray Ray) bool {
	_, ok := aabb.Intersect(ray)
	return ok
}

// Contains reports whether the point lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis with the longest extent
func (aabb AABB) LongestAxis() Axis {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return AxisX
	}
	if size.Y > size.Z {
		return AxisY
	}
	return AxisZ
}

// Offset returns the position of p relative to the box, where Min maps to 0
// and Max maps to 1 on each axis with non-zero extent
func (aabb AABB) Offset(p Vec3) Vec3 {
	o := p.Subtract(aabb.Min)
	if aabb.Max.X > aabb.Min.X {
		o.X /= aabb.Max.X - aabb.Min.X
	}
	if aabb.Max.Y > aabb.Min.Y {
		o.Y /= aabb.Max.Y - aabb.Min.Y
	}
	if aabb.Max.Z > aabb.Min.Z {
		o.Z /= aabb.Max.Z - aabb.Min.Z
	}
	return o
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
// BoundingSphere returns the center and radius of a sphere enclosing the box
func (aabb AABB) BoundingSphere() (Vec3, float64) {
	center := aabb.Center()
	return center, aabb.Max.Subtract(center).Length()
}
