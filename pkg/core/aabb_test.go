package core

import (
	"math"
	"testing"
)

func TestAABB_IntersectFromFaces(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	directions := []Vec3{
		NewVec3(1, 0, 0), NewVec3(-1, 0, 0),
		NewVec3(0, 1, 0), NewVec3(0, -1, 0),
		NewVec3(0, 0, 1), NewVec3(0, 0, -1),
	}

	for _, d := range directions {
		// Fire toward the box from outside each face
		origin := d.Multiply(-5)
		ray := NewRay(origin, d)
		dist, ok := box.Intersect(ray)
		if !ok {
			t.Errorf("Expected ray from %v along %v to hit", origin, d)
			continue
		}
		if math.Abs(dist-4) > 1e-9 {
			t.Errorf("Expected entry distance 4 for %v, got %v", d, dist)
		}

		// Fire away from the box
		away := NewRay(origin, d.Negate())
		if box.Hit(away) {
			t.Errorf("Expected ray from %v along %v to miss", origin, d.Negate())
		}
	}
}

func TestAABB_IntersectRespectsMaxDistance(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name        string
		maxDistance float64
		expectHit   bool
	}{
		{"unbounded", math.Inf(1), true},
		{"stops before box", 3.5, false},
		{"stops inside box", 4.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewBoundedRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0), tt.maxDistance)
			if got := box.Hit(ray); got != tt.expectHit {
				t.Errorf("Expected hit=%v, got %v", tt.expectHit, got)
			}
		})
	}
}

func TestAABB_IntersectFromInside(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 1, 0))

	dist, ok := box.Intersect(ray)
	if !ok {
		t.Fatal("Expected ray from inside to hit")
	}
	if math.Abs(dist-1) > 1e-9 {
		t.Errorf("Expected exit distance 1, got %v", dist)
	}
	if !box.Contains(ray.Origin) {
		t.Error("Expected box to contain the origin")
	}
}

func TestAABB_Helpers(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(2, -1, 0), NewVec3(3, 0, 4))

	u := a.Union(b)
	if u.Min != NewVec3(0, -1, 0) || u.Max != NewVec3(3, 1, 4) {
		t.Errorf("Unexpected union %v - %v", u.Min, u.Max)
	}
	if u.LongestAxis() != AxisZ {
		t.Errorf("Expected longest axis Z, got %v", u.LongestAxis())
	}
	if a.SurfaceArea() != 6 {
		t.Errorf("Expected surface area 6, got %v", a.SurfaceArea())
	}
	if off := u.Offset(NewVec3(3, 1, 2)); off != NewVec3(1, 1, 0.5) {
		t.Errorf("Expected offset (1,1,0.5), got %v", off)
	}
	if c := NewAABBFromPoints(NewVec3(1, 2, 3), NewVec3(-1, 0, 5)).Center(); c != NewVec3(0, 1, 4) {
		t.Errorf("Expected center (0,1,4), got %v", c)
	}
}
