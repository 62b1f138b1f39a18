package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/banga/craytracer-sub000/pkg/core"
)

func TestTriangle_DegenerateRejected(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 core.Vec3
	}{
		{"collinear", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2)},
		{"coincident", core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3)},
		{"two equal", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, ok := NewTriangle(tt.v0, tt.v1, tt.v2)
			if ok || shape != nil {
				t.Errorf("Expected no shape for degenerate triangle, got %v", shape)
			}
		})
	}

	// Zero-length vertex normal
	_, ok := NewTriangleWithNormals(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1),
	)
	if ok {
		t.Error("Expected zero-length normal to be rejected")
	}
}

func TestTriangle_Intersect(t *testing.T) {
	tri, ok := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	if !ok {
		t.Fatal("Expected valid triangle")
	}

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expectHit bool
		distance  float64
	}{
		{"inside", core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1), true, 1},
		{"from below", core.NewVec3(0.25, 0.25, -2), core.NewVec3(0, 0, 1), true, 2},
		{"outside u+v>1", core.NewVec3(0.8, 0.8, 1), core.NewVec3(0, 0, -1), false, 0},
		{"outside u<0", core.NewVec3(-0.1, 0.5, 1), core.NewVec3(0, 0, -1), false, 0},
		{"parallel", core.NewVec3(0.2, 0.2, 1), core.NewVec3(1, 0, 0), false, 0},
		{"behind origin", core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.direction)
			hit, ok := tri.Intersect(&ray)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if ok && math.Abs(hit.Distance-tt.distance) > 1e-9 {
				t.Errorf("Expected distance %v, got %v", tt.distance, hit.Distance)
			}
			if ok && hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
				t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
			}
		})
	}
}

func TestTriangle_InterpolatedNormal(t *testing.T) {
	n0 := core.NewVec3(0, 0, 1)
	n1 := core.NewVec3(1, 0, 1).Normalize()
	n2 := core.NewVec3(0, 1, 1).Normalize()
	tri, ok := NewTriangleWithNormals(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		n0, n1, n2,
	)
	if !ok {
		t.Fatal("Expected valid triangle")
	}

	// Hitting vertex 1 returns its normal
	ray := core.NewRay(core.NewVec3(1-1e-9, 0, 1), core.NewVec3(0, 0, -1))
	hit, ok := tri.Intersect(&ray)
	if !ok {
		t.Fatal("Expected hit near vertex 1")
	}
	if hit.Normal.Subtract(n1).Length() > 1e-6 {
		t.Errorf("Expected normal %v, got %v", n1, hit.Normal)
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %v", hit.Normal.Length())
	}
}

func TestShape_IntersectsMatchesIntersect(t *testing.T) {
	tri, _ := NewTriangle(core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	diskTransform := core.Translate(core.NewVec3(0, 0, -1))
	shapes := []*Shape{
		NewSphereAt(core.NewVec3(0, 0, 0), 1),
		tri,
		NewDisk(&diskTransform, 1, 0.3),
	}

	random := rand.New(rand.NewSource(42))
	for _, shape := range shapes {
		for i := 0; i < 500; i++ {
			origin := core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, 3)
			target := core.NewVec3(random.Float64()*3-1.5, random.Float64()*3-1.5, random.Float64()*2-1)
			ray := core.NewRay(origin, target.Subtract(origin).Normalize())

			anyHit := shape.Intersects(ray)
			before := ray.MaxDistance
			_, hit := shape.Intersect(&ray)
			if anyHit != hit {
				t.Fatalf("%s: Intersects=%v but Intersect=%v for ray %v -> %v", shape.Kind, anyHit, hit, origin, target)
			}
			if !hit && ray.MaxDistance != before {
				t.Fatalf("%s: Expected max distance untouched on miss", shape.Kind)
			}
		}
	}
}
