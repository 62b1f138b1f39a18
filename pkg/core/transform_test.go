package core

import (
	"math"
	"testing"
)

func vecClose(a, b Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestTransform_Basics(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
		point     Vec3
		expected  Vec3
	}{
		{"identity", Identity(), NewVec3(1, 2, 3), NewVec3(1, 2, 3)},
		{"translate", Translate(NewVec3(1, -1, 2)), NewVec3(1, 2, 3), NewVec3(2, 1, 5)},
		{"scale", Scale(2, 3, 4), NewVec3(1, 1, 1), NewVec3(2, 3, 4)},
		{"rotate z", Rotate(90, NewVec3(0, 0, 1)), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"scale then translate", Scale(2, 2, 2).Then(Translate(NewVec3(0, 0, 1))), NewVec3(1, 0, 0), NewVec3(2, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transform.Point(tt.point)
			if !vecClose(got, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}

			back := tt.transform.Inverse().Point(got)
			if !vecClose(back, tt.point, 1e-9) {
				t.Errorf("Expected inverse round-trip to %v, got %v", tt.point, back)
			}
		})
	}
}

func TestTransform_VectorIgnoresTranslation(t *testing.T) {
	tr := Translate(NewVec3(5, 5, 5))
	v := NewVec3(0, 1, 0)
	if got := tr.Vector(v); !vecClose(got, v, 1e-12) {
		t.Errorf("Expected %v, got %v", v, got)
	}
}

func TestTransform_NormalStaysPerpendicular(t *testing.T) {
	// Non-uniform scale breaks naive normal transformation
	tr := Scale(1, 4, 1)
	tangent := NewVec3(1, -1, 0)
	normal := NewVec3(1, 1, 0).Normalize()

	worldTangent := tr.Vector(tangent)
	worldNormal := tr.Normal(normal)

	if math.Abs(worldTangent.Dot(worldNormal)) > 1e-9 {
		t.Errorf("Expected normal perpendicular to tangent, dot = %v", worldTangent.Dot(worldNormal))
	}
	if math.Abs(worldNormal.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %v", worldNormal.Length())
	}
}

func TestTransform_RayKeepsDistances(t *testing.T) {
	tr := Scale(2, 2, 2)
	ray := NewRay(NewVec3(0, 0, -4), NewVec3(0, 0, 1))

	objectRay := tr.Inverse().Ray(ray)
	// The point at distance t maps to the object-space point at the same t
	worldPoint := ray.At(3)
	objectPoint := objectRay.At(3)
	if !vecClose(tr.Point(objectPoint), worldPoint, 1e-9) {
		t.Errorf("Expected %v, got %v", worldPoint, tr.Point(objectPoint))
	}
}

func TestLookAt(t *testing.T) {
	tr := LookAt(NewVec3(0, 0, -5), NewVec3(0, 0, 0), NewVec3(0, 1, 0))

	if got := tr.Point(NewVec3(0, 0, 0)); !vecClose(got, NewVec3(0, 0, -5), 1e-9) {
		t.Errorf("Expected camera origin at eye, got %v", got)
	}
	if got := tr.Vector(NewVec3(0, 0, 1)); !vecClose(got, NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected camera +z toward target, got %v", got)
	}
}

func TestLookAt_RightHanded(t *testing.T) {
	// Looking down -z with y up puts +x on the right
	tr := LookAt(NewVec3(0, 0, 5), NewVec3(0, 0, 0), NewVec3(0, 1, 0))
	if got := tr.Vector(NewVec3(1, 0, 0)); !vecClose(got, NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected camera right to be +x, got %v", got)
	}
	if got := tr.Vector(NewVec3(0, 1, 0)); !vecClose(got, NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected camera up to be +y, got %v", got)
	}
}
