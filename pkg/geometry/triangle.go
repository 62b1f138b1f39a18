package geometry

import (
	"github.com/banga/craytracer-sub000/pkg/core"
)

// degenerateThreshold is the smallest |e1 x e2| (twice the area) or normal
// length accepted at construction
const degenerateThreshold = 1e-12

// Vertex holds per-vertex attributes of a triangle. A zero Normal means the
// face normal is used.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	UV       core.Vec2
}

// NewTriangle creates a flat-shaded triangle with counter-clockwise winding.
// Returns false for degenerate (collinear or coincident) vertices.
func NewTriangle(v0, v1, v2 core.Vec3) (*Shape, bool) {
	return NewTriangleFromVertices(
		Vertex{Position: v0, UV: core.NewVec2(0, 0)},
		Vertex{Position: v1, UV: core.NewVec2(1, 0)},
		Vertex{Position: v2, UV: core.NewVec2(1, 1)},
	)
}

// NewTriangleWithNormals creates a triangle with interpolated shading normals
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3) (*Shape, bool) {
	if n0.IsBlack() || n1.IsBlack() || n2.IsBlack() {
		return nil, false
	}
	return NewTriangleFromVertices(
		Vertex{Position: v0, Normal: n0, UV: core.NewVec2(0, 0)},
		Vertex{Position: v1, Normal: n1, UV: core.NewVec2(1, 0)},
		Vertex{Position: v2, Normal: n2, UV: core.NewVec2(1, 1)},
	)
}

// NewTriangleFromVertices creates a triangle from full vertex attributes.
// Returns false when the triangle has (near) zero area or a vertex normal has
// zero length.
func NewTriangleFromVertices(a, b, c Vertex) (*Shape, bool) {
	e1 := b.Position.Subtract(a.Position)
	e2 := c.Position.Subtract(a.Position)

	cross := e1.Cross(e2)
	if cross.Length() < degenerateThreshold {
		return nil, false
	}
	faceNormal := cross.Normalize()

	n0, n1, n2 := a.Normal, b.Normal, c.Normal
	if n0.IsBlack() && n1.IsBlack() && n2.IsBlack() {
		n0, n1, n2 = faceNormal, faceNormal, faceNormal
	}
	for _, n := range []core.Vec3{n0, n1, n2} {
		if n.Length() < degenerateThreshold {
			return nil, false
		}
	}
	n0, n1, n2 = n0.Normalize(), n1.Normalize(), n2.Normalize()

	// Keep the geometric normal on the same side as the shading normals
	if faceNormal.Dot(n0.Add(n1).Add(n2)) < 0 {
		faceNormal = faceNormal.Negate()
	}

	return &Shape{
		Kind:       KindTriangle,
		v0:         a.Position,
		e1:         e1,
		e2:         e2,
		n0:         n0,
		n01:        n1.Subtract(n0),
		n02:        n2.Subtract(n0),
		uv0:        a.UV,
		uv01:       b.UV.Subtract(a.UV),
		uv02:       c.UV.Subtract(a.UV),
		faceNormal: faceNormal,
	}, true
}

// hitTriangle runs Möller-Trumbore and returns the distance and barycentrics
func (s *Shape) hitTriangle(ray core.Ray) (float64, float64, float64, bool) {
	p := ray.Direction.Cross(s.e2)
	det := s.e1.Dot(p)

	// If determinant is near zero, ray lies in plane of triangle
	if det > -core.Epsilon && det < core.Epsilon {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	tv := ray.Origin.Subtract(s.v0)
	u := tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := tv.Cross(s.e1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t := s.e2.Dot(q) * invDet
	if !ray.Accepts(t) {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func (s *Shape) intersectTriangle(ray *core.Ray) (ShapeIntersection, bool) {
	t, u, v, ok := s.hitTriangle(*ray)
	if !ok {
		return ShapeIntersection{}, false
	}
	location, ok := ray.UpdateMaxDistance(t)
	if !ok {
		return ShapeIntersection{}, false
	}

	return ShapeIntersection{
		Distance: t,
		Location: location,
		Normal:   s.n0.Add(s.n01.Multiply(u)).Add(s.n02.Multiply(v)).Normalize(),
		UV:       s.uv0.Add(s.uv01.Multiply(u)).Add(s.uv02.Multiply(v)),
	}, true
}

// FaceNormal returns the geometric normal of a triangle
func (s *Shape) FaceNormal() core.Vec3 {
	return s.faceNormal
}
