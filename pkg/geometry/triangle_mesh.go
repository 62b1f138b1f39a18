package geometry

import (
	"errors"
	"fmt"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// ErrInvalidMesh is returned for malformed mesh index or attribute data
var ErrInvalidMesh = errors.New("geometry: invalid mesh")

// TriangleMesh is a set of triangles built from shared vertex data
type TriangleMesh struct {
	Triangles []*Shape
	Skipped   int // Degenerate faces dropped during construction
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals   []core.Vec3     // Optional per-vertex normals
	UVs       []core.Vec2     // Optional per-vertex texture coordinates
	Transform *core.Transform // Optional object-to-world transform
}

// NewTriangleMesh creates triangles from vertices and face indices.
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// options: optional parameters (can be nil for basic mesh)
// Degenerate faces are skipped and counted rather than failing the whole mesh.
func NewTriangleMesh(vertices []core.Vec3, faces []int, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidMesh, len(faces))
	}

	var normals []core.Vec3
	var uvs []core.Vec2
	positions := vertices
	if options != nil {
		if options.Normals != nil && len(options.Normals) != len(vertices) {
			return nil, fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(options.Normals), len(vertices))
		}
		if options.UVs != nil && len(options.UVs) != len(vertices) {
			return nil, fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalidMesh, len(options.UVs), len(vertices))
		}
		normals = options.Normals
		uvs = options.UVs

		if options.Transform != nil {
			positions = make([]core.Vec3, len(vertices))
			for i, v := range vertices {
				positions[i] = options.Transform.Point(v)
			}
			if normals != nil {
				transformed := make([]core.Vec3, len(normals))
				for i, n := range normals {
					transformed[i] = options.Transform.Normal(n)
				}
				normals = transformed
			}
		}
	}

	mesh := &TriangleMesh{Triangles: make([]*Shape, 0, len(faces)/3)}
	defaultUVs := [3]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}

	for f := 0; f < len(faces); f += 3 {
		var corners [3]Vertex
		for k := 0; k < 3; k++ {
			idx := faces[f+k]
			if idx < 0 || idx >= len(positions) {
				return nil, fmt.Errorf("%w: face %d index %d out of range", ErrInvalidMesh, f/3, idx)
			}
			corners[k].Position = positions[idx]
			corners[k].UV = defaultUVs[k]
			if normals != nil {
				corners[k].Normal = normals[idx]
			}
			if uvs != nil {
				corners[k].UV = uvs[idx]
			}
		}

		tri, ok := NewTriangleFromVertices(corners[0], corners[1], corners[2])
		if !ok {
			mesh.Skipped++
			continue
		}
		mesh.Triangles = append(mesh.Triangles, tri)
	}

	return mesh, nil
}

// NewQuad creates two triangles spanning corner, corner+u, corner+u+v and
// corner+v. The face normal is u x v.
func NewQuad(corner, u, v core.Vec3) ([]*Shape, bool) {
	vertices := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	uvs := []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	mesh, err := NewTriangleMesh(vertices, []int{0, 1, 2, 0, 2, 3}, &TriangleMeshOptions{UVs: uvs})
	if err != nil || mesh.Skipped > 0 {
		return nil, false
	}
	return mesh.Triangles, true
}

// NewBox creates the 12 outward-facing triangles of an axis-aligned box
func NewBox(min, max core.Vec3, transform *core.Transform) ([]*Shape, bool) {
	vertices := []core.Vec3{
		{X: min.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z},
	}
	faces := []int{
		0, 2, 1, 0, 3, 2, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 7, 6, 3, 6, 2, // +y
		0, 4, 7, 0, 7, 3, // -x
		1, 2, 6, 1, 6, 5, // +x
	}

	mesh, err := NewTriangleMesh(vertices, faces, &TriangleMeshOptions{Transform: transform})
	if err != nil || mesh.Skipped > 0 {
		return nil, false
	}
	return mesh.Triangles, true
}
