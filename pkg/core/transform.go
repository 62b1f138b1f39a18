package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is an affine transformation together with its inverse.
// Transforms are immutable and can be shared between shapes.
type Transform struct {
	m   mgl64.Mat4
	inv mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{m: mgl64.Ident4(), inv: mgl64.Ident4()}
}

// Translate returns a translation by the vector d
func Translate(d Vec3) Transform {
	return Transform{
		m:   mgl64.Translate3D(d.X, d.Y, d.Z),
		inv: mgl64.Translate3D(-d.X, -d.Y, -d.Z),
	}
}

// Scale returns a non-uniform scale. Every factor must be non-zero.
func Scale(x, y, z float64) Transform {
	return Transform{
		m:   mgl64.Scale3D(x, y, z),
		inv: mgl64.Scale3D(1/x, 1/y, 1/z),
	}
}

// Rotate returns a rotation of degrees around axis
func Rotate(degrees float64, axis Vec3) Transform {
	m := mgl64.HomogRotate3D(mgl64.DegToRad(degrees), toMgl(axis.Normalize()))
	// Rotation matrices are orthonormal
	return Transform{m: m, inv: m.Transpose()}
}

// LookAt returns the camera-to-world transform of a camera at eye looking at
// target. Camera space has +x to the right, +y up and +z toward the target.
func LookAt(eye, target, up Vec3) Transform {
	dir := target.Subtract(eye).Normalize()
	right := dir.Cross(up.Normalize()).Normalize()
	newUp := right.Cross(dir)

	m := mgl64.Mat4FromCols(
		mgl64.Vec4{right.X, right.Y, right.Z, 0},
		mgl64.Vec4{newUp.X, newUp.Y, newUp.Z, 0},
		mgl64.Vec4{dir.X, dir.Y, dir.Z, 0},
		mgl64.Vec4{eye.X, eye.Y, eye.Z, 1},
	)
	return Transform{m: m, inv: m.Inv()}
}

// Then returns the transform that applies t first and next second
func (t Transform) Then(next Transform) Transform {
	return Transform{
		m:   next.m.Mul4(t.m),
		inv: t.inv.Mul4(next.inv),
	}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform{m: t.inv, inv: t.m}
}

// Point transforms a point
func (t Transform) Point(p Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), t.m))
}

// Vector transforms a direction, ignoring translation
func (t Transform) Vector(v Vec3) Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(v), t.m))
}

// Normal transforms a surface normal by the inverse transpose and normalizes it
func (t Transform) Normal(n Vec3) Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(n), t.inv.Transpose())).Normalize()
}

// Ray transforms a ray. The direction is not renormalized, so distances along
// the transformed ray match distances along the original one.
func (t Transform) Ray(r Ray) Ray {
	return Ray{
		Origin:      t.Point(r.Origin),
		Direction:   t.Vector(r.Direction),
		MaxDistance: r.MaxDistance,
	}
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}
