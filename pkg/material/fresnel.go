package material

import (
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// FresnelKind selects the Fresnel reflectance model
type FresnelKind int

const (
	// FresnelNone reflects everything (perfect mirror)
	FresnelNone FresnelKind = iota
	FresnelDielectric
	FresnelConductor
)

// Fresnel computes the fraction of light reflected at an interface
type Fresnel struct {
	Kind FresnelKind

	// Dielectric indices of refraction outside (I) and inside (T)
	EtaI, EtaT float64

	// Conductor: per-channel indices of the outside medium and the conductor,
	// and the conductor's absorption coefficient
	ConductorEtaI, ConductorEtaT, K core.Vec3
}

// NewDielectricFresnel creates a Fresnel term for an interface between two dielectrics
func NewDielectricFresnel(etaI, etaT float64) Fresnel {
	return Fresnel{Kind: FresnelDielectric, EtaI: etaI, EtaT: etaT}
}

// NewConductorFresnel creates a Fresnel term for a conductor in air
func NewConductorFresnel(eta, k core.Vec3) Fresnel {
	return Fresnel{Kind: FresnelConductor, ConductorEtaI: core.White, ConductorEtaT: eta, K: k}
}

// Evaluate returns the reflectance for the cosine between the incident
// direction and the normal
func (f Fresnel) Evaluate(cosThetaI float64) core.Vec3 {
	switch f.Kind {
	case FresnelDielectric:
		r := FresnelDielectricReflectance(f.EtaI, f.EtaT, cosThetaI)
		return core.NewVec3(r, r, r)
	case FresnelConductor:
		return FresnelConductorReflectance(f.ConductorEtaI, f.ConductorEtaT, f.K, math.Abs(cosThetaI))
	default:
		return core.White
	}
}

// FresnelDielectricReflectance returns the unpolarized reflectance at a
// dielectric interface. A negative cosThetaI means the incident direction is
// inside the medium with index etaT. Returns 1 on total internal reflection.
func FresnelDielectricReflectance(etaI, etaT, cosThetaI float64) float64 {
	cosThetaI = math.Max(-1, math.Min(1, cosThetaI))
	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParallel := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerpendicular := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParallel*rParallel + rPerpendicular*rPerpendicular) / 2
}

// FresnelConductorReflectance returns the per-channel reflectance of a
// conductor with complex index etaT + i*k seen from a medium with index etaI.
// cosThetaI must be non-negative.
func FresnelConductorReflectance(etaI, etaT, k core.Vec3, cosThetaI float64) core.Vec3 {
	eta := etaT.DivideVec(etaI)
	eta2 := eta.Square()
	etak := k.DivideVec(etaI)
	etak2 := etak.Square()

	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2

	t0 := eta2.Subtract(etak2).AddScalar(-sin2)
	a2plusb2 := t0.Square().Add(eta2.MultiplyVec(etak2).Multiply(4)).Sqrt()
	a := a2plusb2.Add(t0).Multiply(0.5).Sqrt()

	t1 := a2plusb2.AddScalar(cos2)
	t2 := a.Multiply(2 * cosThetaI)
	rPerpendicular := t1.Subtract(t2).DivideVec(t1.Add(t2))

	t3 := a2plusb2.Multiply(cos2).AddScalar(sin2 * sin2)
	t4 := a.Multiply(2 * cosThetaI * sin2)
	rParallel := rPerpendicular.MultiplyVec(t3.Subtract(t4).DivideVec(t3.Add(t4)))

	// Both terms are already squared magnitudes
	return rParallel.Add(rPerpendicular).Multiply(0.5)
}

// Reflect mirrors wo about n. Both point away from the surface.
func Reflect(wo, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * n.Dot(wo)).Subtract(wo)
}

// Refract returns the direction transmitted through an interface for the
// outgoing direction wo, where cosThetaI = dot(wo, n). When cosThetaI is
// negative wo is inside the medium with index etaT. Returns false on total
// internal reflection.
func Refract(wo, n core.Vec3, cosThetaI, etaI, etaT float64) (core.Vec3, bool) {
	etaRelative := etaT / etaI
	cosTheta := cosThetaI
	if cosThetaI < 0 {
		n = n.Negate()
		etaRelative = etaI / etaT
		cosTheta = -cosThetaI
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	if sinTheta > etaRelative {
		return core.Vec3{}, false
	}

	rPerpendicular := n.Multiply(cosTheta).Subtract(wo).Divide(etaRelative)
	rParallel := n.Multiply(-math.Sqrt(math.Max(0, 1-rPerpendicular.LengthSquared())))
	return rPerpendicular.Add(rParallel), true
}
