package material

import (
	"fmt"
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// BxDFKind identifies a single reflection or transmission lobe
type BxDFKind int

const (
	Lambertian BxDFKind = iota
	OrenNayar
	FresnelConductorReflection
	SpecularReflection
	SpecularTransmission
	FresnelSpecular
)

func (k BxDFKind) String() string {
	switch k {
	case Lambertian:
		return "Lambertian"
	case OrenNayar:
		return "OrenNayar"
	case FresnelConductorReflection:
		return "FresnelConductor"
	case SpecularReflection:
		return "SpecularReflection"
	case SpecularTransmission:
		return "SpecularTransmission"
	case FresnelSpecular:
		return "FresnelSpecular"
	default:
		return fmt.Sprintf("BxDFKind(%d)", int(k))
	}
}

// SurfaceSample is a sampled incoming direction with the BSDF value and
// density for it
type SurfaceSample struct {
	Wi         core.Vec3
	F          core.Vec3
	Pdf        core.Pdf
	IsSpecular bool
}

// BxDF is one lobe of a BSDF. All directions point away from the surface and
// the normal is the shading normal.
type BxDF struct {
	Kind          BxDFKind
	Reflectance   Texture
	Transmittance Texture

	// Oren-Nayar roughness terms
	a, b float64

	// Specular reflection
	fresnel Fresnel

	// Specular transmission: indices outside and inside the surface
	etaI, etaT float64
}

// NewLambertianBxDF creates an ideal diffuse reflector
func NewLambertianBxDF(reflectance Texture) BxDF {
	return BxDF{Kind: Lambertian, Reflectance: reflectance}
}

// NewOrenNayarBxDF creates a rough diffuse reflector. sigma is the standard
// deviation of the microfacet angle in degrees.
func NewOrenNayarBxDF(reflectance Texture, sigma float64) BxDF {
	s := sigma * math.Pi / 180
	s2 := s * s
	return BxDF{
		Kind:        OrenNayar,
		Reflectance: reflectance,
		a:           1 - s2/(2*(s2+0.33)),
		b:           0.45 * s2 / (s2 + 0.09),
	}
}

// NewFresnelConductorBxDF creates a perfectly smooth metal with complex index eta + i*k
func NewFresnelConductorBxDF(eta, k core.Vec3) BxDF {
	return BxDF{
		Kind:        FresnelConductorReflection,
		Reflectance: NewConstantTexture(core.White),
		fresnel:     NewConductorFresnel(eta, k),
	}
}

// NewSpecularReflectionBxDF creates a mirror lobe scaled by the Fresnel term
func NewSpecularReflectionBxDF(reflectance Texture, fresnel Fresnel) BxDF {
	return BxDF{Kind: SpecularReflection, Reflectance: reflectance, fresnel: fresnel}
}

// NewSpecularTransmissionBxDF creates a perfectly smooth refracting lobe
func NewSpecularTransmissionBxDF(transmittance Texture, etaI, etaT float64) BxDF {
	return BxDF{Kind: SpecularTransmission, Transmittance: transmittance, etaI: etaI, etaT: etaT}
}

// NewFresnelSpecularBxDF creates a smooth dielectric that chooses between
// reflection and transmission by Fresnel reflectance
func NewFresnelSpecularBxDF(reflectance, transmittance Texture, etaI, etaT float64) BxDF {
	return BxDF{
		Kind:          FresnelSpecular,
		Reflectance:   reflectance,
		Transmittance: transmittance,
		etaI:          etaI,
		etaT:          etaT,
	}
}

// HasReflection reports whether the lobe scatters into the hemisphere of wo
func (b *BxDF) HasReflection() bool {
	return b.Kind != SpecularTransmission
}

// HasTransmission reports whether the lobe scatters through the surface
func (b *BxDF) HasTransmission() bool {
	return b.Kind == SpecularTransmission || b.Kind == FresnelSpecular
}

// IsDelta reports whether the lobe is a Dirac delta distribution
func (b *BxDF) IsDelta() bool {
	return b.Kind != Lambertian && b.Kind != OrenNayar
}

// Sample draws an incoming direction for wo. u selects between reflection and
// transmission for FresnelSpecular; u2 drives direction sampling.
func (b *BxDF) Sample(u float64, u2 core.Vec2, wo, n core.Vec3, uv core.Vec2) (SurfaceSample, bool) {
	switch b.Kind {
	case Lambertian, OrenNayar:
		wi := core.SampleCosineHemisphere(n, u2)
		// Make sure wi is in the same hemisphere as wo
		if n.Dot(wo) < 0 {
			wi = wi.Negate()
		}
		return SurfaceSample{
			Wi:  wi,
			F:   b.F(wo, wi, n, uv),
			Pdf: b.Pdf(wo, wi, n),
		}, true

	case FresnelConductorReflection, SpecularReflection:
		wi := Reflect(wo, n)
		cosTheta := math.Abs(n.Dot(wi))
		if cosTheta == 0 {
			return SurfaceSample{}, false
		}
		fr := b.fresnel.Evaluate(n.Dot(wo))
		return SurfaceSample{
			Wi:         wi,
			F:          b.Reflectance.Evaluate(uv).MultiplyVec(fr).Divide(cosTheta),
			Pdf:        core.DeltaPdf(),
			IsSpecular: true,
		}, true

	case SpecularTransmission:
		cosThetaO := n.Dot(wo)
		wi, ok := Refract(wo, n, cosThetaO, b.etaI, b.etaT)
		if !ok {
			return SurfaceSample{}, false
		}
		cosTheta := math.Abs(n.Dot(wi))
		if cosTheta == 0 {
			return SurfaceSample{}, false
		}
		fr := FresnelDielectricReflectance(b.etaI, b.etaT, cosThetaO)
		return SurfaceSample{
			Wi:         wi,
			F:          b.Transmittance.Evaluate(uv).Multiply((1 - fr) / cosTheta),
			Pdf:        core.DeltaPdf(),
			IsSpecular: true,
		}, true

	case FresnelSpecular:
		cosThetaO := n.Dot(wo)
		fr := FresnelDielectricReflectance(b.etaI, b.etaT, cosThetaO)
		if u < fr {
			wi := Reflect(wo, n)
			cosTheta := math.Abs(n.Dot(wi))
			if cosTheta == 0 {
				return SurfaceSample{}, false
			}
			return SurfaceSample{
				Wi:         wi,
				F:          b.Reflectance.Evaluate(uv).Multiply(fr / cosTheta),
				Pdf:        core.NonDeltaPdf(fr),
				IsSpecular: true,
			}, true
		}

		wi, ok := Refract(wo, n, cosThetaO, b.etaI, b.etaT)
		if !ok {
			return SurfaceSample{}, false
		}
		cosTheta := math.Abs(n.Dot(wi))
		if cosTheta == 0 {
			return SurfaceSample{}, false
		}
		return SurfaceSample{
			Wi:         wi,
			F:          b.Transmittance.Evaluate(uv).Multiply((1 - fr) / cosTheta),
			Pdf:        core.NonDeltaPdf(1 - fr),
			IsSpecular: true,
		}, true
	}
	return SurfaceSample{}, false
}

// F evaluates the lobe for a pair of directions. Delta lobes return black,
// since their contribution only exists through Sample.
func (b *BxDF) F(wo, wi, n core.Vec3, uv core.Vec2) core.Vec3 {
	if !n.SameHemisphere(wo, wi) {
		return core.Black
	}

	switch b.Kind {
	case Lambertian:
		return b.Reflectance.Evaluate(uv).Multiply(1 / math.Pi)

	case OrenNayar:
		cosThetaI := math.Abs(wi.Dot(n))
		cosThetaO := math.Abs(wo.Dot(n))
		sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
		sinThetaO := math.Sqrt(math.Max(0, 1-cosThetaO*cosThetaO))

		// Cosine of the azimuth difference between wi and wo
		maxCos := 0.0
		if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
			tangent, bitangent := n.Tangents()
			phiI := math.Atan2(wi.Dot(bitangent), wi.Dot(tangent))
			phiO := math.Atan2(wo.Dot(bitangent), wo.Dot(tangent))
			maxCos = math.Max(0, math.Cos(phiI-phiO))
		}

		var sinAlpha, tanBeta float64
		if cosThetaI > cosThetaO {
			sinAlpha = sinThetaO
			tanBeta = sinThetaI / cosThetaI
		} else {
			sinAlpha = sinThetaI
			tanBeta = sinThetaO / cosThetaO
		}

		return b.Reflectance.Evaluate(uv).Multiply((b.a + b.b*maxCos*sinAlpha*tanBeta) / math.Pi)
	}
	return core.Black
}

// Pdf returns the solid-angle density of sampling wi for wo
func (b *BxDF) Pdf(wo, wi, n core.Vec3) core.Pdf {
	switch b.Kind {
	case Lambertian, OrenNayar:
		if !n.SameHemisphere(wo, wi) {
			return core.NonDeltaPdf(0)
		}
		return core.NonDeltaPdf(math.Abs(wi.Dot(n)) / math.Pi)
	}
	return core.DeltaPdf()
}
