package material

import (
	"fmt"
	"strings"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// Material is the BSDF at a surface: a set of BxDF lobes sampled and
// evaluated together
type Material struct {
	Name  string
	BxDFs []BxDF
}

// NewMaterial creates a material from any combination of lobes
func NewMaterial(name string, bxdfs ...BxDF) *Material {
	return &Material{Name: name, BxDFs: bxdfs}
}

// NewMatte creates a diffuse material. A positive sigma (degrees) uses the
// Oren-Nayar model instead of Lambertian.
func NewMatte(reflectance Texture, sigma float64) *Material {
	if sigma > 0 {
		return NewMaterial("matte", NewOrenNayarBxDF(reflectance, sigma))
	}
	return NewMaterial("matte", NewLambertianBxDF(reflectance))
}

// NewPlastic creates a diffuse base with a dielectric specular coat
func NewPlastic(diffuse, specular Texture) *Material {
	return NewMaterial("plastic",
		NewLambertianBxDF(diffuse),
		NewSpecularReflectionBxDF(specular, NewDielectricFresnel(1, 1.5)),
	)
}

// NewMetal creates a smooth conductor with complex index eta + i*k
func NewMetal(eta, k core.Vec3) *Material {
	return NewMaterial("metal", NewFresnelConductorBxDF(eta, k))
}

// NewMirror creates a perfect mirror tinted by reflectance
func NewMirror(reflectance Texture) *Material {
	return NewMaterial("mirror", NewSpecularReflectionBxDF(reflectance, Fresnel{Kind: FresnelNone}))
}

// NewGlass creates a smooth dielectric with index eta surrounded by air
func NewGlass(eta float64, reflectance, transmittance Texture) *Material {
	return NewMaterial("glass", NewFresnelSpecularBxDF(reflectance, transmittance, 1, eta))
}

// relevant reports whether a lobe contributes for the pair wo, wi: reflection
// lobes when both are on the same side, transmission lobes otherwise
func relevant(b *BxDF, reflect bool) bool {
	if reflect {
		return b.HasReflection()
	}
	return b.HasTransmission()
}

// Sample picks a lobe with u, samples it, and for non-delta samples folds in
// the value and density of every other lobe at the sampled direction.
func (m *Material) Sample(u float64, u2 core.Vec2, wo, n core.Vec3, uv core.Vec2) (SurfaceSample, bool) {
	count := len(m.BxDFs)
	if count == 0 {
		return SurfaceSample{}, false
	}

	scaled := u * float64(count)
	index := int(scaled)
	if index >= count {
		index = count - 1
	}
	// Reuse the remainder of u for the chosen lobe's own discrete choice
	remapped := scaled - float64(index)

	chosen := &m.BxDFs[index]
	sample, ok := chosen.Sample(remapped, u2, wo, n, uv)
	if !ok {
		return SurfaceSample{}, false
	}

	if sample.Pdf.IsDelta() || count == 1 {
		return sample, true
	}

	reflect := n.SameHemisphere(wo, sample.Wi)
	for i := range m.BxDFs {
		if i == index {
			continue
		}
		other := &m.BxDFs[i]
		if !relevant(other, reflect) {
			continue
		}
		sample.F = sample.F.Add(other.F(wo, sample.Wi, n, uv))
		if pdf := other.Pdf(wo, sample.Wi, n); !pdf.IsDelta() {
			sample.Pdf.Value += pdf.Value
		}
	}
	sample.Pdf.Value /= float64(count)
	return sample, true
}

// F sums the relevant lobes for the pair of directions
func (m *Material) F(wo, wi, n core.Vec3, uv core.Vec2) core.Vec3 {
	reflect := n.SameHemisphere(wo, wi)
	f := core.Black
	for i := range m.BxDFs {
		if relevant(&m.BxDFs[i], reflect) {
			f = f.Add(m.BxDFs[i].F(wo, wi, n, uv))
		}
	}
	return f
}

// Pdf returns the density Sample would report for wi. It is Delta when no
// relevant lobe has a density.
func (m *Material) Pdf(wo, wi, n core.Vec3) core.Pdf {
	reflect := n.SameHemisphere(wo, wi)
	sum := 0.0
	found := false
	for i := range m.BxDFs {
		b := &m.BxDFs[i]
		if !relevant(b, reflect) {
			continue
		}
		if pdf := b.Pdf(wo, wi, n); !pdf.IsDelta() {
			sum += pdf.Value
			found = true
		}
	}
	if !found {
		return core.DeltaPdf()
	}
	return core.NonDeltaPdf(sum / float64(len(m.BxDFs)))
}

// IsSpecular reports whether every lobe is a delta distribution
func (m *Material) IsSpecular() bool {
	for i := range m.BxDFs {
		if !m.BxDFs[i].IsDelta() {
			return false
		}
	}
	return true
}

func (m *Material) String() string {
	kinds := make([]string, len(m.BxDFs))
	for i := range m.BxDFs {
		kinds[i] = m.BxDFs[i].Kind.String()
	}
	return fmt.Sprintf("Material(%s: %s)", m.Name, strings.Join(kinds, ", "))
}
