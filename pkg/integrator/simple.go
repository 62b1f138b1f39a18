package integrator

import (
	"fmt"
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/scene"
)

// SimpleIntegrator is a path tracer without multiple importance sampling.
// Light reaching a diffuse vertex is counted only through light sampling;
// emitters found by BSDF sampling are counted only after specular bounces.
// There is no Russian roulette.
type SimpleIntegrator struct{}

// NewSimpleIntegrator creates a new simple integrator
func NewSimpleIntegrator() *SimpleIntegrator {
	return &SimpleIntegrator{}
}

// EstimateLi returns the radiance arriving along ray
func (si *SimpleIntegrator) EstimateLi(sampler core.Sampler, ray core.Ray, s *scene.Scene) core.Vec3 {
	L, err := si.EstimateLiChecked(sampler, ray, s)
	if err != nil {
		logger.Warningf("path terminated early: %v", err)
	}
	return L
}

// EstimateLiChecked is EstimateLi but reports non-finite values instead of logging them
func (si *SimpleIntegrator) EstimateLiChecked(sampler core.Sampler, ray core.Ray, s *scene.Scene) (core.Vec3, error) {
	L := core.Black
	beta := core.White
	isSpecular := true
	lastFinite := L

	for bounces := 0; bounces < s.MaxDepth() && !beta.IsBlack(); bounces++ {
		wo := ray.Direction.Negate()
		lastFinite = L

		hit, ok := s.Intersect(&ray)
		if !ok {
			if isSpecular {
				for _, light := range s.Lights {
					L = L.Add(beta.MultiplyVec(light.Le(ray.Direction)))
				}
			}
			break
		}

		samples := drawPathSamples(sampler)

		if isSpecular {
			L = L.Add(beta.MultiplyVec(hit.Le(wo)))
		}

		mat := hit.Material()
		if mat == nil {
			break
		}
		n := hit.Normal

		if index, selectionPdf := s.LightSampler.Sample(samples.lightIndex); index >= 0 && selectionPdf > 0 && !mat.IsSpecular() {
			ls := s.Lights[index].SampleLi(hit.Location, samples.light1, samples.light2)
			lightPdf := ls.Pdf.ValueOr(1)
			if lightPdf > 0 && !s.Intersects(ls.ShadowRay) {
				f := mat.F(wo, ls.Wi, n, hit.UV)
				cosTheta := math.Abs(ls.Wi.Dot(n))
				L = L.Add(beta.MultiplyVec(ls.Li).MultiplyVec(f).Multiply(cosTheta / selectionPdf / lightPdf))
			}
		}

		bs, ok := mat.Sample(samples.material1, samples.material2, wo, n, hit.UV)
		if !ok || bs.F.IsBlack() {
			break
		}
		bsdfPdf := bs.Pdf.ValueOr(1)
		if bsdfPdf == 0 {
			break
		}
		beta = beta.MultiplyVec(bs.F).Multiply(math.Abs(bs.Wi.Dot(n)) / bsdfPdf)
		ray = core.NewRay(hit.Location, bs.Wi)
		isSpecular = bs.IsSpecular

		if !L.IsFinite() || !beta.IsFinite() {
			return lastFinite, fmt.Errorf("%w: L=%v beta=%v at bounce %d", ErrNonFinite, L, beta, bounces)
		}
	}

	if !L.IsFinite() {
		return lastFinite, fmt.Errorf("%w: L=%v", ErrNonFinite, L)
	}
	return L, nil
}
