package integrator

import (
	"fmt"
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/scene"
)

// PathIntegrator implements unidirectional path tracing with next event
// estimation. Light sampling and BSDF sampling are combined with the power
// heuristic, and paths are terminated with Russian roulette after the first
// bounce.
type PathIntegrator struct{}

// NewPathIntegrator creates a new path tracing integrator
func NewPathIntegrator() *PathIntegrator {
	return &PathIntegrator{}
}

// EstimateLi returns the radiance arriving along ray. Paths that hit a
// numerical fault are logged and cut short at their last finite estimate.
func (pt *PathIntegrator) EstimateLi(sampler core.Sampler, ray core.Ray, s *scene.Scene) core.Vec3 {
	L, err := pt.EstimateLiChecked(sampler, ray, s)
	if err != nil {
		logger.Warningf("path terminated early: %v", err)
	}
	return L
}

// EstimateLiChecked is EstimateLi but reports invariant violations instead of
// logging them. The returned radiance is always finite.
func (pt *PathIntegrator) EstimateLiChecked(sampler core.Sampler, ray core.Ray, s *scene.Scene) (core.Vec3, error) {
	L := core.Black
	beta := core.White

	// Camera rays behave like specular bounces: whatever they hit directly is
	// counted in full since no light sample could have found it
	isSpecular := true
	prevBsdfPdf := 0.0
	var prevLocation core.Vec3
	lastFinite := L

	for bounces := 0; bounces < s.MaxDepth() && !beta.IsBlack(); bounces++ {
		// wo points back along the ray, away from the surface
		wo := ray.Direction.Negate()
		lastFinite = L

		hit, ok := s.Intersect(&ray)
		if !ok {
			escaped, err := pt.escaped(s, ray.Direction, beta, isSpecular, prevLocation, prevBsdfPdf)
			if err != nil {
				return L, err
			}
			L = L.Add(escaped)
			break
		}

		samples := drawPathSamples(sampler)

		if le := hit.Le(wo); !le.IsBlack() {
			if isSpecular {
				L = L.Add(beta.MultiplyVec(le))
			} else {
				light := hit.AreaLight()
				index, ok := s.LightIndex(light)
				if !ok {
					return L, fmt.Errorf("%w: %v", ErrUnregisteredLight, light)
				}
				weight, err := bsdfMISWeight(s, light, index, prevLocation, ray.Direction, prevBsdfPdf)
				if err != nil {
					return L, err
				}
				L = L.Add(beta.MultiplyVec(le).Multiply(weight))
			}
		}

		// Light surfaces do not scatter
		mat := hit.Material()
		if mat == nil {
			break
		}
		n := hit.Normal

		// Sample a light and add its direct contribution. Delta lobes cannot
		// reflect a sampled light direction.
		if index, selectionPdf := s.LightSampler.Sample(samples.lightIndex); index >= 0 && selectionPdf > 0 && !mat.IsSpecular() {
			ls := s.Lights[index].SampleLi(hit.Location, samples.light1, samples.light2)
			if !ls.Li.IsBlack() && !s.Intersects(ls.ShadowRay) {
				f := mat.F(wo, ls.Wi, n, hit.UV)
				cosTheta := math.Abs(ls.Wi.Dot(n))
				contribution := beta.MultiplyVec(ls.Li).MultiplyVec(f).Multiply(cosTheta)

				if ls.Pdf.IsDelta() {
					L = L.Add(contribution.Divide(selectionPdf))
				} else if ls.Pdf.Value > 0 {
					lightPdf := ls.Pdf.Value * selectionPdf
					bsdfPdf := mat.Pdf(wo, ls.Wi, n).ValueOr(0)
					weight := core.PowerHeuristic(1, lightPdf, 1, bsdfPdf)
					L = L.Add(contribution.Multiply(weight / lightPdf))
				}
			}
		}

		// Sample the BSDF for the next direction
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
		prevBsdfPdf = bsdfPdf
		prevLocation = hit.Location

		if bounces > 0 {
			var survived bool
			if beta, survived = russianRoulette(beta, samples.russianRoulette); !survived {
				break
			}
		}

		if !L.IsFinite() || !beta.IsFinite() {
			return lastFinite, fmt.Errorf("%w: L=%v beta=%v at bounce %d", ErrNonFinite, L, beta, bounces)
		}
	}

	if !L.IsFinite() {
		return lastFinite, fmt.Errorf("%w: L=%v", ErrNonFinite, L)
	}
	return L, nil
}

// escaped returns the radiance from lights surrounding the scene for a path
// leaving it in direction dir
func (pt *PathIntegrator) escaped(s *scene.Scene, dir, beta core.Vec3, isSpecular bool, prevLocation core.Vec3, prevBsdfPdf float64) (core.Vec3, error) {
	L := core.Black
	for i, light := range s.Lights {
		le := light.Le(dir)
		if le.IsBlack() {
			continue
		}
		if isSpecular {
			L = L.Add(beta.MultiplyVec(le))
			continue
		}
		weight, err := bsdfMISWeight(s, light, i, prevLocation, dir, prevBsdfPdf)
		if err != nil {
			return core.Black, err
		}
		L = L.Add(beta.MultiplyVec(le).Multiply(weight))
	}
	return L, nil
}
