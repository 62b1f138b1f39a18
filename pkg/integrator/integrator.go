package integrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/log"
	"github.com/banga/craytracer-sub000/pkg/scene"
)

var logger = log.New("integrator")

var (
	// ErrNonFinite is returned when radiance or throughput becomes NaN or infinite
	ErrNonFinite = errors.New("non-finite radiance")
	// ErrUnknownIntegrator is returned by Parse for unrecognised names
	ErrUnknownIntegrator = errors.New("unknown integrator")
	// ErrUnregisteredLight is returned when an emissive surface belongs to a
	// light missing from the scene's light list
	ErrUnregisteredLight = errors.New("light is not part of the scene")
)

// Integrator estimates the radiance arriving along a camera ray. Implementations
// hold no per-path state, so one value can be shared by every render worker as
// long as each worker brings its own sampler.
type Integrator interface {
	EstimateLi(sampler core.Sampler, ray core.Ray, s *scene.Scene) core.Vec3
}

// Kind names an integrator implementation
type Kind int

const (
	KindPath Kind = iota
	KindSimple
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindSimple:
		return "simple"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Parse converts "path" or "simple" into a Kind
func Parse(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "path", "":
		return KindPath, nil
	case "simple":
		return KindSimple, nil
	}
	return KindPath, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
}

// New creates the integrator for kind
func New(kind Kind) Integrator {
	if kind == KindSimple {
		return NewSimpleIntegrator()
	}
	return NewPathIntegrator()
}

// pathSamples holds the samples consumed by one path vertex. They are always
// drawn together and in this order, whichever branches the vertex takes, so a
// given sampler dimension means the same thing for every path of a pixel.
type pathSamples struct {
	material1       float64
	material2       core.Vec2
	lightIndex      float64
	light1          float64
	light2          core.Vec2
	russianRoulette float64
}

func drawPathSamples(sampler core.Sampler) pathSamples {
	var ps pathSamples
	ps.material1 = sampler.Get1D()
	ps.material2 = sampler.Get2D()
	ps.lightIndex = sampler.Get1D()
	ps.light1 = sampler.Get1D()
	ps.light2 = sampler.Get2D()
	ps.russianRoulette = sampler.Get1D()
	return ps
}

// russianRoulette terminates low-throughput paths with probability
// 1 - max(beta) and rescales survivors so the estimate stays unbiased
func russianRoulette(beta core.Vec3, u float64) (core.Vec3, bool) {
	maxComponent := beta.MaxComponent()
	if maxComponent >= 1 {
		return beta, true
	}
	q := 1 - maxComponent
	if u < q {
		return beta, false
	}
	return beta.Divide(1 - q), true
}

// bsdfMISWeight weights radiance found by BSDF sampling against the chance of
// light sampling having chosen the same direction wi from point. It is the
// complement of the weight next event estimation gives the light sample.
func bsdfMISWeight(s *scene.Scene, light *lights.Light, index int, point, wi core.Vec3, bsdfPdf float64) (float64, error) {
	pdf := light.PdfLi(point, wi)
	if pdf.IsDelta() {
		return 0, fmt.Errorf("%w: %v", lights.ErrDeltaEmitter, light)
	}
	lightPdf := pdf.Value * s.LightSampler.Pdf(index)
	return core.PowerHeuristic(1, bsdfPdf, 1, lightPdf), nil
}
