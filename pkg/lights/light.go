package lights

import (
	"errors"
	"fmt"
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
)

// ErrDeltaEmitter is returned when a light that can be hit by a ray reports a
// delta pdf. Only point and distant lights are delta, and neither can be hit.
var ErrDeltaEmitter = errors.New("emissive light has a delta pdf")

// LightKind identifies the variant stored in a Light
type LightKind int

const (
	LightPoint LightKind = iota
	LightDistant
	LightInfinite
	LightArea
)

func (k LightKind) String() string {
	switch k {
	case LightPoint:
		return "point"
	case LightDistant:
		return "distant"
	case LightInfinite:
		return "infinite"
	case LightArea:
		return "area"
	default:
		return fmt.Sprintf("LightKind(%d)", int(k))
	}
}

// LightSample is the light arriving at a point from a sampled direction
type LightSample struct {
	Li        core.Vec3 // Incident radiance
	Wi        core.Vec3 // Unit direction from the point towards the light
	Pdf       core.Pdf  // Solid-angle density of Wi
	ShadowRay core.Ray  // Occlusion test between the point and the light
}

// Light is a closed set of emitters
type Light struct {
	Kind LightKind

	// Radiant intensity (W/sr) for point, distant and infinite lights;
	// emitted radiance for area lights
	Intensity core.Vec3

	Position  core.Vec3       // Point
	Direction core.Vec3       // Distant: unit direction pointing at the light
	Shape     *geometry.Shape // Area

	sceneRadius float64
}

// NewPointLight creates a light emitting equally in all directions from position
func NewPointLight(position, intensity core.Vec3) *Light {
	return &Light{Kind: LightPoint, Position: position, Intensity: intensity}
}

// NewDistantLight creates a light infinitely far away. direction points from
// the scene towards the light.
func NewDistantLight(direction, intensity core.Vec3) *Light {
	return &Light{Kind: LightDistant, Direction: direction.Normalize(), Intensity: intensity}
}

// NewInfiniteLight creates a uniform environment surrounding the scene
func NewInfiniteLight(intensity core.Vec3) *Light {
	return &Light{Kind: LightInfinite, Intensity: intensity}
}

// NewAreaLight creates a two-sided emitter covering shape
func NewAreaLight(shape *geometry.Shape, emittance core.Vec3) *Light {
	return &Light{Kind: LightArea, Shape: shape, Intensity: emittance}
}

// SetSceneRadius records the radius of the scene's bounding sphere, used to
// estimate the power of lights outside it
func (l *Light) SetSceneRadius(radius float64) {
	l.sceneRadius = radius
}

// IsDelta reports whether the light can only be reached by sampling it
func (l *Light) IsDelta() bool {
	return l.Kind == LightPoint || l.Kind == LightDistant
}

// SampleLi samples the light arriving at point. u selects the hemisphere for
// infinite lights and u2 the direction or surface point.
func (l *Light) SampleLi(point core.Vec3, u float64, u2 core.Vec2) LightSample {
	switch l.Kind {
	case LightPoint:
		toLight := l.Position.Subtract(point)
		distanceSquared := toLight.LengthSquared()
		distance := math.Sqrt(distanceSquared)
		wi := toLight.Divide(distance)
		return LightSample{
			Li:        l.Intensity.Divide(distanceSquared),
			Wi:        wi,
			Pdf:       core.DeltaPdf(),
			ShadowRay: core.NewBoundedRay(point, wi, distance),
		}

	case LightDistant:
		return LightSample{
			Li:        l.Intensity,
			Wi:        l.Direction,
			Pdf:       core.DeltaPdf(),
			ShadowRay: core.NewRay(point, l.Direction),
		}

	case LightInfinite:
		axis := core.NewVec3(1, 0, 0)
		if u >= 0.5 {
			axis = axis.Negate()
		}
		wi := core.SampleUniformHemisphere(axis, u2)
		return LightSample{
			Li:        l.Intensity,
			Wi:        wi,
			Pdf:       core.NonDeltaPdf(core.UniformSpherePdf),
			ShadowRay: core.NewRay(point, wi),
		}

	case LightArea:
		shapePoint, wi, pdf := l.Shape.SampleFrom(point, u2)
		distance := shapePoint.Subtract(point).Length()
		return LightSample{
			Li:        l.Intensity,
			Wi:        wi,
			Pdf:       pdf,
			ShadowRay: core.NewBoundedRay(point, wi, distance-core.Epsilon),
		}
	}
	return LightSample{Pdf: core.NonDeltaPdf(0)}
}

// PdfLi returns the density with which SampleLi would choose wi from point
func (l *Light) PdfLi(point, wi core.Vec3) core.Pdf {
	switch l.Kind {
	case LightInfinite:
		return core.NonDeltaPdf(core.UniformSpherePdf)
	case LightArea:
		return l.Shape.PdfFrom(point, wi)
	default:
		return core.DeltaPdf()
	}
}

// L is the radiance leaving an area light's surface towards wo. Area lights
// are two-sided.
func (l *Light) L(wo core.Vec3) core.Vec3 {
	if l.Kind != LightArea {
		return core.Black
	}
	return l.Intensity
}

// Le is the radiance arriving along a ray that left the scene in direction wo
func (l *Light) Le(wo core.Vec3) core.Vec3 {
	if l.Kind != LightInfinite {
		return core.Black
	}
	return l.Intensity
}

// Power is the total emitted flux, used to weight light selection
func (l *Light) Power() core.Vec3 {
	switch l.Kind {
	case LightPoint:
		return l.Intensity.Multiply(4 * math.Pi)
	case LightDistant, LightInfinite:
		return l.Intensity.Multiply(math.Pi * l.sceneRadius * l.sceneRadius)
	case LightArea:
		return l.Intensity.Multiply(math.Pi * l.Shape.Area())
	}
	return core.Black
}

func (l *Light) String() string {
	switch l.Kind {
	case LightPoint:
		return fmt.Sprintf("PointLight{position: %v, intensity: %v}", l.Position, l.Intensity)
	case LightDistant:
		return fmt.Sprintf("DistantLight{direction: %v, intensity: %v}", l.Direction, l.Intensity)
	case LightInfinite:
		return fmt.Sprintf("InfiniteLight{intensity: %v}", l.Intensity)
	case LightArea:
		return fmt.Sprintf("AreaLight{shape: %v, emittance: %v}", l.Shape, l.Intensity)
	}
	return l.Kind.String()
}
