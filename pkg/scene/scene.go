package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/log"
)

var logger = log.New("scene")

var (
	// ErrNoPrimitives is returned when a scene has nothing to intersect
	ErrNoPrimitives = errors.New("scene has no primitives")
	// ErrInvalidConfig is returned for out-of-range configuration values
	ErrInvalidConfig = errors.New("invalid scene configuration")
)

// LightSampling selects the distribution used to pick a light for NEE
type LightSampling int

const (
	LightSamplingPower LightSampling = iota
	LightSamplingUniform
)

func (l LightSampling) String() string {
	switch l {
	case LightSamplingPower:
		return "power"
	case LightSamplingUniform:
		return "uniform"
	default:
		return fmt.Sprintf("LightSampling(%d)", int(l))
	}
}

// ParseLightSampling converts "power" or "uniform" into a LightSampling
func ParseLightSampling(name string) (LightSampling, error) {
	switch strings.ToLower(name) {
	case "power", "":
		return LightSamplingPower, nil
	case "uniform":
		return LightSamplingUniform, nil
	}
	return LightSamplingPower, fmt.Errorf("%w: unknown light sampling %q", ErrInvalidConfig, name)
}

// Config contains the scene-level rendering configuration
type Config struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of camera rays per pixel
	MaxDepth        int // Maximum number of path bounces
	Split           SplitMethod
	LightSampling   LightSampling
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          400,
		SamplesPerPixel: 64,
		MaxDepth:        8,
		Split:           SplitMedian,
		LightSampling:   LightSamplingPower,
	}
}

// Validate checks that every value is usable
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: film size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// Scene holds everything needed to render: it is built once and then only
// read, so any number of workers may query it concurrently
type Scene struct {
	Camera       *geometry.Camera
	Lights       []*lights.Light
	LightSampler lights.LightSampler
	BVH          *BVH
	Config       Config

	Center core.Vec3 // Center of the scene's bounding sphere
	Radius float64   // Radius of the scene's bounding sphere

	lightIndex map[*lights.Light]int
}

// New validates the configuration, builds the BVH over primitives and
// prepares the light sampling distribution
func New(camera *geometry.Camera, primitives []*Primitive, sceneLights []*lights.Light, config Config) (*Scene, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: missing camera", ErrInvalidConfig)
	}
	if len(primitives) == 0 {
		return nil, ErrNoPrimitives
	}

	bvh := NewBVH(primitives, config.Split)
	center, radius := bvh.Bounds().BoundingSphere()
	logger.Debugf("bvh (%s split): %v", config.Split, bvh.Stats())

	lightIndex := make(map[*lights.Light]int, len(sceneLights))
	for i, light := range sceneLights {
		// Lights outside the scene need its size to estimate their power
		light.SetSceneRadius(radius)
		lightIndex[light] = i
	}

	var sampler lights.LightSampler
	switch config.LightSampling {
	case LightSamplingUniform:
		sampler = lights.NewUniformLightSampler(sceneLights)
	default:
		sampler = lights.NewPowerLightSampler(sceneLights)
	}
	if len(sceneLights) == 0 {
		logger.Warning("scene has no lights; only emission from escaping rays is possible")
	}

	return &Scene{
		Camera:       camera,
		Lights:       sceneLights,
		LightSampler: sampler,
		BVH:          bvh,
		Config:       config,
		Center:       center,
		Radius:       radius,
		lightIndex:   lightIndex,
	}, nil
}

// Intersect finds the nearest hit along ray, shrinking its MaxDistance
func (s *Scene) Intersect(ray *core.Ray) (Intersection, bool) {
	return s.BVH.Intersect(ray)
}

// Intersects reports whether anything blocks ray before its MaxDistance
func (s *Scene) Intersects(ray core.Ray) bool {
	return s.BVH.Intersects(ray)
}

// LightIndex returns the position of light in Lights
func (s *Scene) LightIndex(light *lights.Light) (int, bool) {
	i, ok := s.lightIndex[light]
	return i, ok
}

// MaxDepth is the maximum number of bounces per path
func (s *Scene) MaxDepth() int {
	return s.Config.MaxDepth
}
