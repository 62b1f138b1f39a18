package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
)

// ErrUnknownScene is returned by Load for names that are not built in
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
}

type builtinScene struct {
	description string
	build       func(config Config) (*Scene, error)
}

var builtinScenes = map[string]builtinScene{
	"simple": {
		description: "Diffuse sphere on a checkerboard disk lit by a point light",
		build:       NewSimpleScene,
	},
	"cornell": {
		description: "Cornell box with triangle walls, a ceiling area light, a box and a glass sphere",
		build:       NewCornellScene,
	},
	"glass": {
		description: "Glass, metal, mirror and plastic spheres under an environment and a distant light",
		build:       NewGlassScene,
	},
	"spheregrid": {
		description: "10x10 grid of colored spheres for BVH stress testing",
		build:       NewSphereGridScene,
	},
}

// Load builds the named built-in scene with the given configuration
func Load(name string, config Config) (*Scene, error) {
	builtin, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	s, err := builtin.build(config)
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", name, err)
	}
	return s, nil
}

// List returns the built-in scenes sorted by name
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtinScenes))
	for name, builtin := range builtinScenes {
		infos = append(infos, SceneInfo{Name: name, Description: builtin.description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// newCamera creates a camera with the film size from config
func newCamera(config Config, origin, target core.Vec3, vfov float64) *geometry.Camera {
	return geometry.NewCamera(geometry.CameraConfig{
		Origin: origin,
		Target: target,
		Up:     core.NewVec3(0, 1, 0),
		VFov:   vfov,
		Width:  config.Width,
		Height: config.Height,
	})
}

// newAreaLights turns every shape into a separate area light and returns the
// emissive primitives with their lights
func newAreaLights(shapes []*geometry.Shape, emittance core.Vec3) ([]*Primitive, []*lights.Light) {
	primitives := make([]*Primitive, len(shapes))
	areaLights := make([]*lights.Light, len(shapes))
	for i, shape := range shapes {
		areaLights[i] = lights.NewAreaLight(shape, emittance)
		primitives[i] = NewEmissivePrimitive(areaLights[i])
	}
	return primitives, areaLights
}

// groundDisk creates a horizontal disk facing +y
func groundDisk(center core.Vec3, radius float64) *geometry.Shape {
	transform := core.Rotate(-90, core.NewVec3(1, 0, 0)).Then(core.Translate(center))
	return geometry.NewDisk(&transform, radius, 0)
}
