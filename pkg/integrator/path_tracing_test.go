package integrator

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/geometry"
	"github.com/banga/craytracer-sub000/pkg/lights"
	"github.com/banga/craytracer-sub000/pkg/material"
	"github.com/banga/craytracer-sub000/pkg/scene"
)

// createTestScene wraps primitives and lights in a scene with a throwaway camera
func createTestScene(t *testing.T, primitives []*scene.Primitive, sceneLights []*lights.Light, maxDepth int) *scene.Scene {
	t.Helper()
	config := scene.DefaultConfig()
	config.MaxDepth = maxDepth
	return createTestSceneWithConfig(t, primitives, sceneLights, config)
}

func createTestSceneWithConfig(t *testing.T, primitives []*scene.Primitive, sceneLights []*lights.Light, config scene.Config) *scene.Scene {
	t.Helper()
	config.Width, config.Height = 8, 8

	camera := geometry.NewCamera(geometry.CameraConfig{
		Origin: core.NewVec3(0, 0, -10),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
		Width:  config.Width,
		Height: config.Height,
	})
	s, err := scene.New(camera, primitives, sceneLights, config)
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	return s
}

func matte(r float64) *material.Material {
	return material.NewMatte(material.NewConstantTexture(core.NewVec3(r, r, r)), 0)
}

// checkedIntegrator is implemented by both integrators
type checkedIntegrator interface {
	Integrator
	EstimateLiChecked(sampler core.Sampler, ray core.Ray, s *scene.Scene) (core.Vec3, error)
}

func integrators() map[string]checkedIntegrator {
	return map[string]checkedIntegrator{
		"path":   NewPathIntegrator(),
		"simple": NewSimpleIntegrator(),
	}
}

// meanLi averages n estimates along ray, failing on any reported error
func meanLi(t *testing.T, integrator checkedIntegrator, s *scene.Scene, ray core.Ray, n int, seed int64) core.Vec3 {
	t.Helper()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	sum := core.Black
	for i := 0; i < n; i++ {
		L, err := integrator.EstimateLiChecked(sampler, ray, s)
		if err != nil {
			t.Fatalf("Unexpected error on sample %d: %v", i, err)
		}
		sum = sum.Add(L)
	}
	return sum.Divide(float64(n))
}

func TestEstimateLi_PointLitSphereApex(t *testing.T) {
	// A lone convex sphere under a point light: every BSDF-sampled ray
	// escapes into darkness, so the estimate is exactly the direct term
	intensity := 10.0
	reflectance := 0.8
	s := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), matte(reflectance))},
		[]*lights.Light{lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(intensity, intensity, intensity))},
		5,
	)

	// Apex at (0,1,0), 4 units below the light, cos θ = 1
	expected := intensity / 16 * reflectance / math.Pi
	ray := core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0))

	for name, integrator := range integrators() {
		t.Run(name, func(t *testing.T) {
			mean := meanLi(t, integrator, s, ray, 200, 1)
			for _, c := range []float64{mean.X, mean.Y, mean.Z} {
				if math.Abs(c-expected) > 1e-6 {
					t.Errorf("Expected apex radiance %v, got %v", expected, mean)
				}
			}
		})
	}
}

func TestEstimateLi_MissIsBlack(t *testing.T) {
	s := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), matte(0.8))},
		[]*lights.Light{lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(10, 10, 10))},
		5,
	)
	ray := core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, 1, 0))

	for name, integrator := range integrators() {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
		if L := integrator.EstimateLi(sampler, ray, s); L != core.Black {
			t.Errorf("%s: expected exactly black for a miss, got %v", name, L)
		}
	}
}

func TestEstimateLi_EscapeToInfiniteLight(t *testing.T) {
	sky := core.NewVec3(0.2, 0.4, 0.9)
	s := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), matte(0.8))},
		[]*lights.Light{lights.NewInfiniteLight(sky)},
		5,
	)
	ray := core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, 1, 0))

	for name, integrator := range integrators() {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
		if L := integrator.EstimateLi(sampler, ray, s); L != sky {
			t.Errorf("%s: expected camera ray to see the sky %v, got %v", name, sky, L)
		}
	}
}

func TestEstimateLi_DiffuseFurnace(t *testing.T) {
	// Every point of a convex sphere sees a full hemisphere of uniform sky,
	// so outgoing radiance equals reflectance times sky radiance
	reflectance := 0.5
	s := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), matte(reflectance))},
		[]*lights.Light{lights.NewInfiniteLight(core.White)},
		5,
	)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
		core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
		core.NewRay(core.NewVec3(0.6, 0.3, -5), core.NewVec3(0, 0, 1)),
	}
	for name, integrator := range integrators() {
		for i, ray := range rays {
			mean := meanLi(t, integrator, s, ray, 20000, int64(i))
			if math.Abs(mean.X-reflectance) > 0.03 {
				t.Errorf("%s ray %d: expected furnace radiance %v, got %v", name, i, reflectance, mean)
			}
		}
	}
}

func TestEstimateLi_DiffuseFloorUnderSky(t *testing.T) {
	// A lone floor sees a hemisphere of uniform sky, so it reflects exactly
	// reflectance * sky. The MIS integrator finds the sky through both light
	// and BSDF samples and must weight them to the same total as light
	// sampling alone.
	reflectance, sky := 0.5, 0.3
	floor, ok := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0))
	if !ok {
		t.Fatal("Expected valid floor")
	}
	s := createTestScene(t,
		scene.NewPrimitives(floor, matte(reflectance)),
		[]*lights.Light{lights.NewInfiniteLight(core.NewVec3(sky, sky, sky))},
		3,
	)

	expected := reflectance * sky
	ray := core.NewRay(core.NewVec3(0.3, 1, 0.2), core.NewVec3(0, -1, 0))
	for name, integrator := range integrators() {
		mean := meanLi(t, integrator, s, ray, 40000, 21)
		if math.Abs(mean.X-expected) > 0.006 {
			t.Errorf("%s: expected %v, got %v", name, expected, mean)
		}
	}
}

func TestEstimateLi_NonFiniteLightSample(t *testing.T) {
	// A black floor cannot scatter, so the path ends right after the NaN
	// light sample is added
	floor, ok := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0))
	if !ok {
		t.Fatal("Expected valid floor")
	}
	nan := math.NaN()
	config := scene.DefaultConfig()
	config.MaxDepth = 4
	config.LightSampling = scene.LightSamplingUniform
	s := createTestSceneWithConfig(t,
		scene.NewPrimitives(floor, matte(0)),
		[]*lights.Light{lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(nan, nan, nan))},
		config,
	)

	ray := core.NewRay(core.NewVec3(0.3, 1, 0.2), core.NewVec3(0, -1, 0))
	for name, integrator := range integrators() {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))
		L, err := integrator.EstimateLiChecked(sampler, ray, s)
		if !errors.Is(err, ErrNonFinite) {
			t.Errorf("%s: expected ErrNonFinite, got %v", name, err)
		}
		if !L.IsFinite() {
			t.Errorf("%s: expected a finite estimate, got %v", name, L)
		}
		if L := integrator.EstimateLi(sampler, ray, s); !L.IsFinite() {
			t.Errorf("%s: EstimateLi returned %v", name, L)
		}
	}
}

func TestEstimateLi_SpecularSurfaceSkipsLightSampling(t *testing.T) {
	// A mirror cannot reflect a sampled light direction, so the NaN light is
	// never evaluated and the reflected ray escapes into darkness
	floor, ok := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0))
	if !ok {
		t.Fatal("Expected valid floor")
	}
	nan := math.NaN()
	config := scene.DefaultConfig()
	config.MaxDepth = 4
	config.LightSampling = scene.LightSamplingUniform
	s := createTestSceneWithConfig(t,
		scene.NewPrimitives(floor, material.NewMirror(material.NewConstantTexture(core.White))),
		[]*lights.Light{lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(nan, nan, nan))},
		config,
	)

	ray := core.NewRay(core.NewVec3(0.3, 1, 0.2), core.NewVec3(0, -1, 0))
	for name, integrator := range integrators() {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(4)))
		L, err := integrator.EstimateLiChecked(sampler, ray, s)
		if err != nil || L != core.Black {
			t.Errorf("%s: expected black without error, got %v, %v", name, L, err)
		}
	}
}

func TestEstimateLi_GlassFurnace(t *testing.T) {
	// A lossless dielectric neither absorbs nor emits, so every path
	// eventually leaves carrying the full sky radiance
	white := material.NewConstantTexture(core.White)
	s := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), material.NewGlass(1.5, white, white))},
		[]*lights.Light{lights.NewInfiniteLight(core.White)},
		64,
	)

	random := rand.New(rand.NewSource(7))
	for name, integrator := range integrators() {
		sampler := core.NewRandomSampler(random)
		sum := 0.0
		n := 5000
		for i := 0; i < n; i++ {
			offset := core.SampleConcentricDisk(core.NewVec2(random.Float64(), random.Float64())).Multiply(0.95)
			ray := core.NewRay(core.NewVec3(offset.X, offset.Y, -5), core.NewVec3(0, 0, 1))
			L, err := integrator.EstimateLiChecked(sampler, ray, s)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			sum += L.Y
		}
		if mean := sum / float64(n); math.Abs(mean-1) > 0.02 {
			t.Errorf("%s: expected glass furnace radiance 1, got %v", name, mean)
		}
	}
}

func TestEstimateLi_AreaLightIntegratorsAgree(t *testing.T) {
	// With depth 2 both integrators compute only direct lighting from the
	// area light, one with MIS and one with light sampling alone
	floor, ok := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0))
	if !ok {
		t.Fatal("Expected valid floor")
	}
	lightShapes, ok := geometry.NewQuad(core.NewVec3(-0.5, 2, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	if !ok {
		t.Fatal("Expected valid light")
	}

	primitives := scene.NewPrimitives(floor, matte(0.5))
	var areaLights []*lights.Light
	for _, shape := range lightShapes {
		light := lights.NewAreaLight(shape, core.NewVec3(5, 5, 5))
		areaLights = append(areaLights, light)
		primitives = append(primitives, scene.NewEmissivePrimitive(light))
	}
	s := createTestScene(t, primitives, areaLights, 2)

	ray := core.NewRay(core.NewVec3(0.3, 1, 0.2), core.NewVec3(0, -1, 0))
	path := meanLi(t, NewPathIntegrator(), s, ray, 40000, 11)
	simple := meanLi(t, NewSimpleIntegrator(), s, ray, 40000, 12)

	if path.X <= 0 {
		t.Fatalf("Expected lit floor, got %v", path)
	}
	if math.Abs(path.X-simple.X)/simple.X > 0.03 {
		t.Errorf("Expected integrators to agree, path=%v simple=%v", path, simple)
	}

	// Looking straight at the light counts its emission in full
	up := core.NewRay(core.NewVec3(0.2, 1, -0.1), core.NewVec3(0, 1, 0))
	if L := meanLi(t, NewPathIntegrator(), s, up, 1, 1); math.Abs(L.X-5) > 1e-9 {
		t.Errorf("Expected direct view of the light to be 5, got %v", L)
	}
}

func TestEstimateLi_UnregisteredLight(t *testing.T) {
	floor, _ := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0))
	stray := lights.NewAreaLight(geometry.NewSphereAt(core.NewVec3(0, 1.5, 0), 1), core.White)
	primitives := append(scene.NewPrimitives(floor, matte(0.5)), scene.NewEmissivePrimitive(stray))
	s := createTestScene(t, primitives, []*lights.Light{lights.NewPointLight(core.NewVec3(3, 3, 0), core.White)}, 4)

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(5)))
	ray := core.NewRay(core.NewVec3(2, 1, 0), core.NewVec3(0, -1, 0))
	for i := 0; i < 1000; i++ {
		if _, err := NewPathIntegrator().EstimateLiChecked(sampler, ray, s); err != nil {
			if !errors.Is(err, ErrUnregisteredLight) {
				t.Fatalf("Expected ErrUnregisteredLight, got %v", err)
			}
			return
		}
	}
	t.Error("Expected a BSDF sample to reach the unregistered light")
}

// countingSampler records the dimension of every sample requested
type countingSampler struct {
	calls []int
}

func (c *countingSampler) Get1D() float64 {
	c.calls = append(c.calls, 1)
	return 0.5
}

func (c *countingSampler) Get2D() core.Vec2 {
	c.calls = append(c.calls, 2)
	return core.NewVec2(0.5, 0.5)
}

func TestEstimateLi_FixedSampleOrder(t *testing.T) {
	pointLit := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), matte(0.8))},
		[]*lights.Light{lights.NewPointLight(core.NewVec3(0, 5, 0), core.White)},
		5,
	)
	mirrored := createTestScene(t,
		[]*scene.Primitive{scene.NewPrimitive(geometry.NewSphereAt(core.Vec3{}, 1), material.NewMirror(material.NewConstantTexture(core.White)))},
		[]*lights.Light{lights.NewInfiniteLight(core.White)},
		5,
	)
	vertex := []int{1, 2, 1, 1, 2, 1}

	tests := []struct {
		name     string
		s        *scene.Scene
		ray      core.Ray
		vertices int
	}{
		{"miss", pointLit, core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, 1, 0)), 0},
		{"diffuse", pointLit, core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0)), 1},
		{"mirror", mirrored, core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0)), 1},
	}

	for _, tt := range tests {
		for name, integrator := range integrators() {
			sampler := &countingSampler{}
			integrator.EstimateLi(sampler, tt.ray, tt.s)

			if len(sampler.calls) != tt.vertices*len(vertex) {
				t.Errorf("%s/%s: expected %d samples, got %v", tt.name, name, tt.vertices*len(vertex), sampler.calls)
				continue
			}
			for i, dim := range sampler.calls {
				if dim != vertex[i%len(vertex)] {
					t.Errorf("%s/%s: sample %d has dimension %d, expected %d", tt.name, name, i, dim, vertex[i%len(vertex)])
				}
			}
		}
	}
}

func TestRussianRoulette(t *testing.T) {
	t.Run("unbiased", func(t *testing.T) {
		beta := core.NewVec3(0.3, 0.2, 0.1)
		n := 100000
		sum := core.Black
		for i := 0; i < n; i++ {
			u := (float64(i) + 0.5) / float64(n)
			if survived, ok := russianRoulette(beta, u); ok {
				sum = sum.Add(survived)
			}
		}
		mean := sum.Divide(float64(n))
		if mean.Subtract(beta).Length() > 1e-4 {
			t.Errorf("Expected mean throughput %v, got %v", beta, mean)
		}
	})

	t.Run("bright paths always survive", func(t *testing.T) {
		beta := core.NewVec3(1.5, 0.1, 0.1)
		for _, u := range []float64{0, 0.5, 0.999} {
			got, ok := russianRoulette(beta, u)
			if !ok || got != beta {
				t.Errorf("Expected unchanged survival for u=%v, got %v (%v)", u, got, ok)
			}
		}
	})

	t.Run("black paths always terminate", func(t *testing.T) {
		if _, ok := russianRoulette(core.Black, 0.999); ok {
			t.Error("Expected black throughput to terminate")
		}
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"path", KindPath},
		{"", KindPath},
		{"Simple", KindSimple},
	}
	for _, tt := range tests {
		kind, err := Parse(tt.name)
		if err != nil || kind != tt.kind {
			t.Errorf("Parse(%q): expected %v, got %v (%v)", tt.name, tt.kind, kind, err)
		}
	}
	if _, err := Parse("bdpt"); !errors.Is(err, ErrUnknownIntegrator) {
		t.Errorf("Expected ErrUnknownIntegrator, got %v", err)
	}

	if _, ok := New(KindSimple).(*SimpleIntegrator); !ok {
		t.Error("Expected simple integrator")
	}
	if _, ok := New(KindPath).(*PathIntegrator); !ok {
		t.Error("Expected path integrator")
	}
}
