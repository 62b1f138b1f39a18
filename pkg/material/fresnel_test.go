package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/banga/craytracer-sub000/pkg/core"
)

func TestReflect_AngleAndPlane(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	n := core.NewVec3(0, 1, 0)

	for i := 0; i < 100; i++ {
		wo := core.NewVec3(random.Float64()*2-1, random.Float64(), random.Float64()*2-1).Normalize()
		wi := Reflect(wo, n)

		if math.Abs(wi.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit reflection, got length %v", wi.Length())
		}
		// Equal angles with the normal
		if math.Abs(wo.Dot(n)-wi.Dot(n)) > 1e-9 {
			t.Fatalf("Angle mismatch: wo·n=%v wi·n=%v", wo.Dot(n), wi.Dot(n))
		}
		// Coplanar with wo and n
		if math.Abs(wi.Dot(wo.Cross(n))) > 1e-9 {
			t.Fatalf("Reflection %v not in the plane of %v and %v", wi, wo, n)
		}
	}
}

func TestRefract_EqualIndicesPassesThrough(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	tests := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 1).Normalize(),
		core.NewVec3(0.3, -0.4, 0.5).Normalize(),
		core.NewVec3(0.2, 0.1, -0.9).Normalize(), // from inside
	}

	for _, wo := range tests {
		wi, ok := Refract(wo, n, wo.Dot(n), 1.33, 1.33)
		if !ok {
			t.Fatalf("Expected refraction for %v", wo)
		}
		if wi.Subtract(wo.Negate()).Length() > 1e-9 {
			t.Errorf("Expected %v to continue as %v, got %v", wo, wo.Negate(), wi)
		}
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(math.Sin(0.6), 0, math.Cos(0.6))

	wi, ok := Refract(wo, n, wo.Dot(n), 1, 1.5)
	if !ok {
		t.Fatal("Expected refraction entering glass")
	}
	sinI := math.Sin(0.6)
	sinT := math.Sqrt(wi.X*wi.X + wi.Y*wi.Y)
	if math.Abs(sinI-1.5*sinT) > 1e-9 {
		t.Errorf("Snell's law violated: sinI=%v, 1.5*sinT=%v", sinI, 1.5*sinT)
	}
	if wi.Z >= 0 {
		t.Errorf("Expected transmitted direction below the surface, got %v", wi)
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	// Leaving glass at 60 degrees exceeds the critical angle (~41.8)
	wo := core.NewVec3(math.Sin(math.Pi/3), 0, -math.Cos(math.Pi/3))
	if _, ok := Refract(wo, n, wo.Dot(n), 1, 1.5); ok {
		t.Error("Expected total internal reflection")
	}
	if r := FresnelDielectricReflectance(1, 1.5, wo.Dot(n)); r != 1 {
		t.Errorf("Expected reflectance 1 under TIR, got %v", r)
	}
}

func TestFresnelDielectric_Values(t *testing.T) {
	// Normal incidence air->glass: ((1.5-1)/(1.5+1))^2 = 0.04
	r := FresnelDielectricReflectance(1, 1.5, 1)
	if math.Abs(r-0.04) > 1e-9 {
		t.Errorf("Expected 0.04 at normal incidence, got %v", r)
	}

	// Same at normal incidence from inside
	r = FresnelDielectricReflectance(1, 1.5, -1)
	if math.Abs(r-0.04) > 1e-9 {
		t.Errorf("Expected 0.04 from inside, got %v", r)
	}

	// Grazing incidence reflects everything
	r = FresnelDielectricReflectance(1, 1.5, 1e-6)
	if r < 0.99 {
		t.Errorf("Expected ~1 at grazing incidence, got %v", r)
	}

	// Monotonic towards grazing
	prev := 0.0
	for cos := 1.0; cos > 0.05; cos -= 0.05 {
		r := FresnelDielectricReflectance(1, 1.5, cos)
		if r < prev-1e-12 {
			t.Fatalf("Reflectance decreased from %v to %v at cos=%v", prev, r, cos)
		}
		prev = r
	}
}

func TestFresnelConductor_Values(t *testing.T) {
	// With k=0 the conductor formula reduces to the dielectric one
	eta := core.NewVec3(1.5, 1.5, 1.5)
	for _, cos := range []float64{1, 0.8, 0.5, 0.2} {
		got := FresnelConductorReflectance(core.White, eta, core.Black, cos)
		want := FresnelDielectricReflectance(1, 1.5, cos)
		if math.Abs(got.X-want) > 1e-9 {
			t.Errorf("cos=%v: conductor %v != dielectric %v", cos, got.X, want)
		}
	}

	// Gold-ish index reflects strongly, and every channel stays in [0,1]
	gold := NewConductorFresnel(core.NewVec3(0.143, 0.374, 1.442), core.NewVec3(3.983, 2.385, 1.603))
	r := gold.Evaluate(0.7)
	for _, c := range []float64{r.X, r.Y, r.Z} {
		if c < 0 || c > 1 {
			t.Errorf("Reflectance channel out of range: %v", r)
		}
	}
	if r.X < 0.8 {
		t.Errorf("Expected strong red reflectance for gold, got %v", r)
	}
}

func TestFresnelNone(t *testing.T) {
	if got := (Fresnel{}).Evaluate(0.3); got != core.White {
		t.Errorf("Expected white, got %v", got)
	}
}
