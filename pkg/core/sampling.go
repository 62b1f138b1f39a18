package core

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// PixelSampler is a Sampler that can be repositioned on a pixel sample, so the
// same (pixel, sample index) always yields the same sequence.
type PixelSampler interface {
	Sampler
	StartPixel(x, y, sampleIndex int)
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// StartPixel is a no-op; a RandomSampler just keeps drawing from its stream
func (r *RandomSampler) StartPixel(x, y, sampleIndex int) {}

// IndependentSampler draws independent uniform samples from a generator that
// is reseeded from a hash of (seed, x, y, sampleIndex) on every StartPixel.
// Images are reproducible regardless of how tiles are scheduled across workers.
type IndependentSampler struct {
	seed   uint64
	random *rand.Rand
}

// NewIndependentSampler creates a sampler for the given global seed
func NewIndependentSampler(seed uint64) *IndependentSampler {
	return &IndependentSampler{
		seed:   seed,
		random: rand.New(rand.NewSource(int64(seed))),
	}
}

// StartPixel reseeds the generator for one pixel sample
func (s *IndependentSampler) StartPixel(x, y, sampleIndex int) {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], s.seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(x))
	binary.LittleEndian.PutUint64(buf[16:], uint64(y))
	binary.LittleEndian.PutUint64(buf[24:], uint64(sampleIndex))

	h := fnv.New64a()
	h.Write(buf[:])
	s.random.Seed(int64(h.Sum64()))
}

// Get1D returns a random float64 in [0, 1)
func (s *IndependentSampler) Get1D() float64 {
	return s.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (s *IndependentSampler) Get2D() Vec2 {
	return NewVec2(s.random.Float64(), s.random.Float64())
}

// UniformSampler returns the centers of an nx by ny grid, one cell per sample
// index. Samples are correlated across dimensions, so it is only useful for
// visualising warps and for tests.
type UniformSampler struct {
	nx, ny      int
	sampleIndex int
}

// NewUniformSampler creates a grid sampler with nx*ny samples per pixel
func NewUniformSampler(nx, ny int) *UniformSampler {
	return &UniformSampler{nx: nx, ny: ny}
}

// NumSamples returns the number of grid cells
func (s *UniformSampler) NumSamples() int {
	return s.nx * s.ny
}

// StartPixel selects the grid cell for sampleIndex
func (s *UniformSampler) StartPixel(x, y, sampleIndex int) {
	s.sampleIndex = sampleIndex
}

// Get1D returns the center of the sampleIndex-th of nx*ny slots in [0, 1)
func (s *UniformSampler) Get1D() float64 {
	return (float64(s.sampleIndex) + 0.5) / float64(s.nx*s.ny)
}

// Get2D returns the center of the current grid cell
func (s *UniformSampler) Get2D() Vec2 {
	x := s.sampleIndex % s.nx
	y := s.sampleIndex / s.nx
	return NewVec2(
		(float64(x)+0.5)/float64(s.nx),
		(float64(y)+0.5)/float64(s.ny),
	)
}

// PowerHeuristic returns the MIS weight of strategy f against strategy g,
// where nf and ng are sample counts and pf and pg the densities.
// Returns 0 when both densities are zero.
func PowerHeuristic(nf int, pf float64, ng int, pg float64) float64 {
	f := float64(nf) * pf
	g := float64(ng) * pg
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// SampleConcentricDisk maps a point in [0,1)² to the unit disk using
// Shirley's concentric mapping
func SampleConcentricDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	u := 2*sample.X - 1
	v := 2*sample.Y - 1
	if u == 0 && v == 0 {
		return NewVec2(0, 0)
	}

	var theta, r float64
	if math.Abs(u) > math.Abs(v) {
		r = u
		theta = math.Pi / 4 * (v / u)
	} else {
		r = v
		theta = math.Pi/2 - math.Pi/4*(u/v)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleUniformSphere generates a uniform direction on the unit sphere
func SampleUniformSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePdf is the solid-angle density of SampleUniformSphere
const UniformSpherePdf = 1.0 / (4.0 * math.Pi)

// SampleUniformTriangle returns uniformly distributed barycentric coordinates
// (b0, b1); the third is 1 - b0 - b1
func SampleUniformTriangle(sample Vec2) (float64, float64) {
	su := math.Sqrt(sample.X)
	return 1 - su, sample.Y * su
}

// SampleCosineHemisphere generates a cosine-weighted direction in the
// hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	d := SampleConcentricDisk(sample)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))

	tangent, bitangent := normal.Tangents()
	return tangent.Multiply(d.X).Add(bitangent.Multiply(d.Y)).Add(normal.Multiply(z))
}

// SampleUniformHemisphere generates a uniform direction in the hemisphere
// around normal
func SampleUniformHemisphere(normal Vec3, sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y

	tangent, bitangent := normal.Tangents()
	return tangent.Multiply(r * math.Cos(phi)).Add(bitangent.Multiply(r * math.Sin(phi))).Add(normal.Multiply(z))
}
