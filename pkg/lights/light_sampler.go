package lights

import (
	"fmt"
	"strings"
)

// LightSampler chooses which light to sample for next-event estimation
type LightSampler interface {
	// Sample picks a light index with u in [0,1) and returns it with its
	// selection probability. Returns -1 when there are no lights.
	Sample(u float64) (int, float64)

	// Pdf returns the probability that Sample picks index
	Pdf(index int) float64

	// Len returns the number of lights
	Len() int
}

// WeightedLightSampler picks lights with fixed probabilities
type WeightedLightSampler struct {
	weights []float64
	name    string
}

// NewWeightedLightSampler creates a sampler from non-negative weights, which
// are normalized to sum to 1. All-zero weights fall back to uniform.
func NewWeightedLightSampler(weights []float64) *WeightedLightSampler {
	return newWeightedLightSampler("weighted", weights)
}

func newWeightedLightSampler(name string, weights []float64) *WeightedLightSampler {
	normalized := make([]float64, len(weights))
	total := 0.0
	for _, weight := range weights {
		if weight < 0 {
			panic("weights must be non-negative")
		}
		total += weight
	}

	for i, weight := range weights {
		if total == 0 {
			normalized[i] = 1 / float64(len(weights))
		} else {
			normalized[i] = weight / total
		}
	}

	return &WeightedLightSampler{weights: normalized, name: name}
}

// NewUniformLightSampler gives every light the same probability
func NewUniformLightSampler(lights []*Light) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i := range weights {
		weights[i] = 1
	}
	return newWeightedLightSampler("uniform", weights)
}

// NewPowerLightSampler picks lights in proportion to the luminance of their
// power. Scene radius must already be set on distant and infinite lights.
func NewPowerLightSampler(lights []*Light) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = max(0, light.Power().Luminance())
	}
	return newWeightedLightSampler("power", weights)
}

func (s *WeightedLightSampler) Sample(u float64) (int, float64) {
	if len(s.weights) == 0 {
		return -1, 0
	}

	cumulative := 0.0
	for i, weight := range s.weights {
		cumulative += weight
		if u < cumulative {
			return i, weight
		}
	}

	// Rounding left u above the final sum; take the last light with weight
	for i := len(s.weights) - 1; i >= 0; i-- {
		if s.weights[i] > 0 {
			return i, s.weights[i]
		}
	}
	return -1, 0
}

func (s *WeightedLightSampler) Pdf(index int) float64 {
	if index < 0 || index >= len(s.weights) {
		return 0
	}
	return s.weights[index]
}

func (s *WeightedLightSampler) Len() int {
	return len(s.weights)
}

func (s *WeightedLightSampler) String() string {
	if len(s.weights) == 0 {
		return fmt.Sprintf("%sLightSampler{no lights}", s.name)
	}
	parts := make([]string, len(s.weights))
	for i, weight := range s.weights {
		parts[i] = fmt.Sprintf("[%d] %.1f%%", i, weight*100)
	}
	return fmt.Sprintf("%sLightSampler{%s}", s.name, strings.Join(parts, ", "))
}
