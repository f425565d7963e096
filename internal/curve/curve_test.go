package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseEndpoints(t *testing.T) {
	for _, shape := range [][2]float64{{0.5, 0.5}, {0, 1}, {1, 0}, {0.2, 0.9}, {0.9, 0.1}} {
		assert.InDelta(t, 0, Ease(0, shape[0], shape[1]), 1e-9, "shape %v", shape)
		assert.InDelta(t, 1, Ease(1, shape[0], shape[1]), 1e-9, "shape %v", shape)
	}
}

func TestEaseDefaultIsLinear(t *testing.T) {
	for _, x := range []float64{0.1, 0.25, 0.5, 0.8} {
		assert.InDelta(t, x, Ease(x, DefaultA, DefaultB), 1e-9)
	}
}

func TestEaseMonotonic(t *testing.T) {
	shapes := [][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0.3, 0.7}, {0.95, 0.05}}
	for _, s := range shapes {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			v := Ease(float64(i)/100, s[0], s[1])
			assert.GreaterOrEqual(t, v, prev-1e-12, "shape %v at %d", s, i)
			prev = v
		}
	}
}

func TestEaseClampsInput(t *testing.T) {
	assert.Equal(t, Ease(0, 0.3, 0.6), Ease(-4, 0.3, 0.6))
	assert.Equal(t, Ease(1, 0.3, 0.6), Ease(9, 0.3, 0.6))
}

func TestValueRangeNormalize(t *testing.T) {
	assert.InDelta(t, 0.5, DefaultRange.Normalize(0), 1e-12)
	assert.InDelta(t, 0.75, DefaultRange.Normalize(1.5), 1e-12)
	assert.InDelta(t, 1.5, DefaultRange.Denormalize(0.75), 1e-12)

	flat := ValueRange{Min: 1, Max: 1}
	assert.False(t, flat.Normalize(2) != flat.Normalize(2), "must not be NaN")
}
