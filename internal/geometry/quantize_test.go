package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeBelowThreshold(t *testing.T) {
	for angle := 0.0; angle < 2*math.Pi; angle += math.Pi / 17 {
		for _, r := range []float64{0, 1, 8, 15.9, 15.99} {
			v := Vector{DX: r * math.Cos(angle), DY: r * math.Sin(angle)}
			d, ok := Quantize(v)
			assert.False(t, ok, "r=%v angle=%v", r, angle)
			assert.Equal(t, None, d)
		}
	}

	for _, v := range []Vector{{DX: 16}, {DY: -16}, {DX: 0, DY: 16}} {
		_, ok := Quantize(v)
		assert.False(t, ok, "%+v", v)
	}
}

func TestQuantizeCardinal(t *testing.T) {
	tests := []struct {
		name  string
		delta Vector
		want  Direction
	}{
		{"right", Vector{DX: 30}, Right},
		{"left", Vector{DX: -30}, Left},
		{"up", Vector{DY: -30}, Up},
		{"down", Vector{DY: 30}, Down},
		{"mostly right", Vector{DX: 40, DY: 10}, Right},
		{"mostly up", Vector{DX: -5, DY: -40}, Up},
		{"mostly down", Vector{DX: 10, DY: 25}, Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Quantize(tt.delta)
			require.True(t, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestQuantizeScaleInvariant(t *testing.T) {
	for angle := 0.01; angle < 2*math.Pi; angle += 0.13 {
		base := Vector{DX: 20 * math.Sin(angle), DY: 20 * math.Cos(angle)}
		want, ok := Quantize(base)
		require.True(t, ok)
		for _, k := range []float64{1.5, 3, 10, 1000} {
			got, ok := Quantize(base.Scale(k))
			require.True(t, ok)
			assert.Equal(t, want, got, "angle=%v k=%v", angle, k)
		}
	}
}

func TestQuantizeSectorBoundaryDeterministic(t *testing.T) {
	// φ = π/4 + ε in the transposed frame sits just inside the right sector.
	phi := math.Pi/4 + 1e-9
	v := Vector{DX: 100 * math.Sin(phi), DY: 100 * math.Cos(phi)}
	for i := 0; i < 100; i++ {
		d, ok := Quantize(v)
		require.True(t, ok)
		assert.Equal(t, Right, d)
	}

	phi = math.Pi/4 - 1e-9
	v = Vector{DX: 100 * math.Sin(phi), DY: 100 * math.Cos(phi)}
	d, _ := Quantize(v)
	assert.Equal(t, Down, d)
}

func TestQuantizeNonFinite(t *testing.T) {
	_, ok := Quantize(Vector{DX: math.NaN(), DY: 50})
	assert.False(t, ok)
	_, ok = Quantize(Vector{DX: math.Inf(1), DY: 0})
	assert.False(t, ok)
}

func TestRect(t *testing.T) {
	assert.True(t, Rect{Width: 0, Height: 10}.Empty())
	assert.True(t, Rect{Width: -1, Height: 10}.Empty())
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.False(t, r.Empty())
	assert.Equal(t, 25.0, r.Area())
	assert.Equal(t, Point{X: 13, Y: 7}, Point{X: 10, Y: 10}.Add(Vector{DX: 3, DY: -3}))
}
