package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersection(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Identical", []float64{0.6, 0.8, 0, 0}, []float64{0.6, 0.8, 0, 0}, 1.4},
		{"Disjoint", []float64{1, 0, 0, 0}, []float64{0, 1, 0, 0}, 0},
		{"Partial", []float64{0.8, 0.6, 0, 0}, []float64{0.6, 0.8, 0, 0}, 1.2},
		{"Zero", []float64{0, 0}, []float64{0, 0}, 0},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersection(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Identical", []float64{0.6, 0.8, 0, 0}, []float64{0.6, 0.8, 0, 0}, 1},
		{"Disjoint", []float64{1, 0, 0, 0}, []float64{0, 1, 0, 0}, -1.0 / 3.0},
		{"Partial", []float64{0.8, 0.6, 0, 0}, []float64{0.6, 0.8, 0, 0}, 0.47 / 0.51},
		{"Opposite", []float64{1, 0}, []float64{0, 1}, -1},
		// Zero variance yields NaN from the raw coefficient; compared as 1.
		{"Constant", []float64{0.5, 0.5, 0.5}, []float64{0.5, 0.5, 0.5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Correlation(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestChiSquare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Identical", []float64{0.6, 0.8, 0, 0}, []float64{0.6, 0.8, 0, 0}, 0},
		// Only the first histogram contributes denominators.
		{"Disjoint", []float64{1, 0, 0, 0}, []float64{0, 1, 0, 0}, 1},
		{"Partial", []float64{0.8, 0.6, 0, 0}, []float64{0.6, 0.8, 0, 0}, 0.04/0.8 + 0.04/0.6},
		{"ZeroFirst", []float64{0, 0}, []float64{0.5, 0.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChiSquare(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestChiSquareAsymmetry(t *testing.T) {
	a := []float64{0.8, 0.2}
	b := []float64{0.2, 0.8}

	assert.NotEqual(t, ChiSquare(a, b), ChiSquare(b, a))
}

func TestBhattacharyya(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Identical", []float64{0.6, 0.8, 0, 0}, []float64{0.6, 0.8, 0, 0}, 0},
		{"Disjoint", []float64{1, 0, 0, 0}, []float64{0, 1, 0, 0}, 1},
		{"Partial", []float64{0.8, 0.6, 0, 0}, []float64{0.6, 0.8, 0, 0}, math.Sqrt(1 - 2*math.Sqrt(0.48)/1.4)},
		{"Zero", []float64{0, 0}, []float64{0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bhattacharyya(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		v := []float64{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-9)
		assert.InDelta(t, 0.8, v[1], 1e-9)

		// Length check of norm
		assert.InDelta(t, 1.0, math.Sqrt(v[0]*v[0]+v[1]*v[1]), 1e-9)

		// Zero vector
		vZero := []float64{0, 0}
		ok = NormalizeL2InPlace(vZero)
		assert.False(t, ok)

		// Empty vector
		vEmpty := []float64{}
		ok = NormalizeL2InPlace(vEmpty)
		assert.False(t, ok)
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float64{1, 0}
		dst, ok := NormalizeL2Copy(v)
		assert.True(t, ok)
		assert.Equal(t, 1.0, dst[0])
		assert.NotSame(t, &v[0], &dst[0])

		vZero := []float64{0, 0}
		dst, ok = NormalizeL2Copy(vZero)
		assert.False(t, ok)
		assert.Nil(t, dst)
	})
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "intersection", MetricIntersection.String())
		assert.Equal(t, "correlation", MetricCorrelation.String())
		assert.Equal(t, "chisqr", MetricChiSquare.String())
		assert.Equal(t, "bhattacharyya", MetricBhattacharyya.String())
		assert.Equal(t, "unknown(99)", Metric(99).String())
	})

	t.Run("Parse", func(t *testing.T) {
		for _, m := range []Metric{MetricIntersection, MetricCorrelation, MetricChiSquare, MetricBhattacharyya} {
			got, err := Parse(m.String())
			require.NoError(t, err)
			assert.Equal(t, m, got)
		}

		_, err := Parse("hellinger")
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricIntersection)
		require.NoError(t, err)
		assert.NotNil(t, f)
		assert.InDelta(t, 1.2, f([]float64{0.8, 0.6}, []float64{0.6, 0.8}), 1e-9)

		_, err = Provider(Metric(99))
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})
}

func TestCompare(t *testing.T) {
	t.Run("Dispatch", func(t *testing.T) {
		got, err := Compare([]float64{0.6, 0.8}, []float64{0.6, 0.8}, MetricIntersection)
		require.NoError(t, err)
		assert.InDelta(t, 1.4, got, 1e-9)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := Compare([]float64{1, 0}, []float64{1, 0, 0}, MetricIntersection)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		_, err := Compare([]float64{1}, []float64{1}, Metric(99))
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})
}
