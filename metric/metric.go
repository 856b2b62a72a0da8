// Package metric provides public API for histogram comparison metrics
// and L2 normalization of histogram vectors.
//
// All functions operate on flattened histograms as produced by the
// imaging package. The comparison semantics follow the classic
// OpenCV-style definitions so that scores are interchangeable with
// pipelines built on that convention.
package metric

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrUnknownMetric is returned when a metric tag or name is not recognized.
	ErrUnknownMetric = errors.New("unknown comparison metric")

	// ErrLengthMismatch is returned when two histograms differ in length.
	ErrLengthMismatch = errors.New("histogram length mismatch")
)

// Metric represents the comparison metric used for histogram matching.
type Metric int

const (
	MetricIntersection Metric = iota
	MetricCorrelation
	MetricChiSquare
	MetricBhattacharyya
)

func (m Metric) String() string {
	switch m {
	case MetricIntersection:
		return "intersection"
	case MetricCorrelation:
		return "correlation"
	case MetricChiSquare:
		return "chisqr"
	case MetricBhattacharyya:
		return "bhattacharyya"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Parse maps a metric name to its Metric. Recognized names are
// "intersection", "correlation", "chisqr" and "bhattacharyya".
func Parse(name string) (Metric, error) {
	switch name {
	case "intersection":
		return MetricIntersection, nil
	case "correlation":
		return MetricCorrelation, nil
	case "chisqr":
		return MetricChiSquare, nil
	case "bhattacharyya":
		return MetricBhattacharyya, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// Func is a function type for histogram comparison.
// Assumes histograms are the same length (caller's responsibility).
type Func func(a, b []float64) float64

// Provider returns the comparison function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricIntersection:
		return Intersection, nil
	case MetricCorrelation:
		return Correlation, nil
	case MetricChiSquare:
		return ChiSquare, nil
	case MetricBhattacharyya:
		return Bhattacharyya, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMetric, m)
	}
}

// Compare computes the comparison value of a and b under metric m.
// Unlike the raw metric functions it validates that both histograms
// have the same length.
func Compare(a, b []float64, m Metric) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}

	fn, err := Provider(m)
	if err != nil {
		return 0, err
	}

	return fn(a, b), nil
}

// Intersection sums the bin-wise minima of the two histograms.
// Higher values mean more similar.
func Intersection(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Min(a[i], b[i])
	}

	return sum
}

// Correlation computes the Pearson correlation coefficient of the two
// bin vectors. Higher values mean more similar. A zero-variance input
// compares as 1.
func Correlation(a, b []float64) float64 {
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) {
		return 1
	}

	return r
}

// ChiSquare accumulates (a[i]-b[i])^2/a[i] over bins where a[i] is
// non-zero. Lower values mean more similar. Note the asymmetry: the
// first histogram provides the denominator.
func ChiSquare(a, b []float64) float64 {
	var sum float64
	for i := range a {
		if a[i] != 0 {
			d := a[i] - b[i]
			sum += d * d / a[i]
		}
	}

	return sum
}

// Bhattacharyya computes the Bhattacharyya distance of the two
// histograms. Lower values mean more similar. Two all-zero histograms
// compare as 1.
func Bhattacharyya(a, b []float64) float64 {
	var coef float64
	for i := range a {
		coef += math.Sqrt(a[i] * b[i])
	}

	v := 1 - coef
	if prod := floats.Sum(a) * floats.Sum(b); prod > 0 {
		v = 1 - coef/math.Sqrt(prod)
	}

	return math.Sqrt(math.Max(v, 0))
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float64) bool {
	if len(v) == 0 {
		return false
	}

	norm2 := floats.Dot(v, v)
	if norm2 == 0 {
		return false
	}

	floats.Scale(1/math.Sqrt(norm2), v)

	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float64) ([]float64, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}

	return dst, true
}
