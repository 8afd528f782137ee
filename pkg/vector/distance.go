// Package vector implements HelixDB's HNSW approximate nearest-neighbor
// index over the vectors_db/hnsw_neighbors_db/hnsw_meta_db buckets exposed
// by pkg/storage.
package vector

import (
	"math"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// Distance computes the configured metric between two vectors of equal
// length. Smaller is always better, regardless of metric: DotProduct is
// negated so every metric shares the same "closer is smaller" contract.
func Distance(metric types.DistanceMetric, a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, herrors.Newf(herrors.InvalidInput, "dimension mismatch: %d vs %d", len(a), len(b))
	}
	switch metric {
	case types.MetricCosine:
		return cosineDistance(a, b), nil
	case types.MetricEuclidean:
		return euclideanDistance(a, b), nil
	case types.MetricDotProduct:
		return -dot(a, b), nil
	default:
		return 0, herrors.Newf(herrors.InvalidInput, "unknown distance metric %q", metric)
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}

// cosineDistance returns 1 - cos(a,b); a zero-norm vector yields distance
// 1.0 by definition rather than dividing by zero.
func cosineDistance(a, b []float64) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 1.0
	}
	return 1 - dot(a, b)/(na*nb)
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
