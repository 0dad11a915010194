// Package geometry places high-dimensional embedding vectors into a
// low-dimensional coordinate space for visualization.
//
// Reduce projects a set of embeddings to (typically) 3D using PCA, metric
// MDS, or t-SNE, optionally partitioning the reduced points into clusters.
// The three methods are not interchangeable: PCA preserves variance, MDS
// preserves pairwise distances, t-SNE separates neighborhoods at the cost
// of distorting true distances. CosineMatrix computes pairwise cosine
// similarity over the raw vectors, independent of any projection, as a
// ground-truth check against visually misleading layouts.
//
// All operations are deterministic given Options.Seed.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Method selects a dimensionality-reduction algorithm.
type Method string

const (
	// MethodPCA is a linear projection maximizing retained variance.
	// Best variance fidelity, weak local-distance fidelity.
	MethodPCA Method = "pca"

	// MethodMDS is metric multidimensional scaling, minimizing distortion
	// of pairwise Euclidean distances. The default, because it best
	// preserves how far apart items really are.
	MethodMDS Method = "mds"

	// MethodTSNE is a nonlinear neighbor embedding. Good at visually
	// separating clusters, but may distort true distances.
	MethodTSNE Method = "tsne"
)

// DefaultDims is the coordinate dimensionality used for 3D visualization.
const DefaultDims = 3

// Empirical tuning knobs for the automatic cluster-count heuristic.
// These are tuning choices, not invariants; adjust them rather than the
// heuristic's structure.
const (
	// AutoClusterCVThreshold is the coefficient-of-variation cutoff below
	// which the reduced points are treated as one homogeneous group.
	AutoClusterCVThreshold = 0.3

	// AutoClusterSmallSampleLimit is the sample count at or below which
	// auto mode always uses a single cluster.
	AutoClusterSmallSampleLimit = 3

	// AutoClusterMaxClusters caps the sqrt(n/2) cluster-count estimate.
	AutoClusterMaxClusters = 8
)

var (
	// ErrInsufficientData is returned when fewer embeddings are supplied
	// than the operation needs (none at all, or fewer than two for a
	// multi-point reduction).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnknownMethod is returned for an unrecognized reduction method.
	ErrUnknownMethod = errors.New("unknown reduction method")

	// ErrDimensionMismatch is returned when input vectors disagree on length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ParseMethod converts a method string (case-insensitive) into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(s)) {
	case MethodPCA:
		return MethodPCA, nil
	case MethodMDS:
		return MethodMDS, nil
	case MethodTSNE:
		return MethodTSNE, nil
	default:
		return "", fmt.Errorf("%w: %q (must be pca, mds, or tsne)", ErrUnknownMethod, s)
	}
}

// Options configures a Reduce call.
type Options struct {
	// Method selects the reduction algorithm. Defaults to MethodMDS.
	Method Method

	// Dims is the requested coordinate dimensionality. Defaults to
	// DefaultDims. The achieved dimensionality is capped by sample and
	// feature counts; missing trailing axes are zero-padded so callers
	// always receive exactly Dims coordinates per point.
	Dims int

	// Seed drives every random choice, making output reproducible.
	Seed int64

	// Normalize rescales each vector to unit L2 norm before reduction.
	// Required for stable clustering behavior; runs before reduction,
	// never after.
	Normalize bool

	// Cluster partitions the reduced coordinates with k-means.
	Cluster bool

	// NumClusters fixes the cluster count. Zero means auto-derive from
	// the spread of the reduced coordinates.
	NumClusters int
}

// Result holds reduced coordinates and optional cluster assignments.
// Coordinates[i] corresponds to the i-th input embedding.
type Result struct {
	Coordinates    [][]float64
	ClusterLabels  []int
	ClusterCenters [][]float64
	NumClusters    int
}

// Reduce projects embeddings into a low-dimensional coordinate space.
//
// At least two embeddings are required; callers with exactly one embedding
// special-case it (a single point at the origin) without invoking any
// reduction method.
func Reduce(embeddings [][]float64, opts Options) (*Result, error) {
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings provided for dimensionality reduction", ErrInsufficientData)
	}
	if len(embeddings) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 embeddings for dimensionality reduction", ErrInsufficientData)
	}

	features := len(embeddings[0])
	for i, e := range embeddings {
		if len(e) != features {
			return nil, fmt.Errorf("%w: embedding %d has %d features, expected %d", ErrDimensionMismatch, i, len(e), features)
		}
	}
	if features == 0 {
		return nil, fmt.Errorf("%w: embeddings have no features", ErrInsufficientData)
	}

	method := opts.Method
	if method == "" {
		method = MethodMDS
	}

	dims := opts.Dims
	if dims <= 0 {
		dims = DefaultDims
	}

	samples := len(embeddings)

	data := embeddings
	if opts.Normalize {
		data = normalizeL2(embeddings)
	}

	// Cap the achieved dimensionality by what the data can support.
	achieved := dims
	if samples < achieved {
		achieved = samples
	}
	if features < achieved {
		achieved = features
	}

	var (
		reduced [][]float64
		err     error
	)
	switch method {
	case MethodPCA:
		reduced, err = reducePCA(data, achieved)
	case MethodMDS:
		reduced, err = reduceMDS(data, achieved, opts.Seed)
	case MethodTSNE:
		reduced, err = reduceTSNE(data, achieved, opts.Seed)
	default:
		return nil, fmt.Errorf("%w: %q (must be pca, mds, or tsne)", ErrUnknownMethod, string(method))
	}
	if err != nil {
		return nil, err
	}

	// Zero-pad missing trailing axes up to the requested dimensionality.
	// Degenerate inputs (e.g. two points) collapse onto a plane this way;
	// a known limitation accepted for visualization.
	if achieved < dims {
		for i := range reduced {
			padded := make([]float64, dims)
			copy(padded, reduced[i])
			reduced[i] = padded
		}
	}

	result := &Result{Coordinates: reduced}

	if opts.Cluster {
		labels, centers, k := clusterReduced(reduced, opts.NumClusters, opts.Seed)
		result.ClusterLabels = labels
		result.ClusterCenters = centers
		result.NumClusters = k
	}

	return result, nil
}

// normalizeL2 rescales each vector independently to unit L2 norm.
// Zero vectors are left unchanged. The input is not modified.
func normalizeL2(vectors [][]float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		norm := 0.0
		for _, x := range v {
			norm += x * x
		}
		norm = math.Sqrt(norm)

		row := make([]float64, len(v))
		if norm > 0 {
			for j, x := range v {
				row[j] = x / norm
			}
		} else {
			copy(row, v)
		}
		out[i] = row
	}
	return out
}

// clusterReduced partitions reduced coordinates into clusters. numClusters
// of zero auto-derives a count from the spread of the points. The returned
// labels use the range [0, k).
func clusterReduced(coords [][]float64, numClusters int, seed int64) (labels []int, centers [][]float64, k int) {
	n := len(coords)

	k = numClusters
	if k <= 0 {
		k = autoClusterCount(coords)
	}
	if k > n {
		k = n
	}

	// The single-cluster case must not reach the k-means solver; with
	// degenerate input (identical points) the solver has nothing to do.
	if k == 1 {
		labels = make([]int, n)
		return labels, [][]float64{meanPoint(coords)}, 1
	}

	labels, centers = kMeans(coords, k, seed)
	return labels, centers, k
}

// autoClusterCount derives a cluster count from pairwise Euclidean distances
// over the reduced coordinates. Tightly grouped or tiny point sets collapse
// to one cluster; otherwise the sqrt(n/2) elbow heuristic applies, clamped
// to [1, AutoClusterMaxClusters].
func autoClusterCount(coords [][]float64) int {
	n := len(coords)
	if n <= AutoClusterSmallSampleLimit {
		return 1
	}

	var (
		sum   float64
		sumSq float64
		count int
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := euclidean(coords[i], coords[j])
			if d > 0 {
				sum += d
				sumSq += d * d
				count++
			}
		}
	}

	if count == 0 {
		// All points coincide.
		return 1
	}

	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	std := math.Sqrt(variance)

	if std/mean < AutoClusterCVThreshold {
		return 1
	}

	k := int(math.Round(math.Sqrt(float64(n) / 2)))
	if k < 1 {
		k = 1
	}
	if k > AutoClusterMaxClusters {
		k = AutoClusterMaxClusters
	}
	return k
}

// meanPoint returns the coordinate-wise mean of the given points.
func meanPoint(coords [][]float64) []float64 {
	if len(coords) == 0 {
		return nil
	}
	mean := make([]float64, len(coords[0]))
	for _, p := range coords {
		for j, x := range p {
			mean[j] += x
		}
	}
	for j := range mean {
		mean[j] /= float64(len(coords))
	}
	return mean
}

// euclidean returns the Euclidean distance between two points.
func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
