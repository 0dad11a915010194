package geometry

import (
	"math"
	"math/rand"
)

const (
	// mdsMaxIter bounds the SMACOF majorization loop.
	mdsMaxIter = 300

	// mdsEps is the relative stress improvement below which SMACOF stops.
	mdsEps = 1e-6
)

// reduceMDS performs metric multidimensional scaling via SMACOF stress
// majorization: starting from a seeded random configuration, each iteration
// applies the Guttman transform, monotonically decreasing the raw stress
// (the squared error between input and output pairwise Euclidean distances).
func reduceMDS(data [][]float64, dims int, seed int64) ([][]float64, error) {
	n := len(data)

	// Target dissimilarities: pairwise Euclidean distances in input space.
	delta := make([][]float64, n)
	for i := range delta {
		delta[i] = make([]float64, n)
		for j := 0; j < i; j++ {
			d := euclidean(data[i], data[j])
			delta[i][j] = d
			delta[j][i] = d
		}
	}

	// Seeded random starting configuration.
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	for i := range x {
		x[i] = make([]float64, dims)
		for j := range x[i] {
			x[i][j] = rng.NormFloat64()
		}
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}

	prevStress := math.Inf(1)
	for iter := 0; iter < mdsMaxIter; iter++ {
		// Current configuration distances.
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				d := euclidean(x[i], x[j])
				dist[i][j] = d
				dist[j][i] = d
			}
		}

		// Guttman transform: x <- (1/n) * B(x) * x.
		next := make([][]float64, n)
		for i := range next {
			next[i] = make([]float64, dims)
		}
		for i := 0; i < n; i++ {
			var diag float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				var b float64
				if dist[i][j] > 0 {
					b = -delta[i][j] / dist[i][j]
				}
				diag -= b
				for k := 0; k < dims; k++ {
					next[i][k] += b * x[j][k]
				}
			}
			for k := 0; k < dims; k++ {
				next[i][k] += diag * x[i][k]
				next[i][k] /= float64(n)
			}
		}
		x = next

		var stress float64
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				d := euclidean(x[i], x[j])
				diff := delta[i][j] - d
				stress += diff * diff
			}
		}

		if prevStress-stress < mdsEps*math.Max(stress, 1) {
			break
		}
		prevStress = stress
	}

	return x, nil
}
