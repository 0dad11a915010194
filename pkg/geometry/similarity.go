package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineMatrix computes the full pairwise cosine-similarity matrix over the
// raw (not reduced) vectors. The matrix is symmetric by construction, with
// values in [-1, 1] and a diagonal of 1 for every non-zero vector. Pairs
// involving a zero vector get similarity 0.
func CosineMatrix(vectors [][]float64) ([][]float64, error) {
	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("%w: no vectors for similarity matrix", ErrInsufficientData)
	}

	features := len(vectors[0])
	for i, v := range vectors {
		if len(v) != features {
			return nil, fmt.Errorf("%w: vector %d has %d features, expected %d", ErrDimensionMismatch, i, len(v), features)
		}
	}

	norms := make([]float64, n)
	for i, v := range vectors {
		norms[i] = math.Sqrt(floats.Dot(v, v))
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		if norms[i] > 0 {
			matrix[i][i] = 1
		}
		for j := 0; j < i; j++ {
			var sim float64
			if norms[i] > 0 && norms[j] > 0 {
				sim = floats.Dot(vectors[i], vectors[j]) / (norms[i] * norms[j])
			}
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}

	return matrix, nil
}
