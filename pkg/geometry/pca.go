package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// reducePCA projects the data onto its top principal components. The data is
// mean-centered and multiplied by the leading eigenvectors of its covariance
// matrix, so the output axes are ordered by retained variance. Fully
// deterministic; the seed is not consulted.
func reducePCA(data [][]float64, dims int) ([][]float64, error) {
	n := len(data)
	features := len(data[0])

	x := mat.NewDense(n, features, nil)
	for i, row := range data {
		x.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// Center the data before projecting; PrincipalComponents works on the
	// covariance of the centered data, so the projection must match.
	means := make([]float64, features)
	for j := 0; j < features; j++ {
		col := mat.Col(nil, j, x)
		for _, v := range col {
			means[j] += v
		}
		means[j] /= float64(n)
	}
	centered := mat.NewDense(n, features, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < features; j++ {
			centered.Set(i, j, x.At(i, j)-means[j])
		}
	}

	// The decomposition yields at most min(n, features) components.
	_, available := vecs.Dims()
	if dims > available {
		dims = available
	}

	var projected mat.Dense
	projected.Mul(centered, vecs.Slice(0, features, 0, dims))

	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, &projected)
	}
	return out, nil
}
