package geometry

import (
	"math"
	"math/rand"
)

const (
	// tsneMaxPerplexity caps perplexity; small inputs are further capped
	// at sample_count - 1 to stay valid.
	tsneMaxPerplexity = 30.0

	// tsneIterations is the fixed gradient-descent budget. Fixed so the
	// result is fully determined by the seed.
	tsneIterations = 1000

	// tsneExaggerationIters is how long early exaggeration is applied.
	tsneExaggerationIters = 250

	// tsneExaggeration multiplies the affinities early on to form
	// well-separated clusters before fine-tuning.
	tsneExaggeration = 12.0

	// tsneLearningRate is the gradient step size.
	tsneLearningRate = 200.0

	tsneInitialMomentum = 0.5
	tsneFinalMomentum   = 0.8

	// tsneEntropyTolerance is the binary-search tolerance on the Shannon
	// entropy when matching perplexity.
	tsneEntropyTolerance = 1e-5

	tsneMinProbability = 1e-12
)

// reduceTSNE embeds the data with exact t-SNE: Gaussian input affinities
// matched to the target perplexity via binary search, Student-t output
// affinities, and momentum gradient descent with adaptive gains over a fixed
// iteration budget.
func reduceTSNE(data [][]float64, dims int, seed int64) ([][]float64, error) {
	n := len(data)

	perplexity := tsneMaxPerplexity
	if limit := float64(n - 1); limit < perplexity {
		perplexity = limit
	}

	p := inputAffinities(data, perplexity)

	// Symmetrize and normalize the joint distribution.
	var total float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := p[i][j] + p[j][i]
			p[i][j] = v
			p[j][i] = v
			total += 2 * v
		}
	}
	if total == 0 {
		total = 1
	}
	for i := range p {
		for j := range p[i] {
			p[i][j] = math.Max(p[i][j]/total, tsneMinProbability) * tsneExaggeration
		}
	}

	rng := rand.New(rand.NewSource(seed))
	y := make([][]float64, n)
	velocity := make([][]float64, n)
	gains := make([][]float64, n)
	for i := range y {
		y[i] = make([]float64, dims)
		velocity[i] = make([]float64, dims)
		gains[i] = make([]float64, dims)
		for d := range y[i] {
			y[i][d] = rng.NormFloat64() * 1e-4
			gains[i][d] = 1
		}
	}

	num := make([][]float64, n)
	for i := range num {
		num[i] = make([]float64, n)
	}
	grad := make([]float64, dims)

	for iter := 0; iter < tsneIterations; iter++ {
		// Student-t kernel numerators and their sum.
		var qTotal float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := euclidean(y[i], y[j])
				v := 1 / (1 + d*d)
				num[i][j] = v
				num[j][i] = v
				qTotal += 2 * v
			}
		}
		if qTotal == 0 {
			qTotal = 1
		}

		momentum := tsneInitialMomentum
		if iter >= tsneExaggerationIters {
			momentum = tsneFinalMomentum
		}

		for i := 0; i < n; i++ {
			for d := range grad {
				grad[d] = 0
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				q := math.Max(num[i][j]/qTotal, tsneMinProbability)
				mult := 4 * (p[i][j] - q) * num[i][j]
				for d := 0; d < dims; d++ {
					grad[d] += mult * (y[i][d] - y[j][d])
				}
			}

			for d := 0; d < dims; d++ {
				// Adaptive gains: shrink when gradient and velocity
				// agree in sign, grow when they disagree.
				if (grad[d] > 0) == (velocity[i][d] > 0) {
					gains[i][d] *= 0.8
				} else {
					gains[i][d] += 0.2
				}
				if gains[i][d] < 0.01 {
					gains[i][d] = 0.01
				}

				velocity[i][d] = momentum*velocity[i][d] - tsneLearningRate*gains[i][d]*grad[d]
				y[i][d] += velocity[i][d]
			}
		}

		// Re-center so the embedding does not drift.
		center := meanPoint(y)
		for i := range y {
			for d := 0; d < dims; d++ {
				y[i][d] -= center[d]
			}
		}

		// Remove early exaggeration once the coarse structure has formed.
		if iter == tsneExaggerationIters-1 {
			for i := range p {
				for j := range p[i] {
					p[i][j] /= tsneExaggeration
				}
			}
		}
	}

	return y, nil
}

// inputAffinities computes the conditional Gaussian affinities P(j|i), with
// each point's bandwidth chosen by binary search so the distribution's
// perplexity matches the target.
func inputAffinities(data [][]float64, perplexity float64) [][]float64 {
	n := len(data)
	targetEntropy := math.Log(perplexity)

	// Squared pairwise distances.
	d2 := make([][]float64, n)
	for i := range d2 {
		d2[i] = make([]float64, n)
		for j := 0; j < i; j++ {
			d := euclidean(data[i], data[j])
			d2[i][j] = d * d
			d2[j][i] = d * d
		}
	}

	p := make([][]float64, n)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		p[i] = make([]float64, n)

		beta := 1.0
		betaMin := math.Inf(-1)
		betaMax := math.Inf(1)

		for attempt := 0; attempt < 50; attempt++ {
			// Gaussian affinities at the current precision.
			var sum float64
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				row[j] = math.Exp(-d2[i][j] * beta)
				sum += row[j]
			}

			var entropy float64
			if sum > 0 {
				for j := 0; j < n; j++ {
					if row[j] > 0 {
						q := row[j] / sum
						entropy -= q * math.Log(q)
					}
					row[j] /= math.Max(sum, tsneMinProbability)
				}
			}

			diff := entropy - targetEntropy
			if math.Abs(diff) < tsneEntropyTolerance {
				break
			}
			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}

		copy(p[i], row)
	}

	return p
}
