package geometry

import (
	"math"
	"math/rand"
)

const (
	// kMeansRestarts is the fixed number of k-means++ restarts; the run
	// with the lowest inertia wins. Fixed for run-to-run stability.
	kMeansRestarts = 10

	// kMeansMaxIter bounds Lloyd iterations within one restart.
	kMeansMaxIter = 300
)

// kMeans partitions points into k clusters with seeded k-means++
// initialization and a fixed restart count. Labels are in [0, k); centers
// live in the points' coordinate space. Callers guarantee 1 < k <= len(points).
func kMeans(points [][]float64, k int, seed int64) (labels []int, centers [][]float64) {
	rng := rand.New(rand.NewSource(seed))

	bestInertia := math.Inf(1)
	for restart := 0; restart < kMeansRestarts; restart++ {
		candidateLabels, candidateCenters, inertia := kMeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			labels = candidateLabels
			centers = candidateCenters
		}
	}

	return labels, centers
}

// kMeansOnce runs one k-means++ initialization followed by Lloyd iterations,
// returning the final labels, centers, and inertia (sum of squared distances
// to the assigned center).
func kMeansOnce(points [][]float64, k int, rng *rand.Rand) ([]int, [][]float64, float64) {
	n := len(points)
	dims := len(points[0])

	centers := initPlusPlus(points, k, rng)

	labels := make([]int, n)
	counts := make([]int, k)

	for iter := 0; iter < kMeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := math.Inf(1)
			for c, center := range centers {
				if d := squaredDistance(p, center); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centers from assignments.
		for c := range centers {
			counts[c] = 0
			for d := 0; d < dims; d++ {
				centers[c][d] = 0
			}
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d, x := range p {
				centers[c][d] += x
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				// Reseed an empty cluster on a random point.
				copy(centers[c], points[rng.Intn(n)])
				continue
			}
			for d := range centers[c] {
				centers[c][d] /= float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centers[labels[i]])
	}

	return labels, centers, inertia
}

// initPlusPlus picks initial centers with k-means++ weighting: the first
// uniformly, each subsequent one with probability proportional to the
// squared distance from the nearest already-chosen center.
func initPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centers := make([][]float64, 0, k)

	first := make([]float64, len(points[0]))
	copy(first, points[rng.Intn(n)])
	centers = append(centers, first)

	minDist := make([]float64, n)
	for i, p := range points {
		minDist[i] = squaredDistance(p, centers[0])
	}

	for len(centers) < k {
		var total float64
		for _, d := range minDist {
			total += d
		}

		var idx int
		if total == 0 {
			// All remaining points coincide with a center.
			idx = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			var cumulative float64
			for i, d := range minDist {
				cumulative += d
				if cumulative >= target {
					idx = i
					break
				}
			}
		}

		center := make([]float64, len(points[idx]))
		copy(center, points[idx])
		centers = append(centers, center)

		for i, p := range points {
			if d := squaredDistance(p, center); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return centers
}

// squaredDistance returns the squared Euclidean distance between two points.
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
