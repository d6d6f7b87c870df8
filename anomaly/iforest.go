package anomaly

import (
	"math"
	"math/rand"
)

// Isolation forest per Liu, Ting & Zhou (2008): anomalies isolate in fewer
// random splits, so short average path lengths score high.

type isoNode struct {
	feature   int
	threshold float64
	left      *isoNode
	right     *isoNode
	size      int
	leaf      bool
}

type isoForest struct {
	trees      []*isoNode
	sampleSize int
}

func fitIsolationForest(cfg Config, matrix [][]float64) *isoForest {
	sampleSize := cfg.SampleSize
	if sampleSize > len(matrix) {
		sampleSize = len(matrix)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))

	forest := &isoForest{
		trees:      make([]*isoNode, cfg.NumTrees),
		sampleSize: sampleSize,
	}
	for i := range forest.trees {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)*6151))
		sample := subsample(rng, matrix, sampleSize)
		forest.trees[i] = growIsoNode(rng, sample, 0, heightLimit)
	}
	return forest
}

func subsample(rng *rand.Rand, matrix [][]float64, size int) [][]float64 {
	perm := rng.Perm(len(matrix))
	sample := make([][]float64, size)
	for i := 0; i < size; i++ {
		sample[i] = matrix[perm[i]]
	}
	return sample
}

func growIsoNode(rng *rand.Rand, sample [][]float64, depth, heightLimit int) *isoNode {
	if depth >= heightLimit || len(sample) <= 1 {
		return &isoNode{leaf: true, size: len(sample)}
	}

	// Pick among features with spread; constant columns cannot isolate.
	cols := len(sample[0])
	splittable := make([]int, 0, cols)
	for f := 0; f < cols; f++ {
		lo, hi := columnRange(sample, f)
		if hi > lo {
			splittable = append(splittable, f)
		}
	}
	if len(splittable) == 0 {
		return &isoNode{leaf: true, size: len(sample)}
	}

	feature := splittable[rng.Intn(len(splittable))]
	lo, hi := columnRange(sample, feature)
	threshold := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range sample {
		if row[feature] < threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	return &isoNode{
		feature:   feature,
		threshold: threshold,
		left:      growIsoNode(rng, left, depth+1, heightLimit),
		right:     growIsoNode(rng, right, depth+1, heightLimit),
	}
}

func columnRange(sample [][]float64, feature int) (lo, hi float64) {
	lo, hi = sample[0][feature], sample[0][feature]
	for _, row := range sample[1:] {
		v := row[feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (n *isoNode) pathLength(x []float64, depth float64) float64 {
	if n.leaf {
		return depth + avgPathLength(n.size)
	}
	if x[n.feature] < n.threshold {
		return n.left.pathLength(x, depth+1)
	}
	return n.right.pathLength(x, depth+1)
}

// anomalyScore is in (0, 1]; values near 1 mean the point isolates quickly.
func (f *isoForest) anomalyScore(x []float64) float64 {
	var sum float64
	for _, tree := range f.trees {
		sum += tree.pathLength(x, 0)
	}
	mean := sum / float64(len(f.trees))
	return math.Pow(2, -mean/avgPathLength(f.sampleSize))
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points, used to normalize early-terminated paths.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+0.5772156649) - 2*(fn-1)/fn
}
