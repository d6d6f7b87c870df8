package pipeline

import "sort"

// TreeNode is one node of a fitted regression tree. Leaves carry the mean
// target of the training samples that reached them.
type TreeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
}

// fitTree grows a regression tree by recursive binary splitting on squared
// error. indices selects the (possibly bootstrapped) training samples.
func fitTree(X [][]float64, y []float64, indices []int, params treeParams) *TreeNode {
	return growNode(X, y, indices, params, 0)
}

func growNode(X [][]float64, y []float64, indices []int, params treeParams, depth int) *TreeNode {
	node := &TreeNode{Leaf: true, Value: meanTarget(y, indices)}
	if depth >= params.maxDepth || len(indices) < params.minSamplesSplit || pureTarget(y, indices) {
		return node
	}

	feature, threshold, ok := bestSplit(X, y, indices, params.minSamplesLeaf)
	if !ok {
		return node
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	node.Leaf = false
	node.Feature = feature
	node.Threshold = threshold
	node.Left = growNode(X, y, left, params, depth+1)
	node.Right = growNode(X, y, right, params, depth+1)
	return node
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of the two children, honoring the minimum leaf size. The
// incremental left/right sums make each feature scan O(n log n).
func bestSplit(X [][]float64, y []float64, indices []int, minLeaf int) (feature int, threshold float64, ok bool) {
	n := len(indices)
	var totalSum, totalSq float64
	for _, idx := range indices {
		totalSum += y[idx]
		totalSq += y[idx] * y[idx]
	}
	bestScore := totalSq - totalSum*totalSum/float64(n) // parent SSE
	order := make([]int, n)

	for f := 0; f < len(X[indices[0]]); f++ {
		copy(order, indices)
		sort.Slice(order, func(i, j int) bool { return X[order[i]][f] < X[order[j]][f] })

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			idx := order[i]
			leftSum += y[idx]
			leftSq += y[idx] * y[idx]

			nl := i + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			cur, next := X[idx][f], X[order[i+1]][f]
			if cur == next {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < bestScore-1e-12 {
				bestScore = sse
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func (t *TreeNode) predict(x []float64) float64 {
	node := t
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanTarget(y []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var sum float64
	for _, idx := range indices {
		sum += y[idx]
	}
	return sum / float64(len(indices))
}

func pureTarget(y []float64, indices []int) bool {
	first := y[indices[0]]
	for _, idx := range indices[1:] {
		if y[idx] != first {
			return false
		}
	}
	return true
}
