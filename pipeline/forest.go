package pipeline

import (
	"math/rand"
	"runtime"
	"sync"
)

// Forest is a bagged ensemble of regression trees trained on squared error.
type Forest struct {
	Trees           []*TreeNode `json:"trees"`
	NumTrees        int         `json:"num_trees"`
	MaxDepth        int         `json:"max_depth"`
	MinSamplesSplit int         `json:"min_samples_split"`
	MinSamplesLeaf  int         `json:"min_samples_leaf"`
	Seed            int64       `json:"seed"`
}

// Fit trains the ensemble. Independent trees are fitted across a bounded
// worker pool launched for this call and joined before returning; each tree
// draws its bootstrap sample from a seed derived from the forest seed and
// the tree index, so the result is identical however the work is scheduled.
func (f *Forest) Fit(X [][]float64, y []float64) {
	f.Trees = make([]*TreeNode, f.NumTrees)
	params := treeParams{
		maxDepth:        f.MaxDepth,
		minSamplesSplit: f.MinSamplesSplit,
		minSamplesLeaf:  f.MinSamplesLeaf,
	}

	workers := runtime.NumCPU()
	if workers > f.NumTrees {
		workers = f.NumTrees
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(f.Seed + int64(i)*7919))
				indices := bootstrapSample(rng, len(X))
				f.Trees[i] = fitTree(X, y, indices, params)
			}
		}()
	}
	for i := 0; i < f.NumTrees; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// Predict returns the mean prediction over all trees. It is pure and safe
// for concurrent callers once Fit has returned.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.Trees))
}

func bootstrapSample(rng *rand.Rand, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}
