package classifier

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// ForestModel is a random forest: bootstrap-bagged CART trees with feature
// subsampling at each split, deciding by majority vote.
type ForestModel struct {
	Trees   []Tree
	Classes int
}

// PredictRow implements Predictor.
func (m *ForestModel) PredictRow(x []float64) int {
	votes := make([]int, m.Classes)
	for i := range m.Trees {
		votes[m.Trees[i].PredictClass(x)]++
	}
	best, bestVotes := 0, votes[0]
	for c := 1; c < len(votes); c++ {
		if votes[c] > bestVotes {
			best, bestVotes = c, votes[c]
		}
	}
	return best
}

// fitForest grows opts.Trees CART trees, each on a bootstrap sample of the
// training rows with mtry candidate features per split (default sqrt(p)).
func fitForest(rows [][]float64, y []int, classes int, opts *ForestOptions, r *rand.Rand) (*ForestModel, error) {
	if opts == nil {
		opts = &ForestOptions{Trees: 200, MaxDepth: 12, MinLeaf: 2}
	}
	if opts.Trees < 1 {
		return nil, errors.NewValueError("fitForest", "trees must be positive")
	}

	n := len(rows)
	p := len(rows[0])
	mtry := opts.Mtry
	if mtry <= 0 {
		mtry = int(math.Sqrt(float64(p)))
		if mtry < 1 {
			mtry = 1
		}
	}
	maxDepth := opts.MaxDepth
	if maxDepth < 1 {
		maxDepth = 12
	}
	minLeaf := opts.MinLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	cfg := treeConfig{maxDepth: maxDepth, minLeaf: minLeaf, mtry: mtry, classes: classes}
	model := &ForestModel{Classes: classes}
	for t := 0; t < opts.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = r.IntN(n)
		}
		model.Trees = append(model.Trees, growClassificationTree(rows, y, sample, cfg, r))
	}
	return model, nil
}
