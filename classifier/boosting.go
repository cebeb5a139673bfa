package classifier

import (
	"context"
	"math"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// GBMModel is a one-vs-rest gradient boosting machine with binomial deviance.
// Class score k is InitScores[k] + LearningRate * sum of its trees; prediction
// takes the argmax over classes.
type GBMModel struct {
	InitScores   []float64
	LearningRate float64
	// Trees[k] are the boosting stages for class k.
	Trees [][]Tree
	// BestTrainAccuracy is the best in-sample accuracy observed across the
	// boosting stages, recorded every evaluation interval.
	BestTrainAccuracy float64
}

// PredictRow implements Predictor.
func (m *GBMModel) PredictRow(x []float64) int {
	best, bestScore := 0, m.classScore(0, x)
	for k := 1; k < len(m.Trees); k++ {
		if s := m.classScore(k, x); s > bestScore {
			best, bestScore = k, s
		}
	}
	return best
}

func (m *GBMModel) classScore(k int, x []float64) float64 {
	s := m.InitScores[k]
	for i := range m.Trees[k] {
		s += m.LearningRate * m.Trees[k][i].PredictValue(x)
	}
	return s
}

// fitGBM trains one boosting chain per class against the rest. Each stage
// fits a shallow regression tree to the logistic residuals y - p and applies
// a Newton leaf step. In-sample accuracy is tracked every few stages so the
// model can report the best score seen during tuning.
func fitGBM(ctx context.Context, rows [][]float64, y []int, classes int, opts *GBMOptions) (*GBMModel, error) {
	if opts == nil {
		opts = &GBMOptions{Trees: 100, Depth: 3, LearningRate: 0.1, MinLeaf: 10}
	}
	if opts.Trees < 1 || opts.Depth < 1 || opts.LearningRate <= 0 {
		return nil, errors.NewValueError("fitGBM", "trees, depth and learning_rate must be positive")
	}
	n := len(rows)

	model := &GBMModel{
		InitScores:   make([]float64, classes),
		LearningRate: opts.LearningRate,
		Trees:        make([][]Tree, classes),
	}

	// Raw scores per class, updated stage by stage.
	scores := make([][]float64, classes)
	targets := make([][]float64, classes)
	for k := 0; k < classes; k++ {
		var pos int
		tk := make([]float64, n)
		for i := range y {
			if y[i] == k {
				tk[i] = 1
				pos++
			}
		}
		targets[k] = tk

		// Initial score is the class log-odds.
		prior := float64(pos) / float64(n)
		prior = math.Max(1e-6, math.Min(1-1e-6, prior))
		model.InitScores[k] = math.Log(prior / (1 - prior))

		sk := make([]float64, n)
		for i := range sk {
			sk[i] = model.InitScores[k]
		}
		scores[k] = sk
	}

	allIdx := make([]int, n)
	for i := range allIdx {
		allIdx[i] = i
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	for stage := 0; stage < opts.Trees; stage++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "boosting cancelled")
		}
		for k := 0; k < classes; k++ {
			for i := 0; i < n; i++ {
				p := sigmoid(scores[k][i])
				grad[i] = targets[k][i] - p
				hess[i] = p * (1 - p)
			}
			tree := growRegressionTree(rows, grad, hess, allIdx, opts.Depth, opts.MinLeaf)
			model.Trees[k] = append(model.Trees[k], tree)
			for i := 0; i < n; i++ {
				scores[k][i] += opts.LearningRate * tree.PredictValue(rows[i])
			}
		}

		if (stage+1)%10 == 0 || stage == opts.Trees-1 {
			acc := stagedAccuracy(scores, y)
			if acc > model.BestTrainAccuracy {
				model.BestTrainAccuracy = acc
			}
		}
	}
	return model, nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// stagedAccuracy computes in-sample accuracy from the per-class raw scores.
func stagedAccuracy(scores [][]float64, y []int) float64 {
	n := len(y)
	correct := 0
	for i := 0; i < n; i++ {
		best, bestScore := 0, scores[0][i]
		for k := 1; k < len(scores); k++ {
			if scores[k][i] > bestScore {
				best, bestScore = k, scores[k][i]
			}
		}
		if best == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
