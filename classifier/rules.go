package classifier

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Rule is a single-split classifier: rows with feature <= threshold get
// ClassLE, the rest ClassGT.
type Rule struct {
	Feature   int
	Threshold float64
	ClassLE   int
	ClassGT   int
}

// RuleEnsembleModel is a bagged committee of single-split rules deciding by
// majority vote, ties broken toward the lower class index.
type RuleEnsembleModel struct {
	Rules   []Rule
	Classes int
}

// PredictRow implements Predictor.
func (m *RuleEnsembleModel) PredictRow(x []float64) int {
	votes := make([]int, m.Classes)
	for _, r := range m.Rules {
		if x[r.Feature] <= r.Threshold {
			votes[r.ClassLE]++
		} else {
			votes[r.ClassGT]++
		}
	}
	best, bestVotes := 0, votes[0]
	for c := 1; c < len(votes); c++ {
		if votes[c] > bestVotes {
			best, bestVotes = c, votes[c]
		}
	}
	return best
}

// fitRuleEnsemble learns each rule on a bootstrap subsample: the best Gini
// split over all features, with each side labelled by its majority class.
func fitRuleEnsemble(rows [][]float64, y []int, classes int, opts *RuleOptions, r *rand.Rand) (*RuleEnsembleModel, error) {
	if opts == nil {
		opts = &RuleOptions{Rules: 50, SampleFraction: 0.8}
	}
	if opts.Rules < 1 {
		return nil, errors.NewValueError("fitRuleEnsemble", "rules must be positive")
	}
	frac := opts.SampleFraction
	if frac <= 0 || frac > 1 {
		frac = 0.8
	}

	n := len(rows)
	sampleSize := int(frac * float64(n))
	if sampleSize < 2 {
		sampleSize = n
	}

	cfg := treeConfig{minLeaf: 1, classes: classes}
	feats := candidateFeatures(len(rows[0]), 0, r)

	model := &RuleEnsembleModel{Classes: classes}
	for len(model.Rules) < opts.Rules {
		sample := make([]int, sampleSize)
		for i := range sample {
			sample[i] = r.IntN(n)
		}

		feat, thr, ok := bestGiniSplit(rows, y, sample, feats, cfg)
		if !ok {
			// Degenerate subsample; fall back to a constant rule.
			c := majorityClass(y, sample, classes)
			model.Rules = append(model.Rules, Rule{Feature: 0, Threshold: rows[sample[0]][0], ClassLE: c, ClassGT: c})
			continue
		}

		var le, gt []int
		for _, i := range sample {
			if rows[i][feat] <= thr {
				le = append(le, i)
			} else {
				gt = append(gt, i)
			}
		}
		model.Rules = append(model.Rules, Rule{
			Feature:   feat,
			Threshold: thr,
			ClassLE:   majorityClass(y, le, classes),
			ClassGT:   majorityClass(y, gt, classes),
		})
	}
	return model, nil
}
