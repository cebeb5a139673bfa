// Package eval scores fitted models on held-out data: overall accuracy with
// an exact binomial confidence interval, plus a confusion matrix.
package eval

import (
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Summary is the per-model evaluation record. It is derived state,
// recomputed each run and never persisted.
type Summary struct {
	Label  string
	Method classifier.Method

	TrainTime time.Duration
	// TrainAccuracy is the best in-sample accuracy the model reported
	// across any internal tuning during training.
	TrainAccuracy float64

	TestAccuracy float64
	// CILow and CIHigh bound the 95% Clopper-Pearson interval around
	// TestAccuracy.
	CILow  float64
	CIHigh float64

	Correct int
	Total   int

	Confusion *ConfusionMatrix
}

// Evaluate runs the model over every row of the test set and compares against
// the true labels. It fails with a ShapeMismatchError when the test set lacks
// the label column or any feature column the model was trained on.
func Evaluate(model *classifier.Fitted, test *dataset.Dataset, labelCol string) (*Summary, error) {
	if !test.HasColumn(labelCol) {
		return nil, errors.NewShapeMismatchError("Evaluate", labelCol)
	}
	truth, err := test.Labels(labelCol)
	if err != nil {
		return nil, err
	}

	preds, err := model.Predict(test)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Label:         model.Label,
		Method:        model.Method,
		TrainTime:     model.TrainTime,
		TrainAccuracy: model.BestTuneAccuracy,
		Total:         len(truth),
		Confusion:     newConfusionMatrix(model.Classes),
	}
	for i := range truth {
		if preds[i] == truth[i] {
			s.Correct++
		}
		s.Confusion.add(truth[i], preds[i])
	}
	if s.Total == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	s.TestAccuracy = float64(s.Correct) / float64(s.Total)
	s.CILow, s.CIHigh = ClopperPearson(s.Correct, s.Total, 0.95)
	return s, nil
}

// ClopperPearson computes the exact binomial confidence interval for k
// successes out of n trials at the given confidence level.
func ClopperPearson(k, n int, confidence float64) (low, high float64) {
	if n == 0 {
		return 0, 1
	}
	alpha := 1 - confidence

	if k == 0 {
		low = 0
	} else {
		low = distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	}
	if k == n {
		high = 1
	} else {
		high = distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	}
	return low, high
}
