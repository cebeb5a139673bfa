package classifier

import (
	"encoding/gob"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Predictor is the learned-parameter half of a fitted model: it maps one
// feature row to a class index.
type Predictor interface {
	PredictRow(x []float64) int
}

// Gob needs the concrete parameter types registered so a Fitted round-trips
// through the artifact store.
func init() {
	gob.Register(&LDAModel{})
	gob.Register(&QDAModel{})
	gob.Register(&GBMModel{})
	gob.Register(&RuleEnsembleModel{})
	gob.Register(&ForestModel{})
}

// Fitted is the immutable result of training one configuration. It owns the
// learned parameters plus the metadata the report needs, and records the
// feature layout so later inputs can be projected identically.
type Fitted struct {
	Method   Method
	Label    string
	Features []string
	Classes  []string

	Model Predictor

	TrainTime     time.Duration
	TrainAccuracy float64
	// BestTuneAccuracy is the best in-sample accuracy seen across any
	// internal tuning the method performs (boosting stages for GBM);
	// for the other methods it equals TrainAccuracy.
	BestTuneAccuracy float64
}

// Predict classifies every row of d, projecting it onto the training feature
// layout. It fails with a ShapeMismatchError when a feature column is absent.
func (f *Fitted) Predict(d *dataset.Dataset) ([]string, error) {
	if f.Model == nil {
		return nil, errors.NewNotFittedError(string(f.Method), "Predict")
	}
	x, err := d.FeatureMatrix(f.Features)
	if err != nil {
		return nil, err
	}
	return f.PredictMatrix(x), nil
}

// PredictMatrix classifies every row of an already-projected feature matrix.
func (f *Fitted) PredictMatrix(x *mat.Dense) []string {
	n, _ := x.Dims()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = f.Classes[f.Model.PredictRow(x.RawRowView(i))]
	}
	return out
}
