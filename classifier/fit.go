package classifier

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Fit trains one configuration on the training dataset and returns the
// fitted model. It has no persistence side effects; caching is the caller's
// concern.
//
// Failure modes: UnknownMethodError for an unrecognized method,
// TrainingError wrapping any backend failure, and the dataset errors for
// malformed input.
func Fit(ctx context.Context, spec Spec, train *dataset.Dataset, labelCol string) (*Fitted, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	labels, err := train.Labels(labelCol)
	if err != nil {
		return nil, err
	}
	features := dataset.FeatureNames(train, labelCol)
	x, err := train.FeatureMatrix(features)
	if err != nil {
		return nil, err
	}

	classes, y := encodeLabels(labels)
	if len(classes) < 2 {
		return nil, errors.NewValueError("Fit", "training data has fewer than two label classes")
	}

	rows := matRows(x)
	r := rand.New(rand.NewPCG(uint64(spec.Seed), uint64(spec.Seed)))

	start := time.Now()
	var model Predictor
	var fitErr error
	switch spec.Method {
	case MethodLDA:
		model, fitErr = fitLDA(rows, y, len(classes), spec.LDA)
	case MethodQDA:
		model, fitErr = fitQDA(rows, y, len(classes), spec.QDA)
	case MethodGBM:
		model, fitErr = fitGBM(ctx, rows, y, len(classes), spec.GBM)
	case MethodRuleEnsemble:
		model, fitErr = fitRuleEnsemble(rows, y, len(classes), spec.Rules, r)
	case MethodRandomForest:
		model, fitErr = fitForest(rows, y, len(classes), spec.Forest, r)
	default:
		return nil, errors.NewUnknownMethodError(string(spec.Method))
	}
	elapsed := time.Since(start)
	if fitErr != nil {
		return nil, errors.NewTrainingError(string(spec.Method), elapsed, fitErr)
	}

	fitted := &Fitted{
		Method:    spec.Method,
		Label:     spec.DisplayLabel(),
		Features:  features,
		Classes:   classes,
		Model:     model,
		TrainTime: elapsed,
	}
	fitted.TrainAccuracy = trainAccuracy(model, rows, y)
	fitted.BestTuneAccuracy = fitted.TrainAccuracy
	if gbm, ok := model.(*GBMModel); ok && gbm.BestTrainAccuracy > fitted.BestTuneAccuracy {
		fitted.BestTuneAccuracy = gbm.BestTrainAccuracy
	}
	return fitted, nil
}

// encodeLabels maps labels to dense class indices. Classes are sorted so the
// encoding is independent of row order.
func encodeLabels(labels []string) ([]string, []int) {
	uniq := make(map[string]struct{})
	for _, l := range labels {
		uniq[l] = struct{}{}
	}
	classes := make([]string, 0, len(uniq))
	for l := range uniq {
		classes = append(classes, l)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = index[l]
	}
	return classes, y
}

// matRows exposes the matrix rows as slices without copying.
func matRows(x *mat.Dense) [][]float64 {
	n, _ := x.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = x.RawRowView(i)
	}
	return rows
}

func trainAccuracy(model Predictor, rows [][]float64, y []int) float64 {
	correct := 0
	for i, row := range rows {
		if model.PredictRow(row) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows))
}
