package eval

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

func separableData(t *testing.T, perClass int) *dataset.Dataset {
	t.Helper()
	r := rand.New(rand.NewPCG(4, 4))

	var f1, f2 []float64
	var labels []string
	for i := 0; i < perClass; i++ {
		f1 = append(f1, r.Float64())
		f2 = append(f2, r.Float64())
		labels = append(labels, "A")
	}
	for i := 0; i < perClass; i++ {
		f1 = append(f1, 5+r.Float64())
		f2 = append(f2, 5+r.Float64())
		labels = append(labels, "B")
	}
	d, err := dataset.New([]*dataset.Column{
		{Name: "f1", Kind: dataset.KindNumeric, Floats: f1, Missing: make([]bool, len(f1))},
		{Name: "f2", Kind: dataset.KindNumeric, Floats: f2, Missing: make([]bool, len(f2))},
		{Name: "activity", Kind: dataset.KindCategorical, Strings: labels, Missing: make([]bool, len(labels))},
	})
	if err != nil {
		t.Fatalf("dataset.New() error: %v", err)
	}
	return d
}

func TestEvaluate(t *testing.T) {
	d := separableData(t, 25)
	spec := classifier.Spec{Method: classifier.MethodLDA, Seed: 1, LDA: &classifier.LDAOptions{Regularization: 1e-6}}
	model, err := classifier.Fit(context.Background(), spec, d, "activity")
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	summary, err := Evaluate(model, d, "activity")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	if summary.Total != 50 {
		t.Errorf("Total = %d, want 50", summary.Total)
	}
	if summary.TestAccuracy < 0.95 {
		t.Errorf("TestAccuracy = %v, want >= 0.95 on separable data", summary.TestAccuracy)
	}
	if summary.CILow > summary.TestAccuracy || summary.CIHigh < summary.TestAccuracy {
		t.Errorf("CI [%v, %v] does not bracket accuracy %v", summary.CILow, summary.CIHigh, summary.TestAccuracy)
	}
	if summary.TrainTime != model.TrainTime {
		t.Errorf("TrainTime = %v, want %v from the model metadata", summary.TrainTime, model.TrainTime)
	}

	if total := summary.Confusion.Total(); total != 50 {
		t.Errorf("confusion matrix total = %d, want 50", total)
	}
}

func TestEvaluateMissingLabelColumn(t *testing.T) {
	d := separableData(t, 10)
	spec := classifier.Spec{Method: classifier.MethodLDA, Seed: 1, LDA: &classifier.LDAOptions{}}
	model, err := classifier.Fit(context.Background(), spec, d, "activity")
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	noLabel := d.Project([]string{"f1", "f2"})
	_, err = Evaluate(model, noLabel, "activity")
	var shapeErr *errors.ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if shapeErr.Column != "activity" {
		t.Errorf("Column = %v, want activity", shapeErr.Column)
	}
}

func TestClopperPearson(t *testing.T) {
	tests := []struct {
		name     string
		k, n     int
		wantLow  float64
		wantHigh float64
		tol      float64
	}{
		// Reference values from R binom.test.
		{name: "50 of 100", k: 50, n: 100, wantLow: 0.3983, wantHigh: 0.6017, tol: 1e-3},
		{name: "95 of 100", k: 95, n: 100, wantLow: 0.8872, wantHigh: 0.9836, tol: 1e-3},
		{name: "all correct", k: 20, n: 20, wantLow: 0.8316, wantHigh: 1.0, tol: 1e-3},
		{name: "none correct", k: 0, n: 20, wantLow: 0.0, wantHigh: 0.1684, tol: 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high := ClopperPearson(tt.k, tt.n, 0.95)
			if math.Abs(low-tt.wantLow) > tt.tol {
				t.Errorf("low = %v, want %v", low, tt.wantLow)
			}
			if math.Abs(high-tt.wantHigh) > tt.tol {
				t.Errorf("high = %v, want %v", high, tt.wantHigh)
			}
		})
	}
}

func TestConfusionMatrixRecall(t *testing.T) {
	m := newConfusionMatrix([]string{"A", "B"})
	m.add("A", "A")
	m.add("A", "A")
	m.add("A", "B")
	m.add("B", "B")

	if got := m.Recall(0); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("Recall(A) = %v, want 2/3", got)
	}
	if got := m.Recall(1); got != 1.0 {
		t.Errorf("Recall(B) = %v, want 1", got)
	}
	if !m.add("A", "B") {
		t.Error("in-domain observation should be recorded")
	}
	if m.add("Z", "A") {
		t.Error("out-of-domain true label should be rejected")
	}
}
