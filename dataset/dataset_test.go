package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

func TestReadInfersColumnKinds(t *testing.T) {
	csv := strings.Join([]string{
		"subject_id,accel_x,accel_y,activity",
		"s01,0.12,1.5,A",
		"s02,0.50,,B",
		"s03,-0.33,2.25,A",
	}, "\n")

	d, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if d.NumRows() != 3 {
		t.Errorf("NumRows() = %d, want 3", d.NumRows())
	}
	if d.NumColumns() != 4 {
		t.Errorf("NumColumns() = %d, want 4", d.NumColumns())
	}

	tests := []struct {
		column      string
		wantKind    Kind
		wantMissing bool
	}{
		{column: "subject_id", wantKind: KindCategorical, wantMissing: false},
		{column: "accel_x", wantKind: KindNumeric, wantMissing: false},
		{column: "accel_y", wantKind: KindNumeric, wantMissing: true},
		{column: "activity", wantKind: KindCategorical, wantMissing: false},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			c := d.Column(tt.column)
			if c == nil {
				t.Fatalf("column %q missing", tt.column)
			}
			if c.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.wantKind)
			}
			if c.HasMissing() != tt.wantMissing {
				t.Errorf("HasMissing() = %v, want %v", c.HasMissing(), tt.wantMissing)
			}
		})
	}
}

func TestFilterColumns(t *testing.T) {
	csv := strings.Join([]string{
		"subject_id,accel_x,accel_y,note,activity",
		"s01,0.12,1.5,ok,A",
		"s02,0.50,,fine,B",
		"s03,-0.33,2.25,good,A",
	}, "\n")
	d, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	filtered, err := FilterColumns(d, "activity", "subject_id")
	if err != nil {
		t.Fatalf("FilterColumns() error: %v", err)
	}

	want := []string{"accel_x", "activity"}
	got := filtered.ColumnNames()
	if len(got) != len(want) {
		t.Fatalf("ColumnNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ColumnNames()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// accel_y has a missing value and must be dropped; the categorical label
	// column must survive; the id column must never survive.
	if filtered.HasColumn("accel_y") {
		t.Error("column with missing values should be dropped")
	}
	if !filtered.HasColumn("activity") {
		t.Error("label column must always be kept")
	}
	if filtered.HasColumn("subject_id") {
		t.Error("identifier column must always be dropped")
	}
}

func TestFilterColumnsMissingLabel(t *testing.T) {
	d, err := Read(strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	_, err = FilterColumns(d, "activity", "")
	var schemaErr *errors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "activity" {
		t.Errorf("Column = %v, want activity", schemaErr.Column)
	}
}

// syntheticLabels builds a label column with the given class counts.
func syntheticLabels(t *testing.T, counts map[string]int) *Dataset {
	t.Helper()
	var labels []string
	var values []float64
	for _, class := range []string{"A", "B", "C", "D", "E"} {
		for i := 0; i < counts[class]; i++ {
			labels = append(labels, class)
			values = append(values, float64(i))
		}
	}
	d, err := New([]*Column{
		{Name: "feat", Kind: KindNumeric, Floats: values, Missing: make([]bool, len(values))},
		{Name: "activity", Kind: KindCategorical, Strings: labels, Missing: make([]bool, len(labels))},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return d
}

func TestStratifiedSplitProportions(t *testing.T) {
	// 1000 rows, label proportions A:40% B:15% C:15% D:15% E:15%, 70/30 split.
	d := syntheticLabels(t, map[string]int{"A": 400, "B": 150, "C": 150, "D": 150, "E": 150})

	split, err := StratifiedSplit(d, "activity", 0.7, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error: %v", err)
	}

	if len(split.TrainIndices)+len(split.TestIndices) != 1000 {
		t.Fatalf("partition sizes %d+%d != 1000", len(split.TrainIndices), len(split.TestIndices))
	}

	// Disjointness.
	seen := make(map[int]bool, 1000)
	for _, i := range split.TrainIndices {
		seen[i] = true
	}
	for _, i := range split.TestIndices {
		if seen[i] {
			t.Fatalf("index %d appears in both train and test", i)
		}
	}

	labels, _ := d.Labels("activity")
	trainCounts := make(map[string]int)
	for _, i := range split.TrainIndices {
		trainCounts[labels[i]]++
	}

	// 700*0.4 = 280 rows of class A with a small tolerance.
	if trainCounts["A"] < 278 || trainCounts["A"] > 282 {
		t.Errorf("train class A count = %d, want 278..282", trainCounts["A"])
	}
	for _, class := range []string{"B", "C", "D", "E"} {
		if trainCounts[class] < 103 || trainCounts[class] > 107 {
			t.Errorf("train class %s count = %d, want 103..107", class, trainCounts[class])
		}
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	d := syntheticLabels(t, map[string]int{"A": 40, "B": 30, "C": 30})

	first, err := StratifiedSplit(d, "activity", 0.7, 7)
	if err != nil {
		t.Fatalf("StratifiedSplit() error: %v", err)
	}
	second, err := StratifiedSplit(d, "activity", 0.7, 7)
	if err != nil {
		t.Fatalf("StratifiedSplit() error: %v", err)
	}

	if fmt.Sprint(first.TrainIndices) != fmt.Sprint(second.TrainIndices) {
		t.Error("same seed must produce the same training indices")
	}

	other, err := StratifiedSplit(d, "activity", 0.7, 8)
	if err != nil {
		t.Fatalf("StratifiedSplit() error: %v", err)
	}
	if fmt.Sprint(first.TrainIndices) == fmt.Sprint(other.TrainIndices) {
		t.Error("different seeds should shuffle differently")
	}
}

func TestStratifiedSplitInsufficientData(t *testing.T) {
	d := syntheticLabels(t, map[string]int{"A": 10, "B": 1})

	_, err := StratifiedSplit(d, "activity", 0.7, 1)
	var insErr *errors.InsufficientDataError
	if !errors.As(err, &insErr) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insErr.Label != "B" {
		t.Errorf("Label = %v, want B", insErr.Label)
	}
}

func TestFeatureMatrixMissingColumn(t *testing.T) {
	d := syntheticLabels(t, map[string]int{"A": 4, "B": 4})

	_, err := d.FeatureMatrix([]string{"feat", "gyro_z"})
	var shapeErr *errors.ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if shapeErr.Column != "gyro_z" {
		t.Errorf("Column = %v, want gyro_z", shapeErr.Column)
	}
}

func TestSelectPreservesColumns(t *testing.T) {
	d := syntheticLabels(t, map[string]int{"A": 3, "B": 3})

	sub := d.Select([]int{0, 3, 5})
	if sub.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", sub.NumRows())
	}
	labels, err := sub.Labels("activity")
	if err != nil {
		t.Fatalf("Labels() error: %v", err)
	}
	want := []string{"A", "B", "B"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %v, want %v", i, labels[i], want[i])
		}
	}
}
