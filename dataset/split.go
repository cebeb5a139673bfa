package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Split holds the row indices of a stratified train/test partition.
type Split struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedSplit partitions the dataset rows into disjoint training and test
// index sets, preserving the per-class label proportions. For each class,
// round(fraction*n) rows go to training and the rest to test, after shuffling
// the class pool with a PCG generator seeded from seed. The result is
// deterministic for a fixed seed.
//
// It fails with an InsufficientDataError if any class has fewer than two rows,
// since such a class cannot appear on both sides of the partition.
func StratifiedSplit(d *Dataset, labelCol string, fraction float64, seed int64) (Split, error) {
	if fraction <= 0 || fraction >= 1 {
		return Split{}, errors.NewValueError("StratifiedSplit", "fraction must be in (0, 1)")
	}
	labels, err := d.Labels(labelCol)
	if err != nil {
		return Split{}, err
	}

	// Group row indices by class.
	classIndices := make(map[string][]int)
	for i, label := range labels {
		classIndices[label] = append(classIndices[label], i)
	}

	// Iterate classes in a stable order so the shuffle sequence is reproducible.
	classes := make([]string, 0, len(classIndices))
	for label := range classIndices {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	var split Split
	for _, label := range classes {
		indices := classIndices[label]
		if len(indices) < 2 {
			return Split{}, errors.NewInsufficientDataError(label, len(indices), 2)
		}
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTrain := int(math.Round(fraction * float64(len(indices))))
		// Keep at least one row on each side of the partition.
		if nTrain < 1 {
			nTrain = 1
		}
		if nTrain >= len(indices) {
			nTrain = len(indices) - 1
		}

		split.TrainIndices = append(split.TrainIndices, indices[:nTrain]...)
		split.TestIndices = append(split.TestIndices, indices[nTrain:]...)
	}

	sort.Ints(split.TrainIndices)
	sort.Ints(split.TestIndices)
	return split, nil
}
