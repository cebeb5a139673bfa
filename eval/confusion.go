package eval

// ConfusionMatrix cross-tabulates true labels (rows) against predicted labels
// (columns) over a fixed class set.
type ConfusionMatrix struct {
	Classes []string
	Counts  [][]int
}

// newConfusionMatrix creates an empty matrix over the given classes.
func newConfusionMatrix(classes []string) *ConfusionMatrix {
	counts := make([][]int, len(classes))
	for i := range counts {
		counts[i] = make([]int, len(classes))
	}
	return &ConfusionMatrix{
		Classes: append([]string(nil), classes...),
		Counts:  counts,
	}
}

// index returns the class position, or -1 for a label outside the class set.
func (m *ConfusionMatrix) index(label string) int {
	for i, c := range m.Classes {
		if c == label {
			return i
		}
	}
	return -1
}

// add records one observation. It returns false when the true label is
// outside the class set (the observation still counts against accuracy, but
// cannot be placed in the table).
func (m *ConfusionMatrix) add(trueLabel, predicted string) bool {
	i := m.index(trueLabel)
	j := m.index(predicted)
	if i < 0 || j < 0 {
		return false
	}
	m.Counts[i][j]++
	return true
}

// Total returns the number of observations in the table.
func (m *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Recall returns the per-class recall: diagonal over row sum.
// Classes with no observations report 0.
func (m *ConfusionMatrix) Recall(class int) float64 {
	rowSum := 0
	for _, c := range m.Counts[class] {
		rowSum += c
	}
	if rowSum == 0 {
		return 0
	}
	return float64(m.Counts[class][class]) / float64(rowSum)
}
