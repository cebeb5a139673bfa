package dataset

import (
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// FilterColumns projects the dataset onto modelling columns: a column
// survives iff it has no missing values and is numeric. Two overrides:
// the identifier column is always dropped regardless of type, and the
// label column is always kept regardless of type.
//
// The input dataset is not modified.
func FilterColumns(d *Dataset, labelCol, idCol string) (*Dataset, error) {
	if !d.HasColumn(labelCol) {
		return nil, errors.NewSchemaError("FilterColumns", labelCol)
	}

	var keep []string
	for _, name := range d.ColumnNames() {
		if name == idCol {
			continue
		}
		if name == labelCol {
			keep = append(keep, name)
			continue
		}
		c := d.Column(name)
		if c.Kind != KindNumeric {
			continue
		}
		if c.HasMissing() {
			continue
		}
		keep = append(keep, name)
	}
	return d.Project(keep), nil
}

// FeatureNames returns the numeric feature columns of a filtered dataset,
// i.e. every column except the label, in table order.
func FeatureNames(d *Dataset, labelCol string) []string {
	var out []string
	for _, name := range d.ColumnNames() {
		if name == labelCol {
			continue
		}
		out = append(out, name)
	}
	return out
}
