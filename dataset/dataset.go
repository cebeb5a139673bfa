// Package dataset provides the in-memory table the pipeline operates on:
// loading from CSV, column filtering and stratified train/test splitting.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Kind classifies a column's value type.
type Kind int

const (
	// KindNumeric is a column whose every non-missing cell parses as float64.
	KindNumeric Kind = iota
	// KindCategorical is a column with a small enumerated string domain.
	KindCategorical
	// KindText is any other string column.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "text"
	}
}

// Column holds one column of the dataset. Numeric columns populate Floats,
// categorical and text columns populate Strings. Missing is parallel to the
// rows and marks empty cells.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// HasMissing reports whether any cell in the column is missing.
func (c *Column) HasMissing() bool {
	for _, m := range c.Missing {
		if m {
			return true
		}
	}
	return false
}

// Dataset is a column-ordered table. All columns have the same length.
type Dataset struct {
	names   []string
	columns map[string]*Column
	rows    int
}

// New creates a Dataset from columns in the given order.
// All columns must have the same number of rows.
func New(columns []*Column) (*Dataset, error) {
	d := &Dataset{columns: make(map[string]*Column, len(columns))}
	for i, c := range columns {
		n := len(c.Missing)
		if i == 0 {
			d.rows = n
		} else if n != d.rows {
			return nil, errors.NewValueError("dataset.New", "columns have unequal lengths")
		}
		if _, dup := d.columns[c.Name]; dup {
			return nil, errors.NewValueError("dataset.New", "duplicate column name "+c.Name)
		}
		d.names = append(d.names, c.Name)
		d.columns[c.Name] = c
	}
	return d, nil
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.names) }

// ColumnNames returns the column names in table order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Column returns the named column, or nil if absent.
func (d *Dataset) Column(name string) *Column {
	return d.columns[name]
}

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Select returns a new Dataset containing only the given row indices,
// in the given order. Column set and order are preserved.
func (d *Dataset) Select(rows []int) *Dataset {
	out := &Dataset{
		names:   append([]string(nil), d.names...),
		columns: make(map[string]*Column, len(d.names)),
		rows:    len(rows),
	}
	for _, name := range d.names {
		src := d.columns[name]
		dst := &Column{
			Name:    src.Name,
			Kind:    src.Kind,
			Missing: make([]bool, len(rows)),
		}
		if src.Floats != nil {
			dst.Floats = make([]float64, len(rows))
		}
		if src.Strings != nil {
			dst.Strings = make([]string, len(rows))
		}
		for i, r := range rows {
			dst.Missing[i] = src.Missing[r]
			if src.Floats != nil {
				dst.Floats[i] = src.Floats[r]
			}
			if src.Strings != nil {
				dst.Strings[i] = src.Strings[r]
			}
		}
		out.columns[name] = dst
	}
	return out
}

// Project returns a new Dataset containing only the named columns.
// Unknown names are ignored; order follows the names argument.
func (d *Dataset) Project(names []string) *Dataset {
	out := &Dataset{columns: make(map[string]*Column, len(names)), rows: d.rows}
	for _, name := range names {
		if c, ok := d.columns[name]; ok {
			out.names = append(out.names, name)
			out.columns[name] = c
		}
	}
	return out
}

// Labels returns the string values of the label column.
// Numeric label columns are not supported.
func (d *Dataset) Labels(labelCol string) ([]string, error) {
	c, ok := d.columns[labelCol]
	if !ok {
		return nil, errors.NewSchemaError("Labels", labelCol)
	}
	if c.Strings == nil {
		return nil, errors.NewValueError("Labels", "label column "+labelCol+" is not categorical")
	}
	return c.Strings, nil
}

// FeatureMatrix assembles the named numeric columns into a dense row-major
// matrix of shape (rows, len(features)). It fails with a ShapeMismatchError
// when a feature column is absent or non-numeric.
func (d *Dataset) FeatureMatrix(features []string) (*mat.Dense, error) {
	if len(features) == 0 || d.rows == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	x := mat.NewDense(d.rows, len(features), nil)
	for j, name := range features {
		c, ok := d.columns[name]
		if !ok {
			return nil, errors.NewShapeMismatchError("FeatureMatrix", name)
		}
		if c.Kind != KindNumeric {
			return nil, errors.NewShapeMismatchError("FeatureMatrix", name)
		}
		for i := 0; i < d.rows; i++ {
			x.Set(i, j, c.Floats[i])
		}
	}
	return x, nil
}
