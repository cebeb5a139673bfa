package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Load reads a CSV file with a header row into a Dataset.
//
// Column kinds are inferred from the cells: a column where every non-empty
// cell parses as float64 becomes numeric, everything else categorical.
// Empty cells are recorded as missing.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("read", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV content from r. See Load.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		return nil, errors.NewStorageError("read", "csv header", err)
	}

	raw := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewStorageError("read", "csv row", err)
		}
		for j, cell := range record {
			raw[j] = append(raw[j], cell)
		}
	}

	columns := make([]*Column, len(header))
	for j, name := range header {
		columns[j] = buildColumn(name, raw[j])
	}
	return New(columns)
}

// buildColumn infers the column kind and materialises the cells.
func buildColumn(name string, cells []string) *Column {
	c := &Column{
		Name:    name,
		Missing: make([]bool, len(cells)),
	}

	numeric := true
	floats := make([]float64, len(cells))
	for i, cell := range cells {
		if cell == "" || cell == "NA" {
			c.Missing[i] = true
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			break
		}
		floats[i] = v
	}

	if numeric {
		c.Kind = KindNumeric
		c.Floats = floats
		return c
	}

	c.Kind = KindCategorical
	c.Strings = make([]string, len(cells))
	for i, cell := range cells {
		if cell == "" || cell == "NA" {
			c.Missing[i] = true
			continue
		}
		c.Strings[i] = cell
	}
	return c
}
