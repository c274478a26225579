// Package dataset provides an in-memory tabular dataset loaded from CSV,
// with the column projection, truncation and sampling operations used to
// derive the optimized views.
//
// A Dataset keeps every value as a string, exactly as it appeared in the
// source file. Projection operations return copies; the loaded dataset is
// never mutated except through TruncateColumn, which callers apply to a
// projection they own.
package dataset

import (
	"math/rand"

	"github.com/modelprops/dataopt/pkg/errors"
)

// Dataset is an ordered collection of rows sharing a single header.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty dataset with the given columns.
func New(columns []string) *Dataset {
	return &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0),
	}
}

// NumRows returns the number of data rows (header excluded).
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int {
	return len(d.Columns)
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Select returns a new dataset holding the requested columns in request
// order. Columns not present in the dataset are silently dropped, so a
// fixed allow-list can be applied to any input file.
func (d *Dataset) Select(columns []string) *Dataset {
	indices := make([]int, 0, len(columns))
	kept := make([]string, 0, len(columns))
	for _, col := range columns {
		if idx := d.ColumnIndex(col); idx >= 0 {
			indices = append(indices, idx)
			kept = append(kept, col)
		}
	}

	out := &Dataset{
		Columns: kept,
		Rows:    make([][]string, len(d.Rows)),
	}
	for i, row := range d.Rows {
		projected := make([]string, len(indices))
		for j, idx := range indices {
			if idx < len(row) {
				projected[j] = row[idx]
			}
		}
		out.Rows[i] = projected
	}
	return out
}

// AppendColumn adds a column to the right of the dataset. The value slice
// must have one entry per row.
func (d *Dataset) AppendColumn(name string, values []string) error {
	if len(values) != len(d.Rows) {
		return errors.New(errors.ErrorTypeValidation, "column length does not match row count").
			WithDetail("column", name).
			WithDetail("values", len(values)).
			WithDetail("rows", len(d.Rows))
	}
	if d.HasColumn(name) {
		return errors.New(errors.ErrorTypeValidation, "column already exists").
			WithDetail("column", name)
	}

	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], values[i])
	}
	return nil
}

// TruncateColumn caps every value in the named column at limit characters
// (runes, not bytes). It reports whether the column was present.
func (d *Dataset) TruncateColumn(name string, limit int) bool {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return false
	}

	for _, row := range d.Rows {
		if idx >= len(row) {
			continue
		}
		runes := []rune(row[idx])
		if len(runes) > limit {
			row[idx] = string(runes[:limit])
		}
	}
	return true
}

// Sample returns a uniform random sample of n rows and the original row
// indices of the rows kept, in draw order. The sample is deterministic for
// a given seed. If n >= NumRows the dataset is returned unchanged with a
// nil index list.
func (d *Dataset) Sample(n int, seed int64) (*Dataset, []int) {
	if n >= len(d.Rows) {
		return d, nil
	}

	// Partial Fisher-Yates over the index space; only the first n swaps
	// are needed to draw the sample.
	rng := rand.New(rand.NewSource(seed))
	indices := make([]int, len(d.Rows))
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	drawn := indices[:n]

	out := &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([][]string, n),
	}
	for i, idx := range drawn {
		out.Rows[i] = d.Rows[idx]
	}
	return out, drawn
}
