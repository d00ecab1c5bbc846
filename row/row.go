// Package row defines the tabular record consumed by the mapper and a few
// sources producing it from database/sql result sets, sqlx and JSON objects.
package row

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"row-mapper/internal/match"
)

var (
	ErrLengthMismatch = errors.New("columns and values differ in length")
	ErrNestedValue    = errors.New("nested values are not supported in a row")
)

// ColumnName is a normalized column identifier: case and separators do not matter,
// so "B_ID", "b.id" and "bId" are the same column.
type ColumnName string

// Normalize turns a raw column label into a ColumnName.
func Normalize(name string) ColumnName {
	return ColumnName(match.NormalizeColumn(name))
}

func (c ColumnName) String() string { return string(c) }

// Row is a single record of named raw values.
//
// Get reports ok=false for a column the row does not have and (nil, true)
// for a column holding null.
type Row interface {
	Get(name ColumnName) (value any, ok bool)
	Columns() []ColumnName
}

// Values is an ordered Row. When several labels normalize to the same name
// the first one wins.
type Values struct {
	names  []string
	keys   []ColumnName
	values map[ColumnName]any
}

var _ Row = (*Values)(nil)

// New pairs columns with values positionally.
func New(columns []string, values []any) (*Values, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("%w: %d columns, %d values", ErrLengthMismatch, len(columns), len(values))
	}

	v := &Values{
		names:  make([]string, 0, len(columns)),
		keys:   make([]ColumnName, 0, len(columns)),
		values: make(map[ColumnName]any, len(columns)),
	}

	for i, name := range columns {
		key := Normalize(name)
		if _, dup := v.values[key]; dup {
			continue
		}

		v.names = append(v.names, name)
		v.keys = append(v.keys, key)
		v.values[key] = values[i]
	}

	return v, nil
}

// FromMap builds a row from m, columns sorted by label.
func FromMap(m map[string]any) *Values {
	columns := slices.Sorted(maps.Keys(m))

	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = m[c]
	}

	v, _ := New(columns, values)

	return v
}

func (v *Values) Get(name ColumnName) (any, bool) {
	value, ok := v.values[name]
	return value, ok
}

func (v *Values) Columns() []ColumnName {
	return slices.Clone(v.keys)
}

// Names returns the original column labels in row order.
func (v *Values) Names() []string {
	return slices.Clone(v.names)
}

func (v *Values) Len() int { return len(v.keys) }
