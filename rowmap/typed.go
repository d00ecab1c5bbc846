package rowmap

import (
	"database/sql"
	"fmt"
	"reflect"

	"row-mapper/row"
)

// Typed is a Mapper bound to its Go type T. T may be a pointer to the mapped type.
type Typed[T any] struct {
	m   *Mapper
	typ reflect.Type
}

// For resolves the mapper of T under prefix on reg, the Default registry when nil.
func For[T any](reg *Registry, prefix string) (*Typed[T], error) {
	if reg == nil {
		reg = Default
	}

	t := reflect.TypeOf((*T)(nil)).Elem()

	m, err := reg.Resolve(t, prefix)
	if err != nil {
		return nil, err
	}

	return &Typed[T]{m: m, typ: t}, nil
}

func (t *Typed[T]) Mapper() *Mapper { return t.m }

// Apply maps r. An absent object yields the zero T.
func (t *Typed[T]) Apply(r row.Row) (T, error) {
	var zero T

	v, present, err := t.m.applyValue(r)
	if err != nil || !present {
		return zero, err
	}

	if t.typ.Kind() == reflect.Pointer {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}

	return v.Convert(t.typ).Interface().(T), nil
}

// ApplyAll maps every row, stopping at the first failure.
func (t *Typed[T]) ApplyAll(rows []row.Row) ([]T, error) {
	res := make([]T, 0, len(rows))

	for i, r := range rows {
		v, err := t.Apply(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		res = append(res, v)
	}

	return res, nil
}

// ScanAll maps every remaining row of a result set and closes it.
func (t *Typed[T]) ScanAll(rows *sql.Rows) ([]T, error) {
	var res []T

	i := 0
	err := row.Each(rows, func(r row.Row) error {
		v, err := t.Apply(r)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}

		i++
		res = append(res, v)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Map maps r into T with the Default registry, reading columns under prefix.
func Map[T any](r row.Row, prefix string) (T, error) {
	typed, err := For[T](Default, prefix)
	if err != nil {
		var zero T
		return zero, err
	}

	return typed.Apply(r)
}
