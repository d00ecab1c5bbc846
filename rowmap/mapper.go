package rowmap

import (
	"database/sql"
	"errors"
	"reflect"

	"row-mapper/internal/mapping"
	"row-mapper/internal/match"
	"row-mapper/internal/shape"
	"row-mapper/primitive"
	"row-mapper/row"
)

var errNilRow = errors.New("rowmap: nil row")

// Column is one column a mapper reads.
type Column = mapping.Column

// Mapper turns rows into instances of one type read under one prefix.
// It is immutable once resolved and safe for concurrent use.
type Mapper struct {
	desc        *TypeDescriptor
	prefix      string
	self        nullKey
	fields      []boundField
	conversions primitive.CategoryEnum
	suggestions int
}

// boundField is a field descriptor with its columns resolved against the mapper prefix.
type boundField struct {
	*FieldDescriptor

	column  row.ColumnName
	display string
	child   *Mapper
	key     nullKey
}

// mappingContext is the state of one Apply call.
type mappingContext struct {
	row  row.Row
	path string
}

func (m *Mapper) Type() reflect.Type { return m.desc.Type }

func (m *Mapper) Prefix() string { return m.prefix }

func (m *Mapper) Descriptor() *TypeDescriptor { return m.desc }

// Apply maps r into a new instance of the mapper type, returned by value.
// It returns nil without error when the type's own propagate-null key is null.
func (m *Mapper) Apply(r row.Row) (any, error) {
	v, present, err := m.applyValue(r)
	if err != nil || !present {
		return nil, err
	}

	return v.Interface(), nil
}

func (m *Mapper) applyValue(r row.Row) (reflect.Value, bool, error) {
	if r == nil {
		return reflect.Value{}, false, errNilRow
	}

	return m.apply(mappingContext{row: r})
}

func (m *Mapper) apply(ctx mappingContext) (reflect.Value, bool, error) {
	present, err := m.self.present(ctx.row, m.desc.Type, ctx.path)
	if err != nil || !present {
		return reflect.Value{}, false, err
	}

	values := make([]reflect.Value, len(m.fields))
	for i := range m.fields {
		f := &m.fields[i]

		switch f.Kind {
		case FieldNested:
			values[i], err = m.nested(ctx, f)
		default:
			values[i], err = m.direct(ctx, f)
		}

		if err != nil {
			return reflect.Value{}, false, err
		}
	}

	v, err := m.instantiate(ctx, values)
	if err != nil {
		return reflect.Value{}, false, err
	}

	return v, true, nil
}

func (m *Mapper) nested(ctx mappingContext, f *boundField) (reflect.Value, error) {
	path := fieldPath(ctx.path, f.Name)

	present, err := f.key.present(ctx.row, f.Child, path)
	if err != nil {
		return reflect.Value{}, err
	}

	if !present {
		return reflect.Zero(f.Type), nil
	}

	child, present, err := f.child.apply(mappingContext{row: ctx.row, path: path})
	if err != nil {
		return reflect.Value{}, err
	}

	if !present {
		return reflect.Zero(f.Type), nil
	}

	if f.Type.Kind() == reflect.Pointer {
		ptr := reflect.New(f.Child)
		ptr.Elem().Set(child)

		return ptr, nil
	}

	return child, nil
}

func (m *Mapper) direct(ctx mappingContext, f *boundField) (reflect.Value, error) {
	raw, ok := ctx.row.Get(f.column)
	if !ok {
		// no value: the default instance keeps its own
		if f.Nullable {
			return reflect.Value{}, nil
		}

		return reflect.Value{}, &MissingColumnError{
			Type:        m.desc.Type,
			Field:       fieldPath(ctx.path, f.Name),
			Column:      f.display,
			Suggestions: m.suggest(ctx.row, f.display),
		}
	}

	if isNull(raw) {
		return m.null(ctx, f, raw)
	}

	v, err := primitive.Convert(raw, f.Type, m.conversions)
	if err != nil {
		return reflect.Value{}, m.conversionError(ctx, f, raw, err)
	}

	return v, nil
}

// null decides what a null column means for a direct field.
func (m *Mapper) null(ctx mappingContext, f *boundField, raw any) (reflect.Value, error) {
	switch {
	case shape.CanBeAbsent(f.Type):
		return reflect.Zero(f.Type), nil
	case shape.IsScanner(f.Type):
		ptr := reflect.New(f.Type)
		if err := ptr.Interface().(sql.Scanner).Scan(nil); err != nil {
			return reflect.Value{}, m.conversionError(ctx, f, raw, err)
		}

		return ptr.Elem(), nil
	case f.Nullable:
		return reflect.Zero(f.Type), nil
	default:
		return reflect.Value{}, m.conversionError(ctx, f, raw, primitive.ErrNull)
	}
}

func (m *Mapper) conversionError(ctx mappingContext, f *boundField, raw any, err error) error {
	return &TypeConversionError{
		Type:   m.desc.Type,
		Field:  fieldPath(ctx.path, f.Name),
		Column: f.display,
		Value:  raw,
		Target: f.Type,
		Err:    err,
	}
}

// suggest lists present columns of the same scope resembling column.
func (m *Mapper) suggest(r row.Row, column string) []string {
	var present []string

	if named, ok := r.(interface{ Names() []string }); ok {
		present = named.Names()
	} else {
		for _, c := range r.Columns() {
			present = append(present, c.String())
		}
	}

	return match.SuggestColumns(column, m.prefix, present, m.suggestions).Columns()
}

// Columns returns the columns read by the mapper, nested objects expanded in place.
// Propagate-null keys matching no field are listed after the fields of their scope.
func (m *Mapper) Columns() []Column {
	return m.columns("", nullKey{})
}

func (m *Mapper) columns(path string, outer nullKey) []Column {
	var res []Column

	keys := make([]nullKey, 0, 2)
	for _, k := range []nullKey{m.self, outer} {
		if k.isSet() {
			keys = append(keys, k)
		}
	}

	seen := map[row.ColumnName]struct{}{}

	for i := range m.fields {
		f := &m.fields[i]
		fpath := fieldPath(path, f.Name)

		if f.Kind == FieldNested {
			res = append(res, f.child.columns(fpath, f.key)...)
			continue
		}

		column := Column{
			Display:    f.display,
			Normalized: f.column.String(),
			Field:      fpath,
			Nullable:   f.Nullable,
		}

		for _, k := range keys {
			if k.column == f.column {
				column.Key = true
				seen[k.column] = struct{}{}
			}
		}

		res = append(res, column)
	}

	for _, k := range keys {
		if _, ok := seen[k.column]; ok {
			continue
		}

		seen[k.column] = struct{}{}
		res = append(res, Column{Display: k.display, Normalized: k.column.String(), Key: true})
	}

	return res
}
