package rowmap

import (
	"database/sql/driver"
	"reflect"

	"row-mapper/row"
)

// nullKey is a propagate-null key column bound to a prefix.
type nullKey struct {
	column  row.ColumnName
	display string
}

func newNullKey(display string) nullKey {
	return nullKey{column: row.Normalize(display), display: display}
}

func (k nullKey) isSet() bool { return k.column != "" }

// present evaluates the key against r. An unset key always reports presence without
// reading the row; a key column the row lacks altogether is an error, not an absence.
func (k nullKey) present(r row.Row, t reflect.Type, field string) (bool, error) {
	if !k.isSet() {
		return true, nil
	}

	raw, ok := r.Get(k.column)
	if !ok {
		return false, &PropagateNullKeyNotFoundError{Type: t, Field: field, Column: k.display}
	}

	return !isNull(raw), nil
}

// isNull reports whether a raw column value stands for SQL NULL.
func isNull(raw any) bool {
	if raw == nil {
		return true
	}

	if valuer, ok := raw.(driver.Valuer); ok {
		if v := reflect.ValueOf(raw); v.Kind() == reflect.Pointer && v.IsNil() {
			return true
		}

		value, err := valuer.Value()

		return err == nil && value == nil
	}

	switch v := reflect.ValueOf(raw); v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
