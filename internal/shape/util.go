package shape

import "reflect"

// Base strips every pointer level of t.
func Base(t reflect.Type) reflect.Type {
	_, base := PtrDepthAndBase(t)
	return base
}

// PtrDepthAndBase returns the pointer depth and the final base type.
func PtrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	terr := reflect.TypeOf((*error)(nil)).Elem()

	return t.Implements(terr)
}
