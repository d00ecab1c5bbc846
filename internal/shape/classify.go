package shape

import (
	"database/sql"
	"reflect"

	"row-mapper/primitive"
)

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// Classify tells how a value of type t participates in mapping. A single pointer
// level is transparent, deeper pointers are invalid.
func Classify(t reflect.Type) KindEnum {
	depth, base := PtrDepthAndBase(t)
	if base == nil {
		return KindUnknown
	}

	if depth > 1 {
		return KindInvalid
	}

	if IsScanner(base) || primitive.FromReflectType(base) != 0 {
		return KindScalar
	}

	switch base.Kind() {
	default:
		return KindUnknown
	case reflect.Interface:
		return KindInterface
	case reflect.Slice, reflect.Map, reflect.Array:
		return KindOpaque
	case reflect.Struct:
		return KindStruct
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return KindInvalid
	}
}

// IsScanner reports whether *t implements sql.Scanner.
func IsScanner(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(scannerType)
}

// CanBeAbsent reports whether a field of type t can represent a missing object.
func CanBeAbsent(t reflect.Type) bool {
	switch t.Kind() {
	default:
		return false
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
}
