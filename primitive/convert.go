package primitive

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
)

var (
	scannerType  = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	validType    = reflect.TypeOf((*interface{ IsValid() bool })(nil)).Elem()
)

// numberLike is implemented by json.Number of both encoding/json and goccy/go-json.
type numberLike interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// Convert turns a raw column value into a value assignable to a field of type to.
//
// Pairs of scalar kinds are converted only when one of the allowed categories
// permits them. Types implementing sql.Scanner through their pointer are scanned
// when no category applies. A nil raw value yields ErrNull: deciding what null
// means for a field is up to the caller.
func Convert(raw any, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if raw == nil {
		return reflect.Value{}, ErrNull
	}

	if to.Kind() == reflect.Pointer {
		elem, err := Convert(raw, to.Elem(), allowed)
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(to.Elem())
		ptr.Elem().Set(elem)

		return ptr, nil
	}

	if n, ok := raw.(numberLike); ok {
		raw = fromNumber(n, to)
	}

	src := reflect.ValueOf(raw)
	for src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return reflect.Value{}, ErrNull
		}

		src = src.Elem()
	}

	if src.Type() == to {
		if src.Kind() == reflect.Slice {
			// drivers reuse buffers such as sql.RawBytes between rows
			return copyBytes(src, to), nil
		}

		return src, nil
	}

	if to.Kind() == reflect.Interface {
		if !src.Type().Implements(to) {
			return reflect.Value{}, fmt.Errorf("%w: %s does not implement %s", ErrUnsupportedConversion, src.Type(), to)
		}

		out := reflect.New(to).Elem()
		out.Set(src)

		return out, nil
	}

	fromKind, toKind := FromReflectType(src.Type()), FromReflectType(to)
	if fromKind != 0 && toKind != 0 && allowed.Allows(fromKind, toKind) {
		return convertKind(src, to, fromKind, toKind)
	}

	if reflect.PointerTo(to).Implements(scannerType) {
		ptr := reflect.New(to)
		if err := ptr.Interface().(sql.Scanner).Scan(src.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}

		return ptr.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, src.Type(), to)
}

func fromNumber(n numberLike, to reflect.Type) any {
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}

	switch to.Kind() {
	case reflect.String:
		return n.String()
	case reflect.Float32, reflect.Float64:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u
		}

		if f, err := n.Float64(); err == nil {
			return f
		}
	default:
		if i, err := n.Int64(); err == nil {
			return i
		}

		if f, err := n.Float64(); err == nil {
			return f
		}
	}

	return n.String()
}

func convertKind(src reflect.Value, to reflect.Type, fromKind, toKind KindEnum) (reflect.Value, error) {
	if fromKind == KindPrimitiveEnum {
		if toKind == KindString && src.Type().Implements(stringerType) {
			return reflect.ValueOf(src.Interface().(fmt.Stringer).String()).Convert(to), nil
		}

		src = src.Convert(basicType(src.Kind()))
		fromKind = FromReflectType(src.Type())
	}

	if toKind == KindPrimitiveEnum {
		base := basicType(to.Kind())

		value := src
		if src.Type() != base {
			var err error
			if value, err = convertKind(src, base, fromKind, FromReflectType(base)); err != nil {
				return reflect.Value{}, err
			}
		}

		out := value.Convert(to)
		if to.Implements(validType) && !out.Interface().(interface{ IsValid() bool }).IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: %v is not a valid %s", ErrInvalidValue, value.Interface(), to)
		}

		return out, nil
	}

	if src.Type() == to {
		return src, nil
	}

	conv, ok := converters[toKind]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, src.Type(), to)
	}

	return conv(src, to, fromKind)
}

func basicType(kind reflect.Kind) reflect.Type {
	switch kind {
	default:
		panic("no basic type for kind: " + kind.String())
	case reflect.Int:
		return reflect.TypeOf(int(0))
	case reflect.Int8:
		return reflect.TypeOf(int8(0))
	case reflect.Int16:
		return reflect.TypeOf(int16(0))
	case reflect.Int32:
		return reflect.TypeOf(int32(0))
	case reflect.Int64:
		return reflect.TypeOf(int64(0))
	case reflect.Uint:
		return reflect.TypeOf(uint(0))
	case reflect.Uint8:
		return reflect.TypeOf(uint8(0))
	case reflect.Uint16:
		return reflect.TypeOf(uint16(0))
	case reflect.Uint32:
		return reflect.TypeOf(uint32(0))
	case reflect.Uint64:
		return reflect.TypeOf(uint64(0))
	case reflect.Bool:
		return reflect.TypeOf(false)
	case reflect.String:
		return reflect.TypeOf("")
	}
}

func copyBytes(src reflect.Value, to reflect.Type) reflect.Value {
	out := reflect.MakeSlice(to, src.Len(), src.Len())
	reflect.Copy(out, src)

	return out
}
