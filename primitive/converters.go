package primitive

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"row-mapper/utils"
)

type converter func(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error)

// converters are keyed by the destination kind, the source kind is dispatched inside.
var converters map[KindEnum]converter

func init() {
	converters = map[KindEnum]converter{
		KindString:   toString,
		KindBool:     toBool,
		KindBytes:    toBytes,
		KindTime:     toTime,
		KindDuration: toDuration,
		KindUUID:     toUUID,
	}

	for kind := KindEnum(0); int(kind) < KindTotal; kind++ {
		if kind.IsNumber() {
			converters[kind] = toNumber
		}
	}
}

func unsupported(src reflect.Value, to reflect.Type) error {
	return fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, src.Type(), to)
}

func toNumber(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	out := reflect.New(to).Elem()

	var err error

	switch {
	default:
		return reflect.Value{}, unsupported(src, to)
	case fromKind.IsSigned():
		err = setInt(out, src.Int())
	case fromKind.IsUnsigned():
		err = setUint(out, src.Uint())
	case fromKind.IsFloat():
		err = setFloat(out, src.Float())
	case fromKind == KindBool:
		err = setInt(out, boolToInt(src.Bool()))
	case fromKind == KindString:
		err = parseNumber(out, src.String())
	case fromKind == KindTime:
		err = setInt(out, src.Interface().(time.Time).Unix())
	case fromKind == KindDuration:
		d := time.Duration(src.Int())
		if out.CanFloat() {
			out.SetFloat(d.Seconds())
		} else {
			err = setInt(out, d.Nanoseconds())
		}
	}

	if err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

func setInt(out reflect.Value, n int64) error {
	switch {
	case out.CanInt():
		if out.OverflowInt(n) {
			return fmt.Errorf("%w: %d overflows %s", ErrOverflow, n, out.Type())
		}

		out.SetInt(n)
	case out.CanUint():
		if n < 0 || out.OverflowUint(uint64(n)) {
			return fmt.Errorf("%w: %d overflows %s", ErrOverflow, n, out.Type())
		}

		out.SetUint(uint64(n))
	case out.CanFloat():
		out.SetFloat(float64(n))
	}

	return nil
}

func setUint(out reflect.Value, n uint64) error {
	switch {
	case out.CanInt():
		if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
			return fmt.Errorf("%w: %d overflows %s", ErrOverflow, n, out.Type())
		}

		out.SetInt(int64(n))
	case out.CanUint():
		if out.OverflowUint(n) {
			return fmt.Errorf("%w: %d overflows %s", ErrOverflow, n, out.Type())
		}

		out.SetUint(n)
	case out.CanFloat():
		out.SetFloat(float64(n))
	}

	return nil
}

func setFloat(out reflect.Value, f float64) error {
	if out.CanFloat() {
		if out.OverflowFloat(f) {
			return fmt.Errorf("%w: %g overflows %s", ErrOverflow, f, out.Type())
		}

		out.SetFloat(f)

		return nil
	}

	// integers accept only integral floats, a fraction would be silently dropped
	if f != math.Trunc(f) {
		return fmt.Errorf("%w: %g is not an integer", ErrInvalidValue, f)
	}

	if out.CanUint() {
		// float64(math.MaxUint64) rounds up to 2^64, so the bound is exclusive
		if !utils.IsInHalfOpenRange(0, f, 0x1p64) {
			return fmt.Errorf("%w: %g overflows %s", ErrOverflow, f, out.Type())
		}

		return setUint(out, uint64(f))
	}

	if !utils.IsInHalfOpenRange(-0x1p63, f, 0x1p63) {
		return fmt.Errorf("%w: %g overflows %s", ErrOverflow, f, out.Type())
	}

	return setInt(out, int64(f))
}

func parseNumber(out reflect.Value, s string) error {
	s = strings.TrimSpace(s)

	switch {
	case out.CanInt():
		n, err := strconv.ParseInt(s, 10, out.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}

		out.SetInt(n)
	case out.CanUint():
		n, err := strconv.ParseUint(s, 10, out.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}

		out.SetUint(n)
	case out.CanFloat():
		f, err := strconv.ParseFloat(s, out.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}

		out.SetFloat(f)
	}

	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

func toString(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	var s string

	switch {
	default:
		return reflect.Value{}, unsupported(src, to)
	case fromKind.IsSigned():
		s = strconv.FormatInt(src.Int(), 10)
	case fromKind.IsUnsigned():
		s = strconv.FormatUint(src.Uint(), 10)
	case fromKind.IsFloat():
		s = strconv.FormatFloat(src.Float(), 'f', -1, fromKind.Bits())
	case fromKind == KindBool:
		s = strconv.FormatBool(src.Bool())
	case fromKind == KindString:
		s = src.String()
	case fromKind == KindBytes:
		s = string(src.Bytes())
	case fromKind == KindTime:
		s = src.Interface().(time.Time).Format(time.RFC3339Nano)
	case fromKind == KindDuration:
		s = time.Duration(src.Int()).String()
	case fromKind == KindUUID:
		s = src.Interface().(uuid.UUID).String()
	}

	return reflect.ValueOf(s).Convert(to), nil
}

func toBool(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	var b bool

	switch {
	default:
		return reflect.Value{}, unsupported(src, to)
	case fromKind.IsSigned(), fromKind.IsUnsigned():
		var n int64
		if fromKind.IsSigned() {
			n = src.Int()
		} else if src.Uint() <= 1 {
			n = int64(src.Uint())
		} else {
			n = -1
		}

		if !utils.IsInRange(0, n, 1) {
			return reflect.Value{}, fmt.Errorf("%w: only numbers 0 and 1 are allowed for bool", ErrInvalidValue)
		}

		b = n == 1
	case fromKind == KindString:
		switch strings.ToLower(strings.TrimSpace(src.String())) {
		default:
			return reflect.Value{}, fmt.Errorf("%w: only strings true/false, yes/no, on/off are allowed for bool, got: %s",
				ErrInvalidValue, src.String())
		case "true", "yes", "on":
			b = true
		case "false", "no", "off":
			b = false
		}
	}

	return reflect.ValueOf(b).Convert(to), nil
}

func toBytes(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	switch fromKind {
	default:
		return reflect.Value{}, unsupported(src, to)
	case KindBytes:
		return copyBytes(src, to), nil
	case KindString:
		return reflect.ValueOf([]byte(src.String())).Convert(to), nil
	case KindUUID:
		id := src.Interface().(uuid.UUID)
		return reflect.ValueOf(append([]byte(nil), id[:]...)).Convert(to), nil
	}
}

func toTime(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	var t time.Time

	switch {
	default:
		return reflect.Value{}, unsupported(src, to)
	case fromKind == KindString:
		var err error
		if t, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(src.String())); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	case fromKind.IsSigned():
		t = time.Unix(src.Int(), 0)
	case fromKind.IsUnsigned():
		if src.Uint() > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%w: %d is not a valid timestamp", ErrOverflow, src.Uint())
		}

		t = time.Unix(int64(src.Uint()), 0)
	}

	return reflect.ValueOf(t), nil
}

func toDuration(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	var d time.Duration

	switch {
	default:
		return reflect.Value{}, unsupported(src, to)
	case fromKind == KindString:
		var err error
		if d, err = time.ParseDuration(strings.TrimSpace(src.String())); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	case fromKind.IsSigned():
		d = time.Duration(src.Int())
	case fromKind.IsUnsigned():
		if src.Uint() > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%w: %d overflows %s", ErrOverflow, src.Uint(), to)
		}

		d = time.Duration(src.Uint())
	case fromKind.IsFloat():
		seconds := src.Float() * float64(time.Second)
		if !utils.IsInHalfOpenRange(-0x1p63, seconds, 0x1p63) {
			return reflect.Value{}, fmt.Errorf("%w: %g seconds overflows %s", ErrOverflow, src.Float(), to)
		}

		d = time.Duration(seconds)
	}

	return reflect.ValueOf(d), nil
}

func toUUID(src reflect.Value, to reflect.Type, fromKind KindEnum) (reflect.Value, error) {
	var (
		id  uuid.UUID
		err error
	)

	switch fromKind {
	default:
		return reflect.Value{}, unsupported(src, to)
	case KindString:
		id, err = uuid.Parse(strings.TrimSpace(src.String()))
	case KindBytes:
		if src.Len() == len(id) {
			id, err = uuid.FromBytes(src.Bytes())
		} else {
			id, err = uuid.ParseBytes(src.Bytes())
		}
	}

	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	return reflect.ValueOf(id), nil
}
