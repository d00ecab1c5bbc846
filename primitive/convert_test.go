package primitive

import (
	"database/sql"
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) IsValid() bool { return c == "red" || c == "green" }

type level int

func (l level) String() string { return [...]string{"low", "high"}[l] }

func TestConvert(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	moment := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  any
		to   any
		want any
	}{
		{"identity", int64(7), int64(0), int64(7)},
		{"widening", int32(7), int64(0), int64(7)},
		{"narrowing in range", int64(7), int8(0), int8(7)},
		{"uint from int", int64(7), uint16(0), uint16(7)},
		{"integral float to int", float64(3), int(0), 3},
		{"int to float", int64(3), float64(0), float64(3)},
		{"string to int", " 42 ", int(0), 42},
		{"string to float", "2.5", float32(0), float32(2.5)},
		{"int to string", int64(42), "", "42"},
		{"float to string", 2.5, "", "2.5"},
		{"bytes to string", []byte("first"), "", "first"},
		{"raw bytes to string", sql.RawBytes("first"), "", "first"},
		{"string to bytes", "abc", []byte(nil), []byte("abc")},
		{"numeric bool", int64(1), false, true},
		{"textual bool", "Yes", false, true},
		{"bool to int", true, int(0), 1},
		{"datetime", "2024-03-01T12:30:00Z", time.Time{}, moment},
		{"time to string", moment, "", "2024-03-01T12:30:00Z"},
		{"duration", "2h45m", time.Duration(0), 2*time.Hour + 45*time.Minute},
		{"duration to string", time.Minute, "", "1m0s"},
		{"uuid from string", id.String(), uuid.UUID{}, id},
		{"uuid from bytes", id[:], uuid.UUID{}, id},
		{"uuid from textual bytes", []byte(id.String()), uuid.UUID{}, id},
		{"uuid to string", id, "", id.String()},
		{"string enum", "red", color(""), color("red")},
		{"int enum", int64(1), level(0), level(1)},
		{"int enum to string", level(1), "", "high"},
		{"enum to int", level(1), int64(0), int64(1)},
		{"json number to int", json.Number("12"), int(0), 12},
		{"json number to float", json.Number("1.5"), float64(0), 1.5},
		{"json number to string", json.Number("12"), "", "12"},
		{"goccy json number", gojson.Number("12"), int32(0), int32(12)},
		{"interface target", int64(5), any(nil), int64(5)},
		{"scanner target", "x", sql.NullString{}, sql.NullString{String: "x", Valid: true}},
		{"pointer source", ptr(int64(5)), int(0), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to := reflect.TypeOf(tt.to)
			if to == nil {
				to = reflect.TypeOf((*any)(nil)).Elem()
			}

			got, err := Convert(tt.raw, to, CategoryDefault)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvert_PointerTarget(t *testing.T) {
	got, err := Convert(int64(5), reflect.TypeOf((*int)(nil)), CategoryDefault)
	require.NoError(t, err)
	require.Equal(t, reflect.Pointer, got.Kind())
	assert.Equal(t, 5, got.Elem().Interface())
}

func TestConvert_BytesAreCopied(t *testing.T) {
	buf := []byte("abc")

	got, err := Convert(buf, reflect.TypeOf([]byte(nil)), CategoryDefault)
	require.NoError(t, err)

	buf[0] = 'z'
	assert.Equal(t, []byte("abc"), got.Interface())
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		to      any
		allowed CategoryEnum
		wantErr error
	}{
		{"null", nil, int(0), CategoryDefault, ErrNull},
		{"nil pointer", (*int)(nil), int(0), CategoryDefault, ErrNull},
		{"overflow", int64(300), int8(0), CategoryDefault, ErrOverflow},
		{"negative to unsigned", int64(-1), uint(0), CategoryDefault, ErrOverflow},
		{"float overflow", math.MaxFloat64, float32(0), CategoryDefault, ErrOverflow},
		{"float at int64 upper bound", 0x1p63, int64(0), CategoryDefault, ErrOverflow},
		{"float below int64 lower bound", -0x1p64, int64(0), CategoryDefault, ErrOverflow},
		{"float at uint64 upper bound", 0x1p64, uint64(0), CategoryDefault, ErrOverflow},
		{"json number beyond int64", json.Number("9223372036854775808"), int64(0), CategoryDefault, ErrOverflow},
		{"json number beyond uint64", json.Number("18446744073709551616"), uint64(0), CategoryDefault, ErrOverflow},
		{"negative json number to unsigned", json.Number("-1"), uint(0), CategoryDefault, ErrOverflow},
		{"seconds overflow duration", 1e10, time.Duration(0), CategorySeconds, ErrOverflow},
		{"fractional to int", 2.5, int(0), CategoryDefault, ErrInvalidValue},
		{"bad number", "abc", int(0), CategoryDefault, ErrInvalidValue},
		{"bad bool number", int64(2), false, CategoryDefault, ErrInvalidValue},
		{"bad bool text", "maybe", false, CategoryDefault, ErrInvalidValue},
		{"bad uuid", "nope", uuid.UUID{}, CategoryDefault, ErrInvalidValue},
		{"invalid enum", "blue", color(""), CategoryDefault, ErrInvalidValue},
		{"timestamp not in default", int64(0), time.Time{}, CategoryDefault, ErrUnsupportedConversion},
		{"unsafe number disabled", int64(7), int8(0), CategorySafeNumber, ErrUnsupportedConversion},
		{"text number disabled", "7", int(0), CategoryNone, ErrUnsupportedConversion},
		{"struct target", "x", struct{}{}, CategoryAll, ErrUnsupportedConversion},
		{"interface not implemented", 5, (*error)(nil), CategoryAll, ErrUnsupportedConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to := reflect.TypeOf(tt.to)
			if tt.name == "interface not implemented" {
				to = to.Elem()
			}

			_, err := Convert(tt.raw, to, tt.allowed)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConvert_IntegerBounds(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"float at int64 lower bound", -0x1p63, int64(math.MinInt64)},
		{"largest float below int64 bound", math.Nextafter(0x1p63, 0), int64(1<<63 - 1024)},
		{"largest float below uint64 bound", math.Nextafter(0x1p64, 0), uint64(1<<64 - 2048)},
		{"json number at int64 max", json.Number("9223372036854775807"), int64(math.MaxInt64)},
		{"json number at uint64 max", json.Number("18446744073709551615"), uint64(math.MaxUint64)},
		{"json number with exponent", json.Number("1e3"), uint64(1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.raw, reflect.TypeOf(tt.want), CategoryDefault)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvert_TimestampCategories(t *testing.T) {
	got, err := Convert(int64(86400), reflect.TypeOf(time.Time{}), CategoryTimestamp)
	require.NoError(t, err)
	assert.Equal(t, int64(86400), got.Interface().(time.Time).Unix())

	got, err = Convert(1.5, reflect.TypeOf(time.Duration(0)), CategorySeconds)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, got.Interface())

	got, err = Convert(int64(10), reflect.TypeOf(time.Duration(0)), CategoryNanoseconds)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Nanosecond, got.Interface())
}

func TestCategoryEnum_Allows(t *testing.T) {
	assert.True(t, CategorySafeNumber.Allows(KindInt32, KindInt64))
	assert.False(t, CategorySafeNumber.Allows(KindInt64, KindInt32))
	assert.True(t, CategoryUnsafeNumber.Allows(KindInt64, KindInt32))
	assert.True(t, CategoryDefault.Allows(KindBytes, KindString))
	assert.False(t, CategoryDefault.Allows(KindInt64, KindTime))
	assert.True(t, CategoryAll.Allows(KindInt64, KindTime))
	assert.False(t, CategoryNone.Allows(KindString, KindInt))
}

func ptr[T any](v T) *T { return &v }
