package shape_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"row-mapper/internal/shape"
)

type point struct{ X, Y int }

func newPoint(x, y int) point             { return point{x, y} }
func newPointPtr(x, y int) *point         { return &point{x, y} }
func parsePoint(s string) (*point, error) { return nil, errors.New("cannot parse " + s) }
func defaultPoint() point                 { return point{} }
func variadic(xs ...int) point            { panic("not implemented") }
func nothing(int)                         { panic("not implemented") }
func doublePtr() **point                  { panic("not implemented") }
func wrongSecond(int) (point, bool)       { panic("not implemented") }
func onlyError(int) error                 { panic("not implemented") }
func tooMany(int) (point, bool, error)    { panic("not implemented") }

func ExampleParseConstructor() {
	desc, err := shape.ParseConstructor(newPoint)
	fmt.Println(err, desc.PackageAlias, desc.Name, len(desc.Params), desc.Result.Name(), desc.ReturnsPtr, desc.HasErr)

	desc, err = shape.ParseConstructor(newPointPtr)
	fmt.Println(err, desc.PackageAlias, desc.Name, len(desc.Params), desc.Result.Name(), desc.ReturnsPtr, desc.HasErr)

	desc, err = shape.ParseConstructor(parsePoint)
	fmt.Println(err, desc.PackageAlias, desc.Name, len(desc.Params), desc.Result.Name(), desc.ReturnsPtr, desc.HasErr)

	desc, err = shape.ParseConstructor(defaultPoint)
	fmt.Println(err, desc.Name, len(desc.Params))

	for _, fn := range []any{variadic, nothing, doublePtr, wrongSecond, onlyError, tooMany, 42} {
		_, err = shape.ParseConstructor(fn)
		fmt.Println(err)
	}

	// Output:
	// <nil> shape_test newPoint 2 point false false
	// <nil> shape_test newPointPtr 2 point true false
	// <nil> shape_test parsePoint 1 point true true
	// <nil> defaultPoint 0
	// constructor function cannot be variadic
	// provided function is not a recognizable constructor
	// constructor function does not support double pointers
	// provided function is not a recognizable constructor
	// provided function is not a recognizable constructor
	// provided function is not a recognizable constructor
	// provided constructor is not a function
}

func TestConstructor_Call(t *testing.T) {
	c, err := shape.ParseConstructor(newPointPtr)
	require.NoError(t, err)

	got, err := c.Call([]reflect.Value{reflect.ValueOf(1), reflect.ValueOf(2)})
	require.NoError(t, err)
	assert.Equal(t, point{1, 2}, got.Interface())

	c, err = shape.ParseConstructor(parsePoint)
	require.NoError(t, err)

	_, err = c.Call([]reflect.Value{reflect.ValueOf("x")})
	assert.EqualError(t, err, "cannot parse x")
}

func TestConstructor_String(t *testing.T) {
	c, err := shape.ParseConstructor(newPoint)
	require.NoError(t, err)
	assert.Equal(t, "shape_test.newPoint", c.String())

	c, err = shape.ParseConstructor(assert.New)
	require.NoError(t, err)
	assert.Equal(t, "assert.New", c.String(), "dots in the module path are not part of the alias")
}
