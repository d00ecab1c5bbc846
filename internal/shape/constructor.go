package shape

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"

	"row-mapper/utils"
)

var (
	ErrIsNotAConstructor         = errors.New("provided function is not a recognizable constructor")
	ErrConstructorIsNotAFunction = errors.New("provided constructor is not a function")
	ErrDoublePointer             = errors.New("constructor function does not support double pointers")
	ErrVariadic                  = errors.New("constructor function cannot be variadic")
)

// Constructor describes a function producing instances of Result.
type Constructor struct {
	Fn           reflect.Value
	Params       []reflect.Type
	Result       reflect.Type // base type, never a pointer
	PackageAlias string
	Name         string
	ReturnsPtr   bool
	HasErr       bool
}

// ParseConstructor inspects the provided function and returns a Constructor if it is a valid one.
//
// Supports interfaces:
//   - func(p1 T1, ..., pn Tn) (dst Type)
//   - func(p1 T1, ..., pn Tn) (dst *Type)
//   - func(p1 T1, ..., pn Tn) (dst Type, error)
//   - func(p1 T1, ..., pn Tn) (dst *Type, error)
//
// A function without parameters is a factory of default instances.
func ParseConstructor(fn any) (Constructor, error) {
	if fn == nil {
		return Constructor{}, ErrConstructorIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Constructor{}, ErrConstructorIsNotAFunction
	}

	if fnVal.IsNil() {
		return Constructor{}, ErrConstructorIsNotAFunction
	}

	if fnType.IsVariadic() {
		return Constructor{}, ErrVariadic
	}

	if fnType.NumOut() == 0 || fnType.NumOut() > 2 {
		return Constructor{}, ErrIsNotAConstructor
	}

	dst := fnType.Out(0)
	depth, result := PtrDepthAndBase(dst)
	if depth > 1 {
		return Constructor{}, ErrDoublePointer
	}

	if isError(dst) {
		return Constructor{}, ErrIsNotAConstructor
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	// github.com/org/pkg.Func: the package alias follows the last slash
	alias, name := utils.Unpack2(strings.SplitN(utils.Second(path.Split(fnPC.Name())), ".", 2))

	constructor := Constructor{
		Fn:           fnVal,
		Params:       params,
		Result:       result,
		Name:         name,
		PackageAlias: alias,
		ReturnsPtr:   depth == 1,
	}

	if fnType.NumOut() == 2 {
		if !isError(fnType.Out(1)) {
			return Constructor{}, ErrIsNotAConstructor
		}

		constructor.HasErr = true
	}

	return constructor, nil
}

// Call invokes the constructor and returns the produced value as Result, not a pointer.
// A nil pointer returned without an error is reported as ErrIsNotAConstructor.
func (c Constructor) Call(args []reflect.Value) (reflect.Value, error) {
	out := c.Fn.Call(args)

	if c.HasErr && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	res := out[0]
	if c.ReturnsPtr {
		if res.IsNil() {
			return reflect.Value{}, ErrIsNotAConstructor
		}

		res = res.Elem()
	}

	return res, nil
}

// String returns the name qualified by the package alias, as written at a call site.
func (c *Constructor) String() string {
	if c.PackageAlias == "" {
		return c.Name
	}

	return c.PackageAlias + "." + c.Name
}
