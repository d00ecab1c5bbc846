package shape

import (
	"reflect"
	"slices"
)

// Field is a settable field of a struct, promoted fields of embedded structs included.
type Field struct {
	Name  string
	Index []int
	Type  reflect.Type
	Tag   reflect.StructTag
}

// Fields lists exported fields of struct t the way Go promotes them. An embedded
// struct without tagName tag is flattened, a tagged one is kept as a single field.
// Fields reachable only through an unexported embedded pointer are skipped since
// they cannot be allocated.
func Fields(t reflect.Type, tagName string) []Field {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var (
		res     []Field
		opaque  [][]int // tagged embedded structs, their promoted fields are hidden
		blocked [][]int // unexported embedded pointers
	)

	for _, f := range reflect.VisibleFields(t) {
		if under(f.Index, opaque) || under(f.Index, blocked) {
			continue
		}

		_, tagged := f.Tag.Lookup(tagName)
		if f.Anonymous && Base(f.Type).Kind() == reflect.Struct && !tagged {
			if !f.IsExported() && f.Type.Kind() == reflect.Pointer {
				blocked = append(blocked, f.Index)
			}

			continue
		}

		if !f.IsExported() {
			continue
		}

		if f.Anonymous {
			opaque = append(opaque, f.Index)
		}

		res = append(res, Field{
			Name:  f.Name,
			Index: slices.Clone(f.Index),
			Type:  f.Type,
			Tag:   f.Tag,
		})
	}

	return res
}

func under(index []int, parents [][]int) bool {
	for _, p := range parents {
		if len(index) > len(p) && slices.Equal(index[:len(p)], p) {
			return true
		}
	}

	return false
}

// FieldByIndexAlloc returns the field of struct v at index, allocating nil
// embedded pointers on the way. v must be addressable.
func FieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v
}
