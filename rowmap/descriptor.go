package rowmap

import (
	"reflect"

	"row-mapper/internal/common"
	"row-mapper/internal/shape"
)

//go:generate go tool stringer -type=Strategy,FieldKind -output=descriptor_string.go

// Strategy is how instances of a type are created.
type Strategy int

const (
	_ Strategy = iota

	// StrategyMutable starts from a zero value or a factory instance and sets fields one by one.
	StrategyMutable
	// StrategyConstructor passes every value to a registered function at once.
	StrategyConstructor
)

// FieldKind tells whether a field reads one column or a whole nested object.
type FieldKind int

const (
	_ FieldKind = iota

	FieldDirect
	FieldNested
)

// FieldDescriptor describes one field or constructor parameter of a type.
type FieldDescriptor struct {
	// Name of the Go field or constructor parameter.
	Name string
	// Index is the field index path for the mutable strategy.
	Index []int
	// Param is the parameter position for the constructor strategy, -1 otherwise.
	Param int
	// Type of the field or parameter.
	Type reflect.Type
	Kind FieldKind

	// Column relative to the type prefix, for direct fields.
	Column string
	// Nullable lets a missing or null column leave the zero value.
	Nullable bool

	// Prefix of the nested object relative to the type prefix.
	Prefix string
	// Child is the nested object type without pointers.
	Child reflect.Type
	// PropagateNull is the key column inside the nested scope, empty if none.
	PropagateNull string
}

// TypeDescriptor is the immutable mapping description of a type, independent of any prefix.
type TypeDescriptor struct {
	Type     reflect.Type
	Strategy Strategy
	Fields   []FieldDescriptor

	// PropagateNull is the key column of the type itself: when it is null the object is absent.
	PropagateNull string

	constructor *shape.Constructor
	factory     *shape.Constructor
}

func (d *TypeDescriptor) String() string {
	return common.TypeName(d.Type) + "(" + d.Strategy.String() + ")"
}

// DirectField returns the direct field reading column.
func (d *TypeDescriptor) DirectField(column string) (FieldDescriptor, bool) {
	want := normalize(column)
	for _, f := range d.Fields {
		if f.Kind == FieldDirect && normalize(f.Column) == want {
			return f, true
		}
	}

	return FieldDescriptor{}, false
}
