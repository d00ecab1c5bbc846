package rowmap

import (
	"reflect"
	"slices"

	"row-mapper/internal/mapping"
	"row-mapper/internal/shape"
)

// TypeConfig is the programmatic configuration of one type, see Configure.
type TypeConfig struct {
	typ         reflect.Type
	cfg         mapping.TypeConfig
	constructor any
	params      []string
	factory     any
}

// TypeOption configures a type.
type TypeOption func(*TypeConfig)

// Configure builds the configuration of type T. Pointer types configure their base type.
//
//	rowmap.Configure[ValueA](
//		rowmap.Fields(
//			rowmap.Field("B").Nested("b"),
//			rowmap.Field("C").Nested("c").PropagateNull("id"),
//		),
//	)
func Configure[T any](opts ...TypeOption) TypeConfig {
	t := shape.Base(reflect.TypeOf((*T)(nil)).Elem())

	tc := TypeConfig{
		typ: t,
		cfg: mapping.TypeConfig{Name: t.Name()},
	}

	for _, opt := range opts {
		opt(&tc)
	}

	return tc
}

// Type returns the configured type.
func (tc TypeConfig) Type() reflect.Type { return tc.typ }

// Constructor selects the constructor strategy. fn is a function returning T or *T,
// optionally followed by an error; params name its parameters in order since Go
// does not keep them at runtime.
func Constructor(fn any, params ...string) TypeOption {
	return func(tc *TypeConfig) {
		tc.constructor = fn
		tc.params = params
	}
}

// Factory provides default instances for the mutable strategy: func() T or func() *T.
func Factory(fn any) TypeOption {
	return func(tc *TypeConfig) { tc.factory = fn }
}

// Mutable forces the mutable strategy.
func Mutable() TypeOption {
	return func(tc *TypeConfig) { tc.cfg.Strategy = mapping.StrategyMutable }
}

// PropagateNull sets the key column of the type: when it is null, the whole object is absent.
func PropagateNull(key string) TypeOption {
	return func(tc *TypeConfig) { tc.cfg.PropagateNull = key }
}

// Fields configures fields or constructor parameters.
func Fields(fields ...*FieldBuilder) TypeOption {
	return func(tc *TypeConfig) {
		for _, f := range fields {
			upsertField(&tc.cfg, f.cfg)
		}
	}
}

// FieldBuilder configures one field or constructor parameter.
type FieldBuilder struct {
	cfg mapping.FieldConfig
}

// Field starts the configuration of the named field or constructor parameter.
func Field(name string) *FieldBuilder {
	return &FieldBuilder{cfg: mapping.FieldConfig{Name: name}}
}

// Nested reads the field as an object from the columns under prefix.
// An empty prefix uses the field name.
func (b *FieldBuilder) Nested(prefix string) *FieldBuilder {
	if prefix == "" {
		b.cfg.Nested = &mapping.Nested{UseFieldName: true}
	} else {
		b.cfg.Nested = mapping.NestedAt(prefix)
	}

	return b
}

// Inline reads the field as an object from the columns of its parent.
func (b *FieldBuilder) Inline() *FieldBuilder {
	b.cfg.Inline = true
	return b
}

// PropagateNull makes the nested object absent when its column key is null.
func (b *FieldBuilder) PropagateNull(key string) *FieldBuilder {
	b.cfg.PropagateNull = key
	return b
}

func (b *FieldBuilder) Nullable() *FieldBuilder {
	b.cfg.Nullable = true
	return b
}

// Column reads the field from column instead of its name.
func (b *FieldBuilder) Column(column string) *FieldBuilder {
	b.cfg.Column = column
	return b
}

func (b *FieldBuilder) Ignore() *FieldBuilder {
	b.cfg.Ignore = true
	return b
}

// typeSettings is what a registry knows about a type beyond its declaration.
type typeSettings struct {
	cfg         mapping.TypeConfig
	constructor *shape.Constructor
	params      []string
	factory     *shape.Constructor
}

func (s *typeSettings) clone() *typeSettings {
	c := *s
	c.cfg.Fields = slices.Clone(s.cfg.Fields)
	c.params = slices.Clone(s.params)

	return &c
}

func (s *typeSettings) merge(src mapping.TypeConfig) {
	if src.Strategy != "" && src.Strategy != mapping.StrategyAuto {
		s.cfg.Strategy = src.Strategy
	}

	if src.PropagateNull != "" {
		s.cfg.PropagateNull = src.PropagateNull
	}

	for _, f := range src.Fields {
		upsertField(&s.cfg, f)
	}
}

func upsertField(tc *mapping.TypeConfig, f mapping.FieldConfig) {
	if existing, ok := tc.Field(f.Name); ok {
		*existing = f
		return
	}

	tc.Fields = append(tc.Fields, f)
}
