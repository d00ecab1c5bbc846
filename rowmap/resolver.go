package rowmap

import (
	"fmt"
	"reflect"

	"row-mapper/internal/common"
	"row-mapper/internal/diagnostic"
	"row-mapper/internal/mapping"
	"row-mapper/internal/match"
	"row-mapper/internal/shape"
)

// propagateNullKeyer lets a type name its own propagate-null key column.
type propagateNullKeyer interface {
	PropagateNullKey() string
}

// fieldSpec is the effective configuration of a field once configuration, tags and defaults are merged.
type fieldSpec struct {
	column        string
	nested        bool
	prefix        string
	nullable      bool
	propagateNull string
	typeKey       bool
	ignore        bool
}

func specFromConfig(fc *mapping.FieldConfig) fieldSpec {
	return fieldSpec{
		column:        fc.ColumnName(),
		nested:        fc.IsNested(),
		prefix:        fc.Prefix(),
		nullable:      fc.Nullable,
		propagateNull: fc.PropagateNull,
		ignore:        fc.Ignore,
	}
}

type descriptorBuilder struct {
	t        reflect.Type
	typeName string
	tagName  string
	settings *typeSettings
	diags    diagnostic.Diagnostics
	tagKeys  []string
}

// buildDescriptor resolves the descriptor of t from its settings, struct tags and methods.
// It does not look at nested types: their descriptors are built on their own.
func buildDescriptor(t reflect.Type, settings *typeSettings, tagName string) (*TypeDescriptor, diagnostic.Diagnostics, error) {
	if settings == nil {
		settings = &typeSettings{}
	}

	b := &descriptorBuilder{
		t:        t,
		typeName: common.TypeName(t),
		tagName:  tagName,
		settings: settings,
	}

	desc := &TypeDescriptor{Type: t}

	if settings.constructor != nil {
		if settings.cfg.Strategy == mapping.StrategyMutable {
			b.diags.AddError(diagnostic.CodeMixedStrategy, "mutable strategy configured for a type with a constructor", b.typeName, "")
		}

		if settings.factory != nil {
			b.diags.AddError(diagnostic.CodeMixedStrategy, "both a constructor and a factory are registered", b.typeName, "")
		}

		desc.Strategy = StrategyConstructor
		desc.constructor = settings.constructor

		if err := b.constructorFields(desc); err != nil {
			return nil, b.diags, err
		}
	} else {
		if settings.cfg.Strategy == mapping.StrategyConstructor {
			b.diags.AddError(diagnostic.CodeInvalidConstructor, "constructor strategy configured but no constructor registered", b.typeName, "")
		}

		desc.Strategy = StrategyMutable
		desc.factory = settings.factory

		b.mutableFields(desc)
	}

	desc.PropagateNull = b.typeKey()

	if b.diags.HasErrors() {
		return nil, b.diags, descriptorError(t, b.diags)
	}

	return desc, b.diags, nil
}

func (b *descriptorBuilder) mutableFields(desc *TypeDescriptor) {
	if b.t.Kind() != reflect.Struct {
		b.diags.AddError(diagnostic.CodeNoShape, "not a struct and no constructor registered", b.typeName, "")
		return
	}

	if f := b.settings.factory; f != nil && f.Result != b.t {
		b.diags.AddErrorf(diagnostic.CodeInvalidConstructor, b.typeName, "", "factory %s returns %s", f, f.Result)
	}

	known := map[string]struct{}{}

	for _, f := range shape.Fields(b.t, b.tagName) {
		known[f.Name] = struct{}{}

		spec, ok := b.spec(f.Name, f.Tag)
		if !ok || spec.ignore {
			continue
		}

		fd := FieldDescriptor{Name: f.Name, Index: f.Index, Param: -1, Type: f.Type}
		b.bind(&fd, spec)
		desc.Fields = append(desc.Fields, fd)
	}

	b.checkUnknownConfig(func(name string) bool {
		_, ok := known[name]
		return ok
	})

	if len(desc.Fields) == 0 {
		b.diags.AddError(diagnostic.CodeNoShape, "no settable exported fields", b.typeName, "")
	}
}

func (b *descriptorBuilder) constructorFields(desc *TypeDescriptor) error {
	c := desc.constructor

	if c.Result != b.t {
		b.diags.AddErrorf(diagnostic.CodeInvalidConstructor, b.typeName, "", "constructor %s returns %s", c, c.Result)
	}

	params := b.settings.params
	if len(params) != len(c.Params) {
		b.diags.AddErrorf(diagnostic.CodeInvalidConstructor, b.typeName, "",
			"constructor %s takes %d parameters, %d names given", c, len(c.Params), len(params))

		return nil
	}

	seen := map[string]string{}
	for _, name := range params {
		n := normalize(name)
		if n == "" {
			b.diags.AddError(diagnostic.CodeInvalidConstructor, "empty parameter name", b.typeName, name)
			continue
		}

		if other, ok := seen[n]; ok {
			return &AmbiguousConstructorError{Type: b.t, Name: name, Candidates: []string{other, name}}
		}

		seen[n] = name
	}

	var structFields []shape.Field
	if b.t.Kind() == reflect.Struct {
		structFields = shape.Fields(b.t, b.tagName)
	}

	for i, name := range params {
		spec, err := b.paramSpec(name, structFields)
		if err != nil {
			return err
		}

		if spec.ignore {
			b.diags.AddError(diagnostic.CodeInvalidValue, "a constructor parameter cannot be ignored", b.typeName, name)
			continue
		}

		fd := FieldDescriptor{Name: name, Param: i, Type: c.Params[i]}
		b.bind(&fd, spec)
		desc.Fields = append(desc.Fields, fd)
	}

	b.checkUnknownConfig(func(name string) bool {
		_, ok := seen[normalize(name)]
		return ok
	})

	return nil
}

// paramSpec finds the configuration of a constructor parameter: explicit configuration
// by exact then normalized name, then the tag of the struct field of the same name.
func (b *descriptorBuilder) paramSpec(name string, structFields []shape.Field) (fieldSpec, error) {
	cfg := &b.settings.cfg
	if fc, ok := cfg.Field(name); ok {
		return specFromConfig(fc), nil
	}

	want := normalize(name)

	var configured []*mapping.FieldConfig
	for i := range cfg.Fields {
		if normalize(cfg.Fields[i].Name) == want {
			configured = append(configured, &cfg.Fields[i])
		}
	}

	switch len(configured) {
	case 0:
	case 1:
		return specFromConfig(configured[0]), nil
	default:
		candidates := make([]string, len(configured))
		for i, fc := range configured {
			candidates[i] = fc.Name
		}

		return fieldSpec{}, &AmbiguousConstructorError{Type: b.t, Name: name, Candidates: candidates}
	}

	var inherited []shape.Field
	for _, f := range structFields {
		if normalize(f.Name) == want {
			inherited = append(inherited, f)
		}
	}

	switch len(inherited) {
	case 0:
		return fieldSpec{column: name}, nil
	case 1:
		spec, _ := b.specFromTag(name, inherited[0].Tag)
		return spec, nil
	default:
		candidates := make([]string, len(inherited))
		for i, f := range inherited {
			candidates[i] = f.Name
		}

		return fieldSpec{}, &AmbiguousConstructorError{Type: b.t, Name: name, Candidates: candidates}
	}
}

// spec returns the configuration of a field: explicit configuration wins over the struct tag as a whole.
func (b *descriptorBuilder) spec(name string, tag reflect.StructTag) (fieldSpec, bool) {
	if fc, ok := b.settings.cfg.Field(name); ok {
		return specFromConfig(fc), true
	}

	return b.specFromTag(name, tag)
}

func (b *descriptorBuilder) specFromTag(name string, tag reflect.StructTag) (fieldSpec, bool) {
	ts, err := parseTag(tag.Get(b.tagName))
	if err != nil {
		b.diags.AddErrorf(diagnostic.CodeInvalidValue, b.typeName, name, "%s tag: %v", b.tagName, err)
		return fieldSpec{}, false
	}

	spec := fieldSpec{column: name, nullable: ts.nullable, ignore: ts.skip}
	if ts.name != "" {
		spec.column = ts.name
	}

	switch {
	case ts.nested:
		spec.nested = true
		spec.prefix = spec.column
	case ts.inline:
		spec.nested = true
	}

	if ts.propagate {
		switch {
		case spec.nested && ts.key == "":
			b.diags.AddError(diagnostic.CodeInvalidValue, "propagatenull on a nested field needs a key: propagatenull=key", b.typeName, name)
		case spec.nested:
			spec.propagateNull = ts.key
		case ts.key != "":
			b.diags.AddError(diagnostic.CodePropagateNotNested,
				"propagatenull=key requires a nested field, use a bare propagatenull to make this column the key", b.typeName, name)
		default:
			spec.typeKey = true
		}
	}

	return spec, true
}

func (b *descriptorBuilder) bind(fd *FieldDescriptor, spec fieldSpec) {
	if spec.nested {
		fd.Kind = FieldNested
		fd.Prefix = spec.prefix
		fd.PropagateNull = spec.propagateNull

		depth, base := shape.PtrDepthAndBase(fd.Type)
		fd.Child = base

		if depth > 1 || shape.Classify(fd.Type) == shape.KindInvalid {
			b.diags.AddErrorf(diagnostic.CodeUnsupportedField, b.typeName, fd.Name, "%s cannot hold a nested object", fd.Type)
		}

		if spec.propagateNull != "" && match.EscapesScope(spec.propagateNull) {
			b.diags.AddErrorf(diagnostic.CodePropagateScope, b.typeName, fd.Name,
				"propagate-null key %q must be a column of the nested object", spec.propagateNull)
		}

		if spec.nullable {
			b.diags.AddWarning(diagnostic.CodeNullableIneffective, "nullable has no effect on a nested field", b.typeName, fd.Name)
		}

		return
	}

	fd.Kind = FieldDirect
	fd.Column = spec.column
	fd.Nullable = spec.nullable

	switch {
	case normalize(spec.column) == "":
		b.diags.AddError(diagnostic.CodeInvalidValue, "empty column name", b.typeName, fd.Name)
	case match.EscapesScope(spec.column):
		b.diags.AddErrorf(diagnostic.CodeInvalidValue, b.typeName, fd.Name,
			"column %q must not contain %q, use a nested field instead", spec.column, match.Separator)
	}

	switch kind := shape.Classify(fd.Type); {
	case kind == shape.KindStruct:
		b.diags.AddErrorf(diagnostic.CodeUnsupportedField, b.typeName, fd.Name,
			"%s is neither a scalar nor a sql.Scanner, configure the field as nested or inline", fd.Type)
	case !kind.CanHoldColumn():
		b.diags.AddErrorf(diagnostic.CodeUnsupportedField, b.typeName, fd.Name, "%s cannot hold a column value", fd.Type)
	}

	if spec.propagateNull != "" {
		b.diags.AddError(diagnostic.CodePropagateNotNested, "propagate-null key on a field which is not nested", b.typeName, fd.Name)
	}

	if spec.typeKey {
		b.tagKeys = append(b.tagKeys, spec.column)
	}
}

// typeKey picks the propagate-null key of the type: configuration, then tags, then the type method.
func (b *descriptorBuilder) typeKey() string {
	key := b.settings.cfg.PropagateNull

	if key == "" {
		switch tagKeys := common.Dedup(b.tagKeys); len(tagKeys) {
		case 0:
			if keyer, ok := reflect.New(b.t).Interface().(propagateNullKeyer); ok {
				key = keyer.PropagateNullKey()
			}
		case 1:
			key = tagKeys[0]
		default:
			b.diags.AddErrorf(diagnostic.CodeInvalidValue, b.typeName, "",
				"several fields are marked propagatenull: %v", tagKeys)
		}
	}

	if key != "" && match.EscapesScope(key) {
		b.diags.AddErrorf(diagnostic.CodePropagateScope, b.typeName, "",
			"propagate-null key %q must be a column of the type itself", key)
	}

	return key
}

func (b *descriptorBuilder) checkUnknownConfig(known func(name string) bool) {
	for _, fc := range b.settings.cfg.Fields {
		if !known(fc.Name) {
			b.diags.AddErrorf(diagnostic.CodeUnknownField, b.typeName, fc.Name, "%s has no field or parameter %q", b.typeName, fc.Name)
		}
	}
}

func normalize(s string) string {
	return match.NormalizeColumn(s)
}

// joinColumn appends column to prefix in display form, e.g. "c" + "id" = "c.id".
func joinColumn(prefix, column string) string {
	return match.JoinColumn(prefix, column)
}

func fieldPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return fmt.Sprintf("%s.%s", parent, name)
}
