package rowmap

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"row-mapper/internal/common"
	"row-mapper/internal/diagnostic"
	"row-mapper/internal/mapping"
	"row-mapper/internal/shape"
	"row-mapper/options"
	"row-mapper/row"
)

var errNilType = errors.New("nil type")

// Registry resolves and caches mappers. Configuration registered on it applies to
// every mapper it resolves afterwards; mappers resolved before keep working unchanged.
type Registry struct {
	opts options.Options

	mu       sync.RWMutex
	settings map[reflect.Type]*typeSettings

	cache *cache
}

// Default is the registry used by the package level functions.
var Default = NewRegistry()

func NewRegistry(opts ...options.Option) *Registry {
	return &Registry{
		opts:     options.New(opts...),
		settings: map[reflect.Type]*typeSettings{},
		cache:    newCache(),
	}
}

// Options returns the options the registry was created with.
func (r *Registry) Options() options.Options { return r.opts }

// Register adds type configurations. Either all of them are applied or none.
// Registering invalidates the cache.
func (r *Registry) Register(cfgs ...TypeConfig) error {
	type update struct {
		typ         reflect.Type
		cfg         mapping.TypeConfig
		constructor *shape.Constructor
		params      []string
		factory     *shape.Constructor
	}

	updates := make([]update, 0, len(cfgs))

	for _, tc := range cfgs {
		if tc.typ == nil {
			return fmt.Errorf("%w: %w", ErrDescriptor, errNilType)
		}

		u := update{typ: tc.typ, cfg: tc.cfg, params: tc.params}

		if tc.constructor != nil {
			c, err := shape.ParseConstructor(tc.constructor)
			if err != nil {
				return fmt.Errorf("%w: constructor of %s: %w", ErrDescriptor, common.TypeName(tc.typ), err)
			}

			u.constructor = &c
		}

		if tc.factory != nil {
			f, err := shape.ParseConstructor(tc.factory)
			if err != nil {
				return fmt.Errorf("%w: factory of %s: %w", ErrDescriptor, common.TypeName(tc.typ), err)
			}

			if len(f.Params) > 0 {
				return fmt.Errorf("%w: factory of %s takes %d parameters, want none",
					ErrDescriptor, common.TypeName(tc.typ), len(f.Params))
			}

			u.factory = &f
		}

		updates = append(updates, u)
	}

	r.mu.Lock()
	for _, u := range updates {
		s := r.settingsOf(u.typ)
		s.merge(u.cfg)

		if u.constructor != nil {
			s.constructor = u.constructor
			s.params = u.params
		}

		if u.factory != nil {
			s.factory = u.factory
		}

		r.settings[u.typ] = s
	}
	r.mu.Unlock()

	r.opts.Logger.Debug("row mapping types registered", zap.Int("types", len(updates)))
	r.Reset()

	return nil
}

// settingsOf returns a private copy of the settings of t. The caller holds r.mu.
func (r *Registry) settingsOf(t reflect.Type) *typeSettings {
	if s, ok := r.settings[t]; ok {
		return s.clone()
	}

	return &typeSettings{cfg: mapping.TypeConfig{Name: t.Name()}}
}

// LoadConfig applies a YAML mapping file. Type names of the file are looked up
// among types, given as values or reflect.Type, by their unqualified name.
func (r *Registry) LoadConfig(data []byte, types ...any) error {
	f, err := mapping.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDescriptor, err)
	}

	return r.apply(f, types)
}

// LoadConfigFile is LoadConfig reading the file at path.
func (r *Registry) LoadConfigFile(path string, types ...any) error {
	f, err := mapping.LoadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDescriptor, err)
	}

	return r.apply(f, types)
}

func (r *Registry) apply(f *mapping.File, types []any) error {
	diags := mapping.Validate(f)

	byName := make(map[string]reflect.Type, len(types))
	for _, v := range types {
		t := typeOf(v)
		if t == nil {
			return fmt.Errorf("%w: %w", ErrDescriptor, errNilType)
		}

		byName[t.Name()] = t
	}

	resolved := make([]reflect.Type, len(f.Types))
	for i, tc := range f.Types {
		t, ok := byName[tc.Name]
		if !ok {
			diags.AddErrorf(diagnostic.CodeUnknownType, tc.Name, "", "type %q is not among the types given", tc.Name)
			continue
		}

		resolved[i] = t
	}

	r.logDiagnostics("", *diags)

	if diags.HasErrors() {
		return &DescriptorError{Diagnostics: *diags}
	}

	r.mu.Lock()
	for i, t := range resolved {
		s := r.settingsOf(t)
		s.merge(f.Types[i])
		r.settings[t] = s
	}
	r.mu.Unlock()

	r.opts.Logger.Debug("row mapping file applied", zap.String("version", f.Version), zap.Int("types", len(resolved)))
	r.Reset()

	return nil
}

func typeOf(v any) reflect.Type {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}

	if t == nil {
		return nil
	}

	return shape.Base(t)
}

// Reset drops every cached descriptor and mapper, failures included.
func (r *Registry) Reset() {
	r.cache.reset()
}

func (r *Registry) Stats() Stats {
	return r.cache.stats()
}

// Descriptor returns the descriptor of t, pointers stripped.
func (r *Registry) Descriptor(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptor, errNilType)
	}

	return r.descriptor(shape.Base(t))
}

func (r *Registry) descriptor(t reflect.Type) (*TypeDescriptor, error) {
	e := r.cache.descriptor(t, func() descriptorEntry {
		r.mu.RLock()
		s := r.settings[t]
		r.mu.RUnlock()

		desc, diags, err := buildDescriptor(t, s, r.opts.TagName)
		r.logDiagnostics(common.TypeName(t), diags)

		return descriptorEntry{desc: desc, diags: diags, err: err}
	})

	return e.desc, e.err
}

// Resolve returns the mapper of t reading columns under prefix. A single pointer level
// on t is ignored. The result, failure included, is cached per type and normalized prefix.
func (r *Registry) Resolve(t reflect.Type, prefix string) (*Mapper, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptor, errNilType)
	}

	depth, base := shape.PtrDepthAndBase(t)
	if depth > 1 {
		return nil, fmt.Errorf("%w: %s: %w", ErrDescriptor, t, shape.ErrDoublePointer)
	}

	key := mapperKey{t: base, prefix: normalize(prefix)}

	return r.cache.mapper(key, func() (*Mapper, error) {
		start := time.Now()

		if err := r.checkGraph(base); err != nil {
			r.opts.Logger.Debug("row mapper resolution failed",
				zap.Stringer("type", base), zap.String("prefix", prefix), zap.Error(err))

			return nil, err
		}

		m, err := r.build(base, prefix)
		if err == nil {
			err = r.checkColumns(m)
		}

		if err != nil {
			r.opts.Logger.Debug("row mapper resolution failed",
				zap.Stringer("type", base), zap.String("prefix", prefix), zap.Error(err))

			return nil, err
		}

		r.opts.Logger.Debug("row mapper resolved",
			zap.Stringer("type", base),
			zap.String("prefix", prefix),
			zap.Stringer("strategy", m.desc.Strategy),
			zap.Int("fields", len(m.fields)),
			zap.Duration("duration", time.Since(start)))

		return m, nil
	})
}

// nested resolves a child mapper. The graph below it has been checked by the root.
func (r *Registry) nested(t reflect.Type, prefix string) (*Mapper, error) {
	return r.cache.mapper(mapperKey{t: t, prefix: normalize(prefix)}, func() (*Mapper, error) {
		return r.build(t, prefix)
	})
}

func (r *Registry) build(t reflect.Type, prefix string) (*Mapper, error) {
	desc, err := r.descriptor(t)
	if err != nil {
		return nil, err
	}

	m := &Mapper{
		desc:        desc,
		prefix:      prefix,
		fields:      make([]boundField, len(desc.Fields)),
		conversions: r.opts.Conversions,
		suggestions: r.opts.MaxSuggestions,
	}

	if desc.PropagateNull != "" {
		m.self = newNullKey(joinColumn(prefix, desc.PropagateNull))
	}

	for i := range desc.Fields {
		f := &desc.Fields[i]
		bf := boundField{FieldDescriptor: f}

		switch f.Kind {
		case FieldNested:
			childPrefix := joinColumn(prefix, f.Prefix)

			bf.child, err = r.nested(f.Child, childPrefix)
			if err != nil {
				return nil, err
			}

			if f.PropagateNull != "" {
				bf.key = newNullKey(joinColumn(childPrefix, f.PropagateNull))
			}
		default:
			bf.display = joinColumn(prefix, f.Column)
			bf.column = row.Normalize(bf.display)
		}

		m.fields[i] = bf
	}

	return m, nil
}

// checkGraph walks the types nested under root before any mapper is built, so that
// recursive types fail cleanly instead of resolving forever.
func (r *Registry) checkGraph(root reflect.Type) error {
	var (
		trail shape.Trail
		diags diagnostic.Diagnostics
		walk  func(t reflect.Type) error
	)

	walk = func(t reflect.Type) error {
		if !trail.Push(t) {
			diags.AddErrorf(diagnostic.CodeRecursiveType, common.TypeName(t), "", "recursive nesting %s", trail.Path(t))
			return descriptorError(root, diags)
		}
		defer trail.Pop()

		if limit := r.opts.MaxDepth; limit > 0 && trail.Depth()-1 > limit {
			diags.AddErrorf(diagnostic.CodeTooDeep, common.TypeName(t), "",
				"nesting deeper than %d levels: %s", limit, trail.Path(t))

			return descriptorError(root, diags)
		}

		desc, err := r.descriptor(t)
		if err != nil {
			return err
		}

		for _, f := range desc.Fields {
			if f.Kind != FieldNested {
				continue
			}

			if err := walk(f.Child); err != nil {
				return err
			}

			child, err := r.descriptor(f.Child)
			if err != nil {
				return err
			}

			r.checkNestedKey(&diags, desc, &f, child)
		}

		return nil
	}

	if err := walk(root); err != nil {
		return err
	}

	r.logDiagnostics(common.TypeName(root), diags)

	if diags.HasErrors() {
		return descriptorError(root, diags)
	}

	return nil
}

// checkColumns rejects a mapper whose flattened fields read the same normalized column.
func (r *Registry) checkColumns(m *Mapper) error {
	var diags diagnostic.Diagnostics

	owners := map[string]string{}
	for _, c := range m.columns("", nullKey{}) {
		if c.Field == "" {
			continue
		}

		if owner, ok := owners[c.Normalized]; ok {
			diags.AddErrorf(diagnostic.CodeDuplicateColumn, common.TypeName(m.desc.Type), c.Field,
				"column %q is also read by %s", c.Display, owner)

			continue
		}

		owners[c.Normalized] = c.Field
	}

	if !diags.HasErrors() {
		return nil
	}

	r.logDiagnostics(common.TypeName(m.desc.Type), diags)

	return &DescriptorError{Type: m.desc.Type, Prefix: m.prefix, Diagnostics: diags}
}

func (r *Registry) checkNestedKey(diags *diagnostic.Diagnostics, parent *TypeDescriptor, f *FieldDescriptor, child *TypeDescriptor) {
	typeName := common.TypeName(parent.Type)

	key := f.PropagateNull
	if key == "" {
		key = child.PropagateNull
	}

	if key != "" && !shape.CanBeAbsent(f.Type) {
		diags.AddErrorf(diagnostic.CodePropagateNoAbsence, typeName, f.Name,
			"%s cannot be absent, use a pointer to honor propagate-null key %q", f.Type, key)
	}

	if f.PropagateNull != "" {
		if _, ok := child.DirectField(f.PropagateNull); !ok {
			diags.AddWarning(diagnostic.CodePropagateNoField,
				fmt.Sprintf("propagate-null key %q is not a field of %s, it is only checked for null", f.PropagateNull, common.TypeName(child.Type)),
				typeName, f.Name)
		}
	}
}

func (r *Registry) logDiagnostics(typeName string, diags diagnostic.Diagnostics) {
	for _, d := range diags.Warnings {
		r.opts.Logger.Warn("row mapping warning",
			zap.String("code", d.Code),
			zap.String("type", d.Type),
			zap.String("field", d.Field),
			zap.String("message", d.Message),
			zap.String("resolving", typeName))
	}
}

// Register adds type configurations to the Default registry.
func Register(cfgs ...TypeConfig) error {
	return Default.Register(cfgs...)
}

// Resolve resolves a mapper on the Default registry.
func Resolve(t reflect.Type, prefix string) (*Mapper, error) {
	return Default.Resolve(t, prefix)
}
