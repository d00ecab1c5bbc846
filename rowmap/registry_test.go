package rowmap

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"row-mapper/internal/diagnostic"
	"row-mapper/options"
)

func TestRegistry_SingleFlight(t *testing.T) {
	reg := NewRegistry()

	const workers = 32

	var (
		wg      sync.WaitGroup
		mappers = make([]*Mapper, workers)
		errs    = make([]error, workers)
	)

	start := make(chan struct{})
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			mappers[i], errs[i] = reg.Resolve(reflect.TypeFor[ValueA](), "")
		}()
	}

	close(start)
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Same(t, mappers[0], mappers[i])
	}

	stats := reg.Stats()
	assert.Equal(t, int64(3), stats.MapperBuilds, spew.Sdump(stats))
	assert.Equal(t, int64(3), stats.DescriptorBuilds)
	assert.Equal(t, 3, stats.Mappers)
	assert.Equal(t, 3, stats.Descriptors)

	again, err := reg.Resolve(reflect.TypeFor[*ValueA](), "")
	require.NoError(t, err)
	assert.Same(t, mappers[0], again, "pointer types share the mapper of their base")
	assert.Equal(t, int64(3), reg.Stats().MapperBuilds)
}

func TestRegistry_NegativeCache(t *testing.T) {
	reg := NewRegistry()
	typ := reflect.TypeFor[Broken]()

	_, err := reg.Resolve(typ, "")
	require.ErrorIs(t, err, ErrDescriptor)

	var descErr *DescriptorError
	require.ErrorAs(t, err, &descErr)
	assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodeUnsupportedField), spew.Sdump(descErr.Diagnostics))

	_, again := reg.Resolve(typ, "")
	assert.Equal(t, err, again)
	assert.Equal(t, int64(1), reg.Stats().MapperBuilds)

	reg.Reset()
	assert.Equal(t, Stats{DescriptorBuilds: 1, MapperBuilds: 1}, reg.Stats())

	_, err = reg.Resolve(typ, "")
	require.Error(t, err)
	assert.Equal(t, int64(2), reg.Stats().MapperBuilds)

	require.NoError(t, reg.Register(Configure[Broken](Fields(Field("F").Ignore()))))

	m, err := reg.Resolve(typ, "")
	require.NoError(t, err)
	assert.Len(t, m.Descriptor().Fields, 1)
}

func TestRegistry_RecursiveTypes(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeFor[Node](),
		reflect.TypeFor[Left](),
		reflect.TypeFor[Right](),
	} {
		t.Run(typ.Name(), func(t *testing.T) {
			_, err := NewRegistry().Resolve(typ, "")
			require.ErrorIs(t, err, ErrDescriptor)

			var descErr *DescriptorError
			require.ErrorAs(t, err, &descErr)
			assert.Equal(t, typ, descErr.Type)
			assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodeRecursiveType), err.Error())
		})
	}
}

func TestRegistry_MaxDepth(t *testing.T) {
	_, err := NewRegistry(options.WithMaxDepth(1)).Resolve(reflect.TypeFor[Level0](), "")

	var descErr *DescriptorError
	require.ErrorAs(t, err, &descErr)
	assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodeTooDeep), err.Error())

	_, err = NewRegistry(options.WithMaxDepth(2)).Resolve(reflect.TypeFor[Level0](), "")
	require.NoError(t, err)

	_, err = NewRegistry(options.WithMaxDepth(0)).Resolve(reflect.TypeFor[Level0](), "")
	require.NoError(t, err, "zero means unlimited")
}

func TestRegistry_KeyOnValueField(t *testing.T) {
	_, err := NewRegistry().Resolve(reflect.TypeFor[StrayPet](), "")

	var descErr *DescriptorError
	require.ErrorAs(t, err, &descErr)
	assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodePropagateNoAbsence), err.Error())
}

func TestRegistry_DuplicateColumns(t *testing.T) {
	reg := NewRegistry()

	for _, prefix := range []string{"", "outer"} {
		_, err := reg.Resolve(reflect.TypeFor[Colliding](), prefix)
		require.ErrorIs(t, err, ErrDescriptor, prefix)

		var descErr *DescriptorError
		require.ErrorAs(t, err, &descErr)
		assert.Equal(t, prefix, descErr.Prefix)
		assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodeDuplicateColumn), err.Error())
		assert.Contains(t, err.Error(), "BID")
	}

	_, err := reg.Resolve(reflect.TypeFor[ValueB](), "b")
	require.NoError(t, err, "the nested type alone reads each column once")
}

type DeletableParent struct {
	C *ValueC `row:"c,nested,propagatenull=deleted_at"`
}

func TestRegistry_KeyIsNotAField(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := NewRegistry(options.WithLogger(zap.New(core)))

	mapper, err := For[DeletableParent](reg, "")
	require.NoError(t, err)

	warnings := logs.FilterMessage("row mapping warning").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, diagnostic.CodePropagateNoField, warnings[0].ContextMap()["code"])

	got, err := mapper.Apply(scenarioRow(t, []string{"c.id", "c.additional_column", "c.deleted_at"}, 1, "x", nil))
	require.NoError(t, err)
	assert.Nil(t, got.C)

	got, err = mapper.Apply(scenarioRow(t, []string{"c.id", "c.additional_column", "c.deleted_at"}, 1, "x", "yesterday"))
	require.NoError(t, err)
	assert.Equal(t, &ValueC{ID: 1, AdditionalColumn: "x"}, got.C)
}

func TestRegistry_ResolveLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := NewRegistry(options.WithLogger(zap.New(core)))

	_, err := reg.Resolve(reflect.TypeFor[ValueB](), "b")
	require.NoError(t, err)

	resolved := logs.FilterMessage("row mapper resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, "b", resolved[0].ContextMap()["prefix"])

	_, err = reg.Resolve(reflect.TypeFor[Broken](), "")
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("row mapper resolution failed").Len())
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Configure[ValueB](Constructor("not a function")))
	require.ErrorIs(t, err, ErrDescriptor)

	err = reg.Register(Configure[ValueB](Factory(NewValueB)))
	require.ErrorIs(t, err, ErrDescriptor, "a factory takes no parameters")

	err = reg.Register(
		Configure[ValueC](Constructor(NewValueC, "id", "additionalColumn")),
		Configure[ValueB](Constructor(func(id int) **ValueB { return nil }, "id")),
	)
	require.Error(t, err)

	desc, err := reg.Descriptor(reflect.TypeFor[ValueC]())
	require.NoError(t, err)
	assert.Equal(t, StrategyMutable, desc.Strategy, "a failed registration applies nothing")
}

func TestRegistry_DescriptorErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TypeConfig
		code    string
		message string
	}{
		{
			name: "unknown field",
			cfg:  Configure[ValueB](Fields(Field("Missing").Column("x"))),
			code: diagnostic.CodeUnknownField,
		},
		{
			name: "mutable with constructor",
			cfg:  Configure[ValueB](Constructor(NewValueB, "id", "s"), Mutable()),
			code: diagnostic.CodeMixedStrategy,
		},
		{
			name: "parameter count",
			cfg:  Configure[ValueB](Constructor(NewValueB, "id")),
			code: diagnostic.CodeInvalidConstructor,
		},
		{
			name:    "constructor of another type",
			cfg:     Configure[ValueB](Constructor(NewValueC, "id", "additionalColumn")),
			code:    diagnostic.CodeInvalidConstructor,
			message: "constructor rowmap.NewValueC returns rowmap.ValueC",
		},
		{
			name: "key escaping its scope",
			cfg:  Configure[ValueB](PropagateNull("other.id")),
			code: diagnostic.CodePropagateScope,
		},
		{
			name: "key on a direct field",
			cfg:  Configure[ValueB](Fields(Field("S").PropagateNull("id"))),
			code: diagnostic.CodePropagateNotNested,
		},
		{
			name: "column with a separator",
			cfg:  Configure[ValueB](Fields(Field("S").Column("x.s"))),
			code: diagnostic.CodeInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			require.NoError(t, reg.Register(tt.cfg))

			_, err := reg.Resolve(reflect.TypeFor[ValueB](), "")
			require.ErrorIs(t, err, ErrDescriptor)

			var descErr *DescriptorError
			require.ErrorAs(t, err, &descErr)
			assert.True(t, descErr.Diagnostics.HasCode(tt.code), err.Error())

			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

type Pair struct {
	UserID  int
	User_ID int
}

func TestRegistry_AmbiguousConstructor(t *testing.T) {
	newPair := func(a, b int) Pair { return Pair{UserID: a, User_ID: b} }

	tests := []struct {
		name string
		cfg  TypeConfig
	}{
		{
			name: "parameter names",
			cfg:  Configure[ValueB](Constructor(NewValueB, "user_id", "userId")),
		},
		{
			name: "struct fields",
			cfg:  Configure[Pair](Constructor(newPair, "userid", "other")),
		},
		{
			name: "field configuration",
			cfg: Configure[ValueB](
				Constructor(NewValueB, "i_d", "s"),
				Fields(Field("I_D2").Column("a"), Field("ID").Column("b"), Field("Id").Column("c")),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			require.NoError(t, reg.Register(tt.cfg))

			_, err := reg.Resolve(tt.cfg.Type(), "")
			require.ErrorIs(t, err, ErrAmbiguousConstructor)
			require.ErrorIs(t, err, ErrDescriptor)

			var ambiguous *AmbiguousConstructorError
			require.ErrorAs(t, err, &ambiguous)
			assert.Len(t, ambiguous.Candidates, 2, spew.Sdump(ambiguous))
		})
	}
}

const scenarioYAML = `
version: "1"
types:
  - name: PlainA
    fields:
      - name: B
        nested: b
      - name: C
        nested: true
        propagate_null: id
`

func TestRegistry_LoadConfig(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.LoadConfig([]byte(scenarioYAML), PlainA{}))

	mapper, err := For[PlainA](reg, "")
	require.NoError(t, err)

	got, err := mapper.Apply(scenarioRow(t, scenarioColumns, 1, "first", 1, "additional"))
	require.NoError(t, err)
	assert.Equal(t, PlainA{
		B: ValueB{ID: 1, S: "first"},
		C: &ValueC{ID: 1, AdditionalColumn: "additional"},
	}, got)

	got, err = mapper.Apply(scenarioRow(t, scenarioColumns, 1, "first", nil, "additional"))
	require.NoError(t, err)
	assert.Nil(t, got.C)
}

func TestRegistry_LoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o600))

	reg := NewRegistry()
	require.NoError(t, reg.LoadConfigFile(path, reflect.TypeFor[*PlainA]()))

	desc, err := reg.Descriptor(reflect.TypeFor[PlainA]())
	require.NoError(t, err)
	require.Len(t, desc.Fields, 2)
	assert.Equal(t, FieldNested, desc.Fields[1].Kind)
	assert.Equal(t, "C", desc.Fields[1].Prefix)
	assert.Equal(t, "id", desc.Fields[1].PropagateNull)

	require.ErrorIs(t, reg.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")), ErrDescriptor)
}

func TestRegistry_LoadConfigErrors(t *testing.T) {
	reg := NewRegistry()

	err := reg.LoadConfig([]byte(scenarioYAML))

	var descErr *DescriptorError
	require.ErrorAs(t, err, &descErr)
	assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodeUnknownType))

	err = reg.LoadConfig([]byte(`
types:
  - name: PlainA
    fields:
      - name: B
        propagate_null: id
`), PlainA{})
	require.ErrorAs(t, err, &descErr)
	assert.True(t, descErr.Diagnostics.HasCode(diagnostic.CodePropagateNotNested))

	require.ErrorIs(t, reg.LoadConfig([]byte("types: [")), ErrDescriptor)
}
