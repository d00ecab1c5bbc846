package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
types:
  - name: ValueA
    fields:
      - name: B
        nested: b
        type: ValueB
      - name: C
        nested: c
        type: ValueC
        propagate_null: id
  - name: ValueB
    strategy: constructor
    fields:
      - name: ID
      - name: S
  - name: ValueC
    fields:
      - name: ID
      - name: AdditionalColumn
        nullable: true
      - name: Audit
        nested: true
        type: Audit
      - name: Internal
        ignore: true
  - name: Audit
    fields:
      - name: By
        column: created_by
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(scenarioYAML))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Types, 4)

	a, ok := f.Lookup("ValueA")
	require.True(t, ok)
	assert.Equal(t, StrategyAuto, a.Strategy)

	c, ok := a.Field("C")
	require.True(t, ok)
	assert.True(t, c.IsNested())
	assert.Equal(t, "c", c.Prefix())
	assert.Equal(t, "id", c.PropagateNull)

	b, _ := f.Lookup("ValueB")
	assert.Equal(t, StrategyConstructor, b.Strategy)

	vc, _ := f.Lookup("ValueC")
	audit, _ := vc.Field("Audit")
	assert.Equal(t, "Audit", audit.Prefix(), "nested: true uses the field name")

	internal, _ := vc.Field("Internal")
	assert.True(t, internal.Ignore)

	by, _ := f.Types[3].Field("By")
	assert.Equal(t, "created_by", by.ColumnName())

	_, ok = f.Lookup("Missing")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("types: [name: x"))
	assert.Error(t, err)

	_, err = Parse([]byte("types:\n  - name: A\n    strategy: lazy\n"))
	assert.ErrorContains(t, err, `unknown strategy "lazy"`)

	_, err = Parse([]byte("types:\n  - name: A\n    fields:\n      - name: B\n        nested: false\n"))
	assert.ErrorContains(t, err, "nested: false has no meaning")

	_, err = Parse([]byte("types:\n  - name: A\n    fields:\n      - name: B\n        nested: [a]\n"))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsNested(t *testing.T) {
	f := &File{
		Version: "1",
		Types: []TypeConfig{{
			Name: "A",
			Fields: []FieldConfig{
				{Name: "B", Nested: NestedAt("b")},
				{Name: "C", Nested: &Nested{UseFieldName: true}},
				{Name: "D", Inline: true},
			},
		}},
	}

	data, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nested: b")
	assert.Contains(t, string(data), "nested: true")
	assert.Contains(t, string(data), "inline: true")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f.Types[0].Fields, back.Types[0].Fields)
}

func TestLoadFileAndWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteFile(f, out))

	again, err := LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, f, again)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read mapping file")
}
