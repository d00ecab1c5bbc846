package mapping

import (
	"slices"
	"strings"

	"row-mapper/internal/diagnostic"
	"row-mapper/internal/match"
)

// Column is one column a configured type reads.
type Column struct {
	// Display is the column as written in queries, e.g. "c.id".
	Display string
	// Normalized is the lookup form, e.g. "cid".
	Normalized string
	// Field is the Go field path, e.g. "C.ID". Empty for a key column matching no field.
	Field string
	// Nullable is set when a missing or null column is tolerated.
	Nullable bool
	// Key is set on the propagate-null key of the column's scope.
	Key bool
}

// Layout returns the columns read for type typeName under prefix. Only what the
// file declares is known: fields configured nowhere else are not listed, and
// nested fields need their type set to be expanded.
func Layout(f *File, typeName, prefix string) ([]Column, *diagnostic.Diagnostics) {
	b := layoutBuilder{file: f, diags: &diagnostic.Diagnostics{}}
	b.walk(typeName, prefix, "", "")

	return b.columns, b.diags
}

type layoutBuilder struct {
	file    *File
	diags   *diagnostic.Diagnostics
	trail   []string
	columns []Column
}

func (b *layoutBuilder) walk(typeName, prefix, fieldPath, key string) {
	tc, ok := b.file.Lookup(typeName)
	if !ok {
		b.diags.AddErrorf(diagnostic.CodeUnknownType, typeName, fieldPath, "type %q is not configured", typeName)
		return
	}

	if slices.Contains(b.trail, typeName) {
		b.diags.AddErrorf(diagnostic.CodeRecursiveType, typeName, fieldPath,
			"type nests itself: %s -> %s", strings.Join(b.trail, " -> "), typeName)
		return
	}

	b.trail = append(b.trail, typeName)
	defer func() { b.trail = b.trail[:len(b.trail)-1] }()

	if key == "" {
		key = tc.PropagateNull
	}

	keySeen := false

	for i := range tc.Fields {
		fc := &tc.Fields[i]
		if fc.Ignore {
			continue
		}

		path := fc.Name
		if fieldPath != "" {
			path = fieldPath + "." + fc.Name
		}

		if fc.IsNested() {
			if fc.Type == "" {
				b.diags.AddError(diagnostic.CodeUnknownType, "nested field has no type, its columns are unknown", tc.Name, fc.Name)
				continue
			}

			b.walk(fc.Type, match.JoinColumn(prefix, fc.Prefix()), path, fc.PropagateNull)

			continue
		}

		column := Column{
			Display:  match.JoinColumn(prefix, fc.ColumnName()),
			Field:    path,
			Nullable: fc.Nullable,
			Key:      key != "" && match.NormalizeColumn(fc.ColumnName()) == match.NormalizeColumn(key),
		}
		column.Normalized = match.NormalizeColumn(column.Display)
		keySeen = keySeen || column.Key

		b.columns = append(b.columns, column)
	}

	if key != "" && !keySeen {
		display := match.JoinColumn(prefix, key)
		b.columns = append(b.columns, Column{
			Display:    display,
			Normalized: match.NormalizeColumn(display),
			Key:        true,
		})
	}
}
