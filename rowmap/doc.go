// Package rowmap maps flat tabular rows onto nested Go values.
//
// A row is a set of named columns (see package row). A Mapper reads the columns
// of one type under one prefix: direct fields read a single column, nested
// fields read a whole object from the columns under their own prefix, so the row
//
//	b.id=1 b.s=first c.id=1 c.additionalColumn=additional
//
// fills ValueA{B: ValueB{ID: 1, S: "first"}, C: &ValueC{ID: 1, AdditionalColumn: "additional"}}.
// Column names match case-insensitively and regardless of "_", "-", "." and spaces.
//
// A nested object guarded by a propagate-null key is absent (nil) when its key
// column is null, whatever the other columns hold.
//
// Instances are created with one of two strategies:
//   - constructor: a registered function receives every value at once
//   - mutable: a zero value, or a factory instance, has its fields set one by one
//
// Configuration comes from, by priority, the builder API and YAML files,
// `row:"..."` struct tags, and a PropagateNullKey() string method.
//
// Mappers are resolved once per (type, prefix) and cached by a Registry; resolved
// mappers are immutable and safe for concurrent use.
package rowmap
