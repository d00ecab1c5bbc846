// Package mapping provides the YAML schema for declarative row mapping
// configuration, its parsing, validation and the column layout it implies.
//
// YAML configuration takes priority over struct tags and type methods, so a
// type can be remapped without touching its declaration.
//
// # Schema Overview
//
// The configuration file has the following structure:
//
//	version: "1"
//	types:
//	  - name: ValueA           # Go type name
//	    strategy: auto         # auto | constructor | mutable
//	    propagate_null: ""     # type level propagate-null key
//	    fields:
//	      - name: B            # Go field or constructor parameter name
//	        nested: b          # nested prefix, `nested: true` uses the field name
//	        type: ValueB       # type of the nested object, needed for layouts only
//	      - name: C
//	        nested: c
//	        type: ValueC
//	        propagate_null: id # collapse C when column c.id is null
//	      - name: S
//	        column: some_column
//	        nullable: true     # a missing column leaves the zero value
//	      - name: Internal
//	        ignore: true
//
// # Inline objects
//
// `inline: true` nests an object without a prefix: its columns are looked up
// in the scope of the parent.
//
// # Priority Order
//
// When the same field is configured in several places:
//  1. builder and YAML configuration (highest)
//  2. struct tags
//  3. type methods such as PropagateNullKey() string (lowest)
package mapping
