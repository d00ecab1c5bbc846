package mapping

import (
	"row-mapper/internal/match"
)

// File represents the root of a YAML configuration file.
type File struct {
	// Version of the configuration schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Types lists per type configurations.
	Types []TypeConfig `yaml:"types" validate:"dive"`
}

// Strategy selects how instances of a type are created.
type Strategy string

const (
	// StrategyAuto uses a registered constructor if any, the mutable strategy otherwise.
	StrategyAuto        Strategy = "auto"
	StrategyConstructor Strategy = "constructor"
	StrategyMutable     Strategy = "mutable"
)

// IsValid returns true if the strategy is a recognized value.
func (s Strategy) IsValid() bool {
	return s == "" || s == StrategyAuto || s == StrategyConstructor || s == StrategyMutable
}

// TypeConfig configures the mapping of one Go type.
type TypeConfig struct {
	// Name is the Go type name as reported by reflect, without package.
	Name string `yaml:"name" validate:"required,goident"`

	// Strategy forces an instantiation strategy.
	Strategy Strategy `yaml:"strategy,omitempty" validate:"omitempty,oneof=auto constructor mutable"`

	// PropagateNull names the column which, when null, makes the whole object absent.
	PropagateNull string `yaml:"propagate_null,omitempty"`

	// Fields configures fields or constructor parameters by name.
	Fields []FieldConfig `yaml:"fields,omitempty" validate:"dive"`
}

// Field returns the configuration of the named field.
func (tc *TypeConfig) Field(name string) (*FieldConfig, bool) {
	for i := range tc.Fields {
		if tc.Fields[i].Name == name {
			return &tc.Fields[i], true
		}
	}

	return nil, false
}

// FieldConfig configures one field or constructor parameter.
type FieldConfig struct {
	// Name of the Go field or of the constructor parameter.
	Name string `yaml:"name" validate:"required,goident"`

	// Column overrides the column name, defaults to Name.
	Column string `yaml:"column,omitempty" validate:"omitempty,excludesall=."`

	// Nested marks the field as a nested object read from the columns under a prefix.
	Nested *Nested `yaml:"nested,omitempty"`

	// Inline marks the field as a nested object sharing the prefix of its parent.
	Inline bool `yaml:"inline,omitempty"`

	// Type is the Go type name of a nested object. The engine takes the type from
	// the field itself, tooling reading the file alone relies on it.
	Type string `yaml:"type,omitempty" validate:"omitempty,goident"`

	// Nullable lets a missing or null column leave the zero value.
	Nullable bool `yaml:"nullable,omitempty"`

	// PropagateNull names the column of the nested object which, when null, makes it absent.
	PropagateNull string `yaml:"propagate_null,omitempty"`

	// Ignore excludes the field from mapping.
	Ignore bool `yaml:"ignore,omitempty"`
}

// IsNested returns true if the field holds a nested object.
func (fc *FieldConfig) IsNested() bool {
	return fc.Nested != nil || fc.Inline
}

// Prefix returns the nested prefix of the field.
func (fc *FieldConfig) Prefix() string {
	switch {
	case fc.Inline || fc.Nested == nil:
		return ""
	case fc.Nested.UseFieldName:
		return fc.Name
	default:
		return fc.Nested.Prefix
	}
}

// ColumnName returns the column a direct field is read from.
func (fc *FieldConfig) ColumnName() string {
	if fc.Column != "" {
		return fc.Column
	}

	return fc.Name
}

// Nested is a nested object prefix.
// YAML formats supported:
//   - Prefix: `nested: b`
//   - Field name as the prefix: `nested: true`
type Nested struct {
	Prefix       string
	UseFieldName bool
}

// NestedAt returns a Nested with the given prefix.
func NestedAt(prefix string) *Nested {
	return &Nested{Prefix: prefix}
}

// Normalized returns the lookup form of the prefix.
func (n Nested) Normalized() string {
	return match.NormalizeColumn(n.Prefix)
}
