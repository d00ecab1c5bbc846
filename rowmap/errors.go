package rowmap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"row-mapper/internal/common"
	"row-mapper/internal/diagnostic"
)

var (
	ErrDescriptor               = errors.New("invalid row mapping")
	ErrAmbiguousConstructor     = errors.New("ambiguous constructor parameters")
	ErrMissingColumn            = errors.New("missing column")
	ErrTypeConversion           = errors.New("type conversion failed")
	ErrPropagateNullKeyNotFound = errors.New("propagate-null key column not found")
	ErrInstantiation            = errors.New("instantiation failed")
)

// DescriptorError reports every problem found while resolving the mapping of a type.
type DescriptorError struct {
	Type        reflect.Type
	Prefix      string
	Diagnostics diagnostic.Diagnostics
}

func (e *DescriptorError) Error() string {
	var b strings.Builder

	b.WriteString("row mapping")
	if e.Type != nil {
		b.WriteString(" of ")
		b.WriteString(common.TypeName(e.Type))
	}

	if e.Prefix != "" {
		fmt.Fprintf(&b, " at %q", e.Prefix)
	}

	b.WriteString(": ")

	if err := e.Diagnostics.Error(); err != nil {
		b.WriteString(err.Error())
	} else {
		b.WriteString("invalid")
	}

	return b.String()
}

func (e *DescriptorError) Is(target error) bool {
	return target == ErrDescriptor
}

func descriptorError(t reflect.Type, diags diagnostic.Diagnostics) *DescriptorError {
	return &DescriptorError{Type: t, Diagnostics: diags}
}

// AmbiguousConstructorError is returned when constructor parameters cannot be told apart by column.
type AmbiguousConstructorError struct {
	Type       reflect.Type
	Name       string
	Candidates []string
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("constructor of %s: parameter %q matches several of %s",
		common.TypeName(e.Type), e.Name, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousConstructorError) Is(target error) bool {
	return target == ErrAmbiguousConstructor || target == ErrDescriptor
}

// MissingColumnError is returned when a row lacks the column of a required field.
type MissingColumnError struct {
	Type        reflect.Type
	Field       string
	Column      string
	Suggestions []string
}

func (e *MissingColumnError) Error() string {
	msg := fmt.Sprintf("%s: column %q of field %s is missing", common.TypeName(e.Type), e.Column, e.Field)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", quoteAll(e.Suggestions))
	}

	return msg
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// TypeConversionError is returned when a raw value cannot be converted into its field.
type TypeConversionError struct {
	Type   reflect.Type
	Field  string
	Column string
	Value  any
	Target reflect.Type
	Err    error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("%s: field %s from column %q: cannot convert %T(%v) to %s: %v",
		common.TypeName(e.Type), e.Field, e.Column, e.Value, e.Value, e.Target, e.Err)
}

func (e *TypeConversionError) Is(target error) bool {
	return target == ErrTypeConversion
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

// PropagateNullKeyNotFoundError is returned when the key column deciding whether an object is
// absent is not part of the row at all.
type PropagateNullKeyNotFoundError struct {
	Type   reflect.Type
	Field  string
	Column string
}

func (e *PropagateNullKeyNotFoundError) Error() string {
	field := e.Field
	if field == "" {
		field = "<root>"
	}

	return fmt.Sprintf("%s: propagate-null key column %q of %s not found in row", common.TypeName(e.Type), e.Column, field)
}

func (e *PropagateNullKeyNotFoundError) Is(target error) bool {
	return target == ErrPropagateNullKeyNotFound
}

// InstantiationError is returned when a constructor or factory fails.
type InstantiationError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *InstantiationError) Error() string {
	field := e.Field
	if field == "" {
		field = "<root>"
	}

	return fmt.Sprintf("%s: cannot create %s: %v", common.TypeName(e.Type), field, e.Err)
}

func (e *InstantiationError) Is(target error) bool {
	return target == ErrInstantiation
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}

	return strings.Join(quoted, ", ")
}
