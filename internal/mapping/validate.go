package mapping

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"row-mapper/internal/diagnostic"
	"row-mapper/internal/match"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// yaml names in error namespaces match what users wrote
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})

	return v
}

// Validate checks a configuration file on its own, without the Go types it names.
// Checks against actual types happen when a registry resolves them.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if err := validate.Struct(f); err != nil {
		addValidationErrors(res, err)
	}

	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		tc := &f.Types[i]
		if tc.Name == "" {
			continue
		}

		if _, ok := seenTypes[tc.Name]; ok {
			res.AddErrorf(diagnostic.CodeDuplicateType, tc.Name, "", "duplicate type %q", tc.Name)
			continue
		}

		seenTypes[tc.Name] = struct{}{}

		validateType(res, tc)
	}

	return res
}

func validateType(res *diagnostic.Diagnostics, tc *TypeConfig) {
	if tc.PropagateNull != "" && match.EscapesScope(tc.PropagateNull) {
		res.AddErrorf(diagnostic.CodePropagateScope, tc.Name, "",
			"propagate_null key %q must be a column of the type itself", tc.PropagateNull)
	}

	seenFields := map[string]struct{}{}

	for i := range tc.Fields {
		fc := &tc.Fields[i]
		if fc.Name == "" {
			continue
		}

		if _, ok := seenFields[fc.Name]; ok {
			res.AddErrorf(diagnostic.CodeDuplicateField, tc.Name, fc.Name, "duplicate field %q", fc.Name)
			continue
		}

		seenFields[fc.Name] = struct{}{}

		validateField(res, tc.Name, fc)
	}
}

func validateField(res *diagnostic.Diagnostics, typeName string, fc *FieldConfig) {
	if fc.Ignore {
		if fc.IsNested() || fc.Column != "" || fc.Nullable || fc.PropagateNull != "" {
			res.AddWarning(diagnostic.CodeInvalidValue, "ignored field has other options, they have no effect", typeName, fc.Name)
		}

		return
	}

	if fc.Inline && fc.Nested != nil {
		res.AddError(diagnostic.CodeInvalidValue, "a field is either inline or nested under a prefix", typeName, fc.Name)
	}

	if fc.IsNested() && fc.Column != "" {
		res.AddError(diagnostic.CodeInvalidValue, "a nested field has no column of its own", typeName, fc.Name)
	}

	if fc.Nested != nil && !fc.Nested.UseFieldName && fc.Nested.Normalized() == "" {
		res.AddError(diagnostic.CodeInvalidValue, "nested prefix is empty, use inline: true instead", typeName, fc.Name)
	}

	if fc.PropagateNull != "" {
		if !fc.IsNested() {
			res.AddError(diagnostic.CodePropagateNotNested,
				"propagate_null on a field requires a nested object, set it on the type for its own columns", typeName, fc.Name)
		} else if match.EscapesScope(fc.PropagateNull) {
			res.AddErrorf(diagnostic.CodePropagateScope, typeName, fc.Name,
				"propagate_null key %q must be a column of the nested object", fc.PropagateNull)
		}
	}

	if fc.Nullable && fc.IsNested() {
		res.AddWarning(diagnostic.CodeNullableIneffective, "nullable has no effect on a nested field", typeName, fc.Name)
	}
}

func addValidationErrors(res *diagnostic.Diagnostics, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.AddError(diagnostic.CodeInvalidValue, err.Error(), "", "")
		return
	}

	for _, fe := range verrs {
		// drop the root struct name: "File.types[0].name" -> "types[0].name"
		_, path, _ := strings.Cut(fe.Namespace(), ".")

		msg := fmt.Sprintf("failed rule '%s'", fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" expected '%s'", fe.Param())
		}

		msg += fmt.Sprintf(", got '%v'", fe.Value())

		res.AddError(diagnostic.CodeInvalidValue, msg, "", path)
	}
}
