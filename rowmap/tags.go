package rowmap

import (
	"errors"
	"fmt"
	"strings"
)

// tagSpec is the parsed form of a `row:"name,opt..."` struct tag.
//
// Options:
//   - nested: the field is a nested object under prefix name (the field name by default)
//   - inline: the field is a nested object sharing the parent prefix
//   - nullable: a missing or null column leaves the zero value
//   - propagatenull: on a direct field, its column is the key of the type
//   - propagatenull=key: on a nested field, key is the column of the nested object
//
// The tag "-" skips the field.
type tagSpec struct {
	name      string
	skip      bool
	nested    bool
	inline    bool
	nullable  bool
	propagate bool
	key       string
}

func parseTag(tag string) (tagSpec, error) {
	if tag == "-" {
		return tagSpec{skip: true}, nil
	}

	name, rest, _ := strings.Cut(tag, ",")
	spec := tagSpec{name: strings.TrimSpace(name)}

	if rest == "" {
		return spec, nil
	}

	for _, opt := range strings.Split(rest, ",") {
		opt, value, hasValue := strings.Cut(strings.TrimSpace(opt), "=")

		switch strings.ToLower(opt) {
		default:
			return tagSpec{}, fmt.Errorf("unknown tag option %q", opt)
		case "":
		case "nested":
			spec.nested = true
		case "inline":
			spec.inline = true
		case "nullable":
			spec.nullable = true
		case "propagatenull":
			spec.propagate = true
			if hasValue {
				if value == "" {
					return tagSpec{}, errors.New("empty propagatenull key")
				}

				spec.key = value
			}
		}
	}

	if spec.nested && spec.inline {
		return tagSpec{}, errors.New("a field is either inline or nested under a prefix")
	}

	return spec, nil
}
