package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errNestedFalse = errors.New("nested: false has no meaning, omit the key instead")

// UnmarshalYAML implements custom YAML unmarshaling for Nested.
// Accepts either a prefix string or the boolean true.
func (n *Nested) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a prefix or true, got %v", node.Kind)
	}

	if node.Tag == "!!bool" {
		var flag bool

		err := node.Decode(&flag)
		if err != nil {
			return err
		}

		if !flag {
			return errNestedFalse
		}

		*n = Nested{UseFieldName: true}

		return nil
	}

	var prefix string

	err := node.Decode(&prefix)
	if err != nil {
		return err
	}

	*n = Nested{Prefix: prefix}

	return nil
}

// MarshalYAML implements custom YAML marshaling for Nested.
func (n Nested) MarshalYAML() (any, error) {
	if n.UseFieldName {
		return true, nil
	}

	return n.Prefix, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Strategy, rejecting unknown values early.
func (s *Strategy) UnmarshalYAML(node *yaml.Node) error {
	var str string

	err := node.Decode(&str)
	if err != nil {
		return err
	}

	strategy := Strategy(str)
	if !strategy.IsValid() {
		return fmt.Errorf("unknown strategy %q, expected one of auto, constructor, mutable", str)
	}

	*s = strategy

	return nil
}
