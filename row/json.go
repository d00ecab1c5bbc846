package row

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// FromJSON reads a row from a single flat JSON object, keeping key order.
// Numbers are kept as json.Number so no precision is lost before conversion.
func FromJSON(data []byte) (*Values, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode row: expected an object, got %v", tok)
	}

	var (
		columns []string
		values  []any
	)

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode row: expected a column name, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode column %q: %w", key, err)
		}

		if _, nested := tok.(json.Delim); nested {
			return nil, fmt.Errorf("%w: column %q", ErrNestedValue, key)
		}

		columns = append(columns, key)
		values = append(values, tok)
	}

	if _, err = dec.Token(); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode row: trailing data after object")
	}

	return New(columns, values)
}
