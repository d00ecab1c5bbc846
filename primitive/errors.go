package primitive

import "errors"

var (
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrOverflow              = errors.New("value out of range")
	ErrNull                  = errors.New("null value")
	ErrInvalidValue          = errors.New("invalid value")
)
