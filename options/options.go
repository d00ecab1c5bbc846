package options

import (
	"go.uber.org/zap"

	"row-mapper/internal/match"
	"row-mapper/primitive"
)

// Options holds registry wide settings shared by every mapper it resolves.
type Options struct {
	// Logger receives resolution events. Mapping a row never logs.
	Logger *zap.Logger
	// Conversions lists the categories of raw value conversions allowed for direct fields.
	Conversions primitive.CategoryEnum
	// TagName is the struct tag key carrying field configuration.
	TagName string
	// MaxDepth limits nesting of sub-objects (0 = unlimited).
	MaxDepth int
	// MaxSuggestions is the number of "did you mean" columns attached to a missing column error.
	MaxSuggestions int
}

// Option mutates Options.
type Option func(*Options)

// Default returns the default registry options.
func Default() Options {
	return Options{
		Logger:         zap.NewNop(),
		Conversions:    primitive.CategoryDefault,
		TagName:        "row",
		MaxDepth:       10,
		MaxSuggestions: match.DefaultMaxSuggestions,
	}
}

// New applies opts on top of Default.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.TagName == "" {
		o.TagName = "row"
	}

	return o
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithConversions(categories primitive.CategoryEnum) Option {
	return func(o *Options) { o.Conversions = categories }
}

func WithTagName(name string) Option {
	return func(o *Options) { o.TagName = name }
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

func WithMaxSuggestions(n int) Option {
	return func(o *Options) { o.MaxSuggestions = n }
}
