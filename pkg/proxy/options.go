package proxy

import (
	"go.uber.org/zap"

	"github.com/proxyme/proxyme/internal/cli/config"
	"github.com/proxyme/proxyme/internal/descriptor"
)

type engineOptions struct {
	logger       *zap.Logger
	separator    string
	lenient      bool
	getterPrefix string
	setterPrefix string
	constructors []any
}

// Option configures an Engine
type Option func(*engineOptions)

// WithLogger sets the logger for assembly and cache events
func WithLogger(logger *zap.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithNameSeparator sets the separator between contract name and mode suffix
func WithNameSeparator(sep string) Option {
	return func(o *engineOptions) {
		o.separator = sep
	}
}

// WithLenientConversion lets dictionary reads convert scalars of another type
func WithLenientConversion(lenient bool) Option {
	return func(o *engineOptions) {
		o.lenient = lenient
	}
}

// WithGetterPrefix sets the method prefix marking property getters
func WithGetterPrefix(prefix string) Option {
	return func(o *engineOptions) {
		o.getterPrefix = prefix
	}
}

// WithSetterPrefix sets the method prefix marking property setters
func WithSetterPrefix(prefix string) Option {
	return func(o *engineOptions) {
		o.setterPrefix = prefix
	}
}

// WithConstructor registers a constructor function for subtypes of the struct it returns
func WithConstructor(fn any) Option {
	return func(o *engineOptions) {
		o.constructors = append(o.constructors, fn)
	}
}

// WithConfig applies the synthesis section of a loaded configuration
func WithConfig(cfg *config.Config) Option {
	return func(o *engineOptions) {
		if cfg == nil {
			return
		}
		o.separator = cfg.Synthesis.NameSeparator
		o.lenient = cfg.Synthesis.LenientConversion
		o.getterPrefix = cfg.Synthesis.GetterPrefix
		o.setterPrefix = cfg.Synthesis.SetterPrefix
	}
}

func defaultOptions() *engineOptions {
	return &engineOptions{
		logger:       zap.NewNop(),
		separator:    DefaultNameSeparator,
		getterPrefix: descriptor.DefaultGetterPrefix,
		setterPrefix: descriptor.DefaultSetterPrefix,
	}
}
