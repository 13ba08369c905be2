package proxy

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/proxyme/proxyme/internal/cache"
	"github.com/proxyme/proxyme/internal/cli/config"
	"github.com/proxyme/proxyme/internal/descriptor"
	"github.com/proxyme/proxyme/internal/logging"
	"github.com/proxyme/proxyme/internal/synth"
)

// Engine extracts, validates, synthesizes and caches contract implementations.
// An Engine is safe for concurrent use.
type Engine struct {
	extractor *descriptor.Extractor
	assembler *synth.Assembler
	cache     *cache.Cache
	logger    *zap.Logger
}

// NewEngine creates an engine with its own empty cache
func NewEngine(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.separator == "" {
		return nil, errors.New("name separator must not be empty")
	}
	if o.getterPrefix == "" || o.setterPrefix == "" {
		return nil, errors.New("accessor prefixes must not be empty")
	}
	if o.getterPrefix == o.setterPrefix {
		return nil, fmt.Errorf("getter and setter prefixes must differ, both are %q", o.getterPrefix)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	extractor := descriptor.NewExtractor(
		descriptor.WithGetterPrefix(o.getterPrefix),
		descriptor.WithSetterPrefix(o.setterPrefix),
	)
	for _, fn := range o.constructors {
		if err := extractor.RegisterConstructor(fn); err != nil {
			return nil, err
		}
	}

	return &Engine{
		extractor: extractor,
		assembler: synth.NewAssembler(
			synth.WithLogger(o.logger),
			synth.WithNameSeparator(o.separator),
			synth.WithLenientConversion(o.lenient),
		),
		cache:  cache.New(cache.WithLogger(o.logger)),
		logger: o.logger,
	}, nil
}

// LoadEngine creates an engine from a configuration file.
// An empty path looks for proxyme.yml in the working directory.
func LoadEngine(configPath string, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return NewEngine(append([]Option{WithConfig(cfg), WithLogger(logger)}, opts...)...)
}

// Logger returns the engine logger
func (e *Engine) Logger() *zap.Logger { return e.logger }

// ModuleID returns the id stamped on every type this engine synthesizes
func (e *Engine) ModuleID() string { return e.assembler.ModuleID() }

// RegisterConstructor adds a constructor for subtypes of the struct fn returns.
// Types already synthesized are not affected.
func (e *Engine) RegisterConstructor(fn any) error {
	return e.extractor.RegisterConstructor(fn)
}

// Describe extracts the descriptor of t
func (e *Engine) Describe(t reflect.Type) *Descriptor {
	return e.extractor.Extract(t)
}

// TypeOf returns the type synthesized for t in mode, assembling it on first use
func (e *Engine) TypeOf(t reflect.Type, mode Mode) (*Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: contract type is nil", ErrNilArgument)
	}
	return e.Synthesize(e.Describe(t), mode)
}

// Synthesize returns the type synthesized for desc in mode, assembling it on first use
func (e *Engine) Synthesize(desc *Descriptor, mode Mode) (*Type, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: contract descriptor is nil", ErrNilArgument)
	}
	if desc.Identity == nil {
		return nil, fmt.Errorf("%w: %s has no identity", ErrNilArgument, desc.QualifiedName)
	}
	if !reflect.ValueOf(desc.Identity).Comparable() {
		return nil, fmt.Errorf("%w: %s has identity of type %T", ErrInvalidIdentity, desc.QualifiedName, desc.Identity)
	}

	key := cache.Key{Identity: desc.Identity, Mode: mode}
	typ, err := e.cache.GetOrCreate(key, func() (*synth.Type, error) {
		return e.assembler.Assemble(desc, mode)
	})
	if err != nil {
		return nil, err
	}
	if cached := typ.Contract(); cached != desc && cached.Shape() != desc.Shape() {
		return nil, fmt.Errorf("%w: %s is cached as %s", ErrIdentityConflict, desc.QualifiedName, typ.Name())
	}
	return typ, nil
}

// CreateContract creates a backing-field instance of t with every property at zero
func (e *Engine) CreateContract(t reflect.Type) (*Object, error) {
	typ, err := e.TypeOf(t, ModeContract)
	if err != nil {
		return nil, err
	}
	return typ.New()
}

// CreateContractWith creates a backing-field instance of t and runs init on it
func (e *Engine) CreateContractWith(t reflect.Type, init Initializer) (*Object, error) {
	typ, err := e.TypeOf(t, ModeContract)
	if err != nil {
		return nil, err
	}
	return typ.NewWithInitializer(init)
}

// CreateContractFromMap creates an instance of t whose properties live in store
func (e *Engine) CreateContractFromMap(t reflect.Type, store map[string]any) (*Object, error) {
	typ, err := e.TypeOf(t, ModeDictionary)
	if err != nil {
		return nil, err
	}
	return typ.NewFromMap(store)
}

// CreateProxy creates an instance of t forwarding every member to target
func (e *Engine) CreateProxy(t reflect.Type, target any) (*Object, error) {
	typ, err := e.TypeOf(t, ModeProxy)
	if err != nil {
		return nil, err
	}
	return typ.NewProxy(target)
}

// CreateSubtype creates a subtype instance of the struct type t.
// args select a registered constructor; none runs the default constructor.
func (e *Engine) CreateSubtype(t reflect.Type, args ...any) (*Object, error) {
	typ, err := e.TypeOf(t, ModeSubtype)
	if err != nil {
		return nil, err
	}
	return typ.NewSubtype(args...)
}

// NewFromDescriptor creates a backing-field instance of desc, running init when non-nil
func (e *Engine) NewFromDescriptor(desc *Descriptor, init Initializer) (*Object, error) {
	typ, err := e.Synthesize(desc, ModeContract)
	if err != nil {
		return nil, err
	}
	return typ.NewWithInitializer(init)
}

// NewFromDescriptorMap creates a dictionary-backed instance of desc over store
func (e *Engine) NewFromDescriptorMap(desc *Descriptor, store map[string]any) (*Object, error) {
	typ, err := e.Synthesize(desc, ModeDictionary)
	if err != nil {
		return nil, err
	}
	return typ.NewFromMap(store)
}

// NewProxyFromDescriptor creates a forwarding instance of desc over target
func (e *Engine) NewProxyFromDescriptor(desc *Descriptor, target any) (*Object, error) {
	typ, err := e.Synthesize(desc, ModeProxy)
	if err != nil {
		return nil, err
	}
	return typ.NewProxy(target)
}

// Lookup returns an already synthesized type without assembling
func (e *Engine) Lookup(t reflect.Type, mode Mode) (*Type, bool) {
	if t == nil {
		return nil, false
	}
	return e.cache.Lookup(cache.Key{Identity: e.Describe(t).Identity, Mode: mode})
}

// Types returns every type synthesized so far, ordered by name
func (e *Engine) Types() []*Type {
	entries := e.cache.Entries()
	types := make([]*Type, len(entries))
	for i, entry := range entries {
		types[i] = entry.Type
	}
	return types
}

// Stats returns cache activity counters
func (e *Engine) Stats() Stats {
	return e.cache.Stats()
}
