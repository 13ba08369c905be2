package synth

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// DefaultNameSeparator joins a contract name and the mode suffix
const DefaultNameSeparator = "`"

// Assembler validates contracts and builds synthesized types from them
type Assembler struct {
	logger    *zap.Logger
	separator string
	lenient   bool
	moduleID  string
}

// AssemblerOption configures an Assembler
type AssemblerOption func(*Assembler)

// WithLogger sets the logger used for assembly events
func WithLogger(logger *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithNameSeparator sets the separator between contract name and mode suffix
func WithNameSeparator(sep string) AssemblerOption {
	return func(a *Assembler) {
		if sep != "" {
			a.separator = sep
		}
	}
}

// WithLenientConversion lets dictionary reads convert scalar values of another type
func WithLenientConversion(lenient bool) AssemblerOption {
	return func(a *Assembler) {
		a.lenient = lenient
	}
}

// NewAssembler creates an assembler with its own module id
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		logger:    zap.NewNop(),
		separator: DefaultNameSeparator,
		moduleID:  uuid.NewString(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// ModuleID returns the id stamped on every type this assembler builds
func (a *Assembler) ModuleID() string { return a.moduleID }

// TypeName returns the name a type synthesized from desc in mode gets
func (a *Assembler) TypeName(desc *descriptor.ContractDescriptor, mode Mode) string {
	return desc.QualifiedName + a.separator + mode.Suffix()
}

// Assemble validates desc for mode and synthesizes every member
func (a *Assembler) Assemble(desc *descriptor.ContractDescriptor, mode Mode) (*Type, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: contract descriptor is nil", ErrNilArgument)
	}
	if err := Validate(desc, mode); err != nil {
		return nil, err
	}

	t := &Type{
		name:      a.TypeName(desc, mode),
		pkgPath:   desc.PkgPath,
		mode:      mode,
		contract:  desc,
		moduleID:  a.moduleID,
		propIndex: make(map[string]*propertyImpl, len(desc.Properties)),
		methIndex: make(map[string]*methodImpl, len(desc.Methods)),
	}

	syn := a.synthesizer(desc, mode)
	for _, p := range desc.Properties {
		impl, err := syn.implementProperty(p)
		if err != nil {
			return nil, fmt.Errorf("failed to implement property %s of %s: %w", p.Name, t.name, err)
		}
		t.addProperty(impl)
	}
	for _, m := range desc.Methods {
		impl, err := syn.implementMethod(m)
		if err != nil {
			return nil, fmt.Errorf("failed to implement method %s of %s: %w", m.Name, t.name, err)
		}
		t.addMethod(impl)
	}
	syn.finalize(t)

	a.logger.Debug("assembled synthesized type",
		zap.String("type", t.name),
		zap.Stringer("mode", mode),
		zap.Int("properties", len(t.properties)),
		zap.Int("methods", len(t.methods)),
		zap.String("module", a.moduleID),
	)

	return t, nil
}

func (a *Assembler) synthesizer(desc *descriptor.ContractDescriptor, mode Mode) memberSynthesizer {
	switch mode {
	case ModeDictionary:
		return newDictionarySynthesizer(desc, a.lenient)
	case ModeProxy:
		return newForwardingSynthesizer(desc)
	case ModeSubtype:
		return newPassThroughSynthesizer(desc)
	default:
		return newBackingSynthesizer(desc)
	}
}
