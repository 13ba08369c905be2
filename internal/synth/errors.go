package synth

import (
	"errors"
	"fmt"
)

// ErrContractViolation matches every *ContractViolation through errors.Is
var ErrContractViolation = errors.New("contract violation")

// Member access failures, wrapped in *AccessError
var (
	ErrUnknownMember = errors.New("unknown member")
	ErrNotReadable   = errors.New("property has no getter")
	ErrNotWritable   = errors.New("property has no setter")
	ErrMissingValue  = errors.New("missing value")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrArgumentCount = errors.New("wrong number of arguments")
	ErrInvalidTarget = errors.New("invalid proxy target")
	ErrNoConstructor = errors.New("no matching constructor")
	ErrNilArgument   = errors.New("nil argument")
)

// Descriptor identity failures
var (
	ErrInvalidIdentity  = errors.New("contract identity is not comparable")
	ErrIdentityConflict = errors.New("contract identity already names a different shape")
)

// ContractViolation reports a contract whose shape does not fit the requested mode
type ContractViolation struct {
	Contract string
	Mode     Mode
	Reason   string
}

// Error implements the error interface
func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation: %s cannot be synthesized as %s: %s",
		e.Contract, e.Mode, e.Reason)
}

// Is matches ErrContractViolation
func (e *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

// AccessError reports a failed property access, method call or construction
type AccessError struct {
	Type   string
	Member string
	Op     string
	Err    error
}

// Error implements the error interface
func (e *AccessError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
	}
	return fmt.Sprintf("%s %s.%s: %v", e.Op, e.Type, e.Member, e.Err)
}

// Unwrap returns the underlying error
func (e *AccessError) Unwrap() error {
	return e.Err
}

func mismatch(want fmt.Stringer, got any) error {
	return fmt.Errorf("%w: cannot use %T as %s", ErrTypeMismatch, got, want)
}
