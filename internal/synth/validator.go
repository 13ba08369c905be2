package synth

import (
	"strings"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// rule returns a reason when desc breaks it, or an empty string
type rule func(desc *descriptor.ContractDescriptor) string

var modeRules = map[Mode][]rule{
	ModeContract:   {requireInterface, forbidMethods},
	ModeDictionary: {requireInterface, forbidMethods},
	ModeProxy:      {requireInterface, forbidUnexportedMethods},
	ModeSubtype:    {rejectInterface, requireClass, requireDefaultConstructor},
}

// Validate checks desc against the structural rules of mode.
// It returns a *ContractViolation for the first rule broken.
func Validate(desc *descriptor.ContractDescriptor, mode Mode) error {
	rules, ok := modeRules[mode]
	if !ok {
		return &ContractViolation{Contract: desc.QualifiedName, Mode: mode, Reason: "unknown synthesis mode"}
	}
	for _, r := range rules {
		if reason := r(desc); reason != "" {
			return &ContractViolation{Contract: desc.QualifiedName, Mode: mode, Reason: reason}
		}
	}
	return nil
}

func requireInterface(desc *descriptor.ContractDescriptor) string {
	if desc.IsInterfaceLike() {
		return ""
	}
	return "contract is " + desc.Kind.String() + ", not interface-like"
}

func forbidMethods(desc *descriptor.ContractDescriptor) string {
	if len(desc.Methods) == 0 {
		return ""
	}
	return "contract declares methods: " + methodNames(desc.Methods, func(descriptor.MethodDescriptor) bool { return true })
}

func forbidUnexportedMethods(desc *descriptor.ContractDescriptor) string {
	names := methodNames(desc.Methods, func(m descriptor.MethodDescriptor) bool { return !m.Exported })
	if names == "" {
		return ""
	}
	return "unexported methods cannot be forwarded: " + names
}

func rejectInterface(desc *descriptor.ContractDescriptor) string {
	if desc.IsInterfaceLike() {
		return "contract is interface-like"
	}
	return ""
}

func requireClass(desc *descriptor.ContractDescriptor) string {
	if desc.Kind == descriptor.KindClass && desc.Type != nil {
		return ""
	}
	return "contract is " + desc.Kind.String() + ", not class-like"
}

func requireDefaultConstructor(desc *descriptor.ContractDescriptor) string {
	if desc.HasDefaultConstructor() {
		return ""
	}
	return "contract has no accessible default constructor"
}

func methodNames(methods []descriptor.MethodDescriptor, keep func(descriptor.MethodDescriptor) bool) string {
	var names []string
	for _, m := range methods {
		if keep(m) {
			names = append(names, m.Name)
		}
	}
	return strings.Join(names, ", ")
}
