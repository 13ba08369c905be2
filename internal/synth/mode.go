// Package synth assembles runtime implementations of contracts.
//
// A synthesized Type pairs a contract descriptor with one of four member
// synthesis strategies and exposes the constructors that strategy offers.
// Instances are *Object values whose members dispatch to the strategy.
package synth

import (
	"fmt"
	"strings"
)

// Mode selects how a contract is synthesized
type Mode int

const (
	// ModeContract stores each property in its own runtime struct field
	ModeContract Mode = iota
	// ModeDictionary stores properties in a caller-owned map
	ModeDictionary
	// ModeProxy forwards every member to a wrapped target
	ModeProxy
	// ModeSubtype specializes a concrete struct type without adding members
	ModeSubtype
)

// Modes returns every synthesis mode in declaration order
func Modes() []Mode {
	return []Mode{ModeContract, ModeDictionary, ModeProxy, ModeSubtype}
}

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeContract:
		return "contract"
	case ModeDictionary:
		return "dictionary"
	case ModeProxy:
		return "proxy"
	case ModeSubtype:
		return "subtype"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Suffix returns the tag appended to synthesized type names of this mode
func (m Mode) Suffix() string {
	switch m {
	case ModeContract:
		return "DynamicContract"
	case ModeDictionary:
		return "DynamicDictionaryContract"
	case ModeProxy:
		return "DynamicProxy"
	case ModeSubtype:
		return "DynamicSubType"
	default:
		return ""
	}
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m >= ModeContract && m <= ModeSubtype
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contract", "backing", "backing-field", "fields":
		return ModeContract, nil
	case "dictionary", "dictionary-backed", "map":
		return ModeDictionary, nil
	case "proxy", "forwarding":
		return ModeProxy, nil
	case "subtype", "pass-through", "passthrough":
		return ModeSubtype, nil
	default:
		return 0, fmt.Errorf("unknown synthesis mode %q", s)
	}
}
