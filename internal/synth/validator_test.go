package synth

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxyme/proxyme/internal/descriptor"
)

func TestValidate(t *testing.T) {
	e := descriptor.NewExtractor()
	numberedDesc := e.Extract(reflect.TypeOf((*numbered)(nil)).Elem())
	calcDesc := e.Extract(reflect.TypeOf((*calculator)(nil)).Elem())
	hiddenDesc := e.Extract(reflect.TypeOf((*hiddenMethod)(nil)).Elem())
	counterDesc := e.Extract(reflect.TypeOf(Counter{}))
	opaqueDesc := e.Extract(reflect.TypeOf(0))

	tests := []struct {
		name   string
		desc   *descriptor.ContractDescriptor
		mode   Mode
		reason string
	}{
		{"contract accepts properties", numberedDesc, ModeContract, ""},
		{"contract rejects methods", calcDesc, ModeContract, "declares methods: Add, Boom, Fail, Sum"},
		{"contract rejects classes", counterDesc, ModeContract, "not interface-like"},
		{"dictionary accepts properties", numberedDesc, ModeDictionary, ""},
		{"dictionary rejects methods", calcDesc, ModeDictionary, "declares methods"},
		{"dictionary rejects opaque", opaqueDesc, ModeDictionary, "contract is opaque"},
		{"proxy accepts methods", calcDesc, ModeProxy, ""},
		{"proxy rejects unexported methods", hiddenDesc, ModeProxy, "unexported methods cannot be forwarded: reset"},
		{"proxy rejects classes", counterDesc, ModeProxy, "not interface-like"},
		{"subtype accepts classes", counterDesc, ModeSubtype, ""},
		{"subtype rejects interfaces", numberedDesc, ModeSubtype, "interface-like"},
		{"subtype rejects opaque", opaqueDesc, ModeSubtype, "not class-like"},
		{"unknown mode", numberedDesc, Mode(42), "unknown synthesis mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.desc, tt.mode)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrContractViolation))

			var cv *ContractViolation
			require.True(t, errors.As(err, &cv))
			assert.Equal(t, tt.mode, cv.Mode)
			assert.Equal(t, tt.desc.QualifiedName, cv.Contract)
			assert.Contains(t, cv.Reason, tt.reason)
		})
	}
}

func TestValidateMissingDefaultConstructor(t *testing.T) {
	desc := &descriptor.ContractDescriptor{
		QualifiedName: "example.Widget",
		Kind:          descriptor.KindClass,
		Type:          reflect.TypeOf(Counter{}),
	}

	err := Validate(desc, ModeSubtype)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no accessible default constructor")
}
