package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyForwardsProperties(t *testing.T) {
	typ := assemble[calculator](t, ModeProxy)
	target := &calc{total: 3}

	o, err := typ.NewProxy(target)
	require.NoError(t, err)
	assert.Same(t, target, o.Target())

	assert.Equal(t, 3, mustGet(t, o, "Total"))
	require.NoError(t, o.Set("Total", 10))
	assert.Equal(t, 10, target.total)

	target.total = 11
	assert.Equal(t, 11, mustGet(t, o, "Total"))

	assert.ErrorIs(t, o.Set("Total", "x"), ErrTypeMismatch)
}

func TestProxyForwardsMethods(t *testing.T) {
	typ := assemble[calculator](t, ModeProxy)
	target := &calc{}
	o, err := typ.NewProxy(target)
	require.NoError(t, err)

	out, err := o.Call("Add", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{5}, out)
	assert.Equal(t, []string{"Add"}, target.calls)

	out, err = o.Call("Sum", 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{6}, out)

	out, err = o.Call("Sum")
	require.NoError(t, err)
	assert.Equal(t, []any{0}, out)

	out, err = o.Call("Fail")
	require.NoError(t, err, "target errors are results, not call failures")
	assert.Equal(t, []any{errCalc}, out)

	_, err = o.Call("Add", 1)
	assert.ErrorIs(t, err, ErrArgumentCount)

	_, err = o.Call("Add", 1, "2")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = o.Call("Nope")
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestProxyPropagatesPanics(t *testing.T) {
	typ := assemble[calculator](t, ModeProxy)
	o, err := typ.NewProxy(&calc{})
	require.NoError(t, err)

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = o.Call("Boom")
	})
}

func TestProxyTargets(t *testing.T) {
	typ := assemble[calculator](t, ModeProxy)

	t.Run("nil target", func(t *testing.T) {
		_, err := typ.NewProxy(nil)
		assert.ErrorIs(t, err, ErrNilArgument)
	})

	t.Run("non-implementing target", func(t *testing.T) {
		_, err := typ.NewProxy(calc{})
		assert.ErrorIs(t, err, ErrInvalidTarget)
		assert.Contains(t, err.Error(), "synth.calc does not implement")
	})

	t.Run("object of another contract", func(t *testing.T) {
		other, err := assemble[numbered](t, ModeContract).New()
		require.NoError(t, err)
		_, err = typ.NewProxy(other)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("only the target constructor is offered", func(t *testing.T) {
		assert.Equal(t, []string{"NewProxy"}, typ.Constructors())
		_, err := typ.New()
		assert.ErrorIs(t, err, ErrNoConstructor)
	})
}

func TestProxyOverSynthesizedObject(t *testing.T) {
	contract := assemble[person](t, ModeContract)
	inner, err := contract.NewWithInitializer(func(o *Object) error {
		return o.Set("ID", "p-1")
	})
	require.NoError(t, err)

	proxyType := assemble[person](t, ModeProxy)
	o, err := proxyType.NewProxy(inner)
	require.NoError(t, err)
	assert.Same(t, inner, o.Target())

	assert.Equal(t, "p-1", mustGet(t, o, "ID"))
	require.NoError(t, o.Set("Name", "Grace"))
	assert.Equal(t, "Grace", mustGet(t, inner, "Name"))

	err = o.Set("Name", 1)
	var ae *AccessError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, contract.Name(), ae.Type, "errors from the target pass through unchanged")
}
