package synth

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proxyme/proxyme/internal/descriptor"
)

type Color int

const (
	ColorRed Color = iota + 1
	ColorGreen
)

type Point struct{ X, Y int }

type numbered interface {
	GetNumber() int
	SetNumber(int)
}

// allValues covers one property per value category
type allValues interface {
	GetInt() int
	SetInt(int)
	GetFloat() float64
	SetFloat(float64)
	GetBool() bool
	SetBool(bool)
	GetRune() rune
	SetRune(rune)
	GetColor() Color
	SetColor(Color)
	GetPoint() Point
	SetPoint(Point)
	GetName() string
	SetName(string)
	GetItems() []string
	SetItems([]string)
	GetNext() *Point
	SetNext(*Point)
	GetAny() any
	SetAny(any)
}

type person interface {
	GetID() string
	GetName() string
	SetName(string)
	SetSecret(string)
}

type calculator interface {
	GetTotal() int
	SetTotal(int)
	Add(a, b int) int
	Sum(xs ...int) int
	Fail() error
	Boom()
}

type calc struct {
	total int
	calls []string
}

var errCalc = errors.New("calculator failure")

func (c *calc) GetTotal() int  { return c.total }
func (c *calc) SetTotal(v int) { c.total = v }
func (c *calc) Add(a, b int) int {
	c.calls = append(c.calls, "Add")
	return a + b
}
func (c *calc) Sum(xs ...int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
func (c *calc) Fail() error { return errCalc }
func (c *calc) Boom()       { panic("boom") }

type hiddenMethod interface {
	GetName() string
	reset()
}

type Counter struct {
	Name  string
	Count int
	Tags  []string
}

func (c *Counter) Increment(by int) int {
	c.Count += by
	return c.Count
}

func (c Counter) Label() string { return c.Name }

func describe[T any](t *testing.T, opts ...descriptor.Option) *descriptor.ContractDescriptor {
	t.Helper()
	return descriptor.NewExtractor(opts...).Extract(reflect.TypeOf((*T)(nil)).Elem())
}

func assemble[T any](t *testing.T, mode Mode, opts ...AssemblerOption) *Type {
	t.Helper()
	typ, err := NewAssembler(opts...).Assemble(describe[T](t), mode)
	require.NoError(t, err)
	return typ
}

func mustGet(t *testing.T, o *Object, name string) any {
	t.Helper()
	v, err := o.Get(name)
	require.NoError(t, err)
	return v
}
