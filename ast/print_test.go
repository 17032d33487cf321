package ast

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	f := NewFactory()
	x := f.Parameter(reflect.TypeFor[int](), "x")
	s := f.Parameter(reflect.TypeFor[[]int](), "s")
	brk := f.Label(nil, "done")
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"add", f.Add(f.Constant(2), f.Constant(3)), "(2 + 3)"},
		{"string", f.Constant("hi"), `"hi"`},
		{"null", f.TypedConstant(nil, reflect.TypeFor[string]()), "nil"},
		{"lambda", f.Lambda(f.Multiply(x, f.Constant(2)), x), "(x) => (x * 2)"},
		{"negate", f.Negate(x), "-x"},
		{"convert", f.Convert(x, reflect.TypeFor[int64]()), "int64(x)"},
		{"index", f.ArrayIndex(s, f.Constant(0)), "s[0]"},
		{"conditional", f.Condition(f.Constant(true), f.Constant(1), f.Constant(2)), "(true ? 1 : 2)"},
		{"rethrow", f.Rethrow(), "rethrow"},
		{"break", f.Break(brk, nil), "break done"},
		{"block", f.Block([]*ParameterExpr{x}, f.Assign(x, f.Constant(1))), "{ var x int; (x = 1); }"},
		{"array", f.NewArrayInit(reflect.TypeFor[int](), f.Constant(1), f.Constant(2)), "[]int{1, 2}"},
		{"type is", f.TypeIs(x, reflect.TypeFor[int]()), "(x is int)"},
		{"default", f.Default(reflect.TypeFor[string]()), "default(string)"},
		{"post increment", f.MakeUnary(PostIncrementAssign, x, nil), "x++"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.node))
		})
	}
}
