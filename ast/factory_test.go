package ast

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

func (p point) Scale(k int) point { return point{p.X * k, p.Y * k} }

func TestFactoryConstant(t *testing.T) {
	f := NewFactory()
	c := f.Constant(42)
	assert.Equal(t, Constant, c.NodeType())
	assert.Equal(t, reflect.TypeFor[int](), c.Type())
	assert.Equal(t, 42, c.Value)

	assert.Panics(t, func() { f.Constant(nil) })

	n := f.TypedConstant(nil, reflect.TypeFor[string]())
	assert.Nil(t, n.Value)
	assert.Equal(t, reflect.TypeFor[string](), n.Type())
}

func TestFactoryBinaryResultTypes(t *testing.T) {
	f := NewFactory()
	i := f.Constant(2)
	ni := f.TypedConstant(nil, reflect.TypeFor[*int]())
	tests := []struct {
		name         string
		node         *BinaryExpr
		want         reflect.Type
		lifted       bool
		liftedToNull bool
	}{
		{"add", f.Add(i, f.Constant(3)), reflect.TypeFor[int](), false, false},
		{"equal", f.Equal(i, f.Constant(3)), reflect.TypeFor[bool](), false, false},
		{"lifted add", f.Add(ni, ni), reflect.TypeFor[*int](), true, true},
		{"lifted equal", f.Equal(ni, ni), reflect.TypeFor[bool](), true, false},
		{"lifted to null", f.MakeBinaryLifted(LessThan, ni, ni), reflect.TypeFor[*bool](), true, true},
		{"coalesce", f.Coalesce(ni, i, nil), reflect.TypeFor[int](), false, false},
		{"array index", f.ArrayIndex(f.Constant([]string{"a"}), i), reflect.TypeFor[string](), false, false},
		{"assign", f.Assign(f.Parameter(reflect.TypeFor[int](), "x"), i), reflect.TypeFor[int](), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Type())
			assert.Equal(t, tt.lifted, tt.node.Lifted)
			assert.Equal(t, tt.liftedToNull, tt.node.LiftedToNull)
		})
	}
}

func TestFactoryRejectsWrongOperator(t *testing.T) {
	f := NewFactory()
	assert.Panics(t, func() { f.MakeBinary(Negate, f.Constant(1), f.Constant(2)) })
	assert.Panics(t, func() { f.MakeUnary(Add, f.Constant(1), nil) })
}

func TestFactoryUnary(t *testing.T) {
	f := NewFactory()
	u := f.Convert(f.Constant(1), reflect.TypeFor[int64]())
	assert.Equal(t, Convert, u.NodeType())
	assert.Equal(t, reflect.TypeFor[int64](), u.Type())

	l := f.ArrayLength(f.Constant([]int{1, 2}))
	assert.Equal(t, reflect.TypeFor[int](), l.Type())

	r := f.Rethrow()
	assert.Nil(t, r.Operand)
	assert.Equal(t, VoidType, r.Type())

	neg := f.Negate(f.TypedConstant(nil, reflect.TypeFor[*float64]()))
	assert.True(t, neg.Lifted)
	assert.True(t, neg.LiftedToNull)
}

func TestFactoryLambda(t *testing.T) {
	f := NewFactory()
	x := f.Parameter(reflect.TypeFor[int](), "x")
	l := f.Lambda(f.Multiply(x, f.Constant(2)), x)
	assert.Equal(t, reflect.TypeFor[func(int) int](), l.Type())
	assert.Equal(t, reflect.TypeFor[int](), l.ReturnType)

	v := f.Lambda(f.Empty(), x)
	assert.Equal(t, reflect.TypeFor[func(int)](), v.Type())

	inv := f.Invoke(l, f.Constant(4))
	assert.Equal(t, reflect.TypeFor[int](), inv.Type())
}

func TestFactoryControl(t *testing.T) {
	f := NewFactory()
	brk := f.Label(reflect.TypeFor[int](), "done")
	loop := f.Loop(f.Break(brk, f.Constant(1)), brk, nil)
	assert.Equal(t, reflect.TypeFor[int](), loop.Type())

	void := f.Label(nil, "end")
	assert.Equal(t, VoidType, void.Type())

	sw := f.Switch(f.Constant(1), f.Constant("other"), f.Case(f.Constant("one"), f.Constant(1)))
	assert.Equal(t, reflect.TypeFor[string](), sw.Type())

	blk := f.Block(nil)
	assert.Equal(t, VoidType, blk.Type())

	c := f.Catch(nil, nil, f.Empty())
	assert.Equal(t, reflect.TypeFor[error](), c.Test)
}

func TestFactoryMembers(t *testing.T) {
	f := NewFactory()
	pt := reflect.TypeFor[point]()
	p := f.Parameter(pt, "p")

	x := f.Field(p, "X")
	assert.Equal(t, reflect.TypeFor[int](), x.Type())
	assert.Equal(t, "ast.point.X", x.Member.String())
	assert.Panics(t, func() { f.Field(p, "Z") })

	scale := MethodOf(pt, "Scale")
	require.Len(t, scale.Params, 1)
	assert.Equal(t, pt, scale.Result)
	call := f.Call(p, scale, f.Constant(2))
	assert.Equal(t, pt, call.Type())
	assert.Equal(t, "ast.point.Scale(int) ast.point", scale.String())

	init := f.MemberInit(f.NewZero(pt), f.Bind(FieldOf(pt, "X"), f.Constant(1)))
	assert.Equal(t, pt, init.Type())
	assert.Equal(t, AssignmentBinding, init.Bindings[0].BindingType())
}

func TestFactoryArrays(t *testing.T) {
	f := NewFactory()
	a := f.NewArrayInit(reflect.TypeFor[int](), f.Constant(1), f.Constant(2))
	assert.Equal(t, NewArrayInit, a.NodeType())
	assert.Equal(t, reflect.TypeFor[[]int](), a.Type())

	b := f.NewArrayBounds(reflect.TypeFor[int](), f.Constant(2), f.Constant(3))
	assert.Equal(t, reflect.TypeFor[[][]int](), b.Type())
}

func TestNodeTypePredicates(t *testing.T) {
	for _, nt := range NodeTypes() {
		assert.NotContains(t, nt.String(), "NodeType(", "missing name for %d", int(nt))
	}
	assert.True(t, Add.IsBinary())
	assert.True(t, AddAssign.IsBinary())
	assert.True(t, AddAssign.IsAssignment())
	assert.True(t, Negate.IsUnary())
	assert.False(t, Constant.IsUnary())
	assert.True(t, TypeEqual.IsTypeBinary())
	assert.True(t, NewArrayBounds.IsNewArray())
	assert.Equal(t, "NodeType(999)", NodeType(999).String())
}

func TestParseKinds(t *testing.T) {
	for _, k := range []GotoKind{GotoJump, GotoReturn, GotoBreak, GotoContinue} {
		got, ok := ParseGotoKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseGotoKind("leap")
	assert.False(t, ok)

	for _, k := range []MemberKind{FieldMember, PropertyMember, MethodMember} {
		got, ok := ParseMemberKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
}
