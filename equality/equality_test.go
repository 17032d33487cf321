package equality

import (
	"math"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/exprdoc/ast"
)

var (
	f       = ast.NewFactory()
	intType = reflect.TypeFor[int]()
)

func addTree() ast.Node {
	return f.Add(f.Constant(2), f.Constant(3))
}

type point struct {
	X, Y int
	tag  string
}

// build returns a fresh tree exercising most node kinds, so two calls give
// structurally equal trees with no shared pointers.
func build() ast.Node {
	x := f.Parameter(intType, "x")
	acc := f.Variable(intType, "acc")
	done := f.Label(intType, "done")
	errVar := f.Variable(reflect.TypeFor[error](), "err")
	pt := reflect.TypeFor[point]()
	list := reflect.TypeFor[[]int]()
	body := f.Block([]*ast.ParameterExpr{acc},
		f.Assign(acc, f.Constant(0)),
		f.Loop(
			f.Condition(
				f.LessThan(acc, x),
				f.Assign(acc, f.Add(acc, f.Constant(1))),
				f.Break(done, acc),
			),
			done, nil,
		),
		f.TryCatch(
			f.Switch(acc, f.Constant(-1),
				f.Case(f.Constant(10), f.Constant(1), f.Constant(2)),
			),
			f.Catch(nil, errVar, f.Constant(0)),
		),
		f.MemberInit(f.NewZero(pt), f.Bind(ast.FieldOf(pt, "X"), x)),
		f.ListInit(f.NewZero(list)),
		f.TypedConstant(nil, reflect.TypeFor[string]()),
		f.Constant(point{X: 1, Y: 2, tag: "a"}),
		f.Constant(map[string][]float64{"a": {math.NaN()}}),
	)
	return f.Lambda(body, x)
}

func TestDeepEqualsReflexive(t *testing.T) {
	for _, n := range []ast.Node{addTree(), build(), f.Rethrow(), f.Empty()} {
		assert.True(t, DeepEquals(n, n), ast.Print(n))
	}
}

func TestDeepEqualsReflexiveOnFloatKeys(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"NaN key", map[float64]int{math.NaN(): 1}},
		{"NaN keys", map[float64]int{math.NaN(): 1, math.NaN(): 1}},
		{"signed zero key", map[float64]int{math.Copysign(0, -1): 1}},
		{"nested", map[string]map[float64]string{"a": {math.NaN(): "x"}}},
		{"boxed", []any{map[float32]bool{float32(math.NaN()): true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := f.Constant(tt.value)
			assert.True(t, DeepEquals(n, n))
			assert.True(t, ValuesEqual(tt.value, tt.value))
		})
	}
}

func TestTypedNilConstants(t *testing.T) {
	intPtr := reflect.TypeFor[*int]()
	anyType := reflect.TypeFor[any]()

	tests := []struct {
		name string
		a, b ast.Node
		want bool
	}{
		{"declared and typed pointer", f.TypedConstant(nil, intPtr), f.Constant((*int)(nil)), true},
		{"declared and typed slice", f.TypedConstant(nil, reflect.TypeFor[[]int]()), f.Constant([]int(nil)), true},
		{"nil and empty slice", f.TypedConstant(nil, reflect.TypeFor[[]int]()), f.Constant([]int{}), false},
		{"boxed typed nil", f.TypedConstant((*int)(nil), anyType), f.TypedConstant((*int)(nil), anyType), true},
		{"boxed typed and untyped nil", f.TypedConstant((*int)(nil), anyType), f.TypedConstant(nil, anyType), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeepEquals(tt.a, tt.b))
			assert.Equal(t, tt.want, DeepEquals(tt.b, tt.a))
		})
	}
}

func TestDifferenceShowsValueTypes(t *testing.T) {
	anyType := reflect.TypeFor[any]()

	res := Compare(f.TypedConstant(1, anyType), f.TypedConstant(int64(1), anyType))
	require.False(t, res.Equal)
	assert.Equal(t, "value", res.Difference.Field)
	assert.Equal(t, "constant: value differs: 1 (int) != 1 (int64)", res.Difference.String())

	res = Compare(f.TypedConstant((*int)(nil), anyType), f.TypedConstant(nil, anyType))
	require.False(t, res.Equal)
	assert.Contains(t, res.Difference.String(), "(*int)")
	assert.Contains(t, res.Difference.String(), "(<nil>)")
}

func TestDeepEqualsUnrelatedGraphs(t *testing.T) {
	a, b := build(), build()
	res := Compare(a, b)
	assert.True(t, res.Equal, "%v", res.Difference)
	assert.Nil(t, res.Difference)
	assert.Equal(t, len(Linearize(a, DefaultSkip)), res.Compared)
}

func TestAddVersusSubtract(t *testing.T) {
	a := addTree()
	b := f.Subtract(f.Constant(2), f.Constant(3))

	res := Compare(a, b)
	require.False(t, res.Equal)
	require.NotNil(t, res.Difference)
	assert.Equal(t, "add", res.Difference.Path)
	assert.Equal(t, "nodeType", res.Difference.Field)
	assert.Equal(t, "add", res.Difference.Left)
	assert.Equal(t, "subtract", res.Difference.Right)
	assert.Equal(t, 1, res.Compared)
	assert.Contains(t, res.Difference.String(), "nodeType")
}

func TestSymmetry(t *testing.T) {
	pairs := [][2]ast.Node{
		{addTree(), addTree()},
		{addTree(), f.Subtract(f.Constant(2), f.Constant(3))},
		{f.Constant(1), f.Constant(int64(1))},
		{f.Negate(f.Constant(1)), f.Not(f.Constant(true))},
		{build(), build()},
		{build(), addTree()},
	}
	for _, p := range pairs {
		assert.Equal(t, DeepEquals(p[0], p[1]), DeepEquals(p[1], p[0]))
	}
}

func TestDifferences(t *testing.T) {
	x := f.Parameter(intType, "x")
	y := f.Parameter(intType, "y")
	x2 := f.Parameter(intType, "x")
	y2 := f.Parameter(intType, "y")

	tests := []struct {
		name  string
		a, b  ast.Node
		path  string
		field string
	}{
		{"value", f.Constant(1), f.Constant(2), "constant", "value"},
		{"type gate", f.Constant(1), f.Constant(int32(1)), "constant", "type"},
		{"child", addTree(), f.Add(f.Constant(2), f.Constant(4)), "add/right", "value"},
		{"parameter name", f.Lambda(x, x), f.Lambda(y, y), "lambda/parameters[0]", "name"},
		{
			"parameter correspondence",
			f.Lambda(f.Subtract(x, y), x, y),
			f.Lambda(f.Subtract(y2, x2), x2, y2),
			"lambda/body/left", "name",
		},
		{"optional child", f.Rethrow(), f.Throw(f.Constant(1)), "throw/operand", "kind"},
		{"lambda name", f.NamedLambda("a", f.Constant(1), false), f.NamedLambda("b", f.Constant(1), false), "lambda", "name"},
		{
			"list length",
			f.Block(nil, f.Constant(1)),
			f.Block(nil, f.Constant(1), f.Constant(1)),
			"block", "children",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compare(tt.a, tt.b)
			require.False(t, res.Equal)
			assert.Equal(t, tt.path, res.Difference.Path)
			assert.Equal(t, tt.field, res.Difference.Field)
		})
	}
}

func TestParameterIdentity(t *testing.T) {
	x := f.Parameter(intType, "x")
	x2 := f.Parameter(intType, "x")
	a := f.Lambda(f.Add(x, x), x)

	b := f.Lambda(f.Add(x2, x2), x2)
	assert.True(t, DeepEquals(a, b))

	// Same names, but the body refers to a different variable.
	x3 := f.Parameter(intType, "x")
	c := f.Lambda(f.Add(x2, x3), x2)
	assert.False(t, DeepEquals(a, c))
}

func TestLabelIdentity(t *testing.T) {
	mk := func(shared bool) ast.Node {
		l1 := f.Label(nil, "l")
		l2 := l1
		if !shared {
			l2 = f.Label(nil, "l")
		}
		return f.Block(nil, f.Goto(l1), f.LabelAt(l2, nil))
	}
	assert.True(t, DeepEquals(mk(true), mk(true)))
	assert.True(t, DeepEquals(mk(false), mk(false)))
	assert.False(t, DeepEquals(mk(true), mk(false)))
}

func TestSkipPredicate(t *testing.T) {
	a := f.Block(nil, f.DebugInfo("a.go", 1, 1, 1, 5), f.Constant(1))
	b := f.Block(nil, f.Constant(1))

	assert.True(t, DeepEquals(a, b))
	assert.False(t, CompareWith(a, b, nil).Equal)

	items := Linearize(a, DefaultSkip)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Children)
}

func TestLinearize(t *testing.T) {
	items := Linearize(f.Add(f.Constant(2), f.Constant(3)), nil)
	var paths []string
	var kinds []ItemKind
	for _, it := range items {
		paths = append(paths, it.Path)
		kinds = append(kinds, it.Kind)
	}
	assert.Equal(t, []string{"add", "add/left", "add/right", "add/conversion"}, paths)
	assert.Equal(t, []ItemKind{NodeItem, NodeItem, NodeItem, NilItem}, kinds)
	assert.Equal(t, 3, items[0].Children)

	nilItems := Linearize(nil, nil)
	require.Len(t, nilItems, 1)
	assert.Equal(t, NilItem, nilItems[0].Kind)

	ok, d := CompareSequences(items, items[:2])
	assert.False(t, ok)
	assert.Equal(t, "length", d.Field)
}

func TestSubConstructs(t *testing.T) {
	sw := func(n int) ast.Node {
		return f.Switch(f.Constant(1), nil, f.Case(f.Constant("a"), f.Constant(n)))
	}
	assert.True(t, DeepEquals(sw(1), sw(1)))
	res := Compare(sw(1), sw(2))
	require.False(t, res.Equal)
	assert.Equal(t, "switch/cases[0]/testValues[0]", res.Difference.Path)

	pt := reflect.TypeFor[point]()
	bindX := f.MemberInit(f.NewZero(pt), f.Bind(ast.FieldOf(pt, "X"), f.Constant(1)))
	bindY := f.MemberInit(f.NewZero(pt), f.Bind(ast.FieldOf(pt, "Y"), f.Constant(1)))
	res = Compare(bindX, bindY)
	require.False(t, res.Equal)
	assert.Equal(t, "memberInit/bindings[0]", res.Difference.Path)
	assert.Equal(t, "member", res.Difference.Field)
}

func TestValuesEqual(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil and value", nil, 1, false},
		{"int", 1, 1, true},
		{"dynamic type gate", 1, int64(1), false},
		{"NaN", math.NaN(), math.NaN(), true},
		{"float32 NaN", float32(math.NaN()), float32(math.NaN()), true},
		{"signed zero", 0.0, math.Copysign(0, -1), false},
		{"inf", math.Inf(1), math.Inf(1), true},
		{"complex", complex(1, math.NaN()), complex(1, math.NaN()), true},
		{"time instant", now, now.In(time.UTC), true},
		{"time differs", now, now.Add(time.Nanosecond), false},
		{"decimal", big.NewRat(1, 2), big.NewRat(2, 4), true},
		{"decimal differs", big.NewRat(1, 2), big.NewRat(1, 3), false},
		{"slice", []int{1, 2}, []int{1, 2}, true},
		{"slice nil vs empty", []int(nil), []int{}, false},
		{"array", [2]string{"a", "b"}, [2]string{"a", "c"}, false},
		{"map", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"map differs", map[string]int{"a": 1}, map[string]int{"b": 1}, false},
		{"struct private", point{X: 1, tag: "a"}, point{X: 1, tag: "a"}, true},
		{"struct private differs", point{X: 1, tag: "a"}, point{X: 1, tag: "b"}, false},
		{"pointer", ptr(3), ptr(3), true},
		{"interface slice", []any{1, "a", nil}, []any{1, "a", nil}, true},
		{"interface slice differs", []any{1, "a"}, []any{1, "b"}, false},
		{"bytes", []byte("ab"), []byte("ab"), true},
		{"map NaN key", map[float64]int{math.NaN(): 1}, map[float64]int{math.NaN(): 1}, true},
		{"map NaN keys", map[float64]int{math.NaN(): 1, math.NaN(): 2}, map[float64]int{math.NaN(): 2, math.NaN(): 1}, true},
		{"map NaN keys differ", map[float64]int{math.NaN(): 1, math.NaN(): 2}, map[float64]int{math.NaN(): 1, math.NaN(): 1}, false},
		{"map signed zero key", map[float64]int{math.Copysign(0, -1): 1}, map[float64]int{0: 1}, false},
		{"map nil vs empty", map[string]int(nil), map[string]int{}, false},
		{"typed nils", (*int)(nil), (*int)(nil), true},
		{"typed nil vs nil", (*int)(nil), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValuesEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, ValuesEqual(tt.b, tt.a))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestItemKindString(t *testing.T) {
	assert.Equal(t, "switchCase", CaseItem.String())
	assert.Equal(t, "ItemKind(42)", ItemKind(42).String())
}
