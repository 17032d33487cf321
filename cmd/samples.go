package cmd

import (
	"math"
	"math/big"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/rubiojr/exprdoc/ast"
)

var (
	intType    = reflect.TypeFor[int]()
	stringType = reflect.TypeFor[string]()
	timeType   = reflect.TypeFor[time.Time]()
	errorType  = reflect.TypeFor[error]()
)

// samples are the trees printed by "exprdoc sample". They only use types
// every registry knows, so their documents decode anywhere.
var samples = map[string]func(f *ast.Factory) ast.Node{
	"add": func(f *ast.Factory) ast.Node {
		return f.Add(f.Constant(2), f.Constant(3))
	},
	"lambda": func(f *ast.Factory) ast.Node {
		x := f.Parameter(intType, "x")
		y := f.Parameter(intType, "y")
		return f.Lambda(f.Add(f.Multiply(x, y), f.Constant(1)), x, y)
	},
	"loop": func(f *ast.Factory) ast.Node {
		n := f.Parameter(intType, "n")
		sum := f.Variable(intType, "sum")
		i := f.Variable(intType, "i")
		done := f.Label(intType, "done")
		return f.Lambda(f.Block([]*ast.ParameterExpr{sum, i},
			f.Assign(sum, f.Constant(0)),
			f.Assign(i, f.Constant(0)),
			f.Loop(
				f.Condition(
					f.LessThan(i, n),
					f.Block(nil,
						f.Assign(sum, f.Add(sum, i)),
						f.Assign(i, f.Add(i, f.Constant(1))),
					),
					f.Break(done, sum),
				),
				done, nil,
			),
		), n)
	},
	"switch": func(f *ast.Factory) ast.Node {
		s := f.Parameter(stringType, "s")
		return f.Lambda(f.Switch(s, f.Constant(0),
			f.Case(f.Constant(1), f.Constant("one"), f.Constant("uno")),
			f.Case(f.Constant(2), f.Constant("two")),
		), s)
	},
	"try": func(f *ast.Factory) ast.Node {
		err := f.Variable(errorType, "err")
		return f.TryCatchFinally(
			f.Block(nil, f.Throw(f.Constant("boom")), f.Constant(1)),
			f.Empty(),
			f.Catch(errorType, err, f.Constant(-1)),
		)
	},
	"constants": func(f *ast.Factory) ast.Node {
		return f.Block(nil,
			f.Constant("text"),
			f.TypedConstant(nil, reflect.TypeFor[*string]()),
			f.Constant(math.Inf(-1)),
			f.Constant(0.1),
			f.Constant(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)),
			f.Constant(90*time.Second),
			f.Constant(big.NewRat(1, 3)),
			f.Constant(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),
			f.Constant([]byte("bytes")),
			f.Constant([]int{1, 2, 3}),
			f.Constant(map[string]int{"b": 2, "a": 1}),
			f.TypedConstant(42, reflect.TypeFor[any]()),
		)
	},
	"call": func(f *ast.Factory) ast.Node {
		t := f.Parameter(timeType, "t")
		add := ast.MethodOf(timeType, "Add")
		return f.Lambda(f.Call(t, add, f.Constant(time.Hour)), t)
	},
	"array": func(f *ast.Factory) ast.Node {
		xs := f.NewArrayInit(intType, f.Constant(1), f.Constant(2), f.Constant(3))
		return f.Index(xs, nil, f.Constant(1))
	},
}

func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for k := range samples {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
