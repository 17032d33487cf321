package ast

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecks(t *testing.T) {
	f := NewFactory()
	intType := reflect.TypeFor[int]()
	x := f.Parameter(intType, "x")
	v := f.Variable(intType, "v")
	errVar := f.Variable(reflect.TypeFor[error](), "err")
	done := f.Label(intType, "done")
	lost := f.Label(nil, "lost")

	tests := []struct {
		name  string
		check Check
		tree  Node
		err   error
	}{
		{"bound lambda", BoundParameters{}, f.Lambda(f.Add(x, x), x), nil},
		{"free parameter", BoundParameters{}, f.Add(x, f.Constant(1)), ErrUnboundParameter},
		{"block variable", BoundParameters{}, f.Block([]*ParameterExpr{v}, f.Assign(v, f.Constant(1))), nil},
		{"variable escapes block", BoundParameters{}, f.Block(nil, f.Block([]*ParameterExpr{v}, v), v), ErrUnboundParameter},
		{"catch variable", BoundParameters{}, f.TryCatch(f.Constant(1), f.Catch(nil, errVar, f.Block(nil, errVar, f.Constant(2)))), nil},
		{"catch variable in finally", BoundParameters{}, f.TryCatchFinally(f.Constant(1), errVar, f.Catch(nil, errVar, f.Constant(2))), ErrUnboundParameter},
		{"loop label", DefinedLabels{}, f.Loop(f.Break(done, f.Constant(1)), done, nil), nil},
		{"label expression", DefinedLabels{}, f.Block(nil, f.Goto(lost), f.LabelAt(lost, nil)), nil},
		{"undefined label", DefinedLabels{}, f.Block(nil, f.Goto(lost)), ErrUndefinedLabel},
		{"serializable", Serializable{}, f.Add(f.Constant(1), f.Constant(2)), nil},
		{"debug info", Serializable{}, f.Block(nil, f.DebugInfo("a", 1, 1, 1, 2), f.Constant(1)), ErrNotSerializable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check.Check(tt.tree)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCheckChain(t *testing.T) {
	f := NewFactory()
	x := f.Parameter(reflect.TypeFor[int](), "x")
	chain := CheckChain{Serializable{}, BoundParameters{}, DefinedLabels{}}

	require.NoError(t, chain.Run(f.Lambda(x, x)))

	err := chain.Run(f.Negate(x))
	require.ErrorIs(t, err, ErrUnboundParameter)
	assert.Contains(t, err.Error(), "bound-parameters: ")
	assert.Contains(t, err.Error(), ": x")
}
