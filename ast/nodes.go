// Package ast defines executable expression trees.
//
// The node set is closed: every kind listed in NodeType is represented by
// one of the concrete node structs below, and every consumer dispatches on
// them with a single type switch.
package ast

import (
	"reflect"

	"github.com/rubiojr/exprdoc/typereg"
)

// Node is the interface for all expression nodes.
type Node interface {
	NodeType() NodeType
	// Type is the result type of the node. Nodes that yield nothing
	// report typereg.VoidType.
	Type() reflect.Type
	node()
}

// VoidType is the result type of statement-like nodes.
var VoidType = typereg.VoidType

// ConstantExpr is a typed literal value. Value may be nil for nullable types.
type ConstantExpr struct {
	Value      any
	ResultType reflect.Type
}

func (c *ConstantExpr) NodeType() NodeType { return Constant }
func (c *ConstantExpr) Type() reflect.Type { return c.ResultType }
func (c *ConstantExpr) node()              {}

// ParameterExpr is a lambda parameter or a block/catch variable. Identity
// matters: references to the same variable share one *ParameterExpr.
type ParameterExpr struct {
	Name       string
	ResultType reflect.Type
	ByRef      bool
}

func (p *ParameterExpr) NodeType() NodeType { return Parameter }
func (p *ParameterExpr) Type() reflect.Type { return p.ResultType }
func (p *ParameterExpr) node()              {}

// UnaryExpr applies a one-operand operator. Operand is nil only for a rethrow.
type UnaryExpr struct {
	Op           NodeType
	Operand      Node
	ResultType   reflect.Type
	Lifted       bool
	LiftedToNull bool
	Method       *Method // user-defined operator, optional
}

func (u *UnaryExpr) NodeType() NodeType { return u.Op }
func (u *UnaryExpr) Type() reflect.Type { return u.ResultType }
func (u *UnaryExpr) node()              {}

// BinaryExpr applies a two-operand operator.
type BinaryExpr struct {
	Op           NodeType
	Left         Node
	Right        Node
	ResultType   reflect.Type
	Lifted       bool
	LiftedToNull bool
	Method       *Method     // user-defined operator, optional
	Conversion   *LambdaExpr // coalesce and compound assignment conversion, optional
}

func (b *BinaryExpr) NodeType() NodeType { return b.Op }
func (b *BinaryExpr) Type() reflect.Type { return b.ResultType }
func (b *BinaryExpr) node()              {}

// TypeBinaryExpr tests Expression against TypeOperand (TypeIs, TypeEqual).
type TypeBinaryExpr struct {
	Op          NodeType
	Expression  Node
	TypeOperand reflect.Type
	ResultType  reflect.Type
}

func (t *TypeBinaryExpr) NodeType() NodeType { return t.Op }
func (t *TypeBinaryExpr) Type() reflect.Type { return t.ResultType }
func (t *TypeBinaryExpr) node()              {}

// ConditionalExpr is test ? ifTrue : ifFalse.
type ConditionalExpr struct {
	Test       Node
	IfTrue     Node
	IfFalse    Node
	ResultType reflect.Type
}

func (c *ConditionalExpr) NodeType() NodeType { return Conditional }
func (c *ConditionalExpr) Type() reflect.Type { return c.ResultType }
func (c *ConditionalExpr) node()              {}

// LabelTarget names a jump destination. Identity matters, as for ParameterExpr.
type LabelTarget struct {
	Name       string
	ResultType reflect.Type
}

func (l *LabelTarget) Type() reflect.Type { return l.ResultType }

// LoopExpr repeats Body until a jump to Break.
type LoopExpr struct {
	Body       Node
	Break      *LabelTarget // optional
	Continue   *LabelTarget // optional
	ResultType reflect.Type
}

func (l *LoopExpr) NodeType() NodeType { return Loop }
func (l *LoopExpr) Type() reflect.Type { return l.ResultType }
func (l *LoopExpr) node()              {}

// SwitchCase is one case of a switch.
type SwitchCase struct {
	TestValues []Node
	Body       Node
}

// SwitchExpr selects a case by comparing Value with each case's test values.
type SwitchExpr struct {
	Value      Node
	Cases      []*SwitchCase
	Default    Node    // optional
	Comparison *Method // optional
	ResultType reflect.Type
}

func (s *SwitchExpr) NodeType() NodeType { return Switch }
func (s *SwitchExpr) Type() reflect.Type { return s.ResultType }
func (s *SwitchExpr) node()              {}

// CatchBlock handles errors assignable to Test.
type CatchBlock struct {
	Test     reflect.Type
	Variable *ParameterExpr // optional
	Filter   Node           // optional
	Body     Node
}

// TryExpr is a guarded body with handlers, finally and fault blocks.
type TryExpr struct {
	Body       Node
	Handlers   []*CatchBlock
	Finally    Node // optional
	Fault      Node // optional
	ResultType reflect.Type
}

func (t *TryExpr) NodeType() NodeType { return Try }
func (t *TryExpr) Type() reflect.Type { return t.ResultType }
func (t *TryExpr) node()              {}

// GotoKind says what a jump means.
type GotoKind int

const (
	GotoJump GotoKind = iota
	GotoReturn
	GotoBreak
	GotoContinue
)

var gotoKindNames = [...]string{"goto", "return", "break", "continue"}

func (k GotoKind) String() string {
	if k >= 0 && int(k) < len(gotoKindNames) {
		return gotoKindNames[k]
	}
	return "unknown"
}

// ParseGotoKind is the inverse of GotoKind.String.
func ParseGotoKind(s string) (GotoKind, bool) {
	for i, n := range gotoKindNames {
		if n == s {
			return GotoKind(i), true
		}
	}
	return 0, false
}

// GotoExpr jumps to Target, optionally carrying Value.
type GotoExpr struct {
	Kind       GotoKind
	Target     *LabelTarget
	Value      Node // optional
	ResultType reflect.Type
}

func (g *GotoExpr) NodeType() NodeType { return Goto }
func (g *GotoExpr) Type() reflect.Type { return g.ResultType }
func (g *GotoExpr) node()              {}

// LabelExpr marks the position of Target inside a block.
type LabelExpr struct {
	Target       *LabelTarget
	DefaultValue Node // optional
	ResultType   reflect.Type
}

func (l *LabelExpr) NodeType() NodeType { return Label }
func (l *LabelExpr) Type() reflect.Type { return l.ResultType }
func (l *LabelExpr) node()              {}

// BlockExpr declares Variables and evaluates Expressions in order.
type BlockExpr struct {
	Variables   []*ParameterExpr
	Expressions []Node
	ResultType  reflect.Type
}

func (b *BlockExpr) NodeType() NodeType { return Block }
func (b *BlockExpr) Type() reflect.Type { return b.ResultType }
func (b *BlockExpr) node()              {}

// CallExpr calls Method on Object (nil for package-level functions).
type CallExpr struct {
	Object     Node // optional
	Method     *Method
	Arguments  []Node
	ResultType reflect.Type
}

func (c *CallExpr) NodeType() NodeType { return Call }
func (c *CallExpr) Type() reflect.Type { return c.ResultType }
func (c *CallExpr) node()              {}

// InvokeExpr calls a function-valued expression.
type InvokeExpr struct {
	Expression Node
	Arguments  []Node
	ResultType reflect.Type
}

func (i *InvokeExpr) NodeType() NodeType { return Invoke }
func (i *InvokeExpr) Type() reflect.Type { return i.ResultType }
func (i *InvokeExpr) node()              {}

// NewExpr constructs a value. Members is set when constructing an
// anonymous type; it lines up with Arguments.
type NewExpr struct {
	Constructor *Method // optional; nil means the zero value
	Arguments   []Node
	Members     []*Member
	ResultType  reflect.Type
}

func (n *NewExpr) NodeType() NodeType { return New }
func (n *NewExpr) Type() reflect.Type { return n.ResultType }
func (n *NewExpr) node()              {}

// NewArrayExpr creates an array from element initializers (NewArrayInit) or
// from bounds (NewArrayBounds).
type NewArrayExpr struct {
	Op          NodeType
	Expressions []Node
	ResultType  reflect.Type
}

func (n *NewArrayExpr) NodeType() NodeType { return n.Op }
func (n *NewArrayExpr) Type() reflect.Type { return n.ResultType }
func (n *NewArrayExpr) node()              {}

// ElementInit adds Arguments to a collection through AddMethod.
type ElementInit struct {
	AddMethod *Method
	Arguments []Node
}

// ListInitExpr constructs a collection and fills it.
type ListInitExpr struct {
	New          *NewExpr
	Initializers []*ElementInit
	ResultType   reflect.Type
}

func (l *ListInitExpr) NodeType() NodeType { return ListInit }
func (l *ListInitExpr) Type() reflect.Type { return l.ResultType }
func (l *ListInitExpr) node()              {}

// MemberInitExpr constructs a value and binds its members.
type MemberInitExpr struct {
	New        *NewExpr
	Bindings   []Binding
	ResultType reflect.Type
}

func (m *MemberInitExpr) NodeType() NodeType { return MemberInit }
func (m *MemberInitExpr) Type() reflect.Type { return m.ResultType }
func (m *MemberInitExpr) node()              {}

// MemberAccessExpr reads a field or property. Expression is nil for
// package-level variables.
type MemberAccessExpr struct {
	Expression Node // optional
	Member     *Member
	ResultType reflect.Type
}

func (m *MemberAccessExpr) NodeType() NodeType { return MemberAccess }
func (m *MemberAccessExpr) Type() reflect.Type { return m.ResultType }
func (m *MemberAccessExpr) node()              {}

// IndexExpr indexes Object, through Indexer when it is set.
type IndexExpr struct {
	Object     Node    // optional
	Indexer    *Member // optional; nil indexes an array or slice
	Arguments  []Node
	ResultType reflect.Type
}

func (i *IndexExpr) NodeType() NodeType { return Index }
func (i *IndexExpr) Type() reflect.Type { return i.ResultType }
func (i *IndexExpr) node()              {}

// LambdaExpr is a closure. ResultType is the function type.
type LambdaExpr struct {
	Name       string
	Parameters []*ParameterExpr
	Body       Node
	ReturnType reflect.Type
	TailCall   bool
	ResultType reflect.Type
}

func (l *LambdaExpr) NodeType() NodeType { return Lambda }
func (l *LambdaExpr) Type() reflect.Type { return l.ResultType }
func (l *LambdaExpr) node()              {}

// DefaultExpr is the zero value of ResultType.
type DefaultExpr struct {
	ResultType reflect.Type
}

func (d *DefaultExpr) NodeType() NodeType { return Default }
func (d *DefaultExpr) Type() reflect.Type { return d.ResultType }
func (d *DefaultExpr) node()              {}

// DebugInfoExpr is a sequence point. It carries no semantics.
type DebugInfoExpr struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	Clear       bool
}

func (d *DebugInfoExpr) NodeType() NodeType { return DebugInfo }
func (d *DebugInfoExpr) Type() reflect.Type { return VoidType }
func (d *DebugInfoExpr) node()              {}

// DynamicExpr is a late-bound operation resolved by Binder at run time.
type DynamicExpr struct {
	Binder     string
	Arguments  []Node
	ResultType reflect.Type
}

func (d *DynamicExpr) NodeType() NodeType { return Dynamic }
func (d *DynamicExpr) Type() reflect.Type { return d.ResultType }
func (d *DynamicExpr) node()              {}

// RuntimeVariablesExpr captures variables for run-time inspection.
type RuntimeVariablesExpr struct {
	Variables  []*ParameterExpr
	ResultType reflect.Type
}

func (r *RuntimeVariablesExpr) NodeType() NodeType { return RuntimeVariables }
func (r *RuntimeVariablesExpr) Type() reflect.Type { return r.ResultType }
func (r *RuntimeVariablesExpr) node()              {}
