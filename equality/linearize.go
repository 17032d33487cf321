// Package equality decides whether two expression trees describe the same
// computation.
//
// Trees are compared without reference identity: each side is linearized
// into a pre-order sequence of items and the sequences are compared
// pairwise. Parameters and labels must correspond one to one across the two
// trees, so a lambda that swaps its arguments does not equal one that
// does not.
package equality

import (
	"fmt"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/vocab"
)

// ItemKind says what an Item holds.
type ItemKind int

const (
	NodeItem    ItemKind = iota // an expression node
	NilItem                     // placeholder for an absent optional child
	CaseItem                    // a switch case
	HandlerItem                 // a catch block
	InitItem                    // an element initializer
	BindingItem                 // a member binding
)

var itemKindNames = [...]string{"node", "nil", "switchCase", "catchBlock", "elementInit", "binding"}

func (k ItemKind) String() string {
	if k >= 0 && int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// Item is one step of a linearized tree. Exactly one of the value fields is
// set, matching Kind; NilItem sets none.
type Item struct {
	Path     string
	Kind     ItemKind
	Node     ast.Node
	Case     *ast.SwitchCase
	Handler  *ast.CatchBlock
	Init     *ast.ElementInit
	Binding  ast.Binding
	Children int // number of direct child items
}

// Predicate selects nodes that Linearize leaves out, subtree included.
type Predicate func(ast.Node) bool

// DefaultSkip drops the node kinds that carry no semantics for comparison
// and cannot be serialized.
func DefaultSkip(n ast.Node) bool {
	switch n.NodeType() {
	case ast.DebugInfo, ast.Dynamic, ast.RuntimeVariables:
		return true
	}
	return false
}

type linearizer struct {
	skip  Predicate
	items []Item
}

// Linearize flattens n into pre-order items. Absent optional children become
// NilItem placeholders so both sides of a comparison stay aligned. A nil
// skip keeps every node.
func Linearize(n ast.Node, skip Predicate) []Item {
	l := &linearizer{skip: skip}
	if n == nil {
		l.items = append(l.items, Item{Kind: NilItem})
		return l.items
	}
	l.node(-1, vocab.Kind(n.NodeType()), n)
	return l.items
}

func (l *linearizer) add(parent int, it Item) int {
	if parent >= 0 {
		l.items[parent].Children++
	}
	l.items = append(l.items, it)
	return len(l.items) - 1
}

func (l *linearizer) optional(parent int, path string, n ast.Node) {
	if n == nil {
		l.add(parent, Item{Path: path, Kind: NilItem})
		return
	}
	l.node(parent, path, n)
}

func (l *linearizer) list(parent int, path string, ns []ast.Node) {
	for i, n := range ns {
		l.optional(parent, index(path, i), n)
	}
}

func (l *linearizer) params(parent int, path string, ps []*ast.ParameterExpr) {
	for i, p := range ps {
		l.optional(parent, index(path, i), paramNode(p))
	}
}

// paramNode keeps a nil *ParameterExpr from becoming a non-nil interface.
func paramNode(p *ast.ParameterExpr) ast.Node {
	if p == nil {
		return nil
	}
	return p
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func join(path, role string) string {
	return path + "/" + role
}

func (l *linearizer) node(parent int, path string, n ast.Node) {
	if l.skip != nil && l.skip(n) {
		return
	}
	i := l.add(parent, Item{Path: path, Kind: NodeItem, Node: n})

	switch n := n.(type) {
	case *ast.UnaryExpr:
		l.optional(i, join(path, vocab.RoleOperand), n.Operand)
	case *ast.BinaryExpr:
		l.optional(i, join(path, vocab.RoleLeft), n.Left)
		l.optional(i, join(path, vocab.RoleRight), n.Right)
		var conv ast.Node
		if n.Conversion != nil {
			conv = n.Conversion
		}
		l.optional(i, join(path, vocab.RoleConversion), conv)
	case *ast.TypeBinaryExpr:
		l.optional(i, join(path, vocab.RoleExpression), n.Expression)
	case *ast.ConditionalExpr:
		l.optional(i, join(path, vocab.RoleTest), n.Test)
		l.optional(i, join(path, vocab.RoleIfTrue), n.IfTrue)
		l.optional(i, join(path, vocab.RoleIfFalse), n.IfFalse)
	case *ast.LoopExpr:
		l.optional(i, join(path, vocab.RoleBody), n.Body)
	case *ast.SwitchExpr:
		l.optional(i, join(path, vocab.RoleSwitchValue), n.Value)
		for ci, c := range n.Cases {
			cp := index(join(path, vocab.RoleCases), ci)
			ct := l.add(i, Item{Path: cp, Kind: CaseItem, Case: c})
			l.list(ct, join(cp, vocab.RoleTestValues), c.TestValues)
			l.optional(ct, join(cp, vocab.RoleBody), c.Body)
		}
		l.optional(i, join(path, vocab.RoleDefaultBody), n.Default)
	case *ast.TryExpr:
		l.optional(i, join(path, vocab.RoleBody), n.Body)
		for hi, h := range n.Handlers {
			hp := index(join(path, vocab.RoleHandlers), hi)
			ht := l.add(i, Item{Path: hp, Kind: HandlerItem, Handler: h})
			l.optional(ht, join(hp, vocab.RoleVariable), paramNode(h.Variable))
			l.optional(ht, join(hp, vocab.RoleFilter), h.Filter)
			l.optional(ht, join(hp, vocab.RoleBody), h.Body)
		}
		l.optional(i, join(path, vocab.RoleFinally), n.Finally)
		l.optional(i, join(path, vocab.RoleFault), n.Fault)
	case *ast.GotoExpr:
		l.optional(i, join(path, vocab.RoleValue), n.Value)
	case *ast.LabelExpr:
		l.optional(i, join(path, vocab.RoleDefaultValue), n.DefaultValue)
	case *ast.BlockExpr:
		l.params(i, join(path, vocab.RoleVariables), n.Variables)
		l.list(i, join(path, vocab.RoleExpressions), n.Expressions)
	case *ast.CallExpr:
		l.optional(i, join(path, vocab.RoleObject), n.Object)
		l.list(i, join(path, vocab.RoleArguments), n.Arguments)
	case *ast.InvokeExpr:
		l.optional(i, join(path, vocab.RoleExpression), n.Expression)
		l.list(i, join(path, vocab.RoleArguments), n.Arguments)
	case *ast.NewExpr:
		l.list(i, join(path, vocab.RoleArguments), n.Arguments)
	case *ast.NewArrayExpr:
		l.list(i, join(path, vocab.RoleExpressions), n.Expressions)
	case *ast.ListInitExpr:
		l.newExpr(i, join(path, vocab.RoleNewExpression), n.New)
		l.inits(i, join(path, vocab.RoleInitializers), n.Initializers)
	case *ast.MemberInitExpr:
		l.newExpr(i, join(path, vocab.RoleNewExpression), n.New)
		l.bindings(i, join(path, vocab.RoleBindings), n.Bindings)
	case *ast.MemberAccessExpr:
		l.optional(i, join(path, vocab.RoleExpression), n.Expression)
	case *ast.IndexExpr:
		l.optional(i, join(path, vocab.RoleObject), n.Object)
		l.list(i, join(path, vocab.RoleArguments), n.Arguments)
	case *ast.LambdaExpr:
		l.params(i, join(path, vocab.RoleParameters), n.Parameters)
		l.optional(i, join(path, vocab.RoleBody), n.Body)
	case *ast.DynamicExpr:
		l.list(i, join(path, vocab.RoleArguments), n.Arguments)
	case *ast.RuntimeVariablesExpr:
		l.params(i, join(path, vocab.RoleVariables), n.Variables)
	}
}

func (l *linearizer) newExpr(parent int, path string, n *ast.NewExpr) {
	if n == nil {
		l.optional(parent, path, nil)
		return
	}
	l.node(parent, path, n)
}

func (l *linearizer) inits(parent int, path string, inits []*ast.ElementInit) {
	for ei, e := range inits {
		ep := index(path, ei)
		et := l.add(parent, Item{Path: ep, Kind: InitItem, Init: e})
		l.list(et, join(ep, vocab.RoleArguments), e.Arguments)
	}
}

func (l *linearizer) bindings(parent int, path string, bs []ast.Binding) {
	for bi, b := range bs {
		bp := index(path, bi)
		bt := l.add(parent, Item{Path: bp, Kind: BindingItem, Binding: b})
		switch b := b.(type) {
		case *ast.MemberAssignment:
			l.optional(bt, join(bp, vocab.RoleExpression), b.Expression)
		case *ast.MemberMemberBinding:
			l.bindings(bt, join(bp, vocab.RoleBindings), b.Bindings)
		case *ast.MemberListBinding:
			l.inits(bt, join(bp, vocab.RoleInitializers), b.Initializers)
		}
	}
}
