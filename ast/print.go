package ast

import (
	"fmt"
	"reflect"
	"strings"
)

// Print renders n on a single line. The output is meant for people; it is
// not parsed back.
func Print(n Node) string {
	p := &printer{}
	p.node(n)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) raw(s string) {
	p.sb.WriteString(s)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(&p.sb, format, args...)
}

func (p *printer) list(ns []Node) {
	for i, n := range ns {
		if i > 0 {
			p.raw(", ")
		}
		p.node(n)
	}
}

var binarySymbols = map[NodeType]string{
	Add: "+", AddChecked: "+", Subtract: "-", SubtractChecked: "-",
	Multiply: "*", MultiplyChecked: "*", Divide: "/", Modulo: "%", Power: "**",
	And: "&", Or: "|", ExclusiveOr: "^", AndAlso: "&&", OrElse: "||",
	LeftShift: "<<", RightShift: ">>", Coalesce: "??",
	Equal: "==", NotEqual: "!=", LessThan: "<", LessThanOrEqual: "<=",
	GreaterThan: ">", GreaterThanOrEqual: ">=",
	Assign: "=", AddAssign: "+=", AndAssign: "&=", DivideAssign: "/=",
	ExclusiveOrAssign: "^=", LeftShiftAssign: "<<=", ModuloAssign: "%=",
	MultiplyAssign: "*=", OrAssign: "|=", PowerAssign: "**=",
	RightShiftAssign: ">>=", SubtractAssign: "-=", AddAssignChecked: "+=",
	MultiplyAssignChecked: "*=", SubtractAssignChecked: "-=",
}

var prefixSymbols = map[NodeType]string{
	Negate: "-", NegateChecked: "-", UnaryPlus: "+", Not: "!", OnesComplement: "^",
	PreIncrementAssign: "++", PreDecrementAssign: "--",
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.raw("<nil>")
	case *ConstantExpr:
		p.constant(n)
	case *ParameterExpr:
		p.raw(n.Name)
	case *UnaryExpr:
		p.unary(n)
	case *BinaryExpr:
		if n.Op == ArrayIndex {
			p.node(n.Left)
			p.raw("[")
			p.node(n.Right)
			p.raw("]")
			return
		}
		p.raw("(")
		p.node(n.Left)
		p.printf(" %s ", binarySymbols[n.Op])
		p.node(n.Right)
		p.raw(")")
	case *TypeBinaryExpr:
		kw := "is"
		if n.Op == TypeEqual {
			kw = "is exactly"
		}
		p.raw("(")
		p.node(n.Expression)
		p.printf(" %s %s)", kw, typeString(n.TypeOperand))
	case *ConditionalExpr:
		p.raw("(")
		p.node(n.Test)
		p.raw(" ? ")
		p.node(n.IfTrue)
		p.raw(" : ")
		p.node(n.IfFalse)
		p.raw(")")
	case *LoopExpr:
		p.raw("loop { ")
		p.node(n.Body)
		p.raw(" }")
		if n.Break != nil {
			p.printf(" %s:", n.Break.Name)
		}
	case *SwitchExpr:
		p.raw("switch (")
		p.node(n.Value)
		p.raw(") {")
		for _, c := range n.Cases {
			p.raw(" case ")
			p.list(c.TestValues)
			p.raw(": ")
			p.node(c.Body)
			p.raw(";")
		}
		if n.Default != nil {
			p.raw(" default: ")
			p.node(n.Default)
			p.raw(";")
		}
		p.raw(" }")
	case *TryExpr:
		p.raw("try { ")
		p.node(n.Body)
		p.raw(" }")
		for _, h := range n.Handlers {
			p.printf(" catch (%s", typeString(h.Test))
			if h.Variable != nil {
				p.printf(" %s", h.Variable.Name)
			}
			p.raw(")")
			if h.Filter != nil {
				p.raw(" when (")
				p.node(h.Filter)
				p.raw(")")
			}
			p.raw(" { ")
			p.node(h.Body)
			p.raw(" }")
		}
		if n.Finally != nil {
			p.raw(" finally { ")
			p.node(n.Finally)
			p.raw(" }")
		}
		if n.Fault != nil {
			p.raw(" fault { ")
			p.node(n.Fault)
			p.raw(" }")
		}
	case *GotoExpr:
		p.printf("%s %s", n.Kind, n.Target.Name)
		if n.Value != nil {
			p.raw(" ")
			p.node(n.Value)
		}
	case *LabelExpr:
		p.printf("%s:", n.Target.Name)
		if n.DefaultValue != nil {
			p.raw(" ")
			p.node(n.DefaultValue)
		}
	case *BlockExpr:
		p.raw("{")
		for _, v := range n.Variables {
			p.printf(" var %s %s;", v.Name, typeString(v.Type()))
		}
		for _, e := range n.Expressions {
			p.raw(" ")
			p.node(e)
			p.raw(";")
		}
		p.raw(" }")
	case *CallExpr:
		if n.Object != nil {
			p.node(n.Object)
			p.raw(".")
		} else if n.Method.Declaring != nil {
			p.printf("%s.", typeString(n.Method.Declaring))
		}
		p.printf("%s(", n.Method.Name)
		p.list(n.Arguments)
		p.raw(")")
	case *InvokeExpr:
		p.node(n.Expression)
		p.raw("(")
		p.list(n.Arguments)
		p.raw(")")
	case *NewExpr:
		p.newExpr(n)
	case *NewArrayExpr:
		if n.Op == NewArrayBounds {
			p.raw("make(")
			p.raw(typeString(n.ResultType))
			p.raw(", ")
			p.list(n.Expressions)
			p.raw(")")
			return
		}
		p.raw(typeString(n.ResultType))
		p.raw("{")
		p.list(n.Expressions)
		p.raw("}")
	case *ListInitExpr:
		p.newExpr(n.New)
		p.raw(" {")
		p.elementInits(n.Initializers)
		p.raw("}")
	case *MemberInitExpr:
		p.newExpr(n.New)
		p.raw(" {")
		p.bindings(n.Bindings)
		p.raw("}")
	case *MemberAccessExpr:
		if n.Expression != nil {
			p.node(n.Expression)
		} else if n.Member.Declaring != nil {
			p.raw(typeString(n.Member.Declaring))
		}
		p.printf(".%s", n.Member.Name)
	case *IndexExpr:
		p.node(n.Object)
		p.raw("[")
		p.list(n.Arguments)
		p.raw("]")
	case *LambdaExpr:
		p.raw("(")
		for i, prm := range n.Parameters {
			if i > 0 {
				p.raw(", ")
			}
			p.raw(prm.Name)
		}
		p.raw(") => ")
		p.node(n.Body)
	case *DefaultExpr:
		if n.ResultType == VoidType {
			p.raw("default(void)")
			return
		}
		p.printf("default(%s)", typeString(n.ResultType))
	case *DebugInfoExpr:
		if n.Clear {
			p.printf("#clear %s", n.File)
			return
		}
		p.printf("#%s:%d:%d-%d:%d", n.File, n.StartLine, n.StartColumn, n.EndLine, n.EndColumn)
	case *DynamicExpr:
		p.printf("dynamic %s(", n.Binder)
		p.list(n.Arguments)
		p.raw(")")
	case *RuntimeVariablesExpr:
		p.raw("runtimeVariables(")
		for i, v := range n.Variables {
			if i > 0 {
				p.raw(", ")
			}
			p.raw(v.Name)
		}
		p.raw(")")
	default:
		p.printf("<%T>", n)
	}
}

func (p *printer) constant(c *ConstantExpr) {
	switch v := c.Value.(type) {
	case nil:
		p.raw("nil")
	case string:
		p.printf("%q", v)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				p.raw("nil")
				return
			}
			if _, ok := v.(fmt.Stringer); !ok {
				p.printf("&%v", rv.Elem().Interface())
				return
			}
		}
		p.printf("%v", v)
	}
}

func (p *printer) unary(u *UnaryExpr) {
	switch u.Op {
	case Convert, ConvertChecked:
		p.printf("%s(", typeString(u.ResultType))
		p.node(u.Operand)
		p.raw(")")
	case TypeAs:
		p.raw("(")
		p.node(u.Operand)
		p.printf(" as %s)", typeString(u.ResultType))
	case Throw:
		if u.Operand == nil {
			p.raw("rethrow")
			return
		}
		p.raw("throw ")
		p.node(u.Operand)
	case PostIncrementAssign:
		p.node(u.Operand)
		p.raw("++")
	case PostDecrementAssign:
		p.node(u.Operand)
		p.raw("--")
	default:
		if sym, ok := prefixSymbols[u.Op]; ok {
			p.raw(sym)
			p.node(u.Operand)
			return
		}
		p.printf("%s(", u.Op)
		p.node(u.Operand)
		p.raw(")")
	}
}

func (p *printer) newExpr(n *NewExpr) {
	switch {
	case n.Members != nil:
		p.raw("new {")
		for i, m := range n.Members {
			if i > 0 {
				p.raw(",")
			}
			p.printf(" %s = ", m.Name)
			p.node(n.Arguments[i])
		}
		p.raw(" }")
	case n.Constructor != nil:
		p.printf("%s(", n.Constructor.Name)
		p.list(n.Arguments)
		p.raw(")")
	default:
		p.printf("new(%s)", typeString(n.ResultType))
	}
}

func (p *printer) elementInits(inits []*ElementInit) {
	for i, ei := range inits {
		if i > 0 {
			p.raw(",")
		}
		p.raw(" ")
		if len(ei.Arguments) == 1 {
			p.node(ei.Arguments[0])
			continue
		}
		p.raw("{")
		p.list(ei.Arguments)
		p.raw("}")
	}
	if len(inits) > 0 {
		p.raw(" ")
	}
}

func (p *printer) bindings(bs []Binding) {
	for i, b := range bs {
		if i > 0 {
			p.raw(",")
		}
		p.printf(" %s = ", b.BoundMember().Name)
		switch b := b.(type) {
		case *MemberAssignment:
			p.node(b.Expression)
		case *MemberMemberBinding:
			p.raw("{")
			p.bindings(b.Bindings)
			p.raw("}")
		case *MemberListBinding:
			p.raw("{")
			p.elementInits(b.Initializers)
			p.raw("}")
		}
	}
	if len(bs) > 0 {
		p.raw(" ")
	}
}
