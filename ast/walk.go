package ast

// Children returns the direct child nodes of n in the fixed order shared by
// the codec and the equality engine. Absent optional children are left out.
// Children of sub-constructs (switch cases, catch blocks, element
// initializers, bindings) are flattened in place.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *UnaryExpr:
		add(n.Operand)
	case *BinaryExpr:
		add(n.Left, n.Right)
		if n.Conversion != nil {
			add(n.Conversion)
		}
	case *TypeBinaryExpr:
		add(n.Expression)
	case *ConditionalExpr:
		add(n.Test, n.IfTrue, n.IfFalse)
	case *LoopExpr:
		add(n.Body)
	case *SwitchExpr:
		add(n.Value)
		for _, c := range n.Cases {
			add(c.TestValues...)
			add(c.Body)
		}
		add(n.Default)
	case *TryExpr:
		add(n.Body)
		for _, h := range n.Handlers {
			if h.Variable != nil {
				add(h.Variable)
			}
			add(h.Filter, h.Body)
		}
		add(n.Finally, n.Fault)
	case *GotoExpr:
		add(n.Value)
	case *LabelExpr:
		add(n.DefaultValue)
	case *BlockExpr:
		for _, v := range n.Variables {
			add(v)
		}
		add(n.Expressions...)
	case *CallExpr:
		add(n.Object)
		add(n.Arguments...)
	case *InvokeExpr:
		add(n.Expression)
		add(n.Arguments...)
	case *NewExpr:
		add(n.Arguments...)
	case *NewArrayExpr:
		add(n.Expressions...)
	case *ListInitExpr:
		add(n.New)
		for _, ei := range n.Initializers {
			add(ei.Arguments...)
		}
	case *MemberInitExpr:
		add(n.New)
		add(bindingChildren(n.Bindings)...)
	case *MemberAccessExpr:
		add(n.Expression)
	case *IndexExpr:
		add(n.Object)
		add(n.Arguments...)
	case *LambdaExpr:
		for _, p := range n.Parameters {
			add(p)
		}
		add(n.Body)
	case *DynamicExpr:
		add(n.Arguments...)
	case *RuntimeVariablesExpr:
		for _, v := range n.Variables {
			add(v)
		}
	}
	return out
}

func bindingChildren(bs []Binding) []Node {
	var out []Node
	for _, b := range bs {
		switch b := b.(type) {
		case *MemberAssignment:
			out = append(out, b.Expression)
		case *MemberMemberBinding:
			out = append(out, bindingChildren(b.Bindings)...)
		case *MemberListBinding:
			for _, ei := range b.Initializers {
				out = append(out, ei.Arguments...)
			}
		}
	}
	return out
}

// Inspect traverses the tree rooted at n in pre-order. If fn returns false
// the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// Walk calls fn on every node of the tree rooted at n, in pre-order.
func Walk(n Node, fn func(Node)) {
	Inspect(n, func(n Node) bool {
		fn(n)
		return true
	})
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	c := 0
	Walk(n, func(Node) { c++ })
	return c
}

// Depth returns the height of the tree rooted at n; a leaf has depth 1.
func Depth(n Node) int {
	if n == nil {
		return 0
	}
	d := 0
	for _, c := range Children(n) {
		d = max(d, Depth(c))
	}
	return d + 1
}
