package ast

import (
	"errors"
	"fmt"
)

var (
	ErrUnboundParameter = errors.New("parameter used outside its scope")
	ErrUndefinedLabel   = errors.New("jump to a label that is never defined")
	ErrNotSerializable  = errors.New("node kind has no document form")
)

// Check validates a tree without modifying it.
type Check interface {
	Name() string
	Check(n Node) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(n Node) error {
	for _, c := range cc {
		if err := c.Check(n); err != nil {
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return nil
}

// Serializable rejects debug info, dynamic and runtime-variables nodes.
type Serializable struct{}

func (Serializable) Name() string { return "serializable" }

func (Serializable) Check(n Node) error {
	var err error
	Inspect(n, func(n Node) bool {
		if err != nil {
			return false
		}
		switch n.NodeType() {
		case DebugInfo, Dynamic, RuntimeVariables:
			err = fmt.Errorf("%w: %s", ErrNotSerializable, n.NodeType())
			return false
		}
		return true
	})
	return err
}

// BoundParameters requires every parameter reference to sit inside the
// lambda, block or catch block that declares it.
type BoundParameters struct{}

func (BoundParameters) Name() string { return "bound-parameters" }

func (BoundParameters) Check(n Node) error {
	b := &binder{scope: make(map[*ParameterExpr]int)}
	return b.visit(n)
}

type binder struct {
	scope map[*ParameterExpr]int
}

func (b *binder) declare(ps []*ParameterExpr, delta int) {
	for _, p := range ps {
		if p != nil {
			b.scope[p] += delta
		}
	}
}

func (b *binder) within(ps []*ParameterExpr, body ...Node) error {
	b.declare(ps, 1)
	defer b.declare(ps, -1)
	for _, n := range body {
		if err := b.visit(n); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) visit(n Node) error {
	switch n := n.(type) {
	case nil:
		return nil
	case *ParameterExpr:
		if b.scope[n] == 0 {
			return fmt.Errorf("%w: %s", ErrUnboundParameter, n.Name)
		}
		return nil
	case *LambdaExpr:
		return b.within(n.Parameters, n.Body)
	case *BlockExpr:
		return b.within(n.Variables, n.Expressions...)
	case *TryExpr:
		if err := b.visit(n.Body); err != nil {
			return err
		}
		for _, h := range n.Handlers {
			if err := b.within([]*ParameterExpr{h.Variable}, h.Filter, h.Body); err != nil {
				return err
			}
		}
		return b.within(nil, n.Finally, n.Fault)
	}
	for _, c := range Children(n) {
		if err := b.visit(c); err != nil {
			return err
		}
	}
	return nil
}

// DefinedLabels requires every jump target to be defined by a label
// expression or a loop somewhere in the tree.
type DefinedLabels struct{}

func (DefinedLabels) Name() string { return "defined-labels" }

func (DefinedLabels) Check(n Node) error {
	defined := make(map[*LabelTarget]bool)
	var jumps []*GotoExpr
	Walk(n, func(n Node) {
		switch n := n.(type) {
		case *LabelExpr:
			defined[n.Target] = true
		case *LoopExpr:
			for _, l := range []*LabelTarget{n.Break, n.Continue} {
				if l != nil {
					defined[l] = true
				}
			}
		case *GotoExpr:
			jumps = append(jumps, n)
		}
	})
	for _, g := range jumps {
		if g.Target != nil && !defined[g.Target] {
			return fmt.Errorf("%w: %s", ErrUndefinedLabel, g.Target.Name)
		}
	}
	return nil
}
