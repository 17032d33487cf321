package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/typereg"
	"github.com/rubiojr/exprdoc/vocab"
)

// Decoder rebuilds expression trees from documents. Decoding is strict:
// unknown elements, misplaced or duplicate children and malformed text all
// fail. A Decoder is safe for concurrent use.
type Decoder struct {
	reg  *typereg.Registry
	opts Options
}

// NewDecoder returns a Decoder resolving type names through reg.
func NewDecoder(reg *typereg.Registry, opts Options) *Decoder {
	return &Decoder{reg: reg, opts: opts.normalized()}
}

// Decode converts doc back into an expression tree.
func (d *Decoder) Decode(doc *document.Node) (ast.Node, error) {
	if doc == nil {
		return nil, &Error{Node: "document", Err: fmt.Errorf("%w: nil document", ErrSerialization)}
	}
	if v, ok := attr(doc, vocab.AttrVersion); ok && v != vocab.FormatVersion {
		return nil, failf(doc.Name, ErrSerialization, "unsupported format version %q", v)
	}
	s := &decodeState{
		Decoder: d,
		params:  make(map[string]*ast.ParameterExpr),
		labels:  make(map[string]*ast.LabelTarget),
	}
	return s.node(doc)
}

type decodeState struct {
	*Decoder
	params map[string]*ast.ParameterExpr
	labels map[string]*ast.LabelTarget
	depth  int
}

func (s *decodeState) enter(name string) error {
	s.depth++
	if s.depth > s.opts.MaxDepth {
		return failf(name, ErrMaxDepth, "deeper than %d", s.opts.MaxDepth)
	}
	return nil
}

func (s *decodeState) leave() { s.depth-- }

// canonical maps an element name written in any convention to its
// vocabulary form; unknown names are returned unchanged.
func canonical(name string) string {
	if c, ok := vocab.Canonical(name); ok {
		return c
	}
	return name
}

// attr looks an attribute up by canonical name.
func attr(el *document.Node, name string) (string, bool) {
	if v, ok := el.Attrs[name]; ok {
		return v, true
	}
	for k, v := range el.Attrs {
		if canonical(k) == name {
			return v, true
		}
	}
	return "", false
}

func flag(node string, el *document.Node, name string) (bool, error) {
	v, ok := attr(el, name)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, failf(node, ErrSerialization, "attribute %s: %q is not a boolean", name, v)
	}
	return b, nil
}

func (s *decodeState) typeAttr(node string, el *document.Node, name string) (reflect.Type, error) {
	tn, ok := attr(el, name)
	if !ok {
		return nil, failf(node, ErrSerialization, "missing attribute %s", name)
	}
	t, err := s.reg.TypeFor(tn)
	if err != nil {
		return nil, wrap(node, err)
	}
	return t, nil
}

func (s *decodeState) optionalTypeAttr(node string, el *document.Node, name string) (reflect.Type, error) {
	if _, ok := attr(el, name); !ok {
		return nil, nil
	}
	return s.typeAttr(node, el, name)
}

func noText(node string, el *document.Node) error {
	if strings.TrimSpace(el.Text) != "" {
		return failf(node, ErrSerialization, "unexpected text %q", el.Text)
	}
	return nil
}

// cursor consumes the children of an element in their fixed order.
type cursor struct {
	node string
	el   *document.Node
	i    int
}

func (s *decodeState) cursor(node string, el *document.Node) *cursor {
	return &cursor{node: node, el: el}
}

func (c *cursor) optional(role string) *document.Node {
	if c.i < len(c.el.Children) && canonical(c.el.Children[c.i].Name) == role {
		c.i++
		return c.el.Children[c.i-1]
	}
	return nil
}

func (c *cursor) required(role string) (*document.Node, error) {
	if ch := c.optional(role); ch != nil {
		return ch, nil
	}
	if c.i < len(c.el.Children) {
		return nil, failf(c.node, ErrUnexpectedNode, "expected %s, found %s", role, c.el.Children[c.i].Name)
	}
	return nil, failf(c.node, ErrMissingRequiredChild, "%s", role)
}

func (c *cursor) done() error {
	if c.i < len(c.el.Children) {
		return failf(c.node, ErrUnexpectedNode, "unexpected child %s", c.el.Children[c.i].Name)
	}
	return nil
}

// single decodes the one node wrapped by a role element.
func (s *decodeState) single(w *document.Node) (ast.Node, error) {
	role := canonical(w.Name)
	if err := noText(role, w); err != nil {
		return nil, err
	}
	switch len(w.Children) {
	case 0:
		return nil, failf(role, ErrMissingRequiredChild, "empty %s", role)
	case 1:
		return s.node(w.Children[0])
	}
	return nil, failf(role, ErrUnexpectedNode, "%s holds %d nodes", role, len(w.Children))
}

func (s *decodeState) role(c *cursor, role string) (ast.Node, error) {
	w, err := c.required(role)
	if err != nil {
		return nil, err
	}
	return s.single(w)
}

func (s *decodeState) optionalRole(c *cursor, role string) (ast.Node, error) {
	w := c.optional(role)
	if w == nil {
		return nil, nil
	}
	return s.single(w)
}

func (s *decodeState) list(c *cursor, role string) ([]ast.Node, error) {
	w, err := c.required(role)
	if err != nil {
		return nil, err
	}
	if err := noText(role, w); err != nil {
		return nil, err
	}
	var out []ast.Node
	for _, ch := range w.Children {
		n, err := s.node(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *decodeState) paramList(c *cursor, role string) ([]*ast.ParameterExpr, error) {
	ns, err := s.list(c, role)
	if err != nil {
		return nil, err
	}
	var out []*ast.ParameterExpr
	for _, n := range ns {
		p, ok := n.(*ast.ParameterExpr)
		if !ok {
			return nil, failf(role, ErrUnexpectedNode, "%s is not a parameter", vocab.Kind(n.NodeType()))
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *decodeState) node(el *document.Node) (ast.Node, error) {
	nt, ok := vocab.ParseKind(el.Name)
	if !ok {
		return nil, failf(canonical(el.Name), ErrUnexpectedNode, "unknown node %q", el.Name)
	}
	name := vocab.Kind(nt)
	if err := s.enter(name); err != nil {
		return nil, err
	}
	defer s.leave()

	switch nt {
	case ast.DebugInfo, ast.Dynamic, ast.RuntimeVariables:
		return nil, failf(name, ErrUnsupportedNode, "%s nodes cannot be read", name)
	}
	t, err := s.typeAttr(name, el, vocab.AttrType)
	if err != nil {
		return nil, err
	}
	if nt == ast.Constant {
		return s.constant(name, el, t)
	}
	if err := noText(name, el); err != nil {
		return nil, err
	}
	c := s.cursor(name, el)
	n, err := s.dispatch(nt, name, el, t, c)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *decodeState) dispatch(nt ast.NodeType, name string, el *document.Node, t reflect.Type, c *cursor) (ast.Node, error) {
	switch {
	case nt == ast.Parameter:
		return s.parameter(name, el, t)
	case nt.IsUnary():
		return s.unary(nt, name, el, t, c)
	case nt.IsBinary():
		return s.binary(nt, name, el, t, c)
	case nt.IsTypeBinary():
		operand, err := s.typeAttr(name, el, vocab.AttrTypeOperand)
		if err != nil {
			return nil, err
		}
		expr, err := s.role(c, vocab.RoleExpression)
		if err != nil {
			return nil, err
		}
		return &ast.TypeBinaryExpr{Op: nt, Expression: expr, TypeOperand: operand, ResultType: t}, nil
	case nt.IsNewArray():
		exprs, err := s.list(c, vocab.RoleExpressions)
		if err != nil {
			return nil, err
		}
		return &ast.NewArrayExpr{Op: nt, Expressions: exprs, ResultType: t}, nil
	}

	switch nt {
	case ast.Conditional:
		test, err := s.role(c, vocab.RoleTest)
		if err != nil {
			return nil, err
		}
		ifTrue, err := s.role(c, vocab.RoleIfTrue)
		if err != nil {
			return nil, err
		}
		ifFalse, err := s.role(c, vocab.RoleIfFalse)
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, ResultType: t}, nil
	case ast.Loop:
		return s.loop(t, c)
	case ast.Switch:
		return s.switchExpr(t, c)
	case ast.Try:
		return s.try(t, c)
	case ast.Goto:
		kindName, ok := attr(el, vocab.AttrKind)
		if !ok {
			return nil, failf(name, ErrSerialization, "missing attribute %s", vocab.AttrKind)
		}
		kind, ok := ast.ParseGotoKind(kindName)
		if !ok {
			return nil, failf(name, ErrSerialization, "unknown goto kind %q", kindName)
		}
		target, err := s.label(c, vocab.RoleTarget)
		if err != nil {
			return nil, err
		}
		value, err := s.optionalRole(c, vocab.RoleValue)
		if err != nil {
			return nil, err
		}
		return &ast.GotoExpr{Kind: kind, Target: target, Value: value, ResultType: t}, nil
	case ast.Label:
		target, err := s.label(c, vocab.RoleTarget)
		if err != nil {
			return nil, err
		}
		def, err := s.optionalRole(c, vocab.RoleDefaultValue)
		if err != nil {
			return nil, err
		}
		return &ast.LabelExpr{Target: target, DefaultValue: def, ResultType: t}, nil
	case ast.Block:
		vars, err := s.paramList(c, vocab.RoleVariables)
		if err != nil {
			return nil, err
		}
		exprs, err := s.list(c, vocab.RoleExpressions)
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Variables: vars, Expressions: exprs, ResultType: t}, nil
	case ast.Call:
		obj, err := s.optionalRole(c, vocab.RoleObject)
		if err != nil {
			return nil, err
		}
		m, err := s.method(c, vocab.RoleMethod)
		if err != nil {
			return nil, err
		}
		args, err := s.list(c, vocab.RoleArguments)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Object: obj, Method: m, Arguments: args, ResultType: t}, nil
	case ast.Invoke:
		fn, err := s.role(c, vocab.RoleExpression)
		if err != nil {
			return nil, err
		}
		args, err := s.list(c, vocab.RoleArguments)
		if err != nil {
			return nil, err
		}
		return &ast.InvokeExpr{Expression: fn, Arguments: args, ResultType: t}, nil
	case ast.New:
		return s.newExpr(t, c)
	case ast.ListInit:
		n, err := s.newRole(c)
		if err != nil {
			return nil, err
		}
		inits, err := s.elementInits(c)
		if err != nil {
			return nil, err
		}
		return &ast.ListInitExpr{New: n, Initializers: inits, ResultType: t}, nil
	case ast.MemberInit:
		n, err := s.newRole(c)
		if err != nil {
			return nil, err
		}
		bs, err := s.bindings(c)
		if err != nil {
			return nil, err
		}
		return &ast.MemberInitExpr{New: n, Bindings: bs, ResultType: t}, nil
	case ast.MemberAccess:
		expr, err := s.optionalRole(c, vocab.RoleExpression)
		if err != nil {
			return nil, err
		}
		m, err := s.member(c, vocab.RoleMember)
		if err != nil {
			return nil, err
		}
		return &ast.MemberAccessExpr{Expression: expr, Member: m, ResultType: t}, nil
	case ast.Index:
		obj, err := s.optionalRole(c, vocab.RoleObject)
		if err != nil {
			return nil, err
		}
		var indexer *ast.Member
		if c.optionalPeek(vocab.RoleIndexer) {
			if indexer, err = s.member(c, vocab.RoleIndexer); err != nil {
				return nil, err
			}
		}
		args, err := s.list(c, vocab.RoleArguments)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Object: obj, Indexer: indexer, Arguments: args, ResultType: t}, nil
	case ast.Lambda:
		return s.lambda(name, el, t, c)
	case ast.Default:
		return &ast.DefaultExpr{ResultType: t}, nil
	}
	return nil, failf(name, ErrUnexpectedNode, "no decoder for %s", name)
}

func (c *cursor) optionalPeek(role string) bool {
	return c.i < len(c.el.Children) && canonical(c.el.Children[c.i].Name) == role
}

func (s *decodeState) parameter(name string, el *document.Node, t reflect.Type) (ast.Node, error) {
	id, ok := attr(el, vocab.AttrID)
	if !ok {
		return nil, failf(name, ErrSerialization, "missing attribute %s", vocab.AttrID)
	}
	pname, _ := attr(el, vocab.AttrName)
	byRef, err := flag(name, el, vocab.AttrIsByRef)
	if err != nil {
		return nil, err
	}
	if len(el.Children) > 0 {
		return nil, failf(name, ErrUnexpectedNode, "unexpected child %s", el.Children[0].Name)
	}
	if p, ok := s.params[id]; ok {
		if p.Name != pname || p.ResultType != t || p.ByRef != byRef {
			return nil, failf(name, ErrSerialization, "parameter %s redefined", id)
		}
		return p, nil
	}
	p := &ast.ParameterExpr{Name: pname, ResultType: t, ByRef: byRef}
	s.params[id] = p
	return p, nil
}

func (s *decodeState) unary(nt ast.NodeType, name string, el *document.Node, t reflect.Type, c *cursor) (ast.Node, error) {
	u := &ast.UnaryExpr{Op: nt, ResultType: t}
	var err error
	if u.Lifted, err = flag(name, el, vocab.AttrIsLifted); err != nil {
		return nil, err
	}
	if u.LiftedToNull, err = flag(name, el, vocab.AttrIsLiftedToNull); err != nil {
		return nil, err
	}
	if nt == ast.Throw {
		u.Operand, err = s.optionalRole(c, vocab.RoleOperand)
	} else {
		u.Operand, err = s.role(c, vocab.RoleOperand)
	}
	if err != nil {
		return nil, err
	}
	if c.optionalPeek(vocab.RoleMethod) {
		if u.Method, err = s.method(c, vocab.RoleMethod); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *decodeState) binary(nt ast.NodeType, name string, el *document.Node, t reflect.Type, c *cursor) (ast.Node, error) {
	b := &ast.BinaryExpr{Op: nt, ResultType: t}
	var err error
	if b.Lifted, err = flag(name, el, vocab.AttrIsLifted); err != nil {
		return nil, err
	}
	if b.LiftedToNull, err = flag(name, el, vocab.AttrIsLiftedToNull); err != nil {
		return nil, err
	}
	if b.Left, err = s.role(c, vocab.RoleLeft); err != nil {
		return nil, err
	}
	if b.Right, err = s.role(c, vocab.RoleRight); err != nil {
		return nil, err
	}
	if c.optionalPeek(vocab.RoleMethod) {
		if b.Method, err = s.method(c, vocab.RoleMethod); err != nil {
			return nil, err
		}
	}
	conv, err := s.optionalRole(c, vocab.RoleConversion)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		l, ok := conv.(*ast.LambdaExpr)
		if !ok {
			return nil, failf(vocab.RoleConversion, ErrUnexpectedNode, "%s is not a lambda", vocab.Kind(conv.NodeType()))
		}
		b.Conversion = l
	}
	return b, nil
}

func (s *decodeState) loop(t reflect.Type, c *cursor) (ast.Node, error) {
	body, err := s.role(c, vocab.RoleBody)
	if err != nil {
		return nil, err
	}
	l := &ast.LoopExpr{Body: body, ResultType: t}
	if c.optionalPeek(vocab.RoleBreakLabel) {
		if l.Break, err = s.label(c, vocab.RoleBreakLabel); err != nil {
			return nil, err
		}
	}
	if c.optionalPeek(vocab.RoleContinueLabel) {
		if l.Continue, err = s.label(c, vocab.RoleContinueLabel); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (s *decodeState) switchExpr(t reflect.Type, c *cursor) (ast.Node, error) {
	value, err := s.role(c, vocab.RoleSwitchValue)
	if err != nil {
		return nil, err
	}
	w, err := c.required(vocab.RoleCases)
	if err != nil {
		return nil, err
	}
	sw := &ast.SwitchExpr{Value: value, ResultType: t}
	for _, ce := range w.Children {
		if canonical(ce.Name) != vocab.ElemSwitchCase {
			return nil, failf(vocab.RoleCases, ErrUnexpectedNode, "unexpected child %s", ce.Name)
		}
		cc := s.cursor(vocab.ElemSwitchCase, ce)
		tests, err := s.list(cc, vocab.RoleTestValues)
		if err != nil {
			return nil, err
		}
		body, err := s.role(cc, vocab.RoleBody)
		if err != nil {
			return nil, err
		}
		if err := cc.done(); err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, &ast.SwitchCase{TestValues: tests, Body: body})
	}
	if sw.Default, err = s.optionalRole(c, vocab.RoleDefaultBody); err != nil {
		return nil, err
	}
	if c.optionalPeek(vocab.RoleComparison) {
		if sw.Comparison, err = s.method(c, vocab.RoleComparison); err != nil {
			return nil, err
		}
	}
	return sw, nil
}

func (s *decodeState) try(t reflect.Type, c *cursor) (ast.Node, error) {
	body, err := s.role(c, vocab.RoleBody)
	if err != nil {
		return nil, err
	}
	w, err := c.required(vocab.RoleHandlers)
	if err != nil {
		return nil, err
	}
	tr := &ast.TryExpr{Body: body, ResultType: t}
	for _, he := range w.Children {
		if canonical(he.Name) != vocab.ElemCatchBlock {
			return nil, failf(vocab.RoleHandlers, ErrUnexpectedNode, "unexpected child %s", he.Name)
		}
		h, err := s.catchBlock(he)
		if err != nil {
			return nil, err
		}
		tr.Handlers = append(tr.Handlers, h)
	}
	if tr.Finally, err = s.optionalRole(c, vocab.RoleFinally); err != nil {
		return nil, err
	}
	if tr.Fault, err = s.optionalRole(c, vocab.RoleFault); err != nil {
		return nil, err
	}
	return tr, nil
}

func (s *decodeState) catchBlock(el *document.Node) (*ast.CatchBlock, error) {
	name := vocab.ElemCatchBlock
	test, err := s.typeAttr(name, el, vocab.AttrTest)
	if err != nil {
		return nil, err
	}
	h := &ast.CatchBlock{Test: test}
	c := s.cursor(name, el)
	v, err := s.optionalRole(c, vocab.RoleVariable)
	if err != nil {
		return nil, err
	}
	if v != nil {
		p, ok := v.(*ast.ParameterExpr)
		if !ok {
			return nil, failf(vocab.RoleVariable, ErrUnexpectedNode, "%s is not a parameter", vocab.Kind(v.NodeType()))
		}
		h.Variable = p
	}
	if h.Filter, err = s.optionalRole(c, vocab.RoleFilter); err != nil {
		return nil, err
	}
	if h.Body, err = s.role(c, vocab.RoleBody); err != nil {
		return nil, err
	}
	return h, c.done()
}

func (s *decodeState) newRole(c *cursor) (*ast.NewExpr, error) {
	n, err := s.role(c, vocab.RoleNewExpression)
	if err != nil {
		return nil, err
	}
	ne, ok := n.(*ast.NewExpr)
	if !ok {
		return nil, failf(vocab.RoleNewExpression, ErrUnexpectedNode, "%s is not a new expression", vocab.Kind(n.NodeType()))
	}
	return ne, nil
}

func (s *decodeState) newExpr(t reflect.Type, c *cursor) (ast.Node, error) {
	n := &ast.NewExpr{ResultType: t}
	var err error
	if c.optionalPeek(vocab.RoleConstructor) {
		if n.Constructor, err = s.method(c, vocab.RoleConstructor); err != nil {
			return nil, err
		}
	}
	if n.Arguments, err = s.list(c, vocab.RoleArguments); err != nil {
		return nil, err
	}
	if w := c.optional(vocab.RoleMembers); w != nil {
		n.Members = []*ast.Member{}
		for _, me := range w.Children {
			m, err := s.memberInfo(me)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, m)
		}
		if len(n.Members) != len(n.Arguments) {
			return nil, failf(vocab.Kind(ast.New), ErrSerialization, "%d members for %d arguments", len(n.Members), len(n.Arguments))
		}
	}
	return n, nil
}

func (s *decodeState) elementInits(c *cursor) ([]*ast.ElementInit, error) {
	w, err := c.required(vocab.RoleInitializers)
	if err != nil {
		return nil, err
	}
	var out []*ast.ElementInit
	for _, e := range w.Children {
		if canonical(e.Name) != vocab.ElemElementInit {
			return nil, failf(vocab.RoleInitializers, ErrUnexpectedNode, "unexpected child %s", e.Name)
		}
		ec := s.cursor(vocab.ElemElementInit, e)
		m, err := s.method(ec, vocab.RoleMethod)
		if err != nil {
			return nil, err
		}
		args, err := s.list(ec, vocab.RoleArguments)
		if err != nil {
			return nil, err
		}
		if err := ec.done(); err != nil {
			return nil, err
		}
		out = append(out, &ast.ElementInit{AddMethod: m, Arguments: args})
	}
	return out, nil
}

func (s *decodeState) bindings(c *cursor) ([]ast.Binding, error) {
	if err := s.enter(vocab.RoleBindings); err != nil {
		return nil, err
	}
	defer s.leave()
	w, err := c.required(vocab.RoleBindings)
	if err != nil {
		return nil, err
	}
	var out []ast.Binding
	for _, e := range w.Children {
		kind := canonical(e.Name)
		bc := s.cursor(kind, e)
		var b ast.Binding
		switch kind {
		case vocab.ElemMemberAssignment:
			m, err := s.member(bc, vocab.RoleMember)
			if err != nil {
				return nil, err
			}
			expr, err := s.role(bc, vocab.RoleExpression)
			if err != nil {
				return nil, err
			}
			b = &ast.MemberAssignment{Member: m, Expression: expr}
		case vocab.ElemMemberMemberBinding:
			m, err := s.member(bc, vocab.RoleMember)
			if err != nil {
				return nil, err
			}
			nested, err := s.bindings(bc)
			if err != nil {
				return nil, err
			}
			b = &ast.MemberMemberBinding{Member: m, Bindings: nested}
		case vocab.ElemMemberListBinding:
			m, err := s.member(bc, vocab.RoleMember)
			if err != nil {
				return nil, err
			}
			inits, err := s.elementInits(bc)
			if err != nil {
				return nil, err
			}
			b = &ast.MemberListBinding{Member: m, Initializers: inits}
		default:
			return nil, failf(vocab.RoleBindings, ErrUnexpectedNode, "unexpected child %s", e.Name)
		}
		if err := bc.done(); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *decodeState) lambda(name string, el *document.Node, t reflect.Type, c *cursor) (ast.Node, error) {
	ret, err := s.typeAttr(name, el, vocab.AttrReturnType)
	if err != nil {
		return nil, err
	}
	tail, err := flag(name, el, vocab.AttrTailCall)
	if err != nil {
		return nil, err
	}
	lname, _ := attr(el, vocab.AttrName)
	params, err := s.paramList(c, vocab.RoleParameters)
	if err != nil {
		return nil, err
	}
	body, err := s.role(c, vocab.RoleBody)
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{
		Name:       lname,
		Parameters: params,
		Body:       body,
		ReturnType: ret,
		TailCall:   tail,
		ResultType: t,
	}, nil
}

// --- References ---

// reference returns the single reference element wrapped by role.
func (s *decodeState) reference(c *cursor, role, elem string) (*document.Node, error) {
	w, err := c.required(role)
	if err != nil {
		return nil, err
	}
	switch len(w.Children) {
	case 0:
		return nil, failf(role, ErrMissingRequiredChild, "%s", elem)
	case 1:
	default:
		return nil, failf(role, ErrUnexpectedNode, "%s holds %d elements", role, len(w.Children))
	}
	ref := w.Children[0]
	if canonical(ref.Name) != elem {
		return nil, failf(role, ErrUnexpectedNode, "expected %s, found %s", elem, ref.Name)
	}
	return ref, nil
}

func (s *decodeState) label(c *cursor, role string) (*ast.LabelTarget, error) {
	el, err := s.reference(c, role, vocab.ElemLabelTarget)
	if err != nil {
		return nil, err
	}
	name := vocab.ElemLabelTarget
	id, ok := attr(el, vocab.AttrID)
	if !ok {
		return nil, failf(name, ErrSerialization, "missing attribute %s", vocab.AttrID)
	}
	t, err := s.typeAttr(name, el, vocab.AttrType)
	if err != nil {
		return nil, err
	}
	lname, _ := attr(el, vocab.AttrName)
	if l, ok := s.labels[id]; ok {
		if l.Name != lname || l.ResultType != t {
			return nil, failf(name, ErrSerialization, "label %s redefined", id)
		}
		return l, nil
	}
	l := &ast.LabelTarget{Name: lname, ResultType: t}
	s.labels[id] = l
	return l, nil
}

func (s *decodeState) method(c *cursor, role string) (*ast.Method, error) {
	el, err := s.reference(c, role, vocab.ElemMethodInfo)
	if err != nil {
		return nil, err
	}
	name := vocab.ElemMethodInfo
	mname, ok := attr(el, vocab.AttrName)
	if !ok {
		return nil, failf(name, ErrSerialization, "missing attribute %s", vocab.AttrName)
	}
	m := &ast.Method{Name: mname}
	if m.Declaring, err = s.optionalTypeAttr(name, el, vocab.AttrDeclaringType); err != nil {
		return nil, err
	}
	if m.Result, err = s.optionalTypeAttr(name, el, vocab.AttrReturnType); err != nil {
		return nil, err
	}
	for _, p := range el.Children {
		if canonical(p.Name) != vocab.ElemParameterType {
			return nil, failf(name, ErrUnexpectedNode, "unexpected child %s", p.Name)
		}
		pt, err := s.typeAttr(vocab.ElemParameterType, p, vocab.AttrType)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, pt)
	}
	return m, nil
}

func (s *decodeState) member(c *cursor, role string) (*ast.Member, error) {
	el, err := s.reference(c, role, vocab.ElemMemberInfo)
	if err != nil {
		return nil, err
	}
	return s.memberInfo(el)
}

func (s *decodeState) memberInfo(el *document.Node) (*ast.Member, error) {
	name := vocab.ElemMemberInfo
	if canonical(el.Name) != name {
		return nil, failf(vocab.RoleMembers, ErrUnexpectedNode, "unexpected child %s", el.Name)
	}
	if len(el.Children) > 0 {
		return nil, failf(name, ErrUnexpectedNode, "unexpected child %s", el.Children[0].Name)
	}
	mname, ok := attr(el, vocab.AttrName)
	if !ok {
		return nil, failf(name, ErrSerialization, "missing attribute %s", vocab.AttrName)
	}
	m := &ast.Member{Name: mname}
	if k, ok := attr(el, vocab.AttrMemberKind); ok {
		if m.Kind, ok = ast.ParseMemberKind(k); !ok {
			return nil, failf(name, ErrSerialization, "unknown member kind %q", k)
		}
	}
	var err error
	if m.Declaring, err = s.optionalTypeAttr(name, el, vocab.AttrDeclaringType); err != nil {
		return nil, err
	}
	if m.Type, err = s.typeAttr(name, el, vocab.AttrType); err != nil {
		return nil, err
	}
	return m, nil
}

// --- Constants ---

func isNilMarker(node string, el *document.Node) (bool, error) {
	isNil, err := flag(node, el, vocab.AttrNil)
	if err != nil || !isNil {
		return false, err
	}
	if el.Text != "" || len(el.Children) > 0 {
		return false, failf(node, ErrSerialization, "nil value with content")
	}
	return true, nil
}

func (s *decodeState) constant(name string, el *document.Node, t reflect.Type) (ast.Node, error) {
	isNil, err := isNilMarker(name, el)
	if err != nil {
		return nil, err
	}
	if isNil {
		if t.Kind() == reflect.String {
			return &ast.ConstantExpr{ResultType: t}, nil
		}
		v, err := s.nilValue(name, el, t)
		if err != nil {
			return nil, err
		}
		return &ast.ConstantExpr{Value: v.Interface(), ResultType: t}, nil
	}
	v, err := s.value(name, el, t)
	if err != nil {
		return nil, err
	}
	return &ast.ConstantExpr{Value: v.Interface(), ResultType: t}, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Interface, reflect.Chan:
		return true
	}
	return false
}

// nilValue is the nil of type t. An interface slot whose value type is
// recorded holds a typed nil of that type.
func (s *decodeState) nilValue(node string, el *document.Node, t reflect.Type) (reflect.Value, error) {
	if !nilable(t) {
		return reflect.Value{}, failf(node, ErrSerialization, "nil for non-nullable type %s", t)
	}
	if t.Kind() != reflect.Interface {
		return reflect.Zero(t), nil
	}
	if _, ok := attr(el, vocab.AttrValueType); !ok {
		return reflect.Zero(t), nil
	}
	vt, err := s.typeAttr(node, el, vocab.AttrValueType)
	if err != nil {
		return reflect.Value{}, err
	}
	if !nilable(vt) || vt.Kind() == reflect.Interface || !vt.AssignableTo(t) {
		return reflect.Value{}, failf(node, ErrSerialization, "nil value type %s does not fit %s", vt, t)
	}
	out := reflect.New(t).Elem()
	out.Set(reflect.Zero(vt))
	return out, nil
}

// value reads a value of type t from el. node names el in errors.
func (s *decodeState) value(node string, el *document.Node, t reflect.Type) (reflect.Value, error) {
	if err := s.enter(node); err != nil {
		return reflect.Value{}, err
	}
	defer s.leave()

	isNil, err := isNilMarker(node, el)
	if err != nil {
		return reflect.Value{}, err
	}
	if isNil {
		return s.nilValue(node, el, t)
	}

	if t.Kind() == reflect.Interface {
		vt, err := s.typeAttr(node, el, vocab.AttrValueType)
		if err != nil {
			return reflect.Value{}, err
		}
		if vt.Kind() == reflect.Interface || !vt.AssignableTo(t) {
			return reflect.Value{}, failf(node, ErrSerialization, "value type %s does not fit %s", vt, t)
		}
		inner, err := s.value(node, el, vt)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(inner)
		return out, nil
	}

	switch class := typereg.Classify(t); class {
	case typereg.ClassPrimitive, typereg.ClassScalar, typereg.ClassEnum:
		if len(el.Children) > 0 {
			return reflect.Value{}, failf(node, ErrUnexpectedNode, "unexpected child %s", el.Children[0].Name)
		}
		v, err := parseScalar(el.Text, t)
		if err != nil {
			return reflect.Value{}, failf(node, ErrSerialization, "%v", err)
		}
		return v, nil
	case typereg.ClassBytes:
		if len(el.Children) > 0 {
			return reflect.Value{}, failf(node, ErrUnexpectedNode, "unexpected child %s", el.Children[0].Name)
		}
		b, err := parseBytes(el.Text)
		if err != nil {
			return reflect.Value{}, failf(node, ErrSerialization, "%v", err)
		}
		return reflect.ValueOf(b), nil
	case typereg.ClassNullable:
		inner, err := s.value(node, el, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		out := reflect.New(t).Elem()
		out.Set(p)
		return out, nil
	case typereg.ClassSequence:
		return s.sequence(node, el, t)
	case typereg.ClassDictionary:
		return s.dictionary(node, el, t)
	case typereg.ClassTuple, typereg.ClassAnonymous, typereg.ClassObject:
		return s.members(node, el, t)
	default:
		return reflect.Value{}, failf(node, ErrSerialization, "cannot read a constant of %s type %s", class, t)
	}
}

func (s *decodeState) sequence(node string, el *document.Node, t reflect.Type) (reflect.Value, error) {
	if err := noText(node, el); err != nil {
		return reflect.Value{}, err
	}
	n := len(el.Children)
	var out reflect.Value
	if t.Kind() == reflect.Array {
		if n != t.Len() {
			return reflect.Value{}, failf(node, ErrSerialization, "%d items for %s", n, t)
		}
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, n, n)
	}
	for i, item := range el.Children {
		if canonical(item.Name) != vocab.ElemItem {
			return reflect.Value{}, failf(node, ErrUnexpectedNode, "unexpected child %s", item.Name)
		}
		v, err := s.value(vocab.ElemItem, item, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

func (s *decodeState) dictionary(node string, el *document.Node, t reflect.Type) (reflect.Value, error) {
	if err := noText(node, el); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMapWithSize(t, len(el.Children))
	for _, e := range el.Children {
		if canonical(e.Name) != vocab.ElemEntry {
			return reflect.Value{}, failf(node, ErrUnexpectedNode, "unexpected child %s", e.Name)
		}
		c := s.cursor(vocab.ElemEntry, e)
		ke, err := c.required(vocab.RoleKey)
		if err != nil {
			return reflect.Value{}, err
		}
		ve, err := c.required(vocab.RoleValue)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := c.done(); err != nil {
			return reflect.Value{}, err
		}
		k, err := s.value(vocab.RoleKey, ke, t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		if out.MapIndex(k).IsValid() {
			return reflect.Value{}, failf(vocab.ElemEntry, ErrSerialization, "duplicate key %q", canonicalText(ke))
		}
		v, err := s.value(vocab.RoleValue, ve, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

func (s *decodeState) members(node string, el *document.Node, t reflect.Type) (reflect.Value, error) {
	if err := noText(node, el); err != nil {
		return reflect.Value{}, err
	}
	for _, me := range el.Children {
		if canonical(me.Name) != vocab.RoleMember {
			return reflect.Value{}, failf(node, ErrUnexpectedNode, "unexpected child %s", me.Name)
		}
		if _, ok := attr(me, vocab.AttrName); !ok {
			return reflect.Value{}, failf(vocab.RoleMember, ErrSerialization, "missing attribute %s", vocab.AttrName)
		}
	}

	if describes(t) {
		var ms []Member
		for _, me := range el.Children {
			name, _ := attr(me, vocab.AttrName)
			mt, err := s.typeAttr(vocab.RoleMember, me, vocab.AttrType)
			if err != nil {
				return reflect.Value{}, err
			}
			m := Member{Name: name, Type: mt}
			v, err := s.value(vocab.RoleMember, me, mt)
			if err != nil {
				return reflect.Value{}, err
			}
			if !isNil(v) {
				m.Value = v.Interface()
			}
			ms = append(ms, m)
		}
		out, err := assemble(t, ms)
		if err != nil {
			return reflect.Value{}, failf(node, ErrSerialization, "%v", err)
		}
		return out, nil
	}

	out := reflect.New(t).Elem()
	fs := fields(t, s.opts.Members)
	seen := make(map[int]bool, len(fs))
	for _, me := range el.Children {
		name, _ := attr(me, vocab.AttrName)
		f, ok := findField(fs, name)
		if !ok {
			return reflect.Value{}, failf(vocab.RoleMember, ErrUnexpectedNode, "%s has no member %q", t, name)
		}
		if seen[f.index] {
			return reflect.Value{}, failf(vocab.RoleMember, ErrUnexpectedNode, "duplicate member %q", name)
		}
		seen[f.index] = true
		v, err := s.value(vocab.RoleMember, me, f.typ)
		if err != nil {
			return reflect.Value{}, err
		}
		fieldValue(out, f.index).Set(v)
	}
	for _, f := range fs {
		if !seen[f.index] {
			return reflect.Value{}, failf(node, ErrMissingRequiredChild, "member %s of %s", f.name, t)
		}
	}
	return out, nil
}
