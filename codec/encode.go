package codec

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/typereg"
	"github.com/rubiojr/exprdoc/vocab"
)

// Encoder turns expression trees into documents. It is safe for concurrent
// use; all per-tree state lives in the Encode call.
type Encoder struct {
	reg  *typereg.Registry
	opts Options
}

// NewEncoder returns an Encoder resolving type names through reg.
func NewEncoder(reg *typereg.Registry, opts Options) *Encoder {
	return &Encoder{reg: reg, opts: opts.normalized()}
}

// Encode converts n into a document. The root element carries the format
// version.
func (e *Encoder) Encode(n ast.Node) (*document.Node, error) {
	if n == nil {
		return nil, &Error{Node: "document", Err: fmt.Errorf("%w: nil root", ErrSerialization)}
	}
	s := &encodeState{
		Encoder: e,
		params:  make(map[*ast.ParameterExpr]string),
		labels:  make(map[*ast.LabelTarget]string),
	}
	doc, err := s.node(n)
	if err != nil {
		return nil, err
	}
	doc.SetAttr(vocab.AttrVersion, vocab.FormatVersion)
	return doc, nil
}

type encodeState struct {
	*Encoder
	params map[*ast.ParameterExpr]string
	labels map[*ast.LabelTarget]string
	depth  int
}

func (s *encodeState) enter(name string) error {
	s.depth++
	if s.depth > s.opts.MaxDepth {
		return failf(name, ErrMaxDepth, "deeper than %d", s.opts.MaxDepth)
	}
	return nil
}

func (s *encodeState) leave() { s.depth-- }

func (s *encodeState) typeName(node string, t reflect.Type) (string, error) {
	name, err := s.reg.NameFor(t)
	if err != nil {
		return "", wrap(node, err)
	}
	return name, nil
}

// element creates the element for node n with its type attribute.
func (s *encodeState) element(n ast.Node) (*document.Node, error) {
	name := vocab.Kind(n.NodeType())
	el := document.New(name)
	tn, err := s.typeName(name, n.Type())
	if err != nil {
		return nil, err
	}
	el.SetAttr(vocab.AttrType, tn)
	return el, nil
}

func setFlag(el *document.Node, attr string, v bool) {
	if v {
		el.SetAttr(attr, "true")
	}
}

// role wraps the encoded child in an element named after its role.
func (s *encodeState) role(parent *document.Node, role string, child ast.Node) error {
	c, err := s.node(child)
	if err != nil {
		return err
	}
	parent.Append(document.New(role).Append(c))
	return nil
}

func (s *encodeState) optionalRole(parent *document.Node, role string, child ast.Node) error {
	if child == nil {
		return nil
	}
	return s.role(parent, role, child)
}

func (s *encodeState) list(parent *document.Node, role string, children []ast.Node) error {
	w := document.New(role)
	for _, c := range children {
		el, err := s.node(c)
		if err != nil {
			return err
		}
		w.Append(el)
	}
	parent.Append(w)
	return nil
}

func (s *encodeState) paramList(parent *document.Node, role string, ps []*ast.ParameterExpr) error {
	w := document.New(role)
	for _, p := range ps {
		el, err := s.node(p)
		if err != nil {
			return err
		}
		w.Append(el)
	}
	parent.Append(w)
	return nil
}

func (s *encodeState) node(n ast.Node) (*document.Node, error) {
	if err := s.enter(vocab.Kind(n.NodeType())); err != nil {
		return nil, err
	}
	defer s.leave()

	switch n := n.(type) {
	case *ast.ConstantExpr:
		return s.constant(n)
	case *ast.ParameterExpr:
		return s.parameter(n)
	case *ast.UnaryExpr:
		return s.unary(n)
	case *ast.BinaryExpr:
		return s.binary(n)
	case *ast.TypeBinaryExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		tn, err := s.typeName(el.Name, n.TypeOperand)
		if err != nil {
			return nil, err
		}
		el.SetAttr(vocab.AttrTypeOperand, tn)
		return el, s.role(el, vocab.RoleExpression, n.Expression)
	case *ast.ConditionalExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.role(el, vocab.RoleTest, n.Test); err != nil {
			return nil, err
		}
		if err := s.role(el, vocab.RoleIfTrue, n.IfTrue); err != nil {
			return nil, err
		}
		return el, s.role(el, vocab.RoleIfFalse, n.IfFalse)
	case *ast.LoopExpr:
		return s.loop(n)
	case *ast.SwitchExpr:
		return s.switchExpr(n)
	case *ast.TryExpr:
		return s.try(n)
	case *ast.GotoExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		el.SetAttr(vocab.AttrKind, n.Kind.String())
		if err := s.labelRole(el, vocab.RoleTarget, n.Target); err != nil {
			return nil, err
		}
		return el, s.optionalRole(el, vocab.RoleValue, n.Value)
	case *ast.LabelExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.labelRole(el, vocab.RoleTarget, n.Target); err != nil {
			return nil, err
		}
		return el, s.optionalRole(el, vocab.RoleDefaultValue, n.DefaultValue)
	case *ast.BlockExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.paramList(el, vocab.RoleVariables, n.Variables); err != nil {
			return nil, err
		}
		return el, s.list(el, vocab.RoleExpressions, n.Expressions)
	case *ast.CallExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.optionalRole(el, vocab.RoleObject, n.Object); err != nil {
			return nil, err
		}
		if err := s.methodRole(el, vocab.RoleMethod, n.Method); err != nil {
			return nil, err
		}
		return el, s.list(el, vocab.RoleArguments, n.Arguments)
	case *ast.InvokeExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.role(el, vocab.RoleExpression, n.Expression); err != nil {
			return nil, err
		}
		return el, s.list(el, vocab.RoleArguments, n.Arguments)
	case *ast.NewExpr:
		return s.newExpr(n)
	case *ast.NewArrayExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		return el, s.list(el, vocab.RoleExpressions, n.Expressions)
	case *ast.ListInitExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.role(el, vocab.RoleNewExpression, n.New); err != nil {
			return nil, err
		}
		return el, s.elementInits(el, n.Initializers)
	case *ast.MemberInitExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.role(el, vocab.RoleNewExpression, n.New); err != nil {
			return nil, err
		}
		return el, s.bindings(el, n.Bindings)
	case *ast.MemberAccessExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.optionalRole(el, vocab.RoleExpression, n.Expression); err != nil {
			return nil, err
		}
		return el, s.memberRole(el, vocab.RoleMember, n.Member)
	case *ast.IndexExpr:
		el, err := s.element(n)
		if err != nil {
			return nil, err
		}
		if err := s.optionalRole(el, vocab.RoleObject, n.Object); err != nil {
			return nil, err
		}
		if n.Indexer != nil {
			if err := s.memberRole(el, vocab.RoleIndexer, n.Indexer); err != nil {
				return nil, err
			}
		}
		return el, s.list(el, vocab.RoleArguments, n.Arguments)
	case *ast.LambdaExpr:
		return s.lambda(n)
	case *ast.DefaultExpr:
		return s.element(n)
	case *ast.DebugInfoExpr, *ast.DynamicExpr, *ast.RuntimeVariablesExpr:
		name := vocab.Kind(n.NodeType())
		return nil, failf(name, ErrUnsupportedNode, "%s nodes cannot be written", name)
	}
	return nil, failf("unknown", ErrUnsupportedNode, "%T", n)
}

func (s *encodeState) parameter(p *ast.ParameterExpr) (*document.Node, error) {
	el, err := s.element(p)
	if err != nil {
		return nil, err
	}
	id, ok := s.params[p]
	if !ok {
		id = strconv.Itoa(len(s.params) + 1)
		s.params[p] = id
	}
	el.SetAttr(vocab.AttrID, id)
	el.SetAttr(vocab.AttrName, p.Name)
	setFlag(el, vocab.AttrIsByRef, p.ByRef)
	return el, nil
}

func (s *encodeState) unary(u *ast.UnaryExpr) (*document.Node, error) {
	el, err := s.element(u)
	if err != nil {
		return nil, err
	}
	setFlag(el, vocab.AttrIsLifted, u.Lifted)
	setFlag(el, vocab.AttrIsLiftedToNull, u.LiftedToNull)
	if err := s.optionalRole(el, vocab.RoleOperand, u.Operand); err != nil {
		return nil, err
	}
	if u.Method != nil {
		if err := s.methodRole(el, vocab.RoleMethod, u.Method); err != nil {
			return nil, err
		}
	}
	return el, nil
}

func (s *encodeState) binary(b *ast.BinaryExpr) (*document.Node, error) {
	el, err := s.element(b)
	if err != nil {
		return nil, err
	}
	setFlag(el, vocab.AttrIsLifted, b.Lifted)
	setFlag(el, vocab.AttrIsLiftedToNull, b.LiftedToNull)
	if err := s.role(el, vocab.RoleLeft, b.Left); err != nil {
		return nil, err
	}
	if err := s.role(el, vocab.RoleRight, b.Right); err != nil {
		return nil, err
	}
	if b.Method != nil {
		if err := s.methodRole(el, vocab.RoleMethod, b.Method); err != nil {
			return nil, err
		}
	}
	if b.Conversion != nil {
		if err := s.role(el, vocab.RoleConversion, b.Conversion); err != nil {
			return nil, err
		}
	}
	return el, nil
}

func (s *encodeState) loop(l *ast.LoopExpr) (*document.Node, error) {
	el, err := s.element(l)
	if err != nil {
		return nil, err
	}
	if err := s.role(el, vocab.RoleBody, l.Body); err != nil {
		return nil, err
	}
	if l.Break != nil {
		if err := s.labelRole(el, vocab.RoleBreakLabel, l.Break); err != nil {
			return nil, err
		}
	}
	if l.Continue != nil {
		if err := s.labelRole(el, vocab.RoleContinueLabel, l.Continue); err != nil {
			return nil, err
		}
	}
	return el, nil
}

func (s *encodeState) switchExpr(sw *ast.SwitchExpr) (*document.Node, error) {
	el, err := s.element(sw)
	if err != nil {
		return nil, err
	}
	if err := s.role(el, vocab.RoleSwitchValue, sw.Value); err != nil {
		return nil, err
	}
	cases := document.New(vocab.RoleCases)
	for _, c := range sw.Cases {
		ce := document.New(vocab.ElemSwitchCase)
		if err := s.list(ce, vocab.RoleTestValues, c.TestValues); err != nil {
			return nil, err
		}
		if err := s.role(ce, vocab.RoleBody, c.Body); err != nil {
			return nil, err
		}
		cases.Append(ce)
	}
	el.Append(cases)
	if err := s.optionalRole(el, vocab.RoleDefaultBody, sw.Default); err != nil {
		return nil, err
	}
	if sw.Comparison != nil {
		if err := s.methodRole(el, vocab.RoleComparison, sw.Comparison); err != nil {
			return nil, err
		}
	}
	return el, nil
}

func (s *encodeState) try(t *ast.TryExpr) (*document.Node, error) {
	el, err := s.element(t)
	if err != nil {
		return nil, err
	}
	if err := s.role(el, vocab.RoleBody, t.Body); err != nil {
		return nil, err
	}
	handlers := document.New(vocab.RoleHandlers)
	for _, h := range t.Handlers {
		he := document.New(vocab.ElemCatchBlock)
		tn, err := s.typeName(he.Name, h.Test)
		if err != nil {
			return nil, err
		}
		he.SetAttr(vocab.AttrTest, tn)
		if h.Variable != nil {
			if err := s.role(he, vocab.RoleVariable, h.Variable); err != nil {
				return nil, err
			}
		}
		if err := s.optionalRole(he, vocab.RoleFilter, h.Filter); err != nil {
			return nil, err
		}
		if err := s.role(he, vocab.RoleBody, h.Body); err != nil {
			return nil, err
		}
		handlers.Append(he)
	}
	el.Append(handlers)
	if err := s.optionalRole(el, vocab.RoleFinally, t.Finally); err != nil {
		return nil, err
	}
	return el, s.optionalRole(el, vocab.RoleFault, t.Fault)
}

func (s *encodeState) newExpr(n *ast.NewExpr) (*document.Node, error) {
	el, err := s.element(n)
	if err != nil {
		return nil, err
	}
	if n.Constructor != nil {
		if err := s.methodRole(el, vocab.RoleConstructor, n.Constructor); err != nil {
			return nil, err
		}
	}
	if err := s.list(el, vocab.RoleArguments, n.Arguments); err != nil {
		return nil, err
	}
	if n.Members != nil {
		if len(n.Members) != len(n.Arguments) {
			return nil, failf(el.Name, ErrSerialization, "%d members for %d arguments", len(n.Members), len(n.Arguments))
		}
		w := document.New(vocab.RoleMembers)
		for _, m := range n.Members {
			me, err := s.memberInfo(m)
			if err != nil {
				return nil, err
			}
			w.Append(me)
		}
		el.Append(w)
	}
	return el, nil
}

func (s *encodeState) lambda(l *ast.LambdaExpr) (*document.Node, error) {
	el, err := s.element(l)
	if err != nil {
		return nil, err
	}
	if l.Name != "" {
		el.SetAttr(vocab.AttrName, l.Name)
	}
	rt, err := s.typeName(el.Name, l.ReturnType)
	if err != nil {
		return nil, err
	}
	el.SetAttr(vocab.AttrReturnType, rt)
	setFlag(el, vocab.AttrTailCall, l.TailCall)
	if err := s.paramList(el, vocab.RoleParameters, l.Parameters); err != nil {
		return nil, err
	}
	return el, s.role(el, vocab.RoleBody, l.Body)
}

func (s *encodeState) elementInits(parent *document.Node, inits []*ast.ElementInit) error {
	w := document.New(vocab.RoleInitializers)
	for _, ei := range inits {
		e := document.New(vocab.ElemElementInit)
		if err := s.methodRole(e, vocab.RoleMethod, ei.AddMethod); err != nil {
			return err
		}
		if err := s.list(e, vocab.RoleArguments, ei.Arguments); err != nil {
			return err
		}
		w.Append(e)
	}
	parent.Append(w)
	return nil
}

func (s *encodeState) bindings(parent *document.Node, bs []ast.Binding) error {
	if err := s.enter(vocab.RoleBindings); err != nil {
		return err
	}
	defer s.leave()
	w := document.New(vocab.RoleBindings)
	for _, b := range bs {
		var e *document.Node
		switch b := b.(type) {
		case *ast.MemberAssignment:
			e = document.New(vocab.ElemMemberAssignment)
			if err := s.memberRole(e, vocab.RoleMember, b.Member); err != nil {
				return err
			}
			if err := s.role(e, vocab.RoleExpression, b.Expression); err != nil {
				return err
			}
		case *ast.MemberMemberBinding:
			e = document.New(vocab.ElemMemberMemberBinding)
			if err := s.memberRole(e, vocab.RoleMember, b.Member); err != nil {
				return err
			}
			if err := s.bindings(e, b.Bindings); err != nil {
				return err
			}
		case *ast.MemberListBinding:
			e = document.New(vocab.ElemMemberListBinding)
			if err := s.memberRole(e, vocab.RoleMember, b.Member); err != nil {
				return err
			}
			if err := s.elementInits(e, b.Initializers); err != nil {
				return err
			}
		default:
			return failf(vocab.RoleBindings, ErrUnsupportedNode, "binding %T", b)
		}
		w.Append(e)
	}
	parent.Append(w)
	return nil
}

// --- References ---

func (s *encodeState) labelRole(parent *document.Node, role string, l *ast.LabelTarget) error {
	el := document.New(vocab.ElemLabelTarget)
	id, ok := s.labels[l]
	if !ok {
		id = strconv.Itoa(len(s.labels) + 1)
		s.labels[l] = id
	}
	el.SetAttr(vocab.AttrID, id)
	if l.Name != "" {
		el.SetAttr(vocab.AttrName, l.Name)
	}
	tn, err := s.typeName(el.Name, l.Type())
	if err != nil {
		return err
	}
	el.SetAttr(vocab.AttrType, tn)
	parent.Append(document.New(role).Append(el))
	return nil
}

func (s *encodeState) methodRole(parent *document.Node, role string, m *ast.Method) error {
	if m == nil {
		return failf(role, ErrSerialization, "missing method reference")
	}
	el := document.New(vocab.ElemMethodInfo)
	el.SetAttr(vocab.AttrName, m.Name)
	if m.Declaring != nil {
		tn, err := s.typeName(el.Name, m.Declaring)
		if err != nil {
			return err
		}
		el.SetAttr(vocab.AttrDeclaringType, tn)
	}
	if m.Result != nil {
		tn, err := s.typeName(el.Name, m.Result)
		if err != nil {
			return err
		}
		el.SetAttr(vocab.AttrReturnType, tn)
	}
	for _, p := range m.Params {
		tn, err := s.typeName(el.Name, p)
		if err != nil {
			return err
		}
		el.Append(document.New(vocab.ElemParameterType).SetAttr(vocab.AttrType, tn))
	}
	parent.Append(document.New(role).Append(el))
	return nil
}

func (s *encodeState) memberInfo(m *ast.Member) (*document.Node, error) {
	el := document.New(vocab.ElemMemberInfo)
	el.SetAttr(vocab.AttrName, m.Name)
	el.SetAttr(vocab.AttrMemberKind, m.Kind.String())
	if m.Declaring != nil {
		tn, err := s.typeName(el.Name, m.Declaring)
		if err != nil {
			return nil, err
		}
		el.SetAttr(vocab.AttrDeclaringType, tn)
	}
	tn, err := s.typeName(el.Name, m.Type)
	if err != nil {
		return nil, err
	}
	el.SetAttr(vocab.AttrType, tn)
	return el, nil
}

func (s *encodeState) memberRole(parent *document.Node, role string, m *ast.Member) error {
	if m == nil {
		return failf(role, ErrSerialization, "missing member reference")
	}
	el, err := s.memberInfo(m)
	if err != nil {
		return err
	}
	parent.Append(document.New(role).Append(el))
	return nil
}

// --- Constants ---

func (s *encodeState) constant(c *ast.ConstantExpr) (*document.Node, error) {
	el, err := s.element(c)
	if err != nil {
		return nil, err
	}
	if c.Value == nil {
		// Strings are the one non-nullable type with a null constant.
		if t := c.ResultType; !nilable(t) && t.Kind() != reflect.String {
			return nil, failf(el.Name, ErrSerialization, "nil constant of non-nullable type %s", t)
		}
		el.SetAttr(vocab.AttrNil, "true")
		return el, nil
	}
	v := reflect.ValueOf(c.Value)
	if !v.Type().AssignableTo(c.ResultType) {
		return nil, failf(el.Name, ErrSerialization, "value of type %s does not fit declared type %s", v.Type(), c.ResultType)
	}
	return el, s.value(el, c.ResultType, v)
}

// value writes v, declared as t, into el: as text for scalars, as item,
// entry or member children for containers, or as a nil marker.
func (s *encodeState) value(el *document.Node, t reflect.Type, v reflect.Value) error {
	if err := s.enter(el.Name); err != nil {
		return err
	}
	defer s.leave()

	if t.Kind() == reflect.Interface {
		if v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		if !v.IsValid() {
			el.SetAttr(vocab.AttrNil, "true")
			return nil
		}
		vt, err := s.typeName(el.Name, v.Type())
		if err != nil {
			return err
		}
		el.SetAttr(vocab.AttrValueType, vt)
		t = v.Type()
	}
	if isNil(v) {
		el.SetAttr(vocab.AttrNil, "true")
		return nil
	}

	switch class := typereg.Classify(t); class {
	case typereg.ClassPrimitive, typereg.ClassScalar, typereg.ClassEnum:
		text, err := formatScalar(v)
		if err != nil {
			return failf(el.Name, ErrSerialization, "%v", err)
		}
		el.Text = text
	case typereg.ClassBytes:
		el.Text = formatBytes(v.Bytes())
	case typereg.ClassNullable:
		return s.value(el, t.Elem(), v.Elem())
	case typereg.ClassSequence:
		for i := 0; i < v.Len(); i++ {
			item := document.New(vocab.ElemItem)
			if err := s.value(item, t.Elem(), v.Index(i)); err != nil {
				return err
			}
			el.Append(item)
		}
	case typereg.ClassDictionary:
		return s.dictionary(el, t, v)
	case typereg.ClassTuple, typereg.ClassAnonymous, typereg.ClassObject:
		return s.members(el, t, v)
	default:
		return failf(el.Name, ErrSerialization, "cannot write a constant of %s type %s", class, t)
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func (s *encodeState) dictionary(el *document.Node, t reflect.Type, v reflect.Value) error {
	type entry struct {
		sortKey string
		node    *document.Node
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key := document.New(vocab.RoleKey)
		if err := s.value(key, t.Key(), iter.Key()); err != nil {
			return err
		}
		val := document.New(vocab.RoleValue)
		if err := s.value(val, t.Elem(), iter.Value()); err != nil {
			return err
		}
		entries = append(entries, entry{
			sortKey: canonicalText(key),
			node:    document.New(vocab.ElemEntry).Append(key, val),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].sortKey < entries[j].sortKey })
	for _, e := range entries {
		el.Append(e.node)
	}
	return nil
}

// canonicalText flattens a value element into a string that orders map
// entries deterministically.
func canonicalText(n *document.Node) string {
	var sb strings.Builder
	var walk func(*document.Node)
	walk = func(n *document.Node) {
		sb.WriteString(n.Name)
		for _, k := range n.AttrNames() {
			fmt.Fprintf(&sb, " %s=%q", k, n.Attrs[k])
		}
		fmt.Fprintf(&sb, "(%q", n.Text)
		for _, c := range n.Children {
			walk(c)
		}
		sb.WriteByte(')')
	}
	walk(n)
	return sb.String()
}

func (s *encodeState) members(el *document.Node, t reflect.Type, v reflect.Value) error {
	if describes(t) {
		ms, err := describe(v)
		if err != nil {
			return failf(el.Name, ErrSerialization, "%v", err)
		}
		for _, m := range ms {
			me, err := s.member(m.Name)
			if err != nil {
				return err
			}
			tn, err := s.typeName(me.Name, m.Type)
			if err != nil {
				return err
			}
			me.SetAttr(vocab.AttrType, tn)
			var mv reflect.Value
			if m.Value != nil {
				mv = reflect.ValueOf(m.Value)
			}
			if mv.IsValid() && !mv.Type().AssignableTo(m.Type) {
				return failf(me.Name, ErrSerialization, "member %s: %s does not fit %s", m.Name, mv.Type(), m.Type)
			}
			if !mv.IsValid() {
				me.SetAttr(vocab.AttrNil, "true")
			} else if err := s.value(me, m.Type, mv); err != nil {
				return err
			}
			el.Append(me)
		}
		return nil
	}

	v = accessible(v)
	for _, f := range fields(t, s.opts.Members) {
		me, err := s.member(f.name)
		if err != nil {
			return err
		}
		if err := s.value(me, f.typ, fieldValue(v, f.index)); err != nil {
			return err
		}
		el.Append(me)
	}
	return nil
}

func (s *encodeState) member(name string) (*document.Node, error) {
	n, err := memberName(name, s.opts.Identifiers)
	if err != nil {
		return nil, wrap(vocab.RoleMember, fmt.Errorf("%w: %w", ErrSerialization, err))
	}
	return document.New(vocab.RoleMember).SetAttr(vocab.AttrName, n), nil
}
