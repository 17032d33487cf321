package ast

import (
	"fmt"
	"reflect"
)

var (
	boolType    = reflect.TypeFor[bool]()
	intType     = reflect.TypeFor[int]()
	errorType   = reflect.TypeFor[error]()
	variantList = reflect.TypeFor[[]any]()
)

// Factory centralizes node construction. Its constructors compute result
// types and lifting flags the same way for every caller, so trees built by
// hand and trees rebuilt by a decoder agree.
type Factory struct{}

// NewFactory returns a new Factory.
func NewFactory() *Factory { return &Factory{} }

// --- Terminals ---

// Constant creates a constant whose type is the dynamic type of v. Use
// TypedConstant for nil values.
func (f *Factory) Constant(v any) *ConstantExpr {
	if v == nil {
		panic("ast: Constant(nil) needs an explicit type, use TypedConstant")
	}
	return &ConstantExpr{Value: v, ResultType: reflect.TypeOf(v)}
}

// TypedConstant creates a constant of declared type t.
func (f *Factory) TypedConstant(v any, t reflect.Type) *ConstantExpr {
	return &ConstantExpr{Value: v, ResultType: t}
}

// Parameter creates a lambda parameter.
func (f *Factory) Parameter(t reflect.Type, name string) *ParameterExpr {
	return &ParameterExpr{Name: name, ResultType: t}
}

// ByRefParameter creates a parameter passed by reference.
func (f *Factory) ByRefParameter(t reflect.Type, name string) *ParameterExpr {
	return &ParameterExpr{Name: name, ResultType: t, ByRef: true}
}

// Variable creates a block or catch variable.
func (f *Factory) Variable(t reflect.Type, name string) *ParameterExpr {
	return &ParameterExpr{Name: name, ResultType: t}
}

// Default creates the zero value of t.
func (f *Factory) Default(t reflect.Type) *DefaultExpr {
	return &DefaultExpr{ResultType: t}
}

// Empty is a void no-op.
func (f *Factory) Empty() *DefaultExpr {
	return &DefaultExpr{ResultType: VoidType}
}

// --- Unary ---

// MakeUnary creates a unary node. t is only consulted for the operators
// that carry an explicit target type (conversions, TypeAs, Unbox, Throw);
// it may be nil for the rest.
func (f *Factory) MakeUnary(op NodeType, operand Node, t reflect.Type) *UnaryExpr {
	if !op.IsUnary() {
		panic(fmt.Sprintf("ast: %s is not a unary operator", op))
	}
	u := &UnaryExpr{Op: op, Operand: operand}
	switch op {
	case Convert, ConvertChecked, TypeAs, Unbox:
		u.ResultType = t
	case Throw:
		u.ResultType = VoidType
		if t != nil {
			u.ResultType = t
		}
	case ArrayLength:
		u.ResultType = intType
	case IsTrue, IsFalse:
		u.ResultType = boolType
	default:
		u.ResultType = operand.Type()
		if isNullable(operand.Type()) {
			u.Lifted = true
			u.LiftedToNull = true
		}
	}
	return u
}

func (f *Factory) Negate(operand Node) *UnaryExpr { return f.MakeUnary(Negate, operand, nil) }
func (f *Factory) Not(operand Node) *UnaryExpr    { return f.MakeUnary(Not, operand, nil) }

// Convert converts operand to t.
func (f *Factory) Convert(operand Node, t reflect.Type) *UnaryExpr {
	return f.MakeUnary(Convert, operand, t)
}

// TypeAs is a checked type assertion yielding nil on failure.
func (f *Factory) TypeAs(operand Node, t reflect.Type) *UnaryExpr {
	return f.MakeUnary(TypeAs, operand, t)
}

// Quote wraps a lambda so it is treated as a tree, not compiled.
func (f *Factory) Quote(l *LambdaExpr) *UnaryExpr { return f.MakeUnary(Quote, l, nil) }

// ArrayLength yields len(operand).
func (f *Factory) ArrayLength(operand Node) *UnaryExpr {
	return f.MakeUnary(ArrayLength, operand, nil)
}

// Throw raises value, which must be an error.
func (f *Factory) Throw(value Node) *UnaryExpr { return f.MakeUnary(Throw, value, nil) }

// Rethrow re-raises the error being handled by the enclosing catch block.
func (f *Factory) Rethrow() *UnaryExpr {
	return &UnaryExpr{Op: Throw, ResultType: VoidType}
}

// UnaryMethod creates a unary node implemented by a user-defined operator.
func (f *Factory) UnaryMethod(op NodeType, operand Node, m *Method) *UnaryExpr {
	u := f.MakeUnary(op, operand, m.Result)
	u.Method = m
	if m.Result != nil {
		u.ResultType = m.Result
	}
	return u
}

// --- Binary ---

// MakeBinary creates a binary node and computes its result type.
// Arithmetic over nullable operands is lifted to null; comparisons over
// nullable operands are lifted but still yield bool.
func (f *Factory) MakeBinary(op NodeType, left, right Node) *BinaryExpr {
	return f.makeBinary(op, left, right, false)
}

// MakeBinaryLifted is MakeBinary, except lifted comparisons yield *bool.
func (f *Factory) MakeBinaryLifted(op NodeType, left, right Node) *BinaryExpr {
	return f.makeBinary(op, left, right, true)
}

func (f *Factory) makeBinary(op NodeType, left, right Node, liftToNull bool) *BinaryExpr {
	if !op.IsBinary() {
		panic(fmt.Sprintf("ast: %s is not a binary operator", op))
	}
	b := &BinaryExpr{Op: op, Left: left, Right: right}
	lt := left.Type()
	switch {
	case op.IsAssignment():
		b.ResultType = lt
	case op == Coalesce:
		b.ResultType = right.Type()
	case op == ArrayIndex:
		b.ResultType = lt.Elem()
	case op == AndAlso || op == OrElse:
		b.ResultType = boolType
		if isNullable(lt) {
			b.ResultType = lt
			b.Lifted = true
			b.LiftedToNull = true
		}
	case op.IsComparison():
		b.ResultType = boolType
		if isNullable(lt) && isNullable(right.Type()) {
			b.Lifted = true
			if liftToNull {
				b.LiftedToNull = true
				b.ResultType = reflect.PointerTo(boolType)
			}
		}
	default:
		b.ResultType = lt
		if isNullable(lt) {
			b.Lifted = true
			b.LiftedToNull = true
		}
	}
	return b
}

func (f *Factory) Add(l, r Node) *BinaryExpr         { return f.MakeBinary(Add, l, r) }
func (f *Factory) Subtract(l, r Node) *BinaryExpr    { return f.MakeBinary(Subtract, l, r) }
func (f *Factory) Multiply(l, r Node) *BinaryExpr    { return f.MakeBinary(Multiply, l, r) }
func (f *Factory) Divide(l, r Node) *BinaryExpr      { return f.MakeBinary(Divide, l, r) }
func (f *Factory) Modulo(l, r Node) *BinaryExpr      { return f.MakeBinary(Modulo, l, r) }
func (f *Factory) Equal(l, r Node) *BinaryExpr       { return f.MakeBinary(Equal, l, r) }
func (f *Factory) NotEqual(l, r Node) *BinaryExpr    { return f.MakeBinary(NotEqual, l, r) }
func (f *Factory) LessThan(l, r Node) *BinaryExpr    { return f.MakeBinary(LessThan, l, r) }
func (f *Factory) GreaterThan(l, r Node) *BinaryExpr { return f.MakeBinary(GreaterThan, l, r) }
func (f *Factory) AndAlso(l, r Node) *BinaryExpr     { return f.MakeBinary(AndAlso, l, r) }
func (f *Factory) OrElse(l, r Node) *BinaryExpr      { return f.MakeBinary(OrElse, l, r) }
func (f *Factory) Assign(l, r Node) *BinaryExpr      { return f.MakeBinary(Assign, l, r) }
func (f *Factory) ArrayIndex(l, r Node) *BinaryExpr  { return f.MakeBinary(ArrayIndex, l, r) }

// Coalesce yields left unless it is nil, in which case it yields right.
// conversion is optional.
func (f *Factory) Coalesce(left, right Node, conversion *LambdaExpr) *BinaryExpr {
	b := f.MakeBinary(Coalesce, left, right)
	b.Conversion = conversion
	return b
}

// BinaryMethod creates a binary node implemented by a user-defined operator.
func (f *Factory) BinaryMethod(op NodeType, left, right Node, m *Method) *BinaryExpr {
	b := f.MakeBinary(op, left, right)
	b.Method = m
	if m.Result != nil {
		b.ResultType = m.Result
	}
	return b
}

// TypeIs tests whether expr's dynamic type is assignable to t.
func (f *Factory) TypeIs(expr Node, t reflect.Type) *TypeBinaryExpr {
	return &TypeBinaryExpr{Op: TypeIs, Expression: expr, TypeOperand: t, ResultType: boolType}
}

// TypeEqual tests whether expr's dynamic type is exactly t.
func (f *Factory) TypeEqual(expr Node, t reflect.Type) *TypeBinaryExpr {
	return &TypeBinaryExpr{Op: TypeEqual, Expression: expr, TypeOperand: t, ResultType: boolType}
}

// --- Control ---

// Condition creates test ? ifTrue : ifFalse typed as ifTrue.
func (f *Factory) Condition(test, ifTrue, ifFalse Node) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, ResultType: ifTrue.Type()}
}

// IfThen is a void conditional without an else branch.
func (f *Factory) IfThen(test, ifTrue Node) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: f.Empty(), ResultType: VoidType}
}

// Label creates a jump target. A nil t means void.
func (f *Factory) Label(t reflect.Type, name string) *LabelTarget {
	if t == nil {
		t = VoidType
	}
	return &LabelTarget{Name: name, ResultType: t}
}

// LabelAt places target inside a block.
func (f *Factory) LabelAt(target *LabelTarget, defaultValue Node) *LabelExpr {
	return &LabelExpr{Target: target, DefaultValue: defaultValue, ResultType: target.Type()}
}

// MakeGoto creates a jump of the given kind.
func (f *Factory) MakeGoto(kind GotoKind, target *LabelTarget, value Node) *GotoExpr {
	return &GotoExpr{Kind: kind, Target: target, Value: value, ResultType: VoidType}
}

func (f *Factory) Goto(target *LabelTarget) *GotoExpr {
	return f.MakeGoto(GotoJump, target, nil)
}

func (f *Factory) Return(target *LabelTarget, value Node) *GotoExpr {
	return f.MakeGoto(GotoReturn, target, value)
}

func (f *Factory) Break(target *LabelTarget, value Node) *GotoExpr {
	return f.MakeGoto(GotoBreak, target, value)
}

func (f *Factory) Continue(target *LabelTarget) *GotoExpr {
	return f.MakeGoto(GotoContinue, target, nil)
}

// Loop repeats body. Break and continue targets are optional.
func (f *Factory) Loop(body Node, brk, cont *LabelTarget) *LoopExpr {
	t := VoidType
	if brk != nil {
		t = brk.Type()
	}
	return &LoopExpr{Body: body, Break: brk, Continue: cont, ResultType: t}
}

// Case creates a switch case.
func (f *Factory) Case(body Node, tests ...Node) *SwitchCase {
	return &SwitchCase{TestValues: tests, Body: body}
}

// Switch creates a switch typed after its first case, or void without cases.
func (f *Factory) Switch(value, defaultBody Node, cases ...*SwitchCase) *SwitchExpr {
	t := VoidType
	switch {
	case len(cases) > 0:
		t = cases[0].Body.Type()
	case defaultBody != nil:
		t = defaultBody.Type()
	}
	return &SwitchExpr{Value: value, Cases: cases, Default: defaultBody, ResultType: t}
}

// Catch handles errors of type t, binding them to variable when it is set.
func (f *Factory) Catch(t reflect.Type, variable *ParameterExpr, body Node) *CatchBlock {
	if t == nil {
		t = errorType
	}
	return &CatchBlock{Test: t, Variable: variable, Body: body}
}

// CatchFilter is Catch with a boolean filter.
func (f *Factory) CatchFilter(t reflect.Type, variable *ParameterExpr, filter, body Node) *CatchBlock {
	c := f.Catch(t, variable, body)
	c.Filter = filter
	return c
}

// TryCatch creates a try with handlers.
func (f *Factory) TryCatch(body Node, handlers ...*CatchBlock) *TryExpr {
	return &TryExpr{Body: body, Handlers: handlers, ResultType: body.Type()}
}

// TryCatchFinally creates a try with handlers and a finally block.
func (f *Factory) TryCatchFinally(body, finally Node, handlers ...*CatchBlock) *TryExpr {
	return &TryExpr{Body: body, Handlers: handlers, Finally: finally, ResultType: body.Type()}
}

// TryFault creates a try whose fault block runs only when body fails.
func (f *Factory) TryFault(body, fault Node) *TryExpr {
	return &TryExpr{Body: body, Fault: fault, ResultType: body.Type()}
}

// Block evaluates exprs in order and yields the last one.
func (f *Factory) Block(vars []*ParameterExpr, exprs ...Node) *BlockExpr {
	t := VoidType
	if n := len(exprs); n > 0 {
		t = exprs[n-1].Type()
	}
	return &BlockExpr{Variables: vars, Expressions: exprs, ResultType: t}
}

// --- Invocation and construction ---

// Call calls m on obj, or calls a package-level function when obj is nil.
func (f *Factory) Call(obj Node, m *Method, args ...Node) *CallExpr {
	return &CallExpr{Object: obj, Method: m, Arguments: args, ResultType: resultOf(m)}
}

// Invoke calls a function-valued expression.
func (f *Factory) Invoke(fn Node, args ...Node) *InvokeExpr {
	t := VoidType
	if ft := fn.Type(); ft.Kind() == reflect.Func && ft.NumOut() > 0 {
		t = ft.Out(0)
	}
	return &InvokeExpr{Expression: fn, Arguments: args, ResultType: t}
}

// New calls a constructor function.
func (f *Factory) New(ctor *Method, args ...Node) *NewExpr {
	return &NewExpr{Constructor: ctor, Arguments: args, ResultType: resultOf(ctor)}
}

// NewZero creates the zero value of t through a New node.
func (f *Factory) NewZero(t reflect.Type) *NewExpr {
	return &NewExpr{ResultType: t}
}

// NewAnonymous constructs an unnamed struct, assigning args to members in
// order.
func (f *Factory) NewAnonymous(t reflect.Type, members []*Member, args ...Node) *NewExpr {
	if len(members) != len(args) {
		panic("ast: NewAnonymous needs one argument per member")
	}
	return &NewExpr{Arguments: args, Members: members, ResultType: t}
}

// NewArrayInit creates a slice of elem from the given elements.
func (f *Factory) NewArrayInit(elem reflect.Type, exprs ...Node) *NewArrayExpr {
	return &NewArrayExpr{Op: NewArrayInit, Expressions: exprs, ResultType: reflect.SliceOf(elem)}
}

// NewArrayBounds creates a (possibly nested) slice of elem with the given
// lengths.
func (f *Factory) NewArrayBounds(elem reflect.Type, bounds ...Node) *NewArrayExpr {
	t := elem
	for range bounds {
		t = reflect.SliceOf(t)
	}
	return &NewArrayExpr{Op: NewArrayBounds, Expressions: bounds, ResultType: t}
}

// ElementInit adds args through add.
func (f *Factory) ElementInit(add *Method, args ...Node) *ElementInit {
	return &ElementInit{AddMethod: add, Arguments: args}
}

// ListInit constructs a collection with new and fills it.
func (f *Factory) ListInit(n *NewExpr, inits ...*ElementInit) *ListInitExpr {
	return &ListInitExpr{New: n, Initializers: inits, ResultType: n.Type()}
}

// MemberInit constructs a value with n and applies bindings.
func (f *Factory) MemberInit(n *NewExpr, bindings ...Binding) *MemberInitExpr {
	return &MemberInitExpr{New: n, Bindings: bindings, ResultType: n.Type()}
}

// Bind assigns expr to m.
func (f *Factory) Bind(m *Member, expr Node) *MemberAssignment {
	return &MemberAssignment{Member: m, Expression: expr}
}

// MemberBind applies bindings to the members of m.
func (f *Factory) MemberBind(m *Member, bindings ...Binding) *MemberMemberBinding {
	return &MemberMemberBinding{Member: m, Bindings: bindings}
}

// ListBind fills the collection held by m.
func (f *Factory) ListBind(m *Member, inits ...*ElementInit) *MemberListBinding {
	return &MemberListBinding{Member: m, Initializers: inits}
}

// --- Member access ---

// MemberAccess reads m from obj. obj is nil for package-level variables.
func (f *Factory) MemberAccess(obj Node, m *Member) *MemberAccessExpr {
	return &MemberAccessExpr{Expression: obj, Member: m, ResultType: m.Type}
}

// Field reads the named field of obj.
func (f *Factory) Field(obj Node, name string) *MemberAccessExpr {
	return f.MemberAccess(obj, FieldOf(obj.Type(), name))
}

// Index indexes obj. A nil indexer indexes a slice, array or map directly.
func (f *Factory) Index(obj Node, indexer *Member, args ...Node) *IndexExpr {
	var t reflect.Type
	switch {
	case indexer != nil:
		t = indexer.Type
	case obj != nil:
		t = obj.Type().Elem()
	default:
		panic("ast: Index needs an object or an indexer")
	}
	return &IndexExpr{Object: obj, Indexer: indexer, Arguments: args, ResultType: t}
}

// --- Closures ---

// Lambda creates a closure over params. The function type has one result
// unless body is void.
func (f *Factory) Lambda(body Node, params ...*ParameterExpr) *LambdaExpr {
	return f.NamedLambda("", body, false, params...)
}

// NamedLambda is Lambda with a name and a tail-call hint.
func (f *Factory) NamedLambda(name string, body Node, tailCall bool, params ...*ParameterExpr) *LambdaExpr {
	ret := body.Type()
	return &LambdaExpr{
		Name:       name,
		Parameters: params,
		Body:       body,
		ReturnType: ret,
		TailCall:   tailCall,
		ResultType: FuncType(ret, params...),
	}
}

// FuncType is the function type of a lambda over params returning ret.
func FuncType(ret reflect.Type, params ...*ParameterExpr) reflect.Type {
	in := make([]reflect.Type, len(params))
	for i, p := range params {
		in[i] = p.Type()
	}
	var out []reflect.Type
	if ret != nil && ret != VoidType {
		out = []reflect.Type{ret}
	}
	return reflect.FuncOf(in, out, false)
}

// --- Nodes that are not serialized ---

// DebugInfo creates a sequence point.
func (f *Factory) DebugInfo(file string, startLine, startCol, endLine, endCol int) *DebugInfoExpr {
	return &DebugInfoExpr{File: file, StartLine: startLine, StartColumn: startCol, EndLine: endLine, EndColumn: endCol}
}

// ClearDebugInfo clears the current sequence point.
func (f *Factory) ClearDebugInfo(file string) *DebugInfoExpr {
	return &DebugInfoExpr{File: file, Clear: true}
}

// Dynamic creates a late-bound operation.
func (f *Factory) Dynamic(binder string, t reflect.Type, args ...Node) *DynamicExpr {
	return &DynamicExpr{Binder: binder, Arguments: args, ResultType: t}
}

// RuntimeVariables captures vars.
func (f *Factory) RuntimeVariables(vars ...*ParameterExpr) *RuntimeVariablesExpr {
	return &RuntimeVariablesExpr{Variables: vars, ResultType: variantList}
}

func resultOf(m *Method) reflect.Type {
	if m == nil || m.Result == nil {
		return VoidType
	}
	return m.Result
}

func isNullable(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Pointer
}
