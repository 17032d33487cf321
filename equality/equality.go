package equality

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"slices"
	"time"
	"unsafe"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/vocab"
)

// Difference is the first point where two trees disagree.
type Difference struct {
	Path  string // position in the left tree, e.g. "add/left"
	Field string // what differs: "nodeType", "type", "value", ...
	Left  any
	Right any
}

func (d *Difference) String() string {
	if d.Field == "value" {
		return fmt.Sprintf("%s: value differs: %v (%T) != %v (%T)", d.Path, d.Left, d.Left, d.Right, d.Right)
	}
	return fmt.Sprintf("%s: %s differs: %v != %v", d.Path, d.Field, d.Left, d.Right)
}

// Result is the outcome of Compare.
type Result struct {
	Equal      bool
	Difference *Difference // nil when Equal
	Compared   int         // items compared before stopping
}

// DeepEquals reports whether a and b describe the same computation.
func DeepEquals(a, b ast.Node) bool {
	return Compare(a, b).Equal
}

// Compare compares a and b, skipping DefaultSkip nodes, and reports the
// first difference.
func Compare(a, b ast.Node) Result {
	return CompareWith(a, b, DefaultSkip)
}

// CompareWith is Compare with a caller-chosen skip predicate.
func CompareWith(a, b ast.Node, skip Predicate) Result {
	ok, d, n := compare(Linearize(a, skip), Linearize(b, skip))
	return Result{Equal: ok, Difference: d, Compared: n}
}

// CompareSequences compares two linearized trees item by item.
func CompareSequences(a, b []Item) (bool, *Difference) {
	ok, d, _ := compare(a, b)
	return ok, d
}

func compare(a, b []Item) (bool, *Difference, int) {
	c := &comparer{
		params:  make(map[*ast.ParameterExpr]*ast.ParameterExpr),
		rparams: make(map[*ast.ParameterExpr]*ast.ParameterExpr),
		labels:  make(map[*ast.LabelTarget]*ast.LabelTarget),
		rlabels: make(map[*ast.LabelTarget]*ast.LabelTarget),
	}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if d := c.item(a[i], b[i]); d != nil {
			return false, d, i + 1
		}
	}
	if len(a) != len(b) {
		path := ""
		if n < len(a) {
			path = a[n].Path
		} else if n > 0 {
			path = a[n-1].Path
		}
		return false, &Difference{Path: path, Field: "length", Left: len(a), Right: len(b)}, n
	}
	return true, nil, n
}

// comparer holds the parameter and label correspondences established so
// far. Both directions are tracked so the mapping stays one to one.
type comparer struct {
	params, rparams map[*ast.ParameterExpr]*ast.ParameterExpr
	labels, rlabels map[*ast.LabelTarget]*ast.LabelTarget
}

func diff(path, field string, l, r any) *Difference {
	return &Difference{Path: path, Field: field, Left: l, Right: r}
}

func (c *comparer) item(a, b Item) *Difference {
	if a.Kind != b.Kind {
		return diff(a.Path, "kind", a.Kind, b.Kind)
	}
	if a.Children != b.Children {
		if d := c.header(a, b); d != nil {
			return d
		}
		return diff(a.Path, "children", a.Children, b.Children)
	}
	return c.header(a, b)
}

// header compares everything an item carries except its children.
func (c *comparer) header(a, b Item) *Difference {
	switch a.Kind {
	case NilItem:
		return nil
	case NodeItem:
		return c.node(a.Path, a.Node, b.Node)
	case CaseItem:
		if len(a.Case.TestValues) != len(b.Case.TestValues) {
			return diff(a.Path, "testValues", len(a.Case.TestValues), len(b.Case.TestValues))
		}
	case HandlerItem:
		if a.Handler.Test != b.Handler.Test {
			return diff(a.Path, "test", a.Handler.Test, b.Handler.Test)
		}
	case InitItem:
		if !sameMethod(a.Init.AddMethod, b.Init.AddMethod) {
			return diff(a.Path, "method", a.Init.AddMethod, b.Init.AddMethod)
		}
	case BindingItem:
		if a.Binding.BindingType() != b.Binding.BindingType() {
			return diff(a.Path, "bindingType", a.Binding.BindingType(), b.Binding.BindingType())
		}
		if !sameMember(a.Binding.BoundMember(), b.Binding.BoundMember()) {
			return diff(a.Path, "member", a.Binding.BoundMember(), b.Binding.BoundMember())
		}
	}
	return nil
}

func (c *comparer) node(path string, a, b ast.Node) *Difference {
	if a.NodeType() != b.NodeType() {
		return diff(path, "nodeType", vocab.Kind(a.NodeType()), vocab.Kind(b.NodeType()))
	}
	if a.Type() != b.Type() {
		return diff(path, "type", a.Type(), b.Type())
	}

	switch a := a.(type) {
	case *ast.ConstantExpr:
		av, bv := constantValue(a), constantValue(b.(*ast.ConstantExpr))
		if !ValuesEqual(av, bv) {
			return diff(path, "value", av, bv)
		}
	case *ast.ParameterExpr:
		return c.param(path, a, b.(*ast.ParameterExpr))
	case *ast.UnaryExpr:
		b := b.(*ast.UnaryExpr)
		if a.Lifted != b.Lifted || a.LiftedToNull != b.LiftedToNull {
			return diff(path, "lifted", liftFlags(a.Lifted, a.LiftedToNull), liftFlags(b.Lifted, b.LiftedToNull))
		}
		if !sameMethod(a.Method, b.Method) {
			return diff(path, "method", a.Method, b.Method)
		}
	case *ast.BinaryExpr:
		b := b.(*ast.BinaryExpr)
		if a.Lifted != b.Lifted || a.LiftedToNull != b.LiftedToNull {
			return diff(path, "lifted", liftFlags(a.Lifted, a.LiftedToNull), liftFlags(b.Lifted, b.LiftedToNull))
		}
		if !sameMethod(a.Method, b.Method) {
			return diff(path, "method", a.Method, b.Method)
		}
	case *ast.TypeBinaryExpr:
		b := b.(*ast.TypeBinaryExpr)
		if a.TypeOperand != b.TypeOperand {
			return diff(path, "typeOperand", a.TypeOperand, b.TypeOperand)
		}
	case *ast.LoopExpr:
		b := b.(*ast.LoopExpr)
		if d := c.label(path, "breakLabel", a.Break, b.Break); d != nil {
			return d
		}
		return c.label(path, "continueLabel", a.Continue, b.Continue)
	case *ast.SwitchExpr:
		b := b.(*ast.SwitchExpr)
		if len(a.Cases) != len(b.Cases) {
			return diff(path, "cases", len(a.Cases), len(b.Cases))
		}
		if !sameMethod(a.Comparison, b.Comparison) {
			return diff(path, "comparison", a.Comparison, b.Comparison)
		}
	case *ast.TryExpr:
		b := b.(*ast.TryExpr)
		if len(a.Handlers) != len(b.Handlers) {
			return diff(path, "handlers", len(a.Handlers), len(b.Handlers))
		}
	case *ast.GotoExpr:
		b := b.(*ast.GotoExpr)
		if a.Kind != b.Kind {
			return diff(path, "kind", a.Kind, b.Kind)
		}
		return c.label(path, "target", a.Target, b.Target)
	case *ast.LabelExpr:
		return c.label(path, "target", a.Target, b.(*ast.LabelExpr).Target)
	case *ast.BlockExpr:
		b := b.(*ast.BlockExpr)
		if len(a.Variables) != len(b.Variables) {
			return diff(path, "variables", len(a.Variables), len(b.Variables))
		}
	case *ast.CallExpr:
		b := b.(*ast.CallExpr)
		if !sameMethod(a.Method, b.Method) {
			return diff(path, "method", a.Method, b.Method)
		}
		if len(a.Arguments) != len(b.Arguments) {
			return diff(path, "arguments", len(a.Arguments), len(b.Arguments))
		}
	case *ast.InvokeExpr:
		b := b.(*ast.InvokeExpr)
		if len(a.Arguments) != len(b.Arguments) {
			return diff(path, "arguments", len(a.Arguments), len(b.Arguments))
		}
	case *ast.NewExpr:
		b := b.(*ast.NewExpr)
		if !sameMethod(a.Constructor, b.Constructor) {
			return diff(path, "constructor", a.Constructor, b.Constructor)
		}
		if (a.Members == nil) != (b.Members == nil) || !slices.EqualFunc(a.Members, b.Members, sameMember) {
			return diff(path, "members", a.Members, b.Members)
		}
	case *ast.ListInitExpr:
		b := b.(*ast.ListInitExpr)
		if len(a.Initializers) != len(b.Initializers) {
			return diff(path, "initializers", len(a.Initializers), len(b.Initializers))
		}
	case *ast.MemberInitExpr:
		b := b.(*ast.MemberInitExpr)
		if len(a.Bindings) != len(b.Bindings) {
			return diff(path, "bindings", len(a.Bindings), len(b.Bindings))
		}
	case *ast.MemberAccessExpr:
		b := b.(*ast.MemberAccessExpr)
		if !sameMember(a.Member, b.Member) {
			return diff(path, "member", a.Member, b.Member)
		}
	case *ast.IndexExpr:
		b := b.(*ast.IndexExpr)
		if !sameMember(a.Indexer, b.Indexer) {
			return diff(path, "indexer", a.Indexer, b.Indexer)
		}
	case *ast.LambdaExpr:
		b := b.(*ast.LambdaExpr)
		if a.Name != b.Name {
			return diff(path, "name", a.Name, b.Name)
		}
		if a.ReturnType != b.ReturnType {
			return diff(path, "returnType", a.ReturnType, b.ReturnType)
		}
		if a.TailCall != b.TailCall {
			return diff(path, "tailCall", a.TailCall, b.TailCall)
		}
		if len(a.Parameters) != len(b.Parameters) {
			return diff(path, "parameters", len(a.Parameters), len(b.Parameters))
		}
	case *ast.DebugInfoExpr:
		if *a != *b.(*ast.DebugInfoExpr) {
			return diff(path, "debugInfo", a, b)
		}
	case *ast.DynamicExpr:
		if a.Binder != b.(*ast.DynamicExpr).Binder {
			return diff(path, "binder", a.Binder, b.(*ast.DynamicExpr).Binder)
		}
	}
	return nil
}

func liftFlags(lifted, toNull bool) string {
	return fmt.Sprintf("lifted=%t liftedToNull=%t", lifted, toNull)
}

// param matches a and b, recording the pair on first sight.
func (c *comparer) param(path string, a, b *ast.ParameterExpr) *Difference {
	if a.Name != b.Name {
		return diff(path, "name", a.Name, b.Name)
	}
	if a.ByRef != b.ByRef {
		return diff(path, "isByRef", a.ByRef, b.ByRef)
	}
	pa, okA := c.params[a]
	pb, okB := c.rparams[b]
	switch {
	case !okA && !okB:
		c.params[a] = b
		c.rparams[b] = a
	case pa != b || pb != a:
		return diff(path, "parameter", a.Name, b.Name)
	}
	return nil
}

func (c *comparer) label(path, field string, a, b *ast.LabelTarget) *Difference {
	if a == nil || b == nil {
		if a != b {
			return diff(path, field, a, b)
		}
		return nil
	}
	if a.Name != b.Name || a.ResultType != b.ResultType {
		return diff(path, field, a.Name, b.Name)
	}
	la, okA := c.labels[a]
	lb, okB := c.rlabels[b]
	switch {
	case !okA && !okB:
		c.labels[a] = b
		c.rlabels[b] = a
	case la != b || lb != a:
		return diff(path, field, a.Name, b.Name)
	}
	return nil
}

func sameMethod(a, b *ast.Method) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.Declaring == b.Declaring && a.Result == b.Result &&
		slices.Equal(a.Params, b.Params)
}

func sameMember(a, b *ast.Member) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[*big.Rat]()
	uriType     = reflect.TypeFor[*url.URL]()
)

// constantValue gives an untyped nil the nil of the declared type, so
// TypedConstant(nil, *T) and TypedConstant((*T)(nil), *T) agree.
func constantValue(c *ast.ConstantExpr) any {
	if c.Value != nil || c.ResultType == nil {
		return c.Value
	}
	switch c.ResultType.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return reflect.Zero(c.ResultType).Interface()
	}
	return nil
}

// ValuesEqual compares two constant values. Dynamic types must be
// identical; floats compare by bit pattern so NaN equals NaN and 0 differs
// from -0; times compare as instants; decimals numerically.
func ValuesEqual(a, b any) bool {
	return valuesEqual(readable(reflect.ValueOf(a)), readable(reflect.ValueOf(b)))
}

func valuesEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case timeType:
		return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
	case decimalType:
		x, y := a.Interface().(*big.Rat), b.Interface().(*big.Rat)
		if x == nil || y == nil {
			return x == y
		}
		return x.Cmp(y) == 0
	case uriType:
		x, y := a.Interface().(*url.URL), b.Interface().(*url.URL)
		if x == nil || y == nil {
			return x == y
		}
		return x.String() == y.String()
	}

	switch a.Kind() {
	case reflect.Float32:
		return math.Float32bits(float32(a.Float())) == math.Float32bits(float32(b.Float()))
	case reflect.Float64:
		return math.Float64bits(a.Float()) == math.Float64bits(b.Float())
	case reflect.Complex64, reflect.Complex128:
		x, y := a.Complex(), b.Complex()
		return math.Float64bits(real(x)) == math.Float64bits(real(y)) &&
			math.Float64bits(imag(x)) == math.Float64bits(imag(y))
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return valuesEqual(a.Elem(), b.Elem())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return valuesEqual(readable(a.Elem()), readable(b.Elem()))
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}
		fallthrough
	case reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !valuesEqual(readable(a.Index(i)), readable(b.Index(i))) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		return mapsEqual(a, b)
	case reflect.Struct:
		a, b = addressable(a), addressable(b)
		for i := 0; i < a.NumField(); i++ {
			if !valuesEqual(field(a, i), field(b, i)) {
				return false
			}
		}
		return true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.String:
		return a.String() == b.String()
	}
	return false
}

// mapsEqual pairs entries whose keys and values are both equal. Keys
// compare bit-exact, so NaN keys find each other and 0 does not match -0.
func mapsEqual(a, b reflect.Value) bool {
	type entry struct{ key, val reflect.Value }
	rest := make([]entry, 0, b.Len())
	for iter := b.MapRange(); iter.Next(); {
		rest = append(rest, entry{readable(iter.Key()), readable(iter.Value())})
	}
	for iter := a.MapRange(); iter.Next(); {
		k, v := readable(iter.Key()), readable(iter.Value())
		i := slices.IndexFunc(rest, func(e entry) bool {
			return valuesEqual(k, e.key) && valuesEqual(v, e.val)
		})
		if i < 0 {
			return false
		}
		rest = slices.Delete(rest, i, i+1)
	}
	return len(rest) == 0
}

// readable returns v, or an equivalent value that allows Interface when v
// was reached through unexported fields and is addressable.
func readable(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

func field(v reflect.Value, i int) reflect.Value {
	return readable(v.Field(i))
}
