package ast

import (
	"fmt"
	"reflect"
	"strings"
)

// Method references a function or method by signature. Declaring is nil for
// package-level functions; Result is nil when the method returns nothing.
type Method struct {
	Declaring reflect.Type
	Name      string
	Params    []reflect.Type
	Result    reflect.Type
}

func (m *Method) String() string {
	var sb strings.Builder
	if m.Declaring != nil {
		sb.WriteString(m.Declaring.String())
		sb.WriteByte('.')
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(typeString(p))
	}
	sb.WriteByte(')')
	if m.Result != nil {
		sb.WriteByte(' ')
		sb.WriteString(typeString(m.Result))
	}
	return sb.String()
}

// MemberKind distinguishes fields from accessor-backed members.
type MemberKind int

const (
	FieldMember MemberKind = iota
	PropertyMember
	MethodMember
)

var memberKindNames = [...]string{"field", "property", "method"}

func (k MemberKind) String() string {
	if k >= 0 && int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return fmt.Sprintf("MemberKind(%d)", int(k))
}

// ParseMemberKind is the inverse of MemberKind.String.
func ParseMemberKind(s string) (MemberKind, bool) {
	for i, n := range memberKindNames {
		if n == s {
			return MemberKind(i), true
		}
	}
	return 0, false
}

// Member references a field, property or method of Declaring.
type Member struct {
	Declaring reflect.Type
	Name      string
	Kind      MemberKind
	Type      reflect.Type
}

func (m *Member) String() string {
	if m.Declaring == nil {
		return m.Name
	}
	return m.Declaring.String() + "." + m.Name
}

// FieldOf returns a field member of t. It panics if t has no such field.
func FieldOf(t reflect.Type, name string) *Member {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	f, ok := st.FieldByName(name)
	if !ok {
		panic(fmt.Sprintf("ast: %s has no field %s", t, name))
	}
	return &Member{Declaring: t, Name: name, Kind: FieldMember, Type: f.Type}
}

// MethodOf returns a method reference for the named method of t, with the
// receiver left out of Params. It panics if t has no such method.
func MethodOf(t reflect.Type, name string) *Method {
	m, ok := t.MethodByName(name)
	if !ok {
		panic(fmt.Sprintf("ast: %s has no method %s", t, name))
	}
	ft := m.Type
	start := 0
	if t.Kind() != reflect.Interface {
		start = 1
	}
	ref := &Method{Declaring: t, Name: name}
	for i := start; i < ft.NumIn(); i++ {
		ref.Params = append(ref.Params, ft.In(i))
	}
	if ft.NumOut() > 0 {
		ref.Result = ft.Out(0)
	}
	return ref
}

// BindingType identifies the kind of a member binding.
type BindingType int

const (
	AssignmentBinding BindingType = iota
	MemberBindingKind
	ListBinding
)

// Binding is one member initializer inside a MemberInitExpr.
type Binding interface {
	BindingType() BindingType
	BoundMember() *Member
	binding()
}

// MemberAssignment sets Member to Expression.
type MemberAssignment struct {
	Member     *Member
	Expression Node
}

func (m *MemberAssignment) BindingType() BindingType { return AssignmentBinding }
func (m *MemberAssignment) BoundMember() *Member     { return m.Member }
func (m *MemberAssignment) binding()                 {}

// MemberMemberBinding recursively binds members of Member.
type MemberMemberBinding struct {
	Member   *Member
	Bindings []Binding
}

func (m *MemberMemberBinding) BindingType() BindingType { return MemberBindingKind }
func (m *MemberMemberBinding) BoundMember() *Member     { return m.Member }
func (m *MemberMemberBinding) binding()                 {}

// MemberListBinding adds elements to the collection held in Member.
type MemberListBinding struct {
	Member       *Member
	Initializers []*ElementInit
}

func (m *MemberListBinding) BindingType() BindingType { return ListBinding }
func (m *MemberListBinding) BoundMember() *Member     { return m.Member }
func (m *MemberListBinding) binding()                 {}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t == VoidType {
		return "void"
	}
	return t.String()
}
