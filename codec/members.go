package codec

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rubiojr/exprdoc/ident"
	"github.com/rubiojr/exprdoc/typereg"
)

// Member is one named value of a custom-type constant.
type Member struct {
	Name  string
	Type  reflect.Type
	Value any
}

// Describer lets a type list its own members, in order, instead of having
// its struct fields enumerated.
type Describer interface {
	DescribeMembers() []Member
}

// Assembler rebuilds a value from the members its Describer produced. It is
// called on a pointer to the zero value.
type Assembler interface {
	AssembleMembers([]Member) error
}

var (
	describerType = reflect.TypeFor[Describer]()
	assemblerType = reflect.TypeFor[Assembler]()
)

// describes reports whether t encodes through Describer and decodes through
// Assembler. Both are required so the two directions agree.
func describes(t reflect.Type) bool {
	return t.Implements(describerType) && reflect.PointerTo(t).Implements(assemblerType)
}

// field is a struct field selected for encoding.
type field struct {
	index int
	name  string
	typ   reflect.Type
}

// fields returns the fields of struct type t that policy selects, in
// declaration order. Tuples and anonymous structs always use every field.
func fields(t reflect.Type, policy MemberPolicy) []field {
	all := typereg.Classify(t) != typereg.ClassObject
	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		switch {
		case all:
		case f.IsExported() && policy&PublicFields != 0:
		case !f.IsExported() && policy&PrivateFields != 0:
		default:
			continue
		}
		out = append(out, field{index: i, name: f.Name, typ: f.Type})
	}
	return out
}

// memberName renders a field name in convention c. Field names are valid
// identifiers, so conversion only fails for an unknown convention.
func memberName(name string, c ident.Convention) (string, error) {
	return ident.Convert(name, c)
}

// findField matches a member name written in any convention.
func findField(fs []field, name string) (field, bool) {
	for _, f := range fs {
		if f.name == name || ident.EqualFold(f.name, name) {
			return f, true
		}
	}
	return field{}, false
}

// accessible returns an addressable copy of struct value v whose fields,
// exported or not, can be read and set.
func accessible(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// fieldValue returns field i of addressable struct v with the read-only
// flag cleared.
func fieldValue(v reflect.Value, i int) reflect.Value {
	f := v.Field(i)
	if f.CanInterface() && f.CanSet() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

func describe(v reflect.Value) ([]Member, error) {
	d, ok := v.Interface().(Describer)
	if !ok {
		return nil, fmt.Errorf("%s does not implement Describer", v.Type())
	}
	return d.DescribeMembers(), nil
}

func assemble(t reflect.Type, ms []Member) (reflect.Value, error) {
	p := reflect.New(t)
	if err := p.Interface().(Assembler).AssembleMembers(ms); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}
