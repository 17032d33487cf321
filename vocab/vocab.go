// Package vocab holds the canonical names used in encoded documents.
//
// Every node kind, structural role and attribute has one lowerCamel name.
// The tables are part of the format: changing any entry is a breaking
// change and must bump FormatVersion.
package vocab

import (
	"sort"
	"strings"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/ident"
)

// FormatVersion is written on the root element of every document.
const FormatVersion = "1"

// Structural roles. Each names the element that wraps one child position.
const (
	RoleLeft          = "left"
	RoleRight         = "right"
	RoleOperand       = "operand"
	RoleTest          = "test"
	RoleIfTrue        = "ifTrue"
	RoleIfFalse       = "ifFalse"
	RoleBody          = "body"
	RoleBreakLabel    = "breakLabel"
	RoleContinueLabel = "continueLabel"
	RoleSwitchValue   = "switchValue"
	RoleCases         = "cases"
	RoleTestValues    = "testValues"
	RoleDefaultBody   = "defaultBody"
	RoleHandlers      = "handlers"
	RoleFilter        = "filter"
	RoleVariable      = "variable"
	RoleFinally       = "finally"
	RoleFault         = "fault"
	RoleVariables     = "variables"
	RoleExpressions   = "expressions"
	RoleObject        = "object"
	RoleArguments     = "arguments"
	RoleConstructor   = "constructor"
	RoleMembers       = "members"
	RoleNewExpression = "newExpression"
	RoleInitializers  = "initializers"
	RoleBindings      = "bindings"
	RoleParameters    = "parameters"
	RoleConversion    = "conversion"
	RoleComparison    = "comparison"
	RoleMethod        = "method"
	RoleTarget        = "target"
	RoleValue         = "value"
	RoleDefaultValue  = "defaultValue"
	RoleIndexer       = "indexer"
	RoleExpression    = "expression"
	RoleMember        = "member"
	RoleKey           = "key"
)

// Elements that are not node kinds: sub-constructs, references and the
// parts of constant values.
const (
	ElemSwitchCase          = "switchCase"
	ElemCatchBlock          = "catchBlock"
	ElemElementInit         = "elementInit"
	ElemMemberAssignment    = "memberAssignment"
	ElemMemberMemberBinding = "memberMemberBinding"
	ElemMemberListBinding   = "memberListBinding"
	ElemMethodInfo          = "methodInfo"
	ElemMemberInfo          = "memberInfo"
	ElemLabelTarget         = "labelTarget"
	ElemParameterType       = "parameterType"
	ElemItem                = "item"
	ElemEntry               = "entry"
)

// Attributes.
const (
	AttrType           = "type"
	AttrValueType      = "valueType"
	AttrNil            = "nil"
	AttrName           = "name"
	AttrID             = "id"
	AttrIsLifted       = "isLifted"
	AttrIsLiftedToNull = "isLiftedToNull"
	AttrIsByRef        = "isByRef"
	AttrTailCall       = "tailCall"
	AttrReturnType     = "returnType"
	AttrDeclaringType  = "declaringType"
	AttrMemberKind     = "memberKind"
	AttrKind           = "kind"
	AttrTypeOperand    = "typeOperand"
	AttrTest           = "test"
	AttrVersion        = "version"
	AttrClear          = "clear"
)

var (
	kinds    = make(map[ast.NodeType]string)
	byFold   = make(map[string]string)
	kindFold = make(map[string]ast.NodeType)
)

var roles = []string{
	RoleLeft, RoleRight, RoleOperand, RoleTest, RoleIfTrue, RoleIfFalse,
	RoleBody, RoleBreakLabel, RoleContinueLabel, RoleSwitchValue, RoleCases,
	RoleTestValues, RoleDefaultBody, RoleHandlers, RoleFilter, RoleVariable,
	RoleFinally, RoleFault, RoleVariables, RoleExpressions, RoleObject,
	RoleArguments, RoleConstructor, RoleMembers, RoleNewExpression,
	RoleInitializers, RoleBindings, RoleParameters, RoleConversion,
	RoleComparison, RoleMethod, RoleTarget, RoleValue, RoleDefaultValue,
	RoleIndexer, RoleExpression, RoleMember, RoleKey,
}

var elements = []string{
	ElemSwitchCase, ElemCatchBlock, ElemElementInit, ElemMemberAssignment,
	ElemMemberMemberBinding, ElemMemberListBinding, ElemMethodInfo,
	ElemMemberInfo, ElemLabelTarget, ElemParameterType, ElemItem, ElemEntry,
}

var attrs = []string{
	AttrType, AttrValueType, AttrNil, AttrName, AttrID, AttrIsLifted,
	AttrIsLiftedToNull, AttrIsByRef, AttrTailCall, AttrReturnType,
	AttrDeclaringType, AttrMemberKind, AttrKind, AttrTypeOperand, AttrTest,
	AttrVersion, AttrClear,
}

func init() {
	for _, nt := range ast.NodeTypes() {
		name := ident.MustConvert(nt.String(), ident.Camel)
		kinds[nt] = name
		kindFold[fold(name)] = nt
		byFold[fold(name)] = name
	}
	for _, group := range [][]string{roles, elements, attrs} {
		for _, n := range group {
			byFold[fold(n)] = n
		}
	}
}

// fold is the lookup key of a name written in any convention.
func fold(name string) string {
	c, err := ident.Convert(name, ident.Camel)
	if err != nil {
		return ""
	}
	return strings.ToLower(c)
}

// Kind returns the canonical name of a node kind.
func Kind(nt ast.NodeType) string {
	return kinds[nt]
}

// ParseKind maps a node element name back to its kind. The name may be
// written in any identifier convention.
func ParseKind(name string) (ast.NodeType, bool) {
	nt, ok := kindFold[fold(name)]
	return nt, ok
}

// Canonical maps a name written in any convention to its canonical form.
func Canonical(name string) (string, bool) {
	c, ok := byFold[fold(name)]
	return c, ok
}

// Name renders a canonical name in convention c.
func Name(canonical string, c ident.Convention) string {
	return ident.MustConvert(canonical, c)
}

// Roles returns every role name.
func Roles() []string { return append([]string(nil), roles...) }

// Attrs returns every attribute name.
func Attrs() []string { return append([]string(nil), attrs...) }

// Names returns every canonical name, sorted.
func Names() []string {
	out := make([]string, 0, len(byFold))
	for _, n := range byFold {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
