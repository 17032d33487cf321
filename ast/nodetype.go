package ast

import "fmt"

// NodeType identifies the kind of an expression node.
type NodeType int

const (
	Add NodeType = iota
	AddChecked
	And
	AndAlso
	ArrayLength
	ArrayIndex
	Call
	Coalesce
	Conditional
	Constant
	Convert
	ConvertChecked
	Divide
	Equal
	ExclusiveOr
	GreaterThan
	GreaterThanOrEqual
	Invoke
	Lambda
	LeftShift
	LessThan
	LessThanOrEqual
	ListInit
	MemberAccess
	MemberInit
	Modulo
	Multiply
	MultiplyChecked
	Negate
	UnaryPlus
	NegateChecked
	New
	NewArrayInit
	NewArrayBounds
	Not
	NotEqual
	Or
	OrElse
	Parameter
	Power
	Quote
	RightShift
	Subtract
	SubtractChecked
	TypeAs
	TypeIs
	Assign
	Block
	DebugInfo
	Decrement
	Dynamic
	Default
	Goto
	Increment
	Index
	Label
	RuntimeVariables
	Loop
	Switch
	Throw
	Try
	Unbox
	AddAssign
	AndAssign
	DivideAssign
	ExclusiveOrAssign
	LeftShiftAssign
	ModuloAssign
	MultiplyAssign
	OrAssign
	PowerAssign
	RightShiftAssign
	SubtractAssign
	AddAssignChecked
	MultiplyAssignChecked
	SubtractAssignChecked
	PreIncrementAssign
	PreDecrementAssign
	PostIncrementAssign
	PostDecrementAssign
	TypeEqual
	OnesComplement
	IsTrue
	IsFalse

	numNodeTypes
)

var nodeTypeNames = [...]string{
	Add:                   "Add",
	AddChecked:            "AddChecked",
	And:                   "And",
	AndAlso:               "AndAlso",
	ArrayLength:           "ArrayLength",
	ArrayIndex:            "ArrayIndex",
	Call:                  "Call",
	Coalesce:              "Coalesce",
	Conditional:           "Conditional",
	Constant:              "Constant",
	Convert:               "Convert",
	ConvertChecked:        "ConvertChecked",
	Divide:                "Divide",
	Equal:                 "Equal",
	ExclusiveOr:           "ExclusiveOr",
	GreaterThan:           "GreaterThan",
	GreaterThanOrEqual:    "GreaterThanOrEqual",
	Invoke:                "Invoke",
	Lambda:                "Lambda",
	LeftShift:             "LeftShift",
	LessThan:              "LessThan",
	LessThanOrEqual:       "LessThanOrEqual",
	ListInit:              "ListInit",
	MemberAccess:          "MemberAccess",
	MemberInit:            "MemberInit",
	Modulo:                "Modulo",
	Multiply:              "Multiply",
	MultiplyChecked:       "MultiplyChecked",
	Negate:                "Negate",
	UnaryPlus:             "UnaryPlus",
	NegateChecked:         "NegateChecked",
	New:                   "New",
	NewArrayInit:          "NewArrayInit",
	NewArrayBounds:        "NewArrayBounds",
	Not:                   "Not",
	NotEqual:              "NotEqual",
	Or:                    "Or",
	OrElse:                "OrElse",
	Parameter:             "Parameter",
	Power:                 "Power",
	Quote:                 "Quote",
	RightShift:            "RightShift",
	Subtract:              "Subtract",
	SubtractChecked:       "SubtractChecked",
	TypeAs:                "TypeAs",
	TypeIs:                "TypeIs",
	Assign:                "Assign",
	Block:                 "Block",
	DebugInfo:             "DebugInfo",
	Decrement:             "Decrement",
	Dynamic:               "Dynamic",
	Default:               "Default",
	Goto:                  "Goto",
	Increment:             "Increment",
	Index:                 "Index",
	Label:                 "Label",
	RuntimeVariables:      "RuntimeVariables",
	Loop:                  "Loop",
	Switch:                "Switch",
	Throw:                 "Throw",
	Try:                   "Try",
	Unbox:                 "Unbox",
	AddAssign:             "AddAssign",
	AndAssign:             "AndAssign",
	DivideAssign:          "DivideAssign",
	ExclusiveOrAssign:     "ExclusiveOrAssign",
	LeftShiftAssign:       "LeftShiftAssign",
	ModuloAssign:          "ModuloAssign",
	MultiplyAssign:        "MultiplyAssign",
	OrAssign:              "OrAssign",
	PowerAssign:           "PowerAssign",
	RightShiftAssign:      "RightShiftAssign",
	SubtractAssign:        "SubtractAssign",
	AddAssignChecked:      "AddAssignChecked",
	MultiplyAssignChecked: "MultiplyAssignChecked",
	SubtractAssignChecked: "SubtractAssignChecked",
	PreIncrementAssign:    "PreIncrementAssign",
	PreDecrementAssign:    "PreDecrementAssign",
	PostIncrementAssign:   "PostIncrementAssign",
	PostDecrementAssign:   "PostDecrementAssign",
	TypeEqual:             "TypeEqual",
	OnesComplement:        "OnesComplement",
	IsTrue:                "IsTrue",
	IsFalse:               "IsFalse",
}

func (t NodeType) String() string {
	if t >= 0 && t < numNodeTypes {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// NodeTypes returns every node type in declaration order.
func NodeTypes() []NodeType {
	all := make([]NodeType, numNodeTypes)
	for i := range all {
		all[i] = NodeType(i)
	}
	return all
}

// IsUnary reports whether nodes of this type are *Unary.
func (t NodeType) IsUnary() bool {
	switch t {
	case ArrayLength, Convert, ConvertChecked, Negate, NegateChecked, UnaryPlus,
		Not, Quote, TypeAs, Decrement, Increment, Throw, Unbox,
		PreIncrementAssign, PreDecrementAssign, PostIncrementAssign, PostDecrementAssign,
		OnesComplement, IsTrue, IsFalse:
		return true
	}
	return false
}

// IsBinary reports whether nodes of this type are *Binary.
func (t NodeType) IsBinary() bool {
	switch t {
	case Add, AddChecked, And, AndAlso, ArrayIndex, Coalesce, Divide, Equal,
		ExclusiveOr, GreaterThan, GreaterThanOrEqual, LeftShift, LessThan,
		LessThanOrEqual, Modulo, Multiply, MultiplyChecked, NotEqual, Or, OrElse,
		Power, RightShift, Subtract, SubtractChecked:
		return true
	}
	return t.IsAssignment()
}

// IsAssignment reports whether t is Assign or a compound assignment.
func (t NodeType) IsAssignment() bool {
	switch t {
	case Assign, AddAssign, AndAssign, DivideAssign, ExclusiveOrAssign,
		LeftShiftAssign, ModuloAssign, MultiplyAssign, OrAssign, PowerAssign,
		RightShiftAssign, SubtractAssign, AddAssignChecked, MultiplyAssignChecked,
		SubtractAssignChecked:
		return true
	}
	return false
}

// IsComparison reports whether t yields a boolean from two operands.
func (t NodeType) IsComparison() bool {
	switch t {
	case Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return true
	}
	return false
}

// IsTypeBinary reports whether nodes of this type are *TypeBinary.
func (t NodeType) IsTypeBinary() bool { return t == TypeIs || t == TypeEqual }

// IsNewArray reports whether nodes of this type are *NewArray.
func (t NodeType) IsNewArray() bool { return t == NewArrayInit || t == NewArrayBounds }
