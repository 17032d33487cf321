package typereg

import (
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Class tells the codec how values of a type are laid out in a document.
type Class int

const (
	ClassUnsupported Class = iota
	ClassPrimitive         // bool, numbers, string
	ClassScalar            // non-primitive scalars: time, duration, decimal, guid, uri, dbNull
	ClassBytes             // []byte
	ClassSequence          // slices and arrays
	ClassDictionary        // maps
	ClassTuple             // struct{Item1 ...; ItemN ...}
	ClassNullable          // *T
	ClassEnum              // named integer types implementing fmt.Stringer
	ClassAnonymous         // other unnamed structs
	ClassObject            // named structs
	ClassDynamic           // interfaces; the value's dynamic type decides
	ClassFunc              // function types, only valid as declared node types
)

var classNames = [...]string{
	ClassUnsupported: "unsupported",
	ClassPrimitive:   "primitive",
	ClassScalar:      "scalar",
	ClassBytes:       "bytes",
	ClassSequence:    "sequence",
	ClassDictionary:  "dictionary",
	ClassTuple:       "tuple",
	ClassNullable:    "nullable",
	ClassEnum:        "enum",
	ClassAnonymous:   "anonymous",
	ClassObject:      "object",
	ClassDynamic:     "dynamic",
	ClassFunc:        "func",
}

func (c Class) String() string {
	if int(c) >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// DBNull is the database-null sentinel. Its only value is DBNull{}.
type DBNull struct{}

// Void is the result type of nodes that produce no value.
type Void struct{}

var (
	bytesType    = reflect.TypeFor[[]byte]()
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	decimalType  = reflect.TypeFor[*big.Rat]()
	guidType     = reflect.TypeFor[uuid.UUID]()
	uriType      = reflect.TypeFor[*url.URL]()
	dbNullType   = reflect.TypeFor[DBNull]()
	voidType     = reflect.TypeFor[Void]()
	objectType   = reflect.TypeFor[any]()
	errorType    = reflect.TypeFor[error]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
)

// VoidType is the reflect.Type of Void.
var VoidType = voidType

// IsScalar reports whether t is one of the non-primitive scalar types of the
// seed table.
func IsScalar(t reflect.Type) bool {
	switch t {
	case timeType, durationType, decimalType, guidType, uriType, dbNullType:
		return true
	}
	return false
}

// Classify returns the layout class of t.
func Classify(t reflect.Type) Class {
	if t == nil {
		return ClassUnsupported
	}
	switch {
	case t == bytesType:
		return ClassBytes
	case IsScalar(t):
		return ClassScalar
	case isEnum(t):
		return ClassEnum
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return ClassPrimitive
	case reflect.Pointer:
		return ClassNullable
	case reflect.Slice, reflect.Array:
		return ClassSequence
	case reflect.Map:
		return ClassDictionary
	case reflect.Struct:
		if t.Name() != "" {
			return ClassObject
		}
		if isTuple(t) {
			return ClassTuple
		}
		return ClassAnonymous
	case reflect.Interface:
		return ClassDynamic
	case reflect.Func:
		return ClassFunc
	}
	return ClassUnsupported
}

func isEnum(t reflect.Type) bool {
	if t.Name() == "" || t.PkgPath() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return t.Implements(stringerType)
	}
	return false
}

// isTuple reports whether t is an unnamed struct whose fields are exactly
// Item1..ItemN.
func isTuple(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.Name() != "" || t.NumField() == 0 {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || f.Name != tupleField(i) {
			return false
		}
	}
	return true
}

func tupleField(i int) string {
	return fmt.Sprintf("Item%d", i+1)
}

// TupleOf builds the tuple type for the given element types.
func TupleOf(elems ...reflect.Type) reflect.Type {
	fields := make([]reflect.StructField, len(elems))
	for i, e := range elems {
		fields[i] = reflect.StructField{Name: tupleField(i), Type: e}
	}
	return reflect.StructOf(fields)
}

// goName spells t the way the Go runtime spells type arguments inside the
// name of an instantiated generic type.
func goName(t reflect.Type) []string {
	names := []string{t.String()}
	if t.PkgPath() != "" && t.Name() != "" {
		names = append(names, t.PkgPath()+"."+t.Name())
	}
	return names
}

func isGenericName(name string) bool {
	return strings.Contains(name, "[")
}
