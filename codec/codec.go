// Package codec converts expression trees to documents and back.
//
// An Encoder walks an ast.Node and produces a document.Node named after
// the node's kind, with one wrapping element per structural role. A Decoder
// reads the same shape back, resolving type names through a shared
// typereg.Registry. Both directions use the canonical names from vocab.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/ident"
	"github.com/rubiojr/exprdoc/typereg"
)

// DefaultMaxDepth bounds the nesting of encoded and decoded trees.
const DefaultMaxDepth = 1000

var (
	ErrSerialization        = errors.New("serialization error")
	ErrMissingRequiredChild = errors.New("missing required child")
	ErrUnexpectedNode       = errors.New("unexpected node")
	ErrMaxDepth             = errors.New("maximum depth exceeded")
	ErrUnsupportedNode      = errors.New("node kind is not serializable")
)

// Error reports a failure at a specific document element. Node is the
// canonical name of the element.
type Error struct {
	Node string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Node, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap attaches node to err unless err already names a node.
func wrap(node string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Node: node, Err: err}
}

func failf(node string, sentinel error, format string, args ...any) error {
	return &Error{Node: node, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

// MemberPolicy selects which struct fields of custom-type constants are
// written. Values can be combined.
type MemberPolicy int

const (
	PublicFields MemberPolicy = 1 << iota
	PrivateFields

	AllFields = PublicFields | PrivateFields
)

func (p MemberPolicy) String() string {
	switch p {
	case PublicFields:
		return "public"
	case PrivateFields:
		return "private"
	case AllFields:
		return "all"
	}
	return fmt.Sprintf("MemberPolicy(%d)", int(p))
}

// ParseMemberPolicy accepts "public", "private", "all" or a comma separated
// combination.
func ParseMemberPolicy(s string) (MemberPolicy, error) {
	var p MemberPolicy
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "public":
			p |= PublicFields
		case "private":
			p |= PrivateFields
		case "all":
			p |= AllFields
		default:
			return 0, fmt.Errorf("unknown member policy %q", part)
		}
	}
	return p, nil
}

// Options configure an Encoder or Decoder. The zero value is usable.
type Options struct {
	// Identifiers is the convention member names of custom-type constants
	// are written in. Decoding accepts any convention.
	Identifiers ident.Convention
	Members     MemberPolicy
	MaxDepth    int
}

// DefaultOptions returns the options used by the zero Options value.
func DefaultOptions() Options {
	return Options{Identifiers: ident.Preserve, Members: PublicFields, MaxDepth: DefaultMaxDepth}
}

func (o Options) normalized() Options {
	if o.Members == 0 {
		o.Members = PublicFields
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Marshal encodes n and serializes the document with format.
func Marshal(reg *typereg.Registry, opts Options, format document.Format, n ast.Node) ([]byte, error) {
	doc, err := NewEncoder(reg, opts).Encode(n)
	if err != nil {
		return nil, err
	}
	return format.Marshal(doc)
}

// Unmarshal parses data with format and decodes the document.
func Unmarshal(reg *typereg.Registry, opts Options, format document.Format, data []byte) (ast.Node, error) {
	doc, err := format.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return NewDecoder(reg, opts).Decode(doc)
}
