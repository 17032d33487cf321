// Package ident converts identifiers between casing conventions.
//
// Member names of custom objects are passed through Convert when they are
// written into a document, and node names read back from a document are
// re-normalized through it before they are looked up in the vocabulary.
package ident

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidIdentifier is returned for empty identifiers or identifiers that
// do not start with a letter, a connector or an escape marker.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Convention selects how words of an identifier are re-joined.
type Convention int

const (
	Preserve   Convention = iota // identity
	Camel                        // fooBarBaz
	Pascal                       // FooBarBaz
	SnakeLower                   // foo_bar_baz
	SnakeUpper                   // FOO_BAR_BAZ
	KebabLower                   // foo-bar-baz
	KebabUpper                   // FOO-BAR-BAZ
)

var conventionNames = map[Convention]string{
	Preserve:   "preserve",
	Camel:      "camel",
	Pascal:     "pascal",
	SnakeLower: "snake",
	SnakeUpper: "snake-upper",
	KebabLower: "kebab",
	KebabUpper: "kebab-upper",
}

func (c Convention) String() string {
	if s, ok := conventionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention maps a configuration string to a Convention.
// Matching ignores case, and "_" is accepted in place of "-".
func ParseConvention(s string) (Convention, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch key {
	case "snake-lower":
		return SnakeLower, nil
	case "kebab-lower":
		return KebabLower, nil
	}
	for c, name := range conventionNames {
		if name == key {
			return c, nil
		}
	}
	return Preserve, fmt.Errorf("unknown identifier convention %q", s)
}

// escapeMarker may prefix an identifier to mark it as verbatim.
const escapeMarker = '@'

// Convert re-cases identifier according to c.
func Convert(identifier string, c Convention) (string, error) {
	if strings.TrimSpace(identifier) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	runes := []rune(identifier)
	if !isStart(runes[0]) {
		return "", fmt.Errorf("%w: %q starts with %q", ErrInvalidIdentifier, identifier, runes[0])
	}
	if c == Preserve {
		return identifier, nil
	}

	prefixLen := 0
	for prefixLen < len(runes) && isPrefix(runes[prefixLen]) {
		prefixLen++
	}
	words := splitWords(runes[prefixLen:])
	if len(words) == 0 {
		return identifier, nil
	}

	var sb strings.Builder
	sb.WriteString(string(runes[:prefixLen]))
	switch c {
	case Camel:
		for i, w := range words {
			if i == 0 {
				sb.WriteString(strings.ToLower(w))
			} else {
				sb.WriteString(upperFirst(w))
			}
		}
	case Pascal:
		for _, w := range words {
			sb.WriteString(upperFirst(w))
		}
	case SnakeLower:
		sb.WriteString(strings.ToLower(strings.Join(words, "_")))
	case SnakeUpper:
		sb.WriteString(strings.ToUpper(strings.Join(words, "_")))
	case KebabLower:
		sb.WriteString(strings.ToLower(strings.Join(words, "-")))
	case KebabUpper:
		sb.WriteString(strings.ToUpper(strings.Join(words, "-")))
	default:
		return "", fmt.Errorf("unknown identifier convention %d", int(c))
	}
	return sb.String(), nil
}

// MustConvert is like Convert but panics on error. It is meant for names
// that are known to be valid, such as vocabulary entries.
func MustConvert(identifier string, c Convention) string {
	s, err := Convert(identifier, c)
	if err != nil {
		panic(err)
	}
	return s
}

// EqualFold reports whether a and b name the same identifier once both are
// converted to camel case.
func EqualFold(a, b string) bool {
	ca, err := Convert(a, Camel)
	if err != nil {
		return false
	}
	cb, err := Convert(b, Camel)
	if err != nil {
		return false
	}
	return strings.EqualFold(ca, cb)
}

func isStart(r rune) bool {
	return unicode.IsLetter(r) || isPrefix(r)
}

func isPrefix(r rune) bool {
	return r == escapeMarker || unicode.Is(unicode.Pc, r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

// splitWords breaks runes into words. Separators are dropped; inside a run
// a new word starts at a lower→upper or digit→upper transition and at the
// last capital of an acronym ("HTTPServer" → "HTTP", "Server").
func splitWords(runes []rune) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !isWordRune(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// upperFirst upper-cases the first rune and leaves the rest untouched, which
// keeps Camel and Pascal idempotent for single-letter words.
func upperFirst(w string) string {
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
