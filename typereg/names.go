package typereg

import (
	"fmt"
	"strings"
)

// Composite name bases.
const (
	baseNullable  = "nullable"
	baseList      = "list"
	baseArray     = "array"
	baseMap       = "map"
	baseFunc      = "func"
	baseAction    = "action"
	baseTuple     = "tuple"
	baseAnonymous = "anonymous"
)

// NameStyle decides how named, non-seeded types are spelled.
type NameStyle int

const (
	FullNames   NameStyle = iota // github.com/acme/model.Person
	ShortNames                   // Person
	ModuleNames                  // model.Person, github.com/acme/model
)

func (s NameStyle) String() string {
	switch s {
	case FullNames:
		return "full"
	case ShortNames:
		return "short"
	case ModuleNames:
		return "module"
	default:
		return fmt.Sprintf("NameStyle(%d)", int(s))
	}
}

// ParseNameStyle maps a configuration string to a NameStyle.
func ParseNameStyle(s string) (NameStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "qualified":
		return FullNames, nil
	case "short":
		return ShortNames, nil
	case "module":
		return ModuleNames, nil
	}
	return FullNames, fmt.Errorf("unknown type name style %q", s)
}

// formatGeneric joins base and args as base<arg1, arg2>. Arguments that
// themselves contain a top-level comma are bracketed.
func formatGeneric(base string, args []string) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if len(splitTopLevel(a)) > 1 {
			sb.WriteByte('[')
			sb.WriteString(a)
			sb.WriteByte(']')
		} else {
			sb.WriteString(a)
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

// parseGeneric splits "base<a, b>" into base and args. ok is false for
// names that are not of that shape.
func parseGeneric(name string) (base string, args []string, ok bool, err error) {
	name = strings.TrimSpace(name)
	open := strings.IndexByte(name, '<')
	if open <= 0 || !strings.HasSuffix(name, ">") {
		return "", nil, false, nil
	}
	base = strings.TrimSpace(name[:open])
	inner := name[open+1 : len(name)-1]
	if !balanced(inner) {
		return "", nil, false, fmt.Errorf("unbalanced type name %q", name)
	}
	if strings.TrimSpace(inner) == "" {
		return base, nil, true, nil
	}
	for _, a := range splitTopLevel(inner) {
		a = strings.TrimSpace(a)
		if a == "" {
			return "", nil, false, fmt.Errorf("empty type argument in %q", name)
		}
		if strings.HasPrefix(a, "[") && strings.HasSuffix(a, "]") {
			a = strings.TrimSpace(a[1 : len(a)-1])
		}
		args = append(args, a)
	}
	return base, args, true, nil
}

// splitTopLevel splits s on commas that are not nested in <> or [].
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func balanced(s string) bool {
	var stack []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '[':
			stack = append(stack, s[i])
		case '>':
			if len(stack) == 0 || stack[len(stack)-1] != '<' {
				return false
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// splitGoGeneric splits a Go instantiated type name "Pair[int,string]" into
// its base and argument spellings.
func splitGoGeneric(name string) (string, []string) {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name, nil
	}
	return name[:open], splitTopLevel(name[open+1 : len(name)-1])
}
