package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrUnknownFormat is returned when no format is registered under a name.
var ErrUnknownFormat = errors.New("unknown document format")

// ErrUnrepresentable is returned by Marshal when a name, attribute or text
// holds characters the format cannot carry unchanged.
var ErrUnrepresentable = errors.New("text not representable")

// Format turns a document tree into bytes and back.
type Format interface {
	Name() string
	Extensions() []string
	Marshal(*Node) ([]byte, error)
	Unmarshal([]byte) (*Node, error)
}

// Not thread-safe; formats register themselves during init.
var registry = make(map[string]Format)

// Register adds f to the format registry. It panics if the name is taken.
func Register(f Format) {
	if _, ok := registry[f.Name()]; ok {
		panic(fmt.Sprintf("document: format already registered: %s", f.Name()))
	}
	registry[f.Name()] = f
}

// FormatFor returns the format registered under name.
func FormatFor(name string) (Format, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, name := range Formats() {
		f := registry[name]
		for _, e := range f.Extensions() {
			if e == ext {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no format for %q", ErrUnknownFormat, path)
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// checkText runs valid over every name, attribute key and value, and text
// of the tree rooted at n.
func checkText(format string, n *Node, valid func(string) bool) error {
	check := func(what, s string) error {
		if !valid(s) {
			return fmt.Errorf("%s: %s %q of <%s>: %w", format, what, s, n.Name, ErrUnrepresentable)
		}
		return nil
	}
	if err := check("name", n.Name); err != nil {
		return err
	}
	for _, k := range n.AttrNames() {
		if err := check("attribute", k); err != nil {
			return err
		}
		if err := check("attribute "+k, n.Attrs[k]); err != nil {
			return err
		}
	}
	if err := check("text", n.Text); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := checkText(format, c, valid); err != nil {
			return err
		}
	}
	return nil
}

// xmlText reports whether s is valid UTF-8 made only of XML 1.0 characters.
func xmlText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}
