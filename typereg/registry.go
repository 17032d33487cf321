// Package typereg maps Go types to canonical short names and back.
//
// A Registry starts from a fixed seed table of scalar types and grows as new
// types are encountered. Entries are never removed, and the forward and
// backward maps are always kept consistent.
package typereg

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrConflict means a name is already bound to a different type, or a
	// type to a different name. It points at a naming mismatch between
	// producer and consumer, not at a transient fault.
	ErrConflict = errors.New("internal registry conflict")
	// ErrUnresolvableType means a name cannot be mapped back to a type.
	ErrUnresolvableType = errors.New("unresolvable type")
	// ErrUnsupportedType means a type has no canonical name.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Record describes a registered type.
type Record struct {
	Name  string
	Type  reflect.Type
	Args  []reflect.Type // generic arguments; empty for non-generic types
	Class Class
}

// Option configures a Registry.
type Option func(*Registry)

// WithNameStyle sets how named types outside the seed table are spelled.
func WithNameStyle(s NameStyle) Option {
	return func(r *Registry) { r.style = s }
}

// Registry is a thread-safe bidirectional map between types and names.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
	style  NameStyle
}

// New returns a Registry seeded with the standard table.
func New(opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]reflect.Type, len(seed)*2),
		byType: make(map[reflect.Type]string, len(seed)*2),
	}
	for _, o := range opts {
		o(r)
	}
	for _, e := range seed {
		r.byName[e.name] = e.typ
		r.byType[e.typ] = e.name
	}
	return r
}

// Style returns the registry's name style.
func (r *Registry) Style() NameStyle { return r.style }

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// NameFor returns the canonical name of t, registering it on first use.
func (r *Registry) NameFor(t reflect.Type) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	if name, ok := r.lookupType(t); ok {
		return name, nil
	}
	name, err := r.nameOf(t)
	if err != nil {
		return "", err
	}
	return r.insert(t, name)
}

// TypeFor resolves a name. Composite names are built from their arguments;
// anything else must have been registered.
func (r *Registry) TypeFor(name string) (reflect.Type, error) {
	if t, ok := r.lookupName(name); ok {
		return t, nil
	}
	t, err := r.build(name)
	if err != nil {
		return nil, err
	}
	canonical, err := r.nameOf(t)
	if err != nil {
		return nil, err
	}
	if canonical == name {
		if _, err := r.insert(t, name); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register binds t to name explicitly.
func (r *Registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name for %s", ErrUnsupportedType, t)
	}
	got, err := r.insert(t, name)
	if err != nil {
		return err
	}
	if got != name {
		return fmt.Errorf("%w: type %s is already named %q, cannot rename to %q", ErrConflict, t, got, name)
	}
	return nil
}

// RegisterType binds t under the name the registry's style gives it. Named
// types must be registered before documents naming them can be decoded.
func (r *Registry) RegisterType(t reflect.Type) error {
	_, err := r.NameFor(t)
	return err
}

// Record returns the full description of t, registering it if needed.
func (r *Registry) Record(t reflect.Type) (Record, error) {
	name, err := r.NameFor(t)
	if err != nil {
		return Record{}, err
	}
	return Record{Name: name, Type: t, Args: typeArgs(t), Class: Classify(t)}, nil
}

func (r *Registry) lookupType(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byType[t]
	return name, ok
}

func (r *Registry) lookupName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// insert binds t and name under the exclusive lock. A racing insert of the
// same type wins and its name is returned.
func (r *Registry) insert(t reflect.Type, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byType[t]; ok {
		return existing, nil
	}
	if other, ok := r.byName[name]; ok && other != t {
		return "", fmt.Errorf("%w: name %q is bound to %s, cannot bind it to %s", ErrConflict, name, other, t)
	}
	r.byName[name] = t
	r.byType[t] = name
	return name, nil
}

// nameOf computes the canonical name of t without mutating the registry.
func (r *Registry) nameOf(t reflect.Type) (string, error) {
	if name, ok := r.lookupType(t); ok {
		return name, nil
	}
	if t.Name() != "" {
		return r.namedName(t), nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		return r.composite(baseNullable, t.Elem())
	case reflect.Slice:
		return r.composite(baseList, t.Elem())
	case reflect.Array:
		elem, err := r.nameOf(t.Elem())
		if err != nil {
			return "", err
		}
		return formatGeneric(baseArray, []string{elem, strconv.Itoa(t.Len())}), nil
	case reflect.Map:
		return r.composite(baseMap, t.Key(), t.Elem())
	case reflect.Func:
		if t.IsVariadic() || t.NumOut() > 1 {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
		args := make([]reflect.Type, 0, t.NumIn()+t.NumOut())
		for i := 0; i < t.NumIn(); i++ {
			args = append(args, t.In(i))
		}
		if t.NumOut() == 0 {
			return r.composite(baseAction, args...)
		}
		return r.composite(baseFunc, append(args, t.Out(0))...)
	case reflect.Struct:
		if isTuple(t) {
			return r.composite(baseTuple, typeArgs(t)...)
		}
		args := make([]string, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous || !f.IsExported() {
				return "", fmt.Errorf("%w: anonymous struct field %s of %s", ErrUnsupportedType, f.Name, t)
			}
			fn, err := r.nameOf(f.Type)
			if err != nil {
				return "", err
			}
			args[i] = f.Name + ": " + fn
		}
		return formatGeneric(baseAnonymous, args), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func (r *Registry) composite(base string, args ...reflect.Type) (string, error) {
	names := make([]string, len(args))
	for i, a := range args {
		n, err := r.nameOf(a)
		if err != nil {
			return "", err
		}
		names[i] = n
	}
	return formatGeneric(base, names), nil
}

// namedName spells a named type per the registry style. Instantiated generic
// types become Base<argNames>.
func (r *Registry) namedName(t reflect.Type) string {
	base := t.Name()
	if isGenericName(base) {
		var goArgs []string
		base, goArgs = splitGoGeneric(base)
		args := make([]string, len(goArgs))
		for i, a := range goArgs {
			args[i] = r.argName(a)
		}
		base = formatGeneric(base, args)
	}
	pkg := t.PkgPath()
	if pkg == "" {
		return base
	}
	switch r.style {
	case ShortNames:
		return base
	case ModuleNames:
		return pkg[strings.LastIndexByte(pkg, '/')+1:] + "." + base + ", " + pkg
	default:
		return pkg + "." + base
	}
}

// argName maps a Go spelling of a type argument to a registered name when
// one is known, and keeps the Go spelling otherwise.
func (r *Registry) argName(goArg string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t, name := range r.byType {
		for _, g := range goName(t) {
			if g == goArg {
				return name
			}
		}
	}
	return goArg
}

// build constructs the type a composite name denotes. It never mutates
// the registry, so a failed resolution leaves it untouched.
func (r *Registry) build(name string) (reflect.Type, error) {
	if t, ok := r.lookupName(name); ok {
		return t, nil
	}
	base, args, ok, err := parseGeneric(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvableType, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableType, name)
	}
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%w: %q: %s takes %d type arguments, got %d", ErrUnresolvableType, name, base, n, len(args))
		}
		return nil
	}
	switch base {
	case baseNullable, baseList:
		if err := arity(1); err != nil {
			return nil, err
		}
		elem, err := r.build(args[0])
		if err != nil {
			return nil, err
		}
		if base == baseList {
			return reflect.SliceOf(elem), nil
		}
		return reflect.PointerTo(elem), nil
	case baseArray:
		if err := arity(2); err != nil {
			return nil, err
		}
		elem, err := r.build(args[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q: bad array length %q", ErrUnresolvableType, name, args[1])
		}
		return reflect.ArrayOf(n, elem), nil
	case baseMap:
		if err := arity(2); err != nil {
			return nil, err
		}
		key, err := r.build(args[0])
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("%w: %q: map key %s is not comparable", ErrUnresolvableType, name, key)
		}
		elem, err := r.build(args[1])
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, elem), nil
	case baseFunc, baseAction:
		types, err := r.buildAll(args)
		if err != nil {
			return nil, err
		}
		if base == baseAction {
			return reflect.FuncOf(types, nil, false), nil
		}
		if len(types) == 0 {
			return nil, fmt.Errorf("%w: %q: func needs a result type", ErrUnresolvableType, name)
		}
		return reflect.FuncOf(types[:len(types)-1], types[len(types)-1:], false), nil
	case baseTuple:
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %q: empty tuple", ErrUnresolvableType, name)
		}
		types, err := r.buildAll(args)
		if err != nil {
			return nil, err
		}
		return TupleOf(types...), nil
	case baseAnonymous:
		fields := make([]reflect.StructField, len(args))
		seen := make(map[string]bool, len(args))
		for i, a := range args {
			fname, ftype, found := strings.Cut(a, ":")
			fname = strings.TrimSpace(fname)
			if !found || !token.IsIdentifier(fname) || !token.IsExported(fname) || seen[fname] {
				return nil, fmt.Errorf("%w: %q: bad field %q", ErrUnresolvableType, name, a)
			}
			seen[fname] = true
			ft, err := r.build(strings.TrimSpace(ftype))
			if err != nil {
				return nil, err
			}
			fields[i] = reflect.StructField{Name: fname, Type: ft}
		}
		return reflect.StructOf(fields), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnresolvableType, name)
}

func (r *Registry) buildAll(names []string) ([]reflect.Type, error) {
	types := make([]reflect.Type, len(names))
	for i, n := range names {
		t, err := r.build(n)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// typeArgs lists the generic arguments of a composite type.
func typeArgs(t reflect.Type) []reflect.Type {
	if t.Name() != "" {
		return nil
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return []reflect.Type{t.Elem()}
	case reflect.Map:
		return []reflect.Type{t.Key(), t.Elem()}
	case reflect.Func:
		var args []reflect.Type
		for i := 0; i < t.NumIn(); i++ {
			args = append(args, t.In(i))
		}
		for i := 0; i < t.NumOut(); i++ {
			args = append(args, t.Out(i))
		}
		return args
	case reflect.Struct:
		args := make([]reflect.Type, t.NumField())
		for i := range args {
			args[i] = t.Field(i).Type
		}
		return args
	}
	return nil
}
