package typereg

import (
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	Age  int
}

type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

type color int

func (c color) String() string { return fmt.Sprintf("color(%d)", int(c)) }

func TestSeedTable(t *testing.T) {
	r := New()
	tests := []struct {
		typ  reflect.Type
		name string
	}{
		{reflect.TypeFor[int](), "int"},
		{reflect.TypeFor[string](), "string"},
		{reflect.TypeFor[float32](), "float32"},
		{reflect.TypeFor[[]byte](), "bytes"},
		{reflect.TypeFor[time.Time](), "dateTime"},
		{reflect.TypeFor[time.Duration](), "duration"},
		{reflect.TypeFor[*big.Rat](), "decimal"},
		{reflect.TypeFor[uuid.UUID](), "guid"},
		{reflect.TypeFor[*url.URL](), "uri"},
		{reflect.TypeFor[DBNull](), "dbNull"},
		{reflect.TypeFor[any](), "object"},
	}
	for _, tt := range tests {
		name, err := r.NameFor(tt.typ)
		require.NoError(t, err)
		assert.Equal(t, tt.name, name)
		back, err := r.TypeFor(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.typ, back)
	}
	assert.Equal(t, len(SeedNames()), r.Len())
}

func TestCompositeNames(t *testing.T) {
	r := New()
	tests := []struct {
		typ  reflect.Type
		name string
	}{
		{reflect.TypeFor[*int](), "nullable<int>"},
		{reflect.TypeFor[[]string](), "list<string>"},
		{reflect.TypeFor[[3]float64](), "array<float64, 3>"},
		{reflect.TypeFor[map[string][]int](), "map<string, list<int>>"},
		{reflect.TypeFor[func(int, int) int](), "func<int, int, int>"},
		{reflect.TypeFor[func() bool](), "func<bool>"},
		{reflect.TypeFor[func(string)](), "action<string>"},
		{reflect.TypeFor[func()](), "action<>"},
		{TupleOf(reflect.TypeFor[int](), reflect.TypeFor[string]()), "tuple<int, string>"},
		{reflect.TypeFor[struct {
			Name string
			Tags []string
		}](), "anonymous<Name: string, Tags: list<string>>"},
	}
	for _, tt := range tests {
		name, err := r.NameFor(tt.typ)
		require.NoError(t, err, tt.typ.String())
		assert.Equal(t, tt.name, name)

		fresh := New()
		back, err := fresh.TypeFor(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.typ, back, tt.name)
	}
}

func TestNamedTypeStyles(t *testing.T) {
	typ := reflect.TypeFor[person]()
	pkg := typ.PkgPath()

	full, err := New().NameFor(typ)
	require.NoError(t, err)
	assert.Equal(t, pkg+".person", full)

	short, err := New(WithNameStyle(ShortNames)).NameFor(typ)
	require.NoError(t, err)
	assert.Equal(t, "person", short)

	module, err := New(WithNameStyle(ModuleNames)).NameFor(typ)
	require.NoError(t, err)
	assert.Equal(t, "typereg.person, "+pkg, module)
}

func TestModuleNamesNestInsideComposites(t *testing.T) {
	r := New(WithNameStyle(ModuleNames))
	require.NoError(t, r.RegisterType(reflect.TypeFor[person]()))

	name, err := r.NameFor(reflect.TypeFor[[]person]())
	require.NoError(t, err)
	assert.Equal(t, "list<[typereg.person, "+reflect.TypeFor[person]().PkgPath()+"]>", name)

	back, err := r.TypeFor(name)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[[]person](), back)
}

func TestGenericNamedType(t *testing.T) {
	r := New(WithNameStyle(ShortNames))
	name, err := r.NameFor(reflect.TypeFor[Pair[string, int]]())
	require.NoError(t, err)
	assert.Equal(t, "Pair<string, int>", name)

	back, err := r.TypeFor(name)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[Pair[string, int]](), back)
}

func TestNamedTypesNeedRegistration(t *testing.T) {
	writer := New()
	name, err := writer.NameFor(reflect.TypeFor[person]())
	require.NoError(t, err)

	reader := New()
	_, err = reader.TypeFor(name)
	assert.ErrorIs(t, err, ErrUnresolvableType)

	require.NoError(t, reader.RegisterType(reflect.TypeFor[person]()))
	back, err := reader.TypeFor(name)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[person](), back)
}

func TestUnresolvableTypeLeavesRegistryUntouched(t *testing.T) {
	r := New()
	before := r.Names()
	for _, name := range []string{
		"Foo.Bar, UnknownAssembly",
		"list<Foo.Bar>",
		"map<list<int>, Missing>",
		"map<list<int>, int",
		"array<int, -1>",
		"map<list<int>, int>",
		"anonymous<lower: int>",
		"tuple<>",
	} {
		_, err := r.TypeFor(name)
		assert.ErrorIs(t, err, ErrUnresolvableType, name)
	}
	assert.Equal(t, before, r.Names())
}

func TestConflicts(t *testing.T) {
	r := New()
	t1 := reflect.TypeFor[person]()
	t2 := reflect.TypeFor[color]()

	require.NoError(t, r.Register(t1, "thing"))
	err := r.Register(t2, "thing")
	require.ErrorIs(t, err, ErrConflict)

	err = r.Register(t1, "other")
	require.ErrorIs(t, err, ErrConflict)

	got, err := r.TypeFor("thing")
	require.NoError(t, err)
	assert.Equal(t, t1, got)
	name, err := r.NameFor(t1)
	require.NoError(t, err)
	assert.Equal(t, "thing", name)
	_, err = r.TypeFor("other")
	assert.ErrorIs(t, err, ErrUnresolvableType)
	assert.NotContains(t, r.Names(), "other")

	err = r.Register(reflect.TypeFor[int](), "string")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUnsupportedTypes(t *testing.T) {
	r := New()
	for _, typ := range []reflect.Type{
		reflect.TypeFor[chan int](),
		reflect.TypeFor[func(...int)](),
		reflect.TypeFor[func() (int, error)](),
		reflect.TypeFor[struct{ hidden int }](),
		reflect.TypeFor[interface{ M() }](),
	} {
		_, err := r.NameFor(typ)
		assert.ErrorIs(t, err, ErrUnsupportedType, typ.String())
	}
	_, err := r.NameFor(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want Class
	}{
		{reflect.TypeFor[int](), ClassPrimitive},
		{reflect.TypeFor[string](), ClassPrimitive},
		{reflect.TypeFor[time.Duration](), ClassScalar},
		{reflect.TypeFor[uuid.UUID](), ClassScalar},
		{reflect.TypeFor[[]byte](), ClassBytes},
		{reflect.TypeFor[[]int](), ClassSequence},
		{reflect.TypeFor[[2]int](), ClassSequence},
		{reflect.TypeFor[map[string]int](), ClassDictionary},
		{TupleOf(reflect.TypeFor[int]()), ClassTuple},
		{reflect.TypeFor[*int](), ClassNullable},
		{reflect.TypeFor[color](), ClassEnum},
		{reflect.TypeFor[struct{ X int }](), ClassAnonymous},
		{reflect.TypeFor[person](), ClassObject},
		{reflect.TypeFor[any](), ClassDynamic},
		{reflect.TypeFor[func() int](), ClassFunc},
		{reflect.TypeFor[chan int](), ClassUnsupported},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.typ), tt.typ.String())
	}
}

func TestRecord(t *testing.T) {
	r := New()
	rec, err := r.Record(reflect.TypeFor[map[string]bool]())
	require.NoError(t, err)
	assert.Equal(t, "map<string, bool>", rec.Name)
	assert.Equal(t, ClassDictionary, rec.Class)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[bool]()}, rec.Args)

	rec, err = r.Record(reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Empty(t, rec.Args)
}

func TestConcurrentResolution(t *testing.T) {
	r := New()
	types := []reflect.Type{
		reflect.TypeFor[[]int](),
		reflect.TypeFor[map[string]float64](),
		reflect.TypeFor[*time.Time](),
		reflect.TypeFor[person](),
	}
	var wg sync.WaitGroup
	names := make([][]string, 16)
	for g := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, typ := range types {
				n, err := r.NameFor(typ)
				if err != nil {
					t.Error(err)
					return
				}
				names[g] = append(names[g], n)
			}
		}()
	}
	wg.Wait()
	for _, n := range names[1:] {
		assert.Equal(t, names[0], n)
	}
	for i, typ := range types {
		back, err := r.TypeFor(names[0][i])
		require.NoError(t, err)
		assert.Equal(t, typ, back)
	}
}

func TestParseNameStyle(t *testing.T) {
	for _, s := range []NameStyle{FullNames, ShortNames, ModuleNames} {
		got, err := ParseNameStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseNameStyle("weird")
	assert.Error(t, err)
}
