package typereg

import "reflect"

// seed is the format's standard library. Encoders and decoders that are
// expected to interoperate must agree on it.
var seed = []struct {
	name string
	typ  reflect.Type
}{
	{"bool", reflect.TypeFor[bool]()},
	{"int", reflect.TypeFor[int]()},
	{"int8", reflect.TypeFor[int8]()},
	{"int16", reflect.TypeFor[int16]()},
	{"int32", reflect.TypeFor[int32]()},
	{"int64", reflect.TypeFor[int64]()},
	{"uint", reflect.TypeFor[uint]()},
	{"uint8", reflect.TypeFor[uint8]()},
	{"uint16", reflect.TypeFor[uint16]()},
	{"uint32", reflect.TypeFor[uint32]()},
	{"uint64", reflect.TypeFor[uint64]()},
	{"float32", reflect.TypeFor[float32]()},
	{"float64", reflect.TypeFor[float64]()},
	{"complex64", reflect.TypeFor[complex64]()},
	{"complex128", reflect.TypeFor[complex128]()},
	{"string", reflect.TypeFor[string]()},

	{"bytes", bytesType},
	{"dateTime", timeType},
	{"duration", durationType},
	{"decimal", decimalType},
	{"guid", guidType},
	{"uri", uriType},
	{"dbNull", dbNullType},
	{"object", objectType},
	{"error", errorType},
	{"void", voidType},
}

// SeedNames returns the names of the seed table in table order.
func SeedNames() []string {
	names := make([]string, len(seed))
	for i, e := range seed {
		names[i] = e.name
	}
	return names
}
