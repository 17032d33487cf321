package codec

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rubiojr/exprdoc/typereg"
)

// Special float tokens.
const (
	tokenNaN    = "NaN"
	tokenPosInf = "Infinity"
	tokenNegInf = "-Infinity"
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	decimalType  = reflect.TypeFor[*big.Rat]()
	guidType     = reflect.TypeFor[uuid.UUID]()
	uriType      = reflect.TypeFor[*url.URL]()
	dbNullType   = reflect.TypeFor[typereg.DBNull]()
)

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return tokenNaN
	case math.IsInf(f, 1):
		return tokenPosInf
	case math.IsInf(f, -1):
		return tokenNegInf
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func parseFloat(s string, bits int) (float64, error) {
	switch s {
	case tokenNaN:
		return math.NaN(), nil
	case tokenPosInf:
		return math.Inf(1), nil
	case tokenNegInf:
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, bits)
}

func formatComplex(c complex128, bits int) string {
	half := bits / 2
	return formatFloat(real(c), half) + " " + formatFloat(imag(c), half)
}

func parseComplex(s string, bits int) (complex128, error) {
	var re, im string
	if _, err := fmt.Sscanf(s, "%s %s", &re, &im); err != nil {
		return 0, fmt.Errorf("complex %q: %w", s, err)
	}
	half := bits / 2
	r, err := parseFloat(re, half)
	if err != nil {
		return 0, err
	}
	i, err := parseFloat(im, half)
	if err != nil {
		return 0, err
	}
	return complex(r, i), nil
}

// formatScalar writes a primitive, scalar or enum value as canonical text.
func formatScalar(v reflect.Value) (string, error) {
	switch v.Type() {
	case timeType:
		return v.Interface().(time.Time).Format(time.RFC3339Nano), nil
	case durationType:
		return time.Duration(v.Int()).String(), nil
	case decimalType:
		return v.Interface().(*big.Rat).RatString(), nil
	case guidType:
		return v.Interface().(uuid.UUID).String(), nil
	case uriType:
		return v.Interface().(*url.URL).String(), nil
	case dbNullType:
		return "", nil
	}
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return formatFloat(v.Float(), 32), nil
	case reflect.Float64:
		return formatFloat(v.Float(), 64), nil
	case reflect.Complex64:
		return formatComplex(v.Complex(), 64), nil
	case reflect.Complex128:
		return formatComplex(v.Complex(), 128), nil
	case reflect.String:
		return v.String(), nil
	}
	return "", fmt.Errorf("%s is not a scalar", v.Type())
}

// parseScalar is the inverse of formatScalar. The result has type t.
func parseScalar(s string, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	switch t {
	case timeType:
		tm, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return out, err
		}
		out.Set(reflect.ValueOf(tm))
		return out, nil
	case durationType:
		d, err := time.ParseDuration(s)
		if err != nil {
			return out, err
		}
		out.SetInt(int64(d))
		return out, nil
	case decimalType:
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return out, fmt.Errorf("invalid decimal %q", s)
		}
		out.Set(reflect.ValueOf(r))
		return out, nil
	case guidType:
		g, err := uuid.Parse(s)
		if err != nil {
			return out, err
		}
		out.Set(reflect.ValueOf(g))
		return out, nil
	case uriType:
		u, err := url.Parse(s)
		if err != nil {
			return out, err
		}
		out.Set(reflect.ValueOf(u))
		return out, nil
	case dbNullType:
		if s != "" {
			return out, fmt.Errorf("dbNull carries no text, got %q", s)
		}
		return out, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := parseFloat(s, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		c, err := parseComplex(s, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetComplex(c)
	case reflect.String:
		out.SetString(s)
	default:
		return out, fmt.Errorf("%s is not a scalar", t)
	}
	return out, nil
}

func formatBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func parseBytes(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
