package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		input string
		conv  Convention
		want  string
	}{
		{"HTTPServer", Camel, "httpServer"},
		{"HTTPServer", Pascal, "HTTPServer"},
		{"HTTPServer", SnakeLower, "http_server"},
		{"HTTPServer", SnakeUpper, "HTTP_SERVER"},
		{"HTTPServer", KebabLower, "http-server"},
		{"HTTPServer", KebabUpper, "HTTP-SERVER"},
		{"my_long_name", Pascal, "MyLongName"},
		{"my_long_name", Camel, "myLongName"},
		{"isLiftedToNull", SnakeLower, "is_lifted_to_null"},
		{"is-lifted-to-null", Camel, "isLiftedToNull"},
		{"utf8Name", KebabLower, "utf8-name"},
		{"Item1", Camel, "item1"},
		{"_privateField", Pascal, "_PrivateField"},
		{"@class", SnakeUpper, "@CLASS"},
		{"Whatever It Is", Preserve, "Whatever It Is"},
		{"straße", Pascal, "Straße"},
	}
	for _, tt := range tests {
		got, err := Convert(tt.input, tt.conv)
		require.NoError(t, err, "Convert(%q, %s)", tt.input, tt.conv)
		assert.Equal(t, tt.want, got, "Convert(%q, %s)", tt.input, tt.conv)
	}
}

func TestConvertInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "1abc", "-dash", "$x"} {
		_, err := Convert(input, Camel)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "input %q", input)
	}
}

func TestConvertPrefixOnly(t *testing.T) {
	got, err := Convert("__", SnakeUpper)
	require.NoError(t, err)
	assert.Equal(t, "__", got)
}

func TestConventionsAreIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPServer", "a_b_c", "fooBar", "FOO_BAR", "x", "iOS", "ab_2c",
		"memberListBinding", "Item12Value", "kebab-case-name", "_hidden_Value",
	}
	conventions := []Convention{Camel, Pascal, SnakeLower, SnakeUpper, KebabLower, KebabUpper}
	for _, c := range conventions {
		for _, in := range inputs {
			once, err := Convert(in, c)
			require.NoError(t, err)
			twice, err := Convert(once, c)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "%s(%s(%q))", c, c, in)
		}
	}
}

func TestPreserveIsIdentity(t *testing.T) {
	for _, in := range []string{"HTTPServer", "a_b_c", "mixed-Case_name"} {
		got, err := Convert(in, Preserve)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestParseConvention(t *testing.T) {
	tests := []struct {
		input string
		want  Convention
	}{
		{"camel", Camel},
		{"Pascal", Pascal},
		{"snake", SnakeLower},
		{"snake_lower", SnakeLower},
		{"SNAKE-UPPER", SnakeUpper},
		{"kebab", KebabLower},
		{"kebab-upper", KebabUpper},
		{"preserve", Preserve},
	}
	for _, tt := range tests {
		got, err := ParseConvention(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		back, err := ParseConvention(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, back, "String() round trip")
	}
	_, err := ParseConvention("screaming")
	assert.Error(t, err)
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("add_checked", "addChecked"))
	assert.True(t, EqualFold("ADD-CHECKED", "AddChecked"))
	assert.False(t, EqualFold("add", "addChecked"))
	assert.False(t, EqualFold("", "add"))
}
