package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/ident"
)

func TestKindNames(t *testing.T) {
	tests := []struct {
		nt   ast.NodeType
		want string
	}{
		{ast.Add, "add"},
		{ast.AddChecked, "addChecked"},
		{ast.NewArrayInit, "newArrayInit"},
		{ast.MemberInit, "memberInit"},
		{ast.PostDecrementAssign, "postDecrementAssign"},
		{ast.IsFalse, "isFalse"},
		{ast.Constant, "constant"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.nt))
	}
}

func TestEveryKindRoundTrips(t *testing.T) {
	conventions := []ident.Convention{
		ident.Preserve, ident.Camel, ident.Pascal, ident.SnakeLower,
		ident.SnakeUpper, ident.KebabLower, ident.KebabUpper,
	}
	for _, nt := range ast.NodeTypes() {
		for _, c := range conventions {
			name := Name(Kind(nt), c)
			got, ok := ParseKind(name)
			require.True(t, ok, "%s in %s", name, c)
			assert.Equal(t, nt, got)
		}
	}
}

func TestNamesAreCamelIdempotent(t *testing.T) {
	for _, n := range Names() {
		assert.Equal(t, n, ident.MustConvert(n, ident.Camel), n)
	}
}

func TestCanonical(t *testing.T) {
	got, ok := Canonical("IS_LIFTED_TO_NULL")
	require.True(t, ok)
	assert.Equal(t, AttrIsLiftedToNull, got)

	got, ok = Canonical("member-list-binding")
	require.True(t, ok)
	assert.Equal(t, ElemMemberListBinding, got)

	_, ok = Canonical("nope")
	assert.False(t, ok)
	_, ok = ParseKind("")
	assert.False(t, ok)
}

func TestNoFoldCollisionsBetweenKindsAndRoles(t *testing.T) {
	for _, r := range Roles() {
		_, isKind := ParseKind(r)
		assert.False(t, isKind, r)
	}
}
