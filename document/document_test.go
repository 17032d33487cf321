package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Node {
	add := New("add").SetAttr("type", "int")
	left := New("left").Append(NewText("constant", "2").SetAttr("type", "int"))
	right := New("right").Append(NewText("constant", "3").SetAttr("type", "int"))
	return add.Append(left, right)
}

func TestNodeHelpers(t *testing.T) {
	n := sample()
	v, ok := n.Attr("type")
	require.True(t, ok)
	assert.Equal(t, "int", v)

	require.NotNil(t, n.Child("right"))
	assert.Nil(t, n.Child("operand"))
	assert.False(t, n.Leaf())

	c := n.Clone()
	assert.True(t, n.Equal(c))
	c.Children[0].Children[0].Text = "9"
	assert.False(t, n.Equal(c))
	assert.Equal(t, "2", n.Children[0].Children[0].Text)

	var names []string
	n.Walk(func(n *Node, depth int) {
		names = append(names, strings.Repeat(".", depth)+n.Name)
	})
	assert.Equal(t, []string{"add", ".left", "..constant", ".right", "..constant"}, names)
}

func TestEqualTreatsNilAndEmptyAttrsAlike(t *testing.T) {
	a := &Node{Name: "x"}
	b := &Node{Name: "x", Attrs: map[string]string{}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Node)(nil).Equal(nil))
}

func TestFormatsRoundTrip(t *testing.T) {
	docs := map[string]*Node{
		"sample": sample(),
		"whitespace text": NewText("constant", "  spaced\n\tout  ").SetAttr("type", "string"),
		"markup text":     NewText("constant", `<a href="x">&amp;</a>`),
		"numeric looking": New("constant").SetAttr("type", "string").Append(),
		"attr escapes":    New("memberInfo").SetAttr("declaringType", "map<string, list<int>>"),
		"deep": New("a").Append(New("b").Append(New("c").Append(NewText("d", "true")))),
	}
	docs["numeric looking"].Text = "007"

	for _, name := range Formats() {
		f, err := FormatFor(name)
		require.NoError(t, err)
		for label, doc := range docs {
			t.Run(name+"/"+label, func(t *testing.T) {
				data, err := f.Marshal(doc)
				require.NoError(t, err)
				back, err := f.Unmarshal(data)
				require.NoError(t, err)
				assert.True(t, doc.Equal(back), "got %s", data)
			})
		}
	}
}

func TestFormatsAreDeterministic(t *testing.T) {
	doc := New("n").SetAttr("b", "2").SetAttr("a", "1").SetAttr("c", "3")
	for _, name := range Formats() {
		f, err := FormatFor(name)
		require.NoError(t, err)
		first, err := f.Marshal(doc)
		require.NoError(t, err)
		for range 5 {
			again, err := f.Marshal(doc)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
		a := strings.Index(string(first), "\"1\"")
		b := strings.Index(string(first), "\"2\"")
		assert.Less(t, a, b, name)
	}
}

func TestFormatLookup(t *testing.T) {
	assert.Equal(t, []string{"json", "xml", "yaml"}, Formats())

	f, err := FormatForPath("tree.YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())

	f, err = FormatFor("JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	_, err = FormatFor("toml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	_, err = FormatForPath("tree.bin")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	assert.Panics(t, func() { Register(jsonFormat{}) })
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{"json", `{"attrs": {}}`},
		{"json", `{"name": "a", "text": "x", "children": [{"name": "b"}]}`},
		{"json", `{"name": "a", "children": [null]}`},
		{"json", `[`},
		{"xml", ``},
		{"xml", `<a><b></a>`},
		{"yaml", "- a\n- b\n"},
		{"yaml", "name: a\nbogus: 1\n"},
		{"yaml", "attrs: {}\n"},
		{"yaml", "name: a\ntext: x\nchildren:\n  - name: b\n"},
	}
	for _, tt := range tests {
		f, err := FormatFor(tt.format)
		require.NoError(t, err)
		_, err = f.Unmarshal([]byte(tt.input))
		assert.Error(t, err, "%s: %q", tt.format, tt.input)
	}
}

func TestMarshalRejectsUnrepresentableText(t *testing.T) {
	tests := []struct {
		format string
		doc    *Node
	}{
		{"xml", NewText("constant", "x\x01y")},
		{"xml", NewText("constant", "\xff\xfe")},
		{"xml", New("constant").SetAttr("type", "a\x00b")},
		{"xml", New("x").Append(NewText("constant", "\uffff"))},
		{"json", NewText("constant", "\xff\xfe")},
		{"json", New("constant").SetAttr("type", "\xc3")},
		{"json", New("x").Append(New("\xffname"))},
	}
	for _, tt := range tests {
		f, err := FormatFor(tt.format)
		require.NoError(t, err)
		_, err = f.Marshal(tt.doc)
		assert.ErrorIs(t, err, ErrUnrepresentable, "%s: %#v", tt.format, tt.doc)
	}
}

func TestMarshalNeverAltersText(t *testing.T) {
	texts := []string{"x\x01y", "\xff\xfe", "tab\tcr\rnl\n", "é\U0001F600", "\x7f"}
	for _, name := range Formats() {
		f, err := FormatFor(name)
		require.NoError(t, err)
		for _, s := range texts {
			doc := NewText("constant", s).SetAttr("value", s)
			data, err := f.Marshal(doc)
			if err != nil {
				continue
			}
			back, err := f.Unmarshal(data)
			require.NoError(t, err, "%s: %q", name, s)
			assert.True(t, doc.Equal(back), "%s: %q became %s", name, s, data)
		}
	}
}

func TestMarshalKeepsControlCharactersInJSON(t *testing.T) {
	f, err := FormatFor("json")
	require.NoError(t, err)
	doc := NewText("constant", "x\x01y")
	data, err := f.Marshal(doc)
	require.NoError(t, err)
	back, err := f.Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back))
}
