package document

import (
	"encoding/json"
	"errors"
	"unicode/utf8"
)

func init() { Register(jsonFormat{}) }

type jsonFormat struct{}

// jsonNode is the wire shape. encoding/json writes map keys sorted, so
// attribute order is stable.
type jsonNode struct {
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     *string           `json:"text,omitempty"`
	Children []*jsonNode       `json:"children,omitempty"`
}

func (jsonFormat) Name() string         { return "json" }
func (jsonFormat) Extensions() []string { return []string{"json"} }

func (jsonFormat) Marshal(n *Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New("json: nil document")
	}
	if err := checkText("json", n, utf8.ValidString); err != nil {
		return nil, err
	}
	return json.MarshalIndent(toJSON(n), "", "  ")
}

func (jsonFormat) Unmarshal(data []byte) (*Node, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, err
	}
	return fromJSON(&jn)
}

func toJSON(n *Node) *jsonNode {
	jn := &jsonNode{Name: n.Name, Attrs: n.Attrs}
	if n.Leaf() && n.Text != "" {
		text := n.Text
		jn.Text = &text
	}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, toJSON(c))
	}
	return jn
}

func fromJSON(jn *jsonNode) (*Node, error) {
	if jn.Name == "" {
		return nil, errors.New("json: node without a name")
	}
	n := &Node{Name: jn.Name}
	if len(jn.Attrs) > 0 {
		n.Attrs = jn.Attrs
	}
	if jn.Text != nil {
		if len(jn.Children) > 0 {
			return nil, errors.New("json: node " + jn.Name + " has both text and children")
		}
		n.Text = *jn.Text
	}
	for _, c := range jn.Children {
		if c == nil {
			return nil, errors.New("json: null child in " + jn.Name)
		}
		child, err := fromJSON(c)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}
