package document

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

func init() { Register(yamlFormat{}) }

type yamlFormat struct{}

func (yamlFormat) Name() string         { return "yaml" }
func (yamlFormat) Extensions() []string { return []string{"yaml", "yml"} }

func (yamlFormat) Marshal(n *Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New("yaml: nil document")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(n)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlFormat) Unmarshal(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("yaml: expected a single document")
	}
	return fromYAML(doc.Content[0])
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// quoted keeps texts such as "2" or "true" from reading back as other
// scalar types in generic YAML tools.
func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

func toYAML(n *Node) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, str("name"), str(n.Name))
	if len(n.Attrs) > 0 {
		attrs := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range n.AttrNames() {
			attrs.Content = append(attrs.Content, str(k), quoted(n.Attrs[k]))
		}
		m.Content = append(m.Content, str("attrs"), attrs)
	}
	if n.Leaf() {
		if n.Text != "" {
			m.Content = append(m.Content, str("text"), quoted(n.Text))
		}
		return m
	}
	children := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range n.Children {
		children.Content = append(children.Content, toYAML(c))
	}
	m.Content = append(m.Content, str("children"), children)
	return m
}

func fromYAML(y *yaml.Node) (*Node, error) {
	if y.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml: line %d: expected a mapping", y.Line)
	}
	n := &Node{}
	hasText := false
	for i := 0; i+1 < len(y.Content); i += 2 {
		key, val := y.Content[i], y.Content[i+1]
		switch key.Value {
		case "name":
			n.Name = val.Value
		case "text":
			if val.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yaml: line %d: text must be a scalar", val.Line)
			}
			n.Text = val.Value
			hasText = true
		case "attrs":
			if val.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("yaml: line %d: attrs must be a mapping", val.Line)
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				n.SetAttr(val.Content[j].Value, val.Content[j+1].Value)
			}
		case "children":
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("yaml: line %d: children must be a sequence", val.Line)
			}
			for _, c := range val.Content {
				child, err := fromYAML(c)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, child)
			}
		default:
			return nil, fmt.Errorf("yaml: line %d: unknown key %q", key.Line, key.Value)
		}
	}
	if n.Name == "" {
		return nil, fmt.Errorf("yaml: line %d: node without a name", y.Line)
	}
	if hasText && len(n.Children) > 0 {
		return nil, fmt.Errorf("yaml: line %d: node %s has both text and children", y.Line, n.Name)
	}
	return n, nil
}
