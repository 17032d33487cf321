package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

func init() { Register(xmlFormat{}) }

type xmlFormat struct{}

func (xmlFormat) Name() string         { return "xml" }
func (xmlFormat) Extensions() []string { return []string{"xml"} }

func (xmlFormat) Marshal(n *Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New("xml: nil document")
	}
	if err := checkText("xml", n, xmlText); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := writeXML(enc, n); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeXML(enc *xml.Encoder, n *Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	for _, k := range n.AttrNames() {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: n.Attrs[k]})
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("xml: %s: %w", n.Name, err)
	}
	if n.Leaf() {
		if n.Text != "" {
			if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
				return err
			}
		}
	} else {
		for _, c := range n.Children {
			if err := writeXML(enc, c); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

// Unmarshal reads a document back. Character data of an element that has
// child elements is indentation and is dropped; a leaf keeps its text
// verbatim.
func (xmlFormat) Unmarshal(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		root  *Node
		stack []*Node
		texts []bytes.Buffer
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := New(t.Name.Local)
			for _, a := range t.Attr {
				n.SetAttr(a.Name.Local, a.Value)
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Append(n)
			} else if root != nil {
				return nil, errors.New("xml: more than one root element")
			} else {
				root = n
			}
			stack = append(stack, n)
			texts = append(texts, bytes.Buffer{})
		case xml.CharData:
			if len(stack) > 0 {
				texts[len(texts)-1].Write(t)
			}
		case xml.EndElement:
			n := stack[len(stack)-1]
			if n.Leaf() {
				n.Text = texts[len(texts)-1].String()
			}
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		}
	}
	if root == nil {
		return nil, errors.New("xml: empty document")
	}
	return root, nil
}
