// Package doctree provides a small generic XML document tree used by the
// format readers and writers. It keeps attribute order and child order, which
// the exchange writer needs for stable output, and flattens namespace
// prefixes so readers can match on plain names.
package doctree

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/archweave/archweave/pkg/errors"
)

// Namespace URIs recognized during decoding.
const (
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	xmlnsNamespace = "xmlns"
)

// Attr is a single attribute. Name carries the prefix for the namespaces the
// formats use ("xsi:type", "xmlns:archimate"); all other attributes are plain
// local names.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the document tree.
type Element struct {
	Tag      string // local name, prefixes stripped
	Attrs    []Attr
	Children []*Element
	Text     string
}

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute, keeping first-set order.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Find returns the first direct child with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given tag.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FindText returns the trimmed text of the first child with the given tag.
func (e *Element) FindText(tag string) string {
	if c := e.Find(tag); c != nil {
		return c.Text
	}
	return ""
}

// Add appends a new child element and returns it.
func (e *Element) Add(tag string) *Element {
	c := &Element{Tag: tag}
	e.Children = append(e.Children, c)
	return c
}

// AddText appends a child carrying only text. Children with empty text are
// not added, keeping serialized output free of empty tags.
func (e *Element) AddText(tag, text string) *Element {
	if text == "" {
		return nil
	}
	c := e.Add(tag)
	c.Text = text
	return c
}

// Parse decodes an XML document into a tree, failing with MALFORMED_DOCUMENT
// on any syntax error. Namespace prefixes other than xsi and xmlns are
// dropped; readers dispatch on local names.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "invalid XML")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New(errors.ErrCodeMalformedDocument,
						"multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "empty document")
	}
	return root, nil
}

func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case xsiNamespace, "xsi":
		return "xsi:" + n.Local
	case xmlnsNamespace:
		if n.Local == "xmlns" {
			return "xmlns"
		}
		return "xmlns:" + n.Local
	default:
		// unknown prefix, keep the local name
		return n.Local
	}
}

// Encode writes the tree as an indented XML document with the standard
// header. Attribute and child order is preserved.
func (e *Element) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := e.encode(enc); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: a.Name},
			Value: a.Value,
		})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}
