// Package xmltree reads XML documents into a generic tree of named nodes
// with attributes, trimmed text contents and ordered children.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRoot is returned for documents without any element.
var ErrNoRoot = errors.New("xml document has no root element")

type Attr struct {
	Name  string
	Value string
}

type Node struct {
	Name       string
	Properties []Attr
	Contents   string
	Children   []*Node
}

// Parse decodes r into a tree and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var root *Node
	var stack []*Node
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("xml decode: %w", err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: tok.Name.Local}
			for _, a := range tok.Attr {
				node.Properties = append(node.Properties, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("xml decode: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			text = append(text, &strings.Builder{})
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(tok)
			}
		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Contents = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// Property returns the attribute value for name.
func (n *Node) Property(name string) (string, bool) {
	for _, a := range n.Properties {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetProperty replaces or appends an attribute.
func (n *Node) SetProperty(name, value string) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			n.Properties[i].Value = value
			return
		}
	}
	n.Properties = append(n.Properties, Attr{Name: name, Value: value})
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:       n.Name,
		Contents:   n.Contents,
		Properties: append([]Attr(nil), n.Properties...),
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}
