package main

import (
	"strconv"
	"strings"

	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/render"
)

// treeNode is one row of the interactive browser.
type treeNode struct {
	label    string
	value    bond.Value
	summary  string
	children []*treeNode
	depth    int
	expanded bool
}

func buildTree(root *bond.Struct) *treeNode {
	n := newNode("root", *root, 0)
	n.expanded = true
	return n
}

func newNode(label string, v bond.Value, depth int) *treeNode {
	n := &treeNode{label: label, value: v, depth: depth}
	switch x := v.(type) {
	case bond.Struct:
		if x.Base != nil {
			n.children = append(n.children, newNode("base", *x.Base, depth+1))
		}
		for i, f := range x.Fields {
			n.children = append(n.children, newNode(index(i), f, depth+1))
		}
	case bond.List:
		for i, e := range x {
			n.children = append(n.children, newNode(index(i), e, depth+1))
		}
	case bond.Set:
		for i, e := range x {
			n.children = append(n.children, newNode(index(i), e, depth+1))
		}
	case bond.Map:
		for i, e := range x {
			entry := &treeNode{label: index(i), depth: depth + 1}
			entry.summary = summary(e.Key) + " => " + summary(e.Value)
			entry.children = []*treeNode{
				newNode("key", e.Key, depth+2),
				newNode("value", e.Value, depth+2),
			}
			n.children = append(n.children, entry)
		}
	}
	if n.summary == "" {
		n.summary = summary(v)
	}
	return n
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// summary is the one-line description shown next to a node's label.
func summary(v bond.Value) string {
	switch x := v.(type) {
	case bond.Struct:
		s := "Struct {" + strconv.Itoa(len(x.Fields)) + " fields"
		if n := len(x.Bases()); n > 0 {
			s += ", " + strconv.Itoa(n) + " bases"
		}
		return s + "}"
	case bond.List:
		if data, ok := x.Bytes(); ok && len(data) > 0 {
			return "List<Uint8> [" + strconv.Itoa(len(data)) + "]"
		}
		return "List [" + strconv.Itoa(len(x)) + "]"
	case bond.Set:
		return "Set [" + strconv.Itoa(len(x)) + "]"
	case bond.Map:
		return "Map {" + strconv.Itoa(len(x)) + " entries}"
	case nil:
		return ""
	default:
		return v.Kind().String() + "(" + render.Scalar(v) + ")"
	}
}

// visible returns the rows shown when n is rendered with its current
// expansion state, in display order.
func (n *treeNode) visible() []*treeNode {
	rows := []*treeNode{n}
	if n.expanded {
		for _, c := range n.children {
			rows = append(rows, c.visible()...)
		}
	}
	return rows
}

func (n *treeNode) setExpanded(expanded bool) {
	n.expanded = expanded
	for _, c := range n.children {
		c.setExpanded(expanded)
	}
}

// matches reports whether the node's label or summary contains query,
// ignoring case.
func (n *treeNode) matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.label), q) ||
		strings.Contains(strings.ToLower(n.summary), q)
}

// find returns the path from n to the first node following after, in
// depth-first order and wrapping around, that matches query. Collapsed
// subtrees are searched too.
func (n *treeNode) find(query string, after *treeNode) []*treeNode {
	var all [][]*treeNode
	var walk func(node *treeNode, path []*treeNode)
	walk = func(node *treeNode, path []*treeNode) {
		path = append(path[:len(path):len(path)], node)
		all = append(all, path)
		for _, c := range node.children {
			walk(c, path)
		}
	}
	walk(n, nil)

	start := 0
	for i, p := range all {
		if p[len(p)-1] == after {
			start = i + 1
			break
		}
	}
	for i := range all {
		p := all[(start+i)%len(all)]
		if p[len(p)-1].matches(query) {
			return p
		}
	}
	return nil
}
