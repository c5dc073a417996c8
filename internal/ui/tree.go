package ui

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/g5becks/mathspan/internal/mathexpr"
)

type child struct {
	role string
	node mathexpr.Node
}

// RenderTree writes n as an indented tree, one node per line. Children of
// fractions and scripts are labelled with their role.
func RenderTree(w io.Writer, n mathexpr.Node) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedRounded)

	appendNode(l, "", n)
	l.Render()
}

func appendNode(l list.Writer, role string, n mathexpr.Node) {
	label := nodeLabel(n)
	if role != "" {
		label = role + ": " + label
	}
	l.AppendItem(label)

	children := childrenOf(n)
	if len(children) == 0 {
		return
	}

	l.Indent()
	for _, c := range children {
		appendNode(l, c.role, c.node)
	}
	l.UnIndent()
}

func nodeLabel(n mathexpr.Node) string {
	switch x := n.(type) {
	case mathexpr.Symbol:
		if x.Text == "" {
			return "symbol (empty)"
		}
		return "symbol " + strconv.Quote(x.Text)
	case mathexpr.Sequence:
		return "sequence (" + strconv.Itoa(len(x.Children)) + ")"
	default:
		return mathexpr.TypeName(n)
	}
}

func childrenOf(n mathexpr.Node) []child {
	switch x := n.(type) {
	case mathexpr.Sequence:
		children := make([]child, 0, len(x.Children))
		for _, c := range x.Children {
			children = append(children, child{node: c})
		}
		return children
	case mathexpr.Fraction:
		return []child{{"numerator", x.Numerator}, {"denominator", x.Denominator}}
	case mathexpr.Sqrt:
		return []child{{"radicand", x.Radicand}}
	case mathexpr.Superscript:
		return []child{{"base", x.Base}, {"exponent", x.Exponent}}
	case mathexpr.Subscript:
		return []child{{"base", x.Base}, {"sub", x.Sub}}
	case mathexpr.SubSup:
		return []child{{"base", x.Base}, {"sub", x.Sub}, {"exponent", x.Exponent}}
	default:
		return nil
	}
}
