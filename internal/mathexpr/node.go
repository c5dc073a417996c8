package mathexpr

import "strings"

// Node is an immutable expression tree node. The set of implementations is
// closed: Sequence, Symbol, Fraction, Sqrt, Superscript, Subscript, SubSup.
type Node interface {
	// String renders the node back into canonical math source.
	String() string

	node()
}

// Sequence is a horizontal run of at least two sibling nodes.
// Build it with NewSequence so short runs collapse.
type Sequence struct {
	Children []Node
}

// Symbol is an atomic rendered unit. The empty Symbol is the empty expression.
type Symbol struct {
	Text string
}

type Fraction struct {
	Numerator   Node
	Denominator Node
}

// Sqrt drops any root degree given in source.
type Sqrt struct {
	Radicand Node
}

type Superscript struct {
	Base     Node
	Exponent Node
}

type Subscript struct {
	Base Node
	Sub  Node
}

// SubSup is produced only when both scripts attach to one base.
type SubSup struct {
	Base     Node
	Sub      Node
	Exponent Node
}

func (Sequence) node()    {}
func (Symbol) node()      {}
func (Fraction) node()    {}
func (Sqrt) node()        {}
func (Superscript) node() {}
func (Subscript) node()   {}
func (SubSup) node()      {}

// Empty returns the empty expression.
func Empty() Node {
	return Symbol{}
}

// NewSequence collapses zero children to the empty symbol and a single
// child to itself. The slice is copied.
func NewSequence(children []Node) Node {
	switch len(children) {
	case 0:
		return Empty()
	case 1:
		return children[0]
	default:
		cp := make([]Node, len(children))
		copy(cp, children)
		return Sequence{Children: cp}
	}
}

// IsEmpty reports whether n is the empty expression.
func IsEmpty(n Node) bool {
	s, ok := n.(Symbol)
	return ok && s.Text == ""
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Text == y.Text
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case Fraction:
		y, ok := b.(Fraction)
		return ok && Equal(x.Numerator, y.Numerator) && Equal(x.Denominator, y.Denominator)
	case Sqrt:
		y, ok := b.(Sqrt)
		return ok && Equal(x.Radicand, y.Radicand)
	case Superscript:
		y, ok := b.(Superscript)
		return ok && Equal(x.Base, y.Base) && Equal(x.Exponent, y.Exponent)
	case Subscript:
		y, ok := b.(Subscript)
		return ok && Equal(x.Base, y.Base) && Equal(x.Sub, y.Sub)
	case SubSup:
		y, ok := b.(SubSup)
		return ok && Equal(x.Base, y.Base) && Equal(x.Sub, y.Sub) && Equal(x.Exponent, y.Exponent)
	default:
		return a == nil && b == nil
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	switch x := n.(type) {
	case Symbol:
		return 1
	case Sequence:
		total := 1
		for _, c := range x.Children {
			total += Count(c)
		}
		return total
	case Fraction:
		return 1 + Count(x.Numerator) + Count(x.Denominator)
	case Sqrt:
		return 1 + Count(x.Radicand)
	case Superscript:
		return 1 + Count(x.Base) + Count(x.Exponent)
	case Subscript:
		return 1 + Count(x.Base) + Count(x.Sub)
	case SubSup:
		return 1 + Count(x.Base) + Count(x.Sub) + Count(x.Exponent)
	default:
		return 0
	}
}

func (s Sequence) String() string {
	var b strings.Builder
	for _, c := range s.Children {
		b.WriteString(c.String())
	}
	return b.String()
}

func (s Symbol) String() string { return s.Text }

func (f Fraction) String() string {
	return `\frac` + braced(f.Numerator) + braced(f.Denominator)
}

func (s Sqrt) String() string { return `\sqrt` + braced(s.Radicand) }

func (s Superscript) String() string {
	return s.Base.String() + "^" + braced(s.Exponent)
}

func (s Subscript) String() string {
	return s.Base.String() + "_" + braced(s.Sub)
}

func (s SubSup) String() string {
	return s.Base.String() + "_" + braced(s.Sub) + "^" + braced(s.Exponent)
}

func braced(n Node) string {
	return "{" + n.String() + "}"
}
