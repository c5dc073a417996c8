package mathexpr

import (
	"unicode"

	"github.com/g5becks/mathspan/internal/symbols"
)

// Parse builds an expression tree from one math span's source.
//
// Parse never fails and never panics. Malformed constructs degrade to
// partial trees: unknown commands become their literal name, an unclosed
// group closes at end of input, empty argument positions become the empty
// symbol, and a script with no base is dropped along with its argument.
func Parse(source string) Node {
	p := &parser{src: []rune(source)}

	var children []Node
	for {
		children = p.parseSequence(children, 0)
		if p.eof() {
			break
		}
		// Unbalanced closer at top level.
		p.pos++
	}

	return NewSequence(children)
}

type parser struct {
	src []rune
	pos int

	// bracketDepth counts open \sqrt[...] degrees outside any brace group;
	// while positive, ']' ends an argument.
	bracketDepth int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

// parseSequence appends terms to children until end of input, a '}', or
// the stop rune. A term is one atom followed by an optional script run.
func (p *parser) parseSequence(children []Node, stop rune) []Node {
	for !p.eof() {
		r := p.peek()
		if r == '}' || (stop != 0 && r == stop) {
			break
		}

		if r == '^' || r == '_' {
			// No atom precedes this script.
			p.pos++
			_ = p.parseArg()
			continue
		}

		atom := p.parseAtom()
		if n := len(children); isSpaceSymbol(atom) && n > 0 && isSpaceSymbol(children[n-1]) {
			children = children[:n-1]
		}
		children = append(children, p.parseScripts(atom))
	}

	return children
}

// parseScripts consumes a run of ^ and _ after base. Later scripts of the
// same kind overwrite earlier ones.
func (p *parser) parseScripts(base Node) Node {
	var sub, sup Node

loop:
	for !p.eof() {
		switch p.peek() {
		case '^':
			p.pos++
			sup = p.parseArg()
		case '_':
			p.pos++
			sub = p.parseArg()
		default:
			break loop
		}
	}

	switch {
	case sub != nil && sup != nil:
		return SubSup{Base: base, Sub: sub, Exponent: sup}
	case sup != nil:
		return Superscript{Base: base, Exponent: sup}
	case sub != nil:
		return Subscript{Base: base, Sub: sub}
	default:
		return base
	}
}

// parseArg reads a braced group or a single atom. Leading whitespace is
// skipped, so "x^ 2" scripts 2.
func (p *parser) parseArg() Node {
	p.skipSpace()
	if p.eof() {
		return Empty()
	}

	switch r := p.peek(); {
	case r == '{':
		return p.parseGroup()
	case r == '}', r == '^', r == '_':
		return Empty()
	case r == ']' && p.bracketDepth > 0:
		return Empty()
	}

	return p.parseAtom()
}

func (p *parser) parseAtom() Node {
	r := p.peek()
	switch {
	case r == '{':
		return p.parseGroup()
	case r == '\\':
		return p.parseCommand()
	case unicode.IsSpace(r):
		p.skipSpace()
		return Symbol{Text: " "}
	default:
		p.pos++
		return Symbol{Text: string(r)}
	}
}

func (p *parser) parseGroup() Node {
	p.pos++ // '{'

	depth := p.bracketDepth
	p.bracketDepth = 0
	children := p.parseSequence(nil, 0)
	p.bracketDepth = depth

	if !p.eof() && p.peek() == '}' {
		p.pos++
	}

	return NewSequence(children)
}

func (p *parser) parseCommand() Node {
	p.pos++ // '\'
	if p.eof() {
		return Empty()
	}

	r := p.peek()
	if !isLetter(r) {
		p.pos++
		return Symbol{Text: symbols.ResolveEscape(r)}
	}

	name := p.readName()
	switch {
	case isFraction(name):
		num := p.parseArg()
		den := p.parseArg()
		return Fraction{Numerator: num, Denominator: den}
	case name == "sqrt":
		p.skipDegree()
		return Sqrt{Radicand: p.parseArg()}
	case name == "left" || name == "right":
		return p.parseDelimiter()
	case isStyle(name):
		return p.parseArg()
	default:
		return Symbol{Text: symbols.ResolveCommand(name)}
	}
}

func (p *parser) readName() string {
	start := p.pos
	for !p.eof() && isLetter(p.peek()) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// skipDegree parses and discards an optional [n] root degree.
func (p *parser) skipDegree() {
	p.skipSpace()
	if p.eof() || p.peek() != '[' {
		return
	}
	p.pos++

	p.bracketDepth++
	_ = p.parseSequence(nil, ']')
	p.bracketDepth--

	if !p.eof() && p.peek() == ']' {
		p.pos++
	}
}

// parseDelimiter reads the single delimiter token after \left or \right.
// "." is the invisible delimiter.
func (p *parser) parseDelimiter() Node {
	p.skipSpace()
	if p.eof() {
		return Empty()
	}

	r := p.peek()
	p.pos++

	switch {
	case r == '.':
		return Empty()
	case r == '\\':
		if p.eof() {
			return Empty()
		}
		if isLetter(p.peek()) {
			return Symbol{Text: symbols.ResolveCommand(p.readName())}
		}
		escaped := p.peek()
		p.pos++
		return Symbol{Text: symbols.ResolveEscape(escaped)}
	default:
		return Symbol{Text: string(r)}
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSpaceSymbol(n Node) bool {
	s, ok := n.(Symbol)
	return ok && s.Text == " "
}

func isFraction(name string) bool {
	return name == "frac" || name == "dfrac" || name == "tfrac"
}

// isStyle reports commands whose single argument passes through unchanged;
// styling is not modeled in the tree.
func isStyle(name string) bool {
	switch name {
	case "text", "mathrm", "operatorname",
		"mathbf", "mathit", "mathsf", "mathtt", "mathbb", "mathcal",
		"textbf", "textit", "textrm", "boldsymbol":
		return true
	default:
		return false
	}
}

func isSpecialForm(name string) bool {
	return isFraction(name) || name == "sqrt" || name == "left" || name == "right" || isStyle(name)
}
