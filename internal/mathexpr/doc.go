// Package mathexpr defines the immutable expression tree for a math span and
// the recursive-descent parser that builds it.
//
// The accepted language is a constrained LaTeX subset:
//
//	Expression  := Term*
//	Term        := Atom Script*
//	Script      := ('^' | '_') Arg
//	Arg         := Group | Atom
//	Atom        := Group | Command | WhitespaceRun | Char
//	Group       := '{' Expression '}'
//	Command     := '\' (Letter+ | AnyChar)
//
// Named commands resolve through the symbols package. Parsing is total: any
// input string yields a tree.
package mathexpr
