// Package symbols holds the static lookup tables used to resolve math
// commands and escaped characters into output glyphs.
package symbols

import (
	"slices"
	"strings"
)

// Category groups command entries for listing.
type Category string

const (
	CategoryGreek     Category = "greek"
	CategoryOperator  Category = "operator"
	CategoryRelation  Category = "relation"
	CategoryArrow     Category = "arrow"
	CategorySet       Category = "set"
	CategoryLogic     Category = "logic"
	CategoryBig       Category = "big-operator"
	CategoryMisc      Category = "misc"
	CategoryEllipsis  Category = "ellipsis"
	CategoryDelimiter Category = "delimiter"
	CategorySpacing   Category = "spacing"
	CategoryEscape    Category = "escape"
)

// Entry is one row of the symbol table.
type Entry struct {
	Name     string   `json:"name"`
	Glyph    string   `json:"glyph"`
	Category Category `json:"category"`
}

//nolint:gochecknoglobals // Read-only tables built once at init.
var (
	commandEntries = buildCommandEntries()
	escapeEntries  = buildEscapeEntries()
	commands       = index(commandEntries)
	escapes        = index(escapeEntries)
)

// Command looks up a letter-only command name.
func Command(name string) (string, bool) {
	glyph, ok := commands[name]
	return glyph, ok
}

// Escape looks up a single escaped character.
func Escape(r rune) (string, bool) {
	glyph, ok := escapes[string(r)]
	return glyph, ok
}

// ResolveCommand returns the glyph for name, or name itself when the
// command is unknown.
func ResolveCommand(name string) string {
	if glyph, ok := commands[name]; ok {
		return glyph
	}
	return name
}

// ResolveEscape returns the glyph for an escaped character, or the
// character itself when it has no entry.
func ResolveEscape(r rune) string {
	if glyph, ok := escapes[string(r)]; ok {
		return glyph
	}
	return string(r)
}

// Entries returns a copy of the command table ordered by category, then name.
func Entries() []Entry {
	return slices.Clone(commandEntries)
}

// EscapeEntries returns a copy of the escape table.
func EscapeEntries() []Entry {
	return slices.Clone(escapeEntries)
}

func index(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Name] = e.Glyph
	}
	return m
}

func buildEscapeEntries() []Entry {
	chars := []string{"{", "}", "_", "^", `\`, "#", "$", "%", "&"}
	entries := make([]Entry, 0, len(chars))
	for _, c := range chars {
		entries = append(entries, Entry{Name: c, Glyph: c, Category: CategoryEscape})
	}
	return entries
}

func buildCommandEntries() []Entry {
	groups := []struct {
		category Category
		pairs    []string
	}{
		{CategoryGreek, []string{
			"alpha", "α", "beta", "β", "gamma", "γ", "delta", "δ", "epsilon", "ϵ",
			"varepsilon", "ε", "zeta", "ζ", "eta", "η", "theta", "θ", "vartheta", "ϑ",
			"iota", "ι", "kappa", "κ", "lambda", "λ", "mu", "μ", "nu", "ν", "xi", "ξ",
			"omicron", "ο", "pi", "π", "varpi", "ϖ", "rho", "ρ", "varrho", "ϱ",
			"sigma", "σ", "varsigma", "ς", "tau", "τ", "upsilon", "υ", "phi", "ϕ",
			"varphi", "φ", "chi", "χ", "psi", "ψ", "omega", "ω",
			"Gamma", "Γ", "Delta", "Δ", "Theta", "Θ", "Lambda", "Λ", "Xi", "Ξ",
			"Pi", "Π", "Sigma", "Σ", "Upsilon", "Υ", "Phi", "Φ", "Psi", "Ψ", "Omega", "Ω",
		}},
		{CategoryOperator, []string{
			"times", "×", "div", "÷", "pm", "±", "mp", "∓", "cdot", "⋅", "ast", "∗",
			"star", "⋆", "circ", "∘", "bullet", "•", "oplus", "⊕", "ominus", "⊖",
			"otimes", "⊗", "odot", "⊙", "wr", "≀", "dagger", "†",
		}},
		{CategoryRelation, []string{
			"leq", "≤", "le", "≤", "geq", "≥", "ge", "≥", "neq", "≠", "ne", "≠",
			"approx", "≈", "equiv", "≡", "sim", "∼", "simeq", "≃", "cong", "≅",
			"propto", "∝", "ll", "≪", "gg", "≫", "perp", "⊥", "parallel", "∥",
			"mid", "∣", "prec", "≺", "succ", "≻", "preceq", "⪯", "succeq", "⪰",
			"doteq", "≐", "models", "⊨", "vdash", "⊢", "asymp", "≍",
		}},
		{CategoryArrow, []string{
			"to", "→", "rightarrow", "→", "leftarrow", "←", "gets", "←",
			"leftrightarrow", "↔", "Rightarrow", "⇒", "Leftarrow", "⇐",
			"Leftrightarrow", "⇔", "implies", "⟹", "impliedby", "⟸", "iff", "⟺",
			"mapsto", "↦", "uparrow", "↑", "downarrow", "↓", "updownarrow", "↕",
			"longrightarrow", "⟶", "longleftarrow", "⟵", "Longrightarrow", "⟹",
			"hookrightarrow", "↪", "nearrow", "↗", "searrow", "↘",
		}},
		{CategorySet, []string{
			"in", "∈", "notin", "∉", "ni", "∋", "subset", "⊂", "supset", "⊃",
			"subseteq", "⊆", "supseteq", "⊇", "cup", "∪", "cap", "∩",
			"emptyset", "∅", "varnothing", "∅", "setminus", "∖",
			"sqcup", "⊔", "sqcap", "⊓",
		}},
		{CategoryLogic, []string{
			"land", "∧", "wedge", "∧", "lor", "∨", "vee", "∨", "neg", "¬", "lnot", "¬",
			"forall", "∀", "exists", "∃", "nexists", "∄", "top", "⊤", "bot", "⊥",
			"therefore", "∴", "because", "∵",
		}},
		{CategoryBig, []string{
			"sum", "∑", "prod", "∏", "coprod", "∐", "int", "∫", "iint", "∬",
			"iiint", "∭", "oint", "∮", "bigcup", "⋃", "bigcap", "⋂",
			"bigoplus", "⨁", "bigotimes", "⨂",
		}},
		{CategoryMisc, []string{
			"infty", "∞", "partial", "∂", "nabla", "∇", "prime", "′", "angle", "∠",
			"triangle", "△", "hbar", "ℏ", "ell", "ℓ", "Re", "ℜ", "Im", "ℑ",
			"aleph", "ℵ", "wp", "℘", "degree", "°", "checkmark", "✓", "square", "□",
			"diamond", "⋄", "clubsuit", "♣", "heartsuit", "♡", "spadesuit", "♠",
		}},
		{CategoryEllipsis, []string{
			"ldots", "…", "dots", "…", "cdots", "⋯", "vdots", "⋮", "ddots", "⋱",
		}},
		{CategoryDelimiter, []string{
			"langle", "⟨", "rangle", "⟩", "lceil", "⌈", "rceil", "⌉",
			"lfloor", "⌊", "rfloor", "⌋", "vert", "|", "lvert", "|", "rvert", "|",
			"Vert", "‖", "lVert", "‖", "rVert", "‖", "lbrace", "{", "rbrace", "}",
			"lbrack", "[", "rbrack", "]", "backslash", `\`,
		}},
		{CategorySpacing, []string{
			"quad", "\u2003", "qquad", "\u2003\u2003", "enspace", "\u2002", "thinspace", "\u2009",
		}},
	}

	var entries []Entry
	for _, g := range groups {
		for i := 0; i+1 < len(g.pairs); i += 2 {
			entries = append(entries, Entry{Name: g.pairs[i], Glyph: g.pairs[i+1], Category: g.category})
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(string(a.Category), string(b.Category)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return entries
}
