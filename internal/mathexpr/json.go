package mathexpr

import "encoding/json"

// TypeName returns the lowercase variant name of n as used in JSON output.
func TypeName(n Node) string {
	switch n.(type) {
	case Sequence:
		return "sequence"
	case Symbol:
		return "symbol"
	case Fraction:
		return "fraction"
	case Sqrt:
		return "sqrt"
	case Superscript:
		return "superscript"
	case Subscript:
		return "subscript"
	case SubSup:
		return "subsup"
	default:
		return ""
	}
}

func (s Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Children []Node `json:"children"`
	}{"sequence", s.Children})
}

func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{"symbol", s.Text})
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"type"`
		Numerator   Node   `json:"numerator"`
		Denominator Node   `json:"denominator"`
	}{"fraction", f.Numerator, f.Denominator})
}

func (s Sqrt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Radicand Node   `json:"radicand"`
	}{"sqrt", s.Radicand})
}

func (s Superscript) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Base     Node   `json:"base"`
		Exponent Node   `json:"exponent"`
	}{"superscript", s.Base, s.Exponent})
}

func (s Subscript) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Base Node   `json:"base"`
		Sub  Node   `json:"sub"`
	}{"subscript", s.Base, s.Sub})
}

func (s SubSup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Base     Node   `json:"base"`
		Sub      Node   `json:"sub"`
		Exponent Node   `json:"exponent"`
	}{"subsup", s.Base, s.Sub, s.Exponent})
}
