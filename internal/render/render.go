// Package render is the entry point that turns mixed text into segments
// with parsed expression trees attached.
package render

import (
	"github.com/g5becks/mathspan/internal/cache"
	"github.com/g5becks/mathspan/internal/mathexpr"
	"github.com/g5becks/mathspan/internal/segment"
)

// Part is one rendered segment. Expr is nil for text parts.
type Part struct {
	Kind segment.Kind  `json:"kind"`
	Text string        `json:"text"`
	Expr mathexpr.Node `json:"expr,omitempty"`
}

// Renderer segments text and resolves math through a shared cache.
type Renderer struct {
	cache *cache.Cache
}

// New returns a Renderer backed by c. A nil cache gets a bounded default.
func New(c *cache.Cache) *Renderer {
	if c == nil {
		c = cache.New(cache.DefaultCapacity)
	}
	return &Renderer{cache: c}
}

// Render splits text and attaches a tree to each math segment.
func (r *Renderer) Render(text string) []Part {
	segments := segment.Split(text)
	if len(segments) == 0 {
		return nil
	}

	parts := make([]Part, 0, len(segments))
	for _, s := range segments {
		p := Part{Kind: s.Kind, Text: s.Text}
		if s.IsMath() {
			p.Expr = r.cache.Resolve(s.Text)
		}
		parts = append(parts, p)
	}
	return parts
}

// Expr resolves a single math source through the cache.
func (r *Renderer) Expr(source string) mathexpr.Node {
	return r.cache.Resolve(source)
}

// ContainsMath reports whether text has any math segment.
func (r *Renderer) ContainsMath(text string) bool {
	return segment.ContainsMath(text)
}

// Cache returns the backing cache.
func (r *Renderer) Cache() *cache.Cache {
	return r.cache
}
