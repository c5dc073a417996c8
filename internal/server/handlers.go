package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/g5becks/mathspan/internal/cache"
	"github.com/g5becks/mathspan/internal/mathexpr"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/search"
	"github.com/g5becks/mathspan/internal/segment"
)

type textRequest struct {
	Text string `json:"text"`
}

type sourceRequest struct {
	Source string `json:"source"`
}

type segmentResponse struct {
	Segments     []segment.Segment `json:"segments"`
	ContainsMath bool              `json:"contains_math"`
}

type renderResponse struct {
	Parts []render.Part `json:"parts"`
}

type parseResponse struct {
	Normalized string        `json:"normalized"`
	Expr       mathexpr.Node `json:"expr"`
	Nodes      int           `json:"nodes"`
	Unknown    []string      `json:"unknown"`
}

type symbolsResponse struct {
	Symbols []search.SymbolResult `json:"symbols"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}

	segments := segment.Split(req.Text)
	if segments == nil {
		segments = []segment.Segment{}
	}

	writeJSON(w, http.StatusOK, segmentResponse{
		Segments:     segments,
		ContainsMath: s.renderer.ContainsMath(req.Text),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}

	parts := s.renderer.Render(req.Text)
	if parts == nil {
		parts = []render.Part{}
	}

	writeJSON(w, http.StatusOK, renderResponse{Parts: parts})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expr := s.renderer.Expr(req.Source)
	unknown := mathexpr.UnknownCommands(req.Source)
	if unknown == nil {
		unknown = []string{}
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Normalized: cache.Normalize(req.Source),
		Expr:       expr,
		Nodes:      mathexpr.Count(expr),
		Unknown:    unknown,
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	results := search.Symbols(r.URL.Query().Get("q"), limit)
	if results == nil {
		results = []search.SymbolResult{}
	}

	writeJSON(w, http.StatusOK, symbolsResponse{Symbols: results})
}

func (s *Server) handleCache(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.renderer.Cache().Stats())
}

// decodeBody reads a JSON request body of at most maxBodyBytes. On failure
// it writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body exceeds "+strconv.Itoa(maxBodyBytes)+" bytes", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
