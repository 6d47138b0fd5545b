package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/roach88/iogen/internal/engine"
	"github.com/roach88/iogen/internal/ir"
	"github.com/roach88/iogen/internal/loader"
	"github.com/roach88/iogen/internal/printer"
	"github.com/roach88/iogen/internal/render"
	"github.com/roach88/iogen/internal/store"
)

// sourceRequest carries declarations as text in one of the loader formats.
type sourceRequest struct {
	Format   string `json:"format"`
	Source   string `json:"source"`
	Filename string `json:"filename,omitempty"`
}

type generateRequest struct {
	Format   string       `json:"format"`
	Source   string       `json:"source"`
	Filename string       `json:"filename,omitempty"`
	Header   []string     `json:"header,omitempty"`
	Emit     *emitOptions `json:"emit,omitempty"`
	Record   bool         `json:"record,omitempty"`
}

func (r generateRequest) source() sourceRequest {
	return sourceRequest{Format: r.Format, Source: r.Source, Filename: r.Filename}
}

type emitOptions struct {
	Static  bool `json:"static"`
	Runtime bool `json:"runtime"`
}

type sortResponse struct {
	Order  []string `json:"order"`
	Cyclic []string `json:"cyclic"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	decls, ok := parseSource(w, req.source())
	if !ok {
		return
	}

	var opts *printer.Options
	if req.Header != nil || req.Emit != nil {
		opts = &printer.Options{Header: req.Header}
		if req.Emit != nil {
			opts.Static = req.Emit.Static
			opts.Runtime = req.Emit.Runtime
		}
	}

	res, err := s.engine.Generate(r.Context(), engine.Request{
		Declarations: decls,
		Source:       sourceLabel(req.source()),
		Options:      opts,
		Record:       req.Record,
	})
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	decls, ok := parseSource(w, req)
	if !ok {
		return
	}

	sorted, result, err := s.engine.Order(decls)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	resp := sortResponse{Order: ir.Names(sorted), Cyclic: result.Cyclic}
	if resp.Cyclic == nil {
		resp.Cyclic = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	decls, ok := parseSource(w, req)
	if !ok {
		return
	}

	q := r.URL.Query()
	dot, err := render.ToDOT(decls, render.Options{
		Detailed:   queryBool(q.Get("detailed")),
		Unresolved: queryBool(q.Get("unresolved")),
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "GRAPH_FAILED", err.Error(), nil)
		return
	}

	switch q.Get("format") {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(dot))
	case "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.logger.Error("svg render failed", "error", err)
			writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error(), nil)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write(svg)
	default:
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("unknown graph format %q", q.Get("format")), nil)
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid limit %q", v), nil)
			return
		}
		limit = n
	}

	runs, err := s.engine.Store().ReadRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("read runs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_FAILED", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.engine.Store().ReadRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}
	if err != nil {
		s.logger.Error("read run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_FAILED", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeclarationHistory(w http.ResponseWriter, r *http.Request) {
	versions, err := s.engine.Store().DeclarationHistory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.logger.Error("declaration history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_FAILED", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var ge *engine.GenerateError
	if !errors.As(err, &ge) {
		s.logger.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	switch ge.Code {
	case engine.ErrCodeLintFailed:
		writeError(w, http.StatusUnprocessableEntity, string(ge.Code), ge.Message, ge.Lint)
	case engine.ErrCodeDuplicateDeclaration:
		writeError(w, http.StatusUnprocessableEntity, string(ge.Code), ge.Message, nil)
	default:
		s.logger.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, string(ge.Code), ge.Error(), nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid request body: %v", err), nil)
		return false
	}
	return true
}

func parseSource(w http.ResponseWriter, req sourceRequest) ([]ir.Declaration, bool) {
	format := loader.Format(req.Format)
	if req.Format == "" {
		format = loader.FormatYAML
	}

	decls, errs := loader.Parse(format, sourceLabel(req), []byte(req.Source))
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "LOAD_FAILED", fmt.Sprintf("%d load error(s)", len(errs)), loadErrors(errs))
		return nil, false
	}
	return decls, true
}

func sourceLabel(req sourceRequest) string {
	if req.Filename != "" {
		return req.Filename
	}
	return "<request>"
}

func loadErrors(errs []error) []*loader.LoadError {
	out := make([]*loader.LoadError, len(errs))
	for i, err := range errs {
		var le *loader.LoadError
		if !errors.As(err, &le) {
			le = &loader.LoadError{Code: loader.ErrCodeGeneric, Message: err.Error()}
		}
		out[i] = le
	}
	return out
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorResponse{Code: code, Message: message, Errors: details})
}
