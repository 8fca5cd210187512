package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/buildinfo"
	"github.com/matzehuels/lyphgraph/pkg/errors"
	lgio "github.com/matzehuels/lyphgraph/pkg/io"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/observability"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
	"github.com/matzehuels/lyphgraph/pkg/schema"
	"github.com/matzehuels/lyphgraph/pkg/store"
)

// Response headers describing an assembly.
const (
	HeaderStatus    = "X-Lyphgraph-Status"
	HeaderCache     = "X-Lyphgraph-Cache"
	HeaderModelHash = "X-Lyphgraph-Model-Hash"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatEntities: "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatSVG:      "image/svg+xml",
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) assemble(w http.ResponseWriter, r *http.Request) {
	opts, err := s.runOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.readModel(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := model.String(doc, "id")
	if id == "" {
		id = "request"
	}
	s.run(w, r, id, doc, opts)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readModel(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := schema.DefaultValidator()
	var violations []schema.Violation
	if assemble.IsScaffold(doc) {
		violations = v.ValidateScaffold(map[string]any(doc))
	} else {
		violations = v.ValidateGraph(map[string]any(doc))
	}
	if violations == nil {
		violations = []schema.Violation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) createModel(w http.ResponseWriter, r *http.Request) {
	s.storeModel(w, r, "", http.StatusCreated)
}

func (s *Server) putModel(w http.ResponseWriter, r *http.Request) {
	s.storeModel(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) storeModel(w http.ResponseWriter, r *http.Request, id string, status int) {
	doc, err := s.readModel(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stored, err := s.store.Put(r.Context(), id, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/models/"+stored.ID)
	writeJSON(w, status, stored)
}

func (s *Server) getModel(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", strconv.Quote(doc.Hash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Source)
}

func (s *Server) deleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) modelGraph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.runOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	stored, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := stored.Model()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "decode stored model %s", id))
		return
	}
	s.run(w, r, id, doc, opts)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, id string, doc model.Object, opts pipeline.Options) {
	res, err := s.runner.Run(r.Context(), id, doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheState := "miss"
	if res.CacheHit {
		cacheState = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", contentTypes[opts.Format])
	h.Set(HeaderStatus, string(res.Stats.Status))
	h.Set(HeaderCache, cacheState)
	h.Set(HeaderModelHash, res.ModelHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// runOptions reads the pipeline options from the query string.
func (s *Server) runOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Assemble: s.cfg.Assemble,
		Format:   q.Get("format"),
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatJSON
	}
	if !pipeline.ValidFormats[opts.Format] {
		return opts, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", opts.Format)
	}
	for name, dst := range map[string]*bool{
		"detailed": &opts.Detailed,
		"hidden":   &opts.Hidden,
		"refresh":  &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		*dst = b
	}
	return opts, nil
}

// readModel decodes the request body as JSON, or YAML when the
// Content-Type says so.
func (s *Server) readModel(w http.ResponseWriter, r *http.Request) (model.Object, error) {
	f := lgio.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && strings.Contains(mt, "yaml") {
		f = lgio.FormatYAML
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	doc, err := lgio.ReadModel(body, f)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, err
	}
	return doc, nil
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, store.ErrNotFound) {
		err = errors.Wrap(errors.ErrCodeNotFound, err, "model %s not found", chi.URLParam(r, "id"))
	}
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	writeJSON(w, status, errorResponse{Error: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
