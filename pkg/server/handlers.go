package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scenegraph/pkg/buildinfo"
	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	sgio "github.com/matzehuels/scenegraph/pkg/io"
	"github.com/matzehuels/scenegraph/pkg/pipeline"
	"github.com/matzehuels/scenegraph/pkg/render/nodelink"
	"github.com/matzehuels/scenegraph/pkg/scene"
	"github.com/matzehuels/scenegraph/pkg/storage"
)

// GlobalsResponse lists the global transform of every node, sorted by ID.
type GlobalsResponse struct {
	Root    string             `json:"root"`
	Globals []sgio.GlobalEntry `json:"globals"`
}

// CreateSceneRequest is the body of POST /v1/scenes.
type CreateSceneRequest struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name,omitempty"`
	Document sgio.Document `json:"document"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.logger, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleComputeGlobals(w http.ResponseWriter, r *http.Request) {
	doc, err := sgio.ReadJSON(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondGlobals(w, r, doc)
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var req CreateSceneRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, scerrors.Wrap(scerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	// Only buildable scenes are stored.
	if _, err := s.build(req.Document); err != nil {
		s.respondError(w, r, err)
		return
	}

	rec := &storage.Record{ID: req.ID, Name: req.Name, Document: req.Document}
	if err := s.repo.Save(r.Context(), rec); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("scene saved", "id", rec.ID, "nodes", len(rec.Document.Nodes)+1)
	w.Header().Set("Location", "/v1/scenes/"+rec.ID)
	respondJSON(w, s.logger, http.StatusCreated, rec)
}

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, s.logger, http.StatusOK, recs)
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, s.logger, http.StatusOK, rec)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := scerrors.ValidateSceneID(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSceneGlobals(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondGlobals(w, r, rec.Document)
}

func (s *Server) handleSceneDOT(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	h, err := s.build(rec.Document)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = fmt.Fprint(w, nodelink.ToDOT(h, nodelink.Options{Detailed: detailed}))
}

func (s *Server) handleSceneRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	h, err := s.build(rec.Document)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = nodelink.FormatSVG
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	res, err := s.runner.Render(r.Context(), h, pipeline.Options{
		Formats:  []string{format},
		Detailed: detailed,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("ETag", strconv.Quote(res.DOTHash))
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) respondGlobals(w http.ResponseWriter, r *http.Request, doc sgio.Document) {
	h, err := s.build(doc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, s.logger, http.StatusOK, GlobalsResponse{
		Root:    h.Root(),
		Globals: sgio.SortedGlobals(h.GlobalTransforms()),
	})
}

func (s *Server) build(doc sgio.Document) (*scene.Hierarchy[string], error) {
	return sgio.Build(doc, scene.WithLogger(s.logger), scene.WithHooks(s.sceneHooks))
}

func (s *Server) record(r *http.Request) (*storage.Record, error) {
	id := chi.URLParam(r, "id")
	if err := scerrors.ValidateSceneID(id); err != nil {
		return nil, err
	}
	return s.repo.Get(r.Context(), id)
}

func contentType(format string) string {
	switch format {
	case nodelink.FormatSVG:
		return "image/svg+xml"
	case nodelink.FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
