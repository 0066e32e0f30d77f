// Package httpapi serves the analysis pipeline over HTTP for graph UIs.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"codegraph/internal/analyzer"
	"codegraph/internal/gitsource"
	"codegraph/internal/graph"
	"codegraph/internal/store"
	"codegraph/internal/walker"
)

type API struct {
	walker   *walker.Walker
	analyzer *analyzer.Analyzer
	store    *store.Store
	logger   *zap.Logger
}

func New(w *walker.Walker, a *analyzer.Analyzer, st *store.Store, logger *zap.Logger) *API {
	return &API{walker: w, analyzer: a, store: st, logger: logger}
}

// Router builds the HTTP handler tree.
func (api *API) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(api.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/analyze", api.handleAnalyze)
	r.Get("/graph", api.handleGetGraph)
	return r
}

func (api *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		api.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

type analyzeRequest struct {
	RepoURL   string `json:"repo_url"`
	LocalPath string `json:"local_path"`
}

func (api *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if (req.RepoURL == "") == (req.LocalPath == "") {
		api.writeError(w, http.StatusBadRequest, "provide exactly one of repo_url or local_path")
		return
	}

	ctx := r.Context()
	baseDir := req.LocalPath
	if req.RepoURL != "" {
		dir, cleanup, err := gitsource.Clone(ctx, req.RepoURL, api.logger)
		if err != nil {
			api.writeError(w, http.StatusBadGateway, "failed to clone repository: "+err.Error())
			return
		}
		defer cleanup()
		baseDir = dir
	}

	files, fileSet, err := api.walker.Walk(baseDir)
	if err != nil {
		api.writeError(w, http.StatusBadRequest, "failed to walk directory: "+err.Error())
		return
	}

	g, err := api.analyzer.Analyze(ctx, baseDir, files, fileSet)
	if err != nil {
		api.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if api.store != nil {
		if err := api.store.ReplaceGraph(ctx, g); err != nil {
			api.logger.Warn("failed to persist graph", zap.Error(err))
		}
	}

	layoutGrid(g)
	api.writeJSON(w, http.StatusOK, g.ToWire())
}

func (api *API) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	if api.store == nil {
		api.writeError(w, http.StatusServiceUnavailable, "no graph store configured")
		return
	}
	g, err := api.store.GetGraph(r.Context())
	if err != nil {
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	layoutGrid(g)
	api.writeJSON(w, http.StatusOK, g.ToWire())
}

// layoutGrid assigns simple grid positions so a fresh UI has something to
// draw before it runs its own layout.
func layoutGrid(g *graph.Graph) {
	const (
		perRow = 8
		stepX  = 240
		stepY  = 120
	)
	for i := range g.Nodes {
		g.Nodes[i].X = float64((i % perRow) * stepX)
		g.Nodes[i].Y = float64((i / perRow) * stepY)
	}
}

func (api *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (api *API) writeError(w http.ResponseWriter, status int, msg string) {
	api.writeJSON(w, status, graph.WireError{Error: msg})
}
