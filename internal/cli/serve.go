package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	relayerrors "relaymap/pkg/errors"
	"relaymap/pkg/graphio"
	"relaymap/pkg/pipeline"
	"relaymap/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the HTTP API server command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the relay graph API over HTTP",
		Long: `Serve exposes the build pipeline over HTTP.

Endpoints:
  POST /api/build          build a graph from compiler output
  GET  /api/graphs         list stored graphs
  GET  /api/graphs/{hash}  fetch a stored graph
  GET  /healthz            health check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runner, err := c.newRunner(ctx, opts.noCache, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	graphs, err := c.newStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer graphs.Close(ctx)

	srv := &apiServer{
		runner: runner,
		store:  graphs,
		cfg:    cfg,
		logger: c.Logger,
	}

	server := &http.Server{
		Addr:         opts.addr,
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", opts.addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// newStore picks the graph store from config. Without a Mongo URI, graphs
// live only in memory for the lifetime of the server.
func (c *CLI) newStore(cmd *cobra.Command, cfg fileConfig) (store.Store, error) {
	if cfg.Store.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(cmd.Context(), store.MongoConfig{
		URI:        cfg.Store.MongoURI,
		Database:   cfg.Store.Database,
		Collection: cfg.Store.Collection,
	})
}

// apiServer holds the request handlers.
type apiServer struct {
	runner *pipeline.Runner
	store  store.Store
	cfg    fileConfig
	logger *log.Logger
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/build", s.handleBuild)
		r.Get("/graphs", s.handleListGraphs)
		r.Get("/graphs/{hash}", s.handleGetGraph)
	})

	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// buildResponse is the JSON body returned by POST /api/build.
type buildResponse struct {
	BatchID   string        `json:"batch_id"`
	GraphHash string        `json:"graph_hash"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	BuildHit  bool          `json:"build_cached"`
	LayoutHit bool          `json:"layout_cached"`
	Graph     graphio.Graph `json:"graph"`
}

func (s *apiServer) handleBuild(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, relayerrors.New(relayerrors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	applyConfig(&opts, s.cfg)

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		switch relayerrors.GetCode(err) {
		case relayerrors.ErrCodeInvalidInput, relayerrors.ErrCodeInvalidAlgorithm:
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	doc := store.Document{
		Hash:      result.GraphHash,
		BatchID:   result.BatchID,
		BuildDir:  opts.BuildDir,
		CreatedAt: time.Now().UTC(),
		Graph:     graphio.FromGraph(result.Graph),
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.logger.Errorf("store graph: %v", err)
	}

	writeJSON(w, http.StatusOK, buildResponse{
		BatchID:   result.BatchID,
		GraphHash: result.GraphHash,
		Nodes:     result.Stats.NodeCount,
		Edges:     result.Stats.EdgeCount,
		BuildHit:  result.CacheInfo.BuildHit,
		LayoutHit: result.CacheInfo.LayoutHit,
		Graph:     doc.Graph,
	})
}

func (s *apiServer) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	type entry struct {
		Hash      string    `json:"hash"`
		BatchID   string    `json:"batch_id"`
		CreatedAt time.Time `json:"created_at"`
		Nodes     int       `json:"nodes"`
	}
	entries := make([]entry, len(docs))
	for i, d := range docs {
		entries[i] = entry{
			Hash:      d.Hash,
			BatchID:   d.BatchID,
			CreatedAt: d.CreatedAt,
			Nodes:     len(d.Graph.Nodes),
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *apiServer) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	doc, err := s.store.Get(r.Context(), hash)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, relayerrors.New(relayerrors.ErrCodeGraphNotFound, "no graph with hash %s", hash))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": relayerrors.UserMessage(err),
		"code":  string(relayerrors.GetCode(err)),
	})
}
