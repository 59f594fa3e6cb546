// Package api exposes the catalog over a REST-ish JSON surface. The
// handlers stay thin: parse the request, call one repository operation,
// map the outcome to a status code.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	shelferrs "github.com/clmartin/podshelf/internal/errors"
	"github.com/clmartin/podshelf/internal/importer"
	"github.com/clmartin/podshelf/internal/podshelf"
	"github.com/clmartin/podshelf/logger"
)

type (
	// Server serves the browsing and admin surfaces.
	Server struct {
		*http.Server

		repo    podshelf.CatalogService
		fixture importer.Fixture
	}

	ServerConfig struct {
		Port       int
		CorsOrigin string
	}
)

func NewServer(config ServerConfig, repo podshelf.CatalogService, fixture importer.Fixture) *Server {
	r := errRouter{Router: mux.NewRouter()}

	srvr := Server{
		repo:    repo,
		fixture: fixture,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowedMethods([]string{
					http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
				}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(accessLogMiddleware) // Log everything

	// Catalog CRUD, used by the admin console
	r.HandleFuncE("/podcasts", srvr.handleListPodcasts).Methods(http.MethodGet)
	r.HandleFuncE("/podcasts", srvr.handleCreatePodcast).Methods(http.MethodPost)
	r.HandleFuncE("/podcasts/{id}", srvr.handleGetPodcast).Methods(http.MethodGet)
	r.HandleFuncE("/podcasts/{id}", srvr.handleUpdatePodcast).Methods(http.MethodPut)
	r.HandleFuncE("/podcasts/{id}", srvr.handleDeletePodcast).Methods(http.MethodDelete)

	// One-shot fixture seeding
	r.HandleFuncE("/import", srvr.handleImport).Methods(http.MethodPost)

	// Read-only views for the browsing UI
	r.HandleFuncE("/featured-podcasts", srvr.handleFeaturedPodcasts).Methods(http.MethodGet)
	r.HandleFuncE("/popular-podcasts", srvr.handlePopularPodcasts).Methods(http.MethodGet)
	r.HandleFuncE("/featured-experts", srvr.handleFeaturedExperts).Methods(http.MethodGet)
	r.HandleFuncE("/categories", srvr.handleCategories).Methods(http.MethodGet)

	slog.Debug("configured catalog server", "port", config.Port)

	return &srvr
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("error encoding json response: %s", err)
	}

	return nil
}

// HandlerFuncE is a modified type of [http.HandlerFunc] that returns an error.
type HandlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	// Either it's already a structured error, or coerce it to one
	sErr := &shelferrs.Error{}
	if !errors.As(err, &sErr) {
		slog.Error("unexpected handler error", "error", err)
		sErr = shelferrs.E(http.StatusInternalServerError, "internal server error")
	}

	if err := writeJSON(w, sErr.Status, sErr); err != nil {
		slog.Error("error writing response", "error", err)
	}
}

// errRouter is a newtype around a mux router that allows attaching handlers that return errors.
type errRouter struct {
	*mux.Router
}

func (r errRouter) HandleFuncE(path string, f HandlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logger.Ctx(r.Context(),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		writer := &respCodeWriter{ResponseWriter: w}
		next.ServeHTTP(writer, r.WithContext(ctx))

		slog.InfoContext(ctx, "request completed",
			"duration", time.Since(start),
			"status_code", writer.code,
		)
	})
}

// To trap the response status code for logging later.
type respCodeWriter struct {
	http.ResponseWriter
	code int
}

func (w *respCodeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// repoErr maps the domain sentinels onto response codes; structured
// errors pass through untouched.
func repoErr(err error) error {
	sErr := &shelferrs.Error{}
	if errors.As(err, &sErr) {
		return err
	}
	if errors.Is(err, podshelf.ErrNotFound) {
		return shelferrs.E(err, http.StatusNotFound)
	}
	if errors.Is(err, podshelf.ErrConflict) {
		return shelferrs.E(err, http.StatusBadRequest)
	}

	return err
}
