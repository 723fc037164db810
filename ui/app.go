// Package ui exposes the analysis pipeline over HTTP. The server accepts
// an uploaded dataset, runs the pipeline once, and returns the mapping,
// insights and resolved charts for the rendering layer to draw.
package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"insighto/app"
	"insighto/internal"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.AnalysisService
	log     *internal.Logger
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP application around an analysis service.
func NewApp(service *app.AnalysisService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		log:     internal.DefaultLogger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(60 * time.Second))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Post("/api/analyze", a.handleAnalyze)
	a.router.Post("/api/report", a.handleReport)
}

// Router exposes the configured router for serving and tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server.
func (a *App) Serve(config Config) error {
	addr := ":" + config.Port
	a.log.Info("listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
