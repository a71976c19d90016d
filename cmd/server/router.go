package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskr/taskr-api/internal/api"
	apiMiddleware "github.com/taskr/taskr-api/internal/api/middleware"
)

const requestTimeout = 30 * time.Second

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	cookies := api.NewCookieWriter(
		app.config.Cookie,
		app.jwtService.AccessTokenLifetime(),
		app.jwtService.RefreshTokenLifetime(),
	)
	authHandler := api.NewAuthHandler(app.sessionService, cookies, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api/v1", func(r chi.Router) {
		api.MountRoutes(r, authHandler, taskHandler, authMiddleware.Authenticate)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
