package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/weihan/ordertask-api/internal/api"
	apiMiddleware "github.com/weihan/ordertask-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and
// middleware. The task endpoints sit behind API-key auth; the health
// endpoint stays public for load balancers.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.store, app.executor, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.APIKeyAuth(app.config.Auth.APIKey))

		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/{id}", taskHandler.GetTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
