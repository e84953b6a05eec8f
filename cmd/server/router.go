package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktracker/internal/api"
	apiMiddleware "github.com/phrazzld/tasktracker/internal/api/middleware"
)

// setupRouter registers middleware and routes. Task routes require a bearer
// token only when auth.require_token is set.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)

	r.Group(func(r chi.Router) {
		if app.config.Auth.RequireToken {
			r.Use(authMiddleware.Authenticate)
		}
		r.Get("/api/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
