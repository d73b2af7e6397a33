package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskbooking/taskbooking-api/internal/api"
	apimiddleware "github.com/taskbooking/taskbooking-api/internal/api/middleware"
	"github.com/taskbooking/taskbooking-api/internal/relay"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	taskHandler := api.NewTaskHandler(app.taskService)
	chatHandler := api.NewChatHandler(app.chatService)
	expertHandler := api.NewExpertHandler(app.expertService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/mine", taskHandler.ListMine)
			r.Get("/tasks/open", taskHandler.ListOpen)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Patch("/tasks/{id}/assign", taskHandler.Assign)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateStatus)
			r.Post("/tasks/{id}/review", taskHandler.Review)

			r.Get("/chat/{taskId}", chatHandler.List)
			r.Post("/chat/{taskId}", chatHandler.Send)
			r.Post("/chat/{taskId}/read", chatHandler.MarkRead)

			r.Get("/experts/available", expertHandler.ListAvailable)
			r.Patch("/experts/availability", expertHandler.SetAvailability)
			r.Patch("/experts/profile", expertHandler.UpdateProfile)
			r.Get("/experts/{id}", expertHandler.Profile)
		})
	})

	// The websocket endpoint authenticates during the upgrade handshake
	// (Authorization header or token query parameter), so it lives outside
	// the authenticated group.
	wsHandler := relay.NewWSHandler(app.hub, app.jwtService, app.logger)
	r.Get("/ws", wsHandler.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
