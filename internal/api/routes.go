package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the user and task endpoints on r, which is expected
// to be mounted at /api/v1. authenticate guards every route that needs a
// session.
func MountRoutes(
	r chi.Router,
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	authenticate func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/isActive", authHandler.IsActive)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refreshToken", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/logout", authHandler.Logout)
			r.Patch("/changePassword", authHandler.ChangePassword)
			r.Get("/getCurrentUser", authHandler.GetCurrentUser)
			r.Patch("/updateCurrentUser", authHandler.UpdateCurrentUser)
			r.Delete("/deleteAccount", authHandler.DeleteAccount)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Delete("/", taskHandler.DeleteTasks)
		r.Patch("/{taskId}", taskHandler.UpdateTask)
		r.Delete("/{taskId}", taskHandler.DeleteTask)
	})
}
