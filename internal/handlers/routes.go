package handlers

import "github.com/go-chi/chi/v5"

// Register attaches every API route to r. The route table is identical in
// both modes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.Index)

	r.Get("/users", h.GetUsers)
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}", h.GetUserByID)

	r.Get("/posts", h.GetPosts)
	r.Get("/posts/{id}", h.GetPostByID)

	r.Get("/search", h.SearchUsers)
	r.Get("/heavy", h.HeavyOperation)
	r.Post("/seed", h.SeedDatabase)
}
