package handlers

import (
	"fmt"
	"net/http"

	"github.com/perflab/perfapi/internal/compute"
	"github.com/perflab/perfapi/internal/utils"
)

// Index lists the API's capabilities.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Welcome to the Performance Testing API (%s mode)", h.Mode),
		"mode":    h.Mode,
		"endpoints": map[string]string{
			"/users":      "GET - List all users, POST - Create new user",
			"/users/{id}": "GET - Get user by ID",
			"/posts":      "GET - List all posts",
			"/posts/{id}": "GET - Get post by ID",
			"/search":     "GET - Search users by exact username",
			"/heavy":      "GET - CPU intensive operation",
			"/seed":       "POST - Reset and reseed sample data",
		},
	})
}

// HeavyOperation runs the mode's sum-of-squares kernel. No storage access;
// exists to generate deterministic CPU load.
func (h *Handler) HeavyOperation(w http.ResponseWriter, r *http.Request) {
	result := h.Heavy(compute.DefaultIterations)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"result":     result,
		"iterations": compute.DefaultIterations,
	})
}

// SeedDatabase clears both tables and repopulates them with generated rows.
func (h *Handler) SeedDatabase(w http.ResponseWriter, r *http.Request) {
	users, posts, err := h.Store.Reseed(r.Context(), h.SeedUsers, h.SeedPosts)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Database seeded successfully",
		"users":   users,
		"posts":   posts,
	})
}
