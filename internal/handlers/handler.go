package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/perflab/perfapi/internal/store"
	"github.com/perflab/perfapi/internal/utils"
)

// Handler bundles everything a request needs: the mode's store, the mode's
// heavy-computation kernel, and the seed sizes.
type Handler struct {
	Store store.Store
	Mode  string

	// Heavy is the mode's sum-of-squares kernel.
	Heavy func(n int) int64

	SeedUsers int
	SeedPosts int

	Log      zerolog.Logger
	validate *validator.Validate
}

func NewHandler(s store.Store, mode string, heavy func(int) int64, seedUsers, seedPosts int, log zerolog.Logger) *Handler {
	return &Handler{
		Store:     s,
		Mode:      mode,
		Heavy:     heavy,
		SeedUsers: seedUsers,
		SeedPosts: seedPosts,
		Log:       log,
		validate:  validator.New(),
	}
}

// storeError maps the store's sentinel errors onto the JSON error envelope.
// Unclassified faults are logged with their cause and surfaced generically.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		utils.JSONError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrPostNotFound):
		utils.JSONError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, store.ErrDuplicateUsername):
		utils.JSONError(w, http.StatusBadRequest, "Username already exists")
	default:
		h.Log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled store error")
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
