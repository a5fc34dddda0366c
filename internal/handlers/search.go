package handlers

import (
	"net/http"

	"github.com/perflab/perfapi/internal/utils"
)

// SearchUsers is an exact-match username lookup despite its name; the cost
// profile is the only thing that differs between modes.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.Store.SearchUsers(r.Context(), query)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, results)
}
