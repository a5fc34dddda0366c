package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/perflab/perfapi/internal/utils"
)

// ---------------------- LIST ----------------------

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Store.ListPosts(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, posts)
}

// ---------------------- GET ONE ----------------------

func (h *Handler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.Store.GetPost(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, post)
}
