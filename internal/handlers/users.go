package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/perflab/perfapi/internal/utils"
)

// ---------------------- LIST ----------------------

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// ---------------------- GET ONE ----------------------

func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// ---------------------- CREATE ----------------------

type createUserReq struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUser validates the payload before any storage access, then derives
// the digest and inserts through the mode's store.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	id, err := h.Store.CreateUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"id":       id,
		"username": req.Username,
	})
}
