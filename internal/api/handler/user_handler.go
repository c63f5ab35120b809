package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"user_api/internal/app/service"
	"user_api/internal/common"
	"user_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// RegisterRoutes mounts the user routes. Creation is public; everything
// else sits behind the admin-token middleware.
func (h *UserHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Post("/", h.createUser) // POST /users

	r.Group(func(admin chi.Router) {
		admin.Use(requireAdmin)
		admin.Get("/", h.listUsers)             // GET /users
		admin.Get("/{userID}", h.getUser)       // GET /users/{id}
		admin.Put("/{userID}", h.updateUser)    // PUT /users/{id}
		admin.Delete("/{userID}", h.deleteUser) // DELETE /users/{id}
	})
}

type createUserResponse struct {
	model.Projection
	Meta responseMeta `json:"meta"`
}

type responseMeta struct {
	Location string `json:"location"`
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, createUserResponse{
		Projection: user.Public(),
		Meta:       responseMeta{Location: "/users/" + user.ID},
	})
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	emailPrefix := r.URL.Query().Get("email")

	users, err := h.userService.List(r.Context(), emailPrefix)
	if err != nil {
		h.respondError(w, err)
		return
	}

	projections := make([]model.Projection, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Public())
	}
	common.RespondWithJSON(w, http.StatusOK, projections)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user.Public())
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.userService.Update(r.Context(), userID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user.Public())
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "User deleted."})
}

// respondError translates err through the taxonomy. The raw cause of an
// internal failure is logged, never echoed to the client.
func (h *UserHandler) respondError(w http.ResponseWriter, err error) {
	status := common.HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("user handler: %v", err)
	}
	common.RespondWithError(w, status, common.MessageFromError(err))
}
