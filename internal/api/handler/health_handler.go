package handler

import (
	"net/http"

	"user_api/internal/common"

	"github.com/go-chi/chi/v5"
)

const (
	appName    = "Go Api Demo"
	appVersion = "1.0.0"
)

type HealthHandler struct {
	env string
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{env: env}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.root)
	r.Get("/ping", h.ping)
}

func (h *HealthHandler) root(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"app":     appName,
		"version": appVersion,
		"env":     h.env,
	})
}

func (h *HealthHandler) ping(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, "pong")
}
