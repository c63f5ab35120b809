package api

import (
	"net/http"
	"time"

	"user_api/internal/api/handler"
	"user_api/internal/api/middleware"
	"user_api/internal/app/service"
	"user_api/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg *config.Config, userService *service.UserService) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORS)

	healthHandler := handler.NewHealthHandler(cfg.AppEnv)
	healthHandler.RegisterRoutes(r)

	userHandler := handler.NewUserHandler(userService)
	requireAdmin := middleware.AdminToken(cfg.AdminToken)
	r.Route("/users", func(users chi.Router) {
		userHandler.RegisterRoutes(users, requireAdmin)
	})

	return r
}
