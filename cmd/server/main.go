package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_api/internal/api"
	"user_api/internal/app/service"
	"user_api/internal/domain/repository"
	"user_api/internal/platform/config"
	"user_api/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Initialize DynamoDB client
	client, err := database.NewDynamoDBClient(context.Background(), cfg.Region)
	if err != nil {
		log.Fatalf("Could not initialize DynamoDB client: %v", err)
	}
	log.Println("DynamoDB client initialized.")

	// 3. Initialize Repositories & Services
	userRepo := repository.NewDynamoUserRepository(client, cfg.TableName, cfg.IndexName)
	userService := service.NewUserService(userRepo)

	// 4. Initialize Router & HTTP Server
	router := api.NewRouter(cfg, userService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 5. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("API running on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
