package main

import (
	"context"
	"log"
	"os"

	api "github.com/heritagebakes/bakebook/cmd/api"
	authRepo "github.com/heritagebakes/bakebook/internal/auth/repository"
	authUsecase "github.com/heritagebakes/bakebook/internal/auth/usecase"
	recipeRepo "github.com/heritagebakes/bakebook/internal/recipe/repository"
	recipeUsecase "github.com/heritagebakes/bakebook/internal/recipe/usecase"
	"github.com/heritagebakes/bakebook/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo, err := authRepo.NewFileUserRepository(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to open user store:", err)
	}
	recipeRepository, err := recipeRepo.NewFileRecipeRepository(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to open recipe store:", err)
	}

	// Reload recipe collections edited outside the process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := recipeRepository.Watch(ctx); err != nil {
			log.Printf("[Watcher] unavailable: %v", err)
		}
	}()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	recipeUsecaseInstance := recipeUsecase.NewRecipeUsecase(recipeRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, recipeUsecaseInstance, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s (data dir %s)", port, cfg.DataDir)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
