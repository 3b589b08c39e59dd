package api

import (
	"net/http"

	"github.com/heritagebakes/bakebook/internal/auth/delivery"
	authUsecase "github.com/heritagebakes/bakebook/internal/auth/usecase"
	recipeDelivery "github.com/heritagebakes/bakebook/internal/recipe/delivery"
	recipeUsecase "github.com/heritagebakes/bakebook/internal/recipe/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, recipeUc recipeUsecase.RecipeUsecase) {
	authHandler := delivery.NewAuthHandler(authUc)
	recipeHandler := recipeDelivery.NewRecipeHandler(recipeUc)

	api := r.Group("/api")
	{
		// Health check (no auth required); also the client's
		// connectivity probe.
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Recipe routes (protected)
		recipes := api.Group("/recipes")
		recipes.Use(delivery.AuthMiddleware(authUc))
		{
			recipes.GET("", recipeHandler.GetRecipes)
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.GET("/export/pdf", recipeHandler.ExportCookbook)
			recipes.GET("/:id", recipeHandler.GetRecipeByID)
			recipes.PUT("/:id", recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
		}
	}
}
