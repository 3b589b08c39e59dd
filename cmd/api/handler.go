package api

import (
	authUsecase "github.com/heritagebakes/bakebook/internal/auth/usecase"
	recipeUsecase "github.com/heritagebakes/bakebook/internal/recipe/usecase"
	"github.com/heritagebakes/bakebook/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	recipeUsecase recipeUsecase.RecipeUsecase
	config        *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, recipeUc recipeUsecase.RecipeUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:   authUc,
		recipeUsecase: recipeUc,
		config:        cfg,
	}
}

// Engine builds the gin engine with CORS and all routes registered.
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.recipeUsecase)
	return r
}

func (h *Handler) Start(addr string) error {
	return h.Engine().Run(addr)
}
