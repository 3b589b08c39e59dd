package delivery

import (
	"bytes"
	"net/http"

	authdomain "github.com/heritagebakes/bakebook/internal/auth/domain"
	recipedto "github.com/heritagebakes/bakebook/internal/recipe/dto"
	"github.com/heritagebakes/bakebook/internal/recipe/usecase"
	"github.com/heritagebakes/bakebook/pkg/pdf"

	"github.com/gin-gonic/gin"
)

// RecipeHandler handles recipe HTTP requests
type RecipeHandler struct {
	recipeUsecase usecase.RecipeUsecase
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeUsecase usecase.RecipeUsecase) *RecipeHandler {
	return &RecipeHandler{
		recipeUsecase: recipeUsecase,
	}
}

// GetRecipes returns all recipes for the authenticated user, optionally
// filtered by tag and/or a fuzzy search query
// GET /api/recipes?tag=dessert&q=rye
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	userID := c.GetString("userID")
	tag := c.Query("tag")
	query := c.Query("q")

	recipes, err := h.recipeUsecase.GetRecipes(userID, tag, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipedto.RecipesResponse{
		Recipes: recipes,
		Total:   len(recipes),
	})
}

// GetRecipeByID returns a specific recipe
// GET /api/recipes/:id
func (h *RecipeHandler) GetRecipeByID(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	recipe, err := h.recipeUsecase.GetRecipeByID(userID, id)
	if err != nil {
		if err.Error() == "recipe not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe adds a recipe to the user's collection
// POST /api/recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID := c.GetString("userID")

	var req recipedto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeUsecase.CreateRecipe(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces a recipe's editable fields
// PUT /api/recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	var req recipedto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeUsecase.UpdateRecipe(userID, id, &req)
	if err != nil {
		if err.Error() == "recipe not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe
// DELETE /api/recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.recipeUsecase.DeleteRecipe(userID, id); err != nil {
		if err.Error() == "recipe not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ExportCookbook renders the user's collection as a PDF cookbook
// GET /api/recipes/export/pdf
func (h *RecipeHandler) ExportCookbook(c *gin.Context) {
	userID := c.GetString("userID")

	recipes, err := h.recipeUsecase.GetRecipes(userID, c.Query("tag"), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	author := ""
	if user, ok := c.MustGet("user").(*authdomain.User); ok {
		author = user.Name
	}

	var buf bytes.Buffer
	if err := pdf.RenderCookbook(&buf, "My Cookbook", author, recipes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cookbook.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
