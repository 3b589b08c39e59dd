package dto

import recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"

// RecipeRequest is the payload for create and update calls.
type RecipeRequest struct {
	Title       string   `json:"title" binding:"required"`
	Ingredients []string `json:"ingredients"`
	Directions  string   `json:"directions"`
	Memory      string   `json:"memory"`
	Photo       string   `json:"photo"`
	Tags        []string `json:"tags"`
	CookTime    string   `json:"cook_time"`
}

type RecipesResponse struct {
	Recipes []*recipedomain.Recipe `json:"recipes"`
	Total   int                    `json:"total"`
}
