package usecase

import (
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	recipedto "github.com/heritagebakes/bakebook/internal/recipe/dto"
)

// RecipeUsecase defines the recipe operations exposed to delivery.
// Every operation is scoped to the requesting user.
type RecipeUsecase interface {
	CreateRecipe(userID string, req *recipedto.RecipeRequest) (*recipedomain.Recipe, error)
	GetRecipes(userID string, tag, query string) ([]*recipedomain.Recipe, error)
	GetRecipeByID(userID, id string) (*recipedomain.Recipe, error)
	UpdateRecipe(userID, id string, req *recipedto.RecipeRequest) (*recipedomain.Recipe, error)
	DeleteRecipe(userID, id string) error
}
