package repository

import recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"

// RecipeRepository provides access to a user's recipe collection.
// Lookups that find nothing return (nil, nil).
type RecipeRepository interface {
	Create(recipe *recipedomain.Recipe) error
	FindByUser(userID string) ([]*recipedomain.Recipe, error)
	FindByID(userID, id string) (*recipedomain.Recipe, error)
	Update(recipe *recipedomain.Recipe) error
	Delete(userID, id string) error
}
