package usecase

import (
	"errors"

	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	recipedto "github.com/heritagebakes/bakebook/internal/recipe/dto"
	"github.com/heritagebakes/bakebook/internal/recipe/repository"
	"github.com/heritagebakes/bakebook/pkg/fuzzy"
)

// recipeUsecase implements RecipeUsecase interface
type recipeUsecase struct {
	recipeRepo repository.RecipeRepository
}

// NewRecipeUsecase creates a new instance of recipeUsecase
func NewRecipeUsecase(recipeRepo repository.RecipeRepository) RecipeUsecase {
	return &recipeUsecase{
		recipeRepo: recipeRepo,
	}
}

func (u *recipeUsecase) CreateRecipe(userID string, req *recipedto.RecipeRequest) (*recipedomain.Recipe, error) {
	recipe := &recipedomain.Recipe{
		UserID:      userID,
		Title:       req.Title,
		Ingredients: req.Ingredients,
		Directions:  req.Directions,
		Memory:      req.Memory,
		Photo:       req.Photo,
		Tags:        req.Tags,
		CookTime:    req.CookTime,
	}

	if err := u.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

func (u *recipeUsecase) GetRecipes(userID string, tag, query string) ([]*recipedomain.Recipe, error) {
	recipes, err := u.recipeRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	if tag == "" && query == "" {
		return recipes, nil
	}

	filtered := make([]*recipedomain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if tag != "" && !r.HasTag(tag) {
			continue
		}
		if query != "" && !fuzzy.MatchRecipe(query, r) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func (u *recipeUsecase) GetRecipeByID(userID, id string) (*recipedomain.Recipe, error) {
	recipe, err := u.recipeRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, errors.New("recipe not found")
	}
	return recipe, nil
}

func (u *recipeUsecase) UpdateRecipe(userID, id string, req *recipedto.RecipeRequest) (*recipedomain.Recipe, error) {
	existing, err := u.GetRecipeByID(userID, id)
	if err != nil {
		return nil, err
	}

	existing.Title = req.Title
	existing.Ingredients = req.Ingredients
	existing.Directions = req.Directions
	existing.Memory = req.Memory
	existing.Photo = req.Photo
	existing.Tags = req.Tags
	existing.CookTime = req.CookTime

	if err := u.recipeRepo.Update(existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("recipe not found")
		}
		return nil, err
	}

	return existing, nil
}

func (u *recipeUsecase) DeleteRecipe(userID, id string) error {
	err := u.recipeRepo.Delete(userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errors.New("recipe not found")
	}
	return err
}
