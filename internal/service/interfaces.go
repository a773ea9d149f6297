package service

import (
	"context"

	"github.com/pageza/recipebox/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipeByID(ctx context.Context, id int64) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, name, ingredience string) (*model.Recipe, error)
	ValidateRecipe(name, ingredience string) error
}

var _ IRecipeService = (*RecipeService)(nil)
