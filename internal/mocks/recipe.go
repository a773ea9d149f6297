package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/service"
)

// MockRecipeService is a mock implementation of the IRecipeService interface
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipeByID(ctx context.Context, id int64) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, name, ingredience string) (*model.Recipe, error) {
	args := m.Called(ctx, name, ingredience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) ValidateRecipe(name, ingredience string) error {
	args := m.Called(name, ingredience)
	return args.Error(0)
}
