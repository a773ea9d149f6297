package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/model"
)

// CreateRecipeInput is the schema a new recipe must satisfy before it is written.
type CreateRecipeInput struct {
	Name        string `json:"name" validate:"required"`
	Ingredience string `json:"ingredience" validate:"required"`
}

// RecipeService handles recipe operations
type RecipeService struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &RecipeService{
		db:       db,
		validate: v,
	}
}

// ListRecipes returns every stored recipe in the order the database yields them.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, storageError("list", err)
	}
	return recipes, nil
}

// GetRecipeByID retrieves a recipe by ID
func (s *RecipeService) GetRecipeByID(ctx context.Context, id int64) (*model.Recipe, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return s.find(ctx, "get", id)
}

// CreateRecipe stores a new recipe and returns it as persisted, including the
// id and timestamps assigned by the database. Duplicate names are allowed.
func (s *RecipeService) CreateRecipe(ctx context.Context, name, ingredience string) (*model.Recipe, error) {
	if err := s.ValidateRecipe(name, ingredience); err != nil {
		return nil, err
	}

	recipe := model.Recipe{Name: name, Ingredience: ingredience}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, storageError("create", err)
	}

	return s.find(ctx, "create", int64(recipe.ID))
}

// ValidateRecipe checks a candidate recipe without touching storage. Blank
// values are rejected but accepted values are stored verbatim.
func (s *RecipeService) ValidateRecipe(name, ingredience string) error {
	return s.validateInput(CreateRecipeInput{
		Name:        strings.TrimSpace(name),
		Ingredience: strings.TrimSpace(ingredience),
	})
}

func (s *RecipeService) find(ctx context.Context, op string, id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
		}
		return nil, storageError(op, err)
	}
	return &recipe, nil
}

func (s *RecipeService) validateInput(in CreateRecipeInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "is invalid"
		if fe.Tag() == "required" {
			msg = "is required"
		}
		return &ValidationError{Field: fe.Field(), Message: msg}
	}
	return &ValidationError{Field: "recipe", Message: err.Error()}
}

// ParseRecipeID converts a raw path or query value into a recipe id.
func ParseRecipeID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "id", Message: "is required"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}
