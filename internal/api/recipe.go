package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	log           *slog.Logger
}

func NewRecipeHandler(recipeService service.IRecipeService, log *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		log:           log,
	}
}

// RegisterRoutes mounts the JSON API. writeLimit guards the create route.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, writeLimit ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", append(writeLimit, h.CreateRecipe)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := service.ParseRecipeID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	recipe, err := h.recipeService.GetRecipeByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), req.Name, req.Ingredience)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("recipe created",
		slog.Uint64("id", uint64(recipe.ID)),
		slog.String("requestID", c.GetString(middleware.RequestIDKey)),
	)
	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), recipe.ID))
	c.JSON(http.StatusCreated, recipe)
}

// respondError maps access-layer errors onto HTTP statuses.
func (h *RecipeHandler) respondError(c *gin.Context, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
		h.log.Error("recipe request failed",
			slog.String("error", err.Error()),
			slog.String("requestID", c.GetString(middleware.RequestIDKey)),
		)
	}
	middleware.AbortWithError(c, status, code, message)
}

func classify(err error) (status int, code, message string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, types.ErrCodeInvalidRequest, verr.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, types.ErrCodeNotFound, "Recipe not found"
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, types.ErrCodeStorageUnavailable, "Recipe storage is unavailable"
	default:
		return http.StatusInternalServerError, types.ErrCodeInternal, "Internal server error"
	}
}

// bindingError converts gin binding failures into a ValidationError.
func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "is invalid"
		if fe.Tag() == "required" {
			msg = "is required"
		}
		return &service.ValidationError{Field: strings.ToLower(fe.Field()), Message: msg}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return &service.ValidationError{Field: "body", Message: "is required"}
	case errors.As(err, &typeErr):
		return &service.ValidationError{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &service.ValidationError{Field: "body", Message: "is not valid JSON"}
	}
	return &service.ValidationError{Field: "body", Message: err.Error()}
}
