package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded HTML templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// PageHandler serves the HTML recipe page.
type PageHandler struct {
	recipeService service.IRecipeService
	log           *slog.Logger
}

type pageData struct {
	Recipes []model.Recipe
	Error   string
	Form    types.CreateRecipeRequest
}

func NewPageHandler(recipeService service.IRecipeService, log *slog.Logger) *PageHandler {
	return &PageHandler{recipeService: recipeService, log: log}
}

func (h *PageHandler) RegisterRoutes(router gin.IRoutes, writeLimit ...gin.HandlerFunc) {
	router.GET("/", h.Index)
	router.POST("/", append(writeLimit, h.Create)...)
}

func (h *PageHandler) Index(c *gin.Context) {
	status := http.StatusOK
	data := pageData{}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		status, data.Error = h.failure(c, err)
	}
	data.Recipes = recipes

	c.HTML(status, "index.tmpl", data)
}

// Create handles the form post; success redirects back to the listing.
func (h *PageHandler) Create(c *gin.Context) {
	form := types.CreateRecipeRequest{
		Name:        c.PostForm("name"),
		Ingredience: c.PostForm("ingredience"),
	}

	if _, err := h.recipeService.CreateRecipe(c.Request.Context(), form.Name, form.Ingredience); err != nil {
		status, msg := h.failure(c, err)
		recipes, _ := h.recipeService.ListRecipes(c.Request.Context())
		c.HTML(status, "index.tmpl", pageData{Recipes: recipes, Error: msg, Form: form})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) failure(c *gin.Context, err error) (int, string) {
	status, _, msg := classify(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
		h.log.Error("recipe page failed",
			slog.String("error", err.Error()),
			slog.String("requestID", c.GetString(middleware.RequestIDKey)),
		)
	}
	return status, msg
}
