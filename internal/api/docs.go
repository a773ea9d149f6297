package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

type responseDoc struct {
	Status      string
	Description string
	Schema      string
}

type operationDoc struct {
	OperationID string
	Summary     string
	RequestBody string
	Responses   []responseDoc
}

// documentedOperation is an operationDoc bound to a registered route.
type documentedOperation struct {
	operationDoc
	Method string
	Path   string
}

var errorResponses = []responseDoc{
	{"503", "Recipe storage is unavailable", "Error"},
}

// apiOperations describes the routes that appear in the generated document.
// Routes registered on the engine without an entry here are left out.
var apiOperations = map[string]operationDoc{
	"GET /api/v1/recipes": {
		OperationID: "listRecipes",
		Summary:     "List every recipe.",
		Responses: append([]responseDoc{
			{"200", "All stored recipes, possibly empty", "RecipeList"},
		}, errorResponses...),
	},
	"GET /api/v1/recipes/:id": {
		OperationID: "getRecipe",
		Summary:     "Fetch one recipe by its numeric id.",
		Responses: append([]responseDoc{
			{"200", "The recipe", "Recipe"},
			{"400", "The id is not a positive integer", "Error"},
			{"404", "No recipe has this id", "Error"},
		}, errorResponses...),
	},
	"POST /api/v1/recipes": {
		OperationID: "createRecipe",
		Summary:     "Create a recipe. The id and timestamps are assigned by storage.",
		RequestBody: "CreateRecipeRequest",
		Responses: append([]responseDoc{
			{"201", "The stored recipe", "Recipe"},
			{"400", "A required field is missing or blank", "Error"},
			{"429", "Too many recipes created from this address", "Error"},
		}, errorResponses...),
	},
}

var docSchemas = map[string]any{
	"Recipe": map[string]any{
		"type":     "object",
		"required": []string{"id", "name", "ingredience", "createdAt", "updatedAt"},
		"properties": map[string]any{
			"id":          map[string]any{"type": "integer", "minimum": 1},
			"name":        map[string]any{"type": "string"},
			"ingredience": map[string]any{"type": "string"},
			"createdAt":   map[string]any{"type": "string"},
			"updatedAt":   map[string]any{"type": "string"},
		},
	},
	"RecipeList": map[string]any{
		"type":  "array",
		"items": map[string]any{"$ref": "#/components/schemas/Recipe"},
	},
	"CreateRecipeRequest": map[string]any{
		"type":     "object",
		"required": []string{"name", "ingredience"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"ingredience": map[string]any{"type": "string", "minLength": 1},
		},
	},
	"Error": map[string]any{
		"type":     "object",
		"required": []string{"error", "code"},
		"properties": map[string]any{
			"error":      map[string]any{"type": "string"},
			"code":       map[string]any{"type": "string"},
			"request_id": map[string]any{"type": "string"},
		},
	},
}

// DocsHandler serves API documentation generated from the engine's routes.
type DocsHandler struct {
	title   string
	version string
	routes  func() gin.RoutesInfo
}

func NewDocsHandler(title, version string, routes func() gin.RoutesInfo) *DocsHandler {
	return &DocsHandler{title: title, version: version, routes: routes}
}

func (h *DocsHandler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/docs")
	{
		docs.GET("", h.Page)
		docs.GET("/openapi.json", h.JSON)
		docs.GET("/openapi.yaml", h.YAML)
	}
}

func (h *DocsHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "docs.tmpl", gin.H{
		"Title":      h.title,
		"Version":    h.version,
		"Operations": h.operations(),
	})
}

func (h *DocsHandler) JSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.Document())
}

func (h *DocsHandler) YAML(c *gin.Context) {
	out, err := yaml.Marshal(h.Document())
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
}

// Document builds the OpenAPI 3 description of the documented routes.
func (h *DocsHandler) Document() map[string]any {
	paths := map[string]any{}
	for _, op := range h.operations() {
		item, ok := paths[op.Path].(map[string]any)
		if !ok {
			item = map[string]any{}
			paths[op.Path] = item
		}

		responses := map[string]any{}
		for _, r := range op.Responses {
			responses[r.Status] = map[string]any{
				"description": r.Description,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/" + r.Schema},
					},
				},
			}
		}

		operation := map[string]any{
			"operationId": op.OperationID,
			"summary":     op.Summary,
			"responses":   responses,
		}
		if params := pathParams(op.Path); len(params) > 0 {
			var list []any
			for _, p := range params {
				list = append(list, map[string]any{
					"name":     p,
					"in":       "path",
					"required": true,
					"schema":   map[string]any{"type": "integer", "minimum": 1},
				})
			}
			operation["parameters"] = list
		}
		if op.RequestBody != "" {
			operation["requestBody"] = map[string]any{
				"required": true,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/" + op.RequestBody},
					},
				},
			}
		}
		item[strings.ToLower(op.Method)] = operation
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   h.title,
			"version": h.version,
		},
		"paths":      paths,
		"components": map[string]any{"schemas": docSchemas},
	}
}

func (h *DocsHandler) operations() []documentedOperation {
	var ops []documentedOperation
	for _, r := range h.routes() {
		doc, ok := apiOperations[r.Method+" "+r.Path]
		if !ok {
			continue
		}
		ops = append(ops, documentedOperation{
			operationDoc: doc,
			Method:       r.Method,
			Path:         openAPIPath(r.Path),
		})
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops
}

// openAPIPath rewrites gin's ":param" segments as "{param}".
func openAPIPath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func pathParams(path string) []string {
	var params []string
	for _, s := range strings.Split(path, "/") {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			params = append(params, strings.Trim(s, "{}"))
		}
	}
	return params
}
