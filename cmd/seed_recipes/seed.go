package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type seedResult struct {
	Created int
	Skipped int
}

func loadSeedFile(r io.Reader) ([]types.CreateRecipeRequest, error) {
	var entries []types.CreateRecipeRequest
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return entries, nil
}

// seedRecipes creates each entry in order. Invalid entries are reported on out
// and skipped; any other error stops the run.
func seedRecipes(ctx context.Context, recipes service.IRecipeService, entries []types.CreateRecipeRequest, dryRun bool, out io.Writer) (seedResult, error) {
	var res seedResult
	for i, e := range entries {
		if err := recipes.ValidateRecipe(e.Name, e.Ingredience); err != nil {
			fmt.Fprintf(out, "entry %d skipped: %v\n", i+1, err)
			res.Skipped++
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "entry %d ok: %s\n", i+1, e.Name)
			continue
		}

		recipe, err := recipes.CreateRecipe(ctx, e.Name, e.Ingredience)
		if err != nil {
			if service.IsValidation(err) {
				fmt.Fprintf(out, "entry %d skipped: %v\n", i+1, err)
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("entry %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "entry %d created: id=%d %s\n", i+1, recipe.ID, recipe.Name)
		res.Created++
	}
	return res, nil
}
