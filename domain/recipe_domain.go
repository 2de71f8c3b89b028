package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessCreateRecipe     = "recipe created successfully"
	MessageSuccessDeleteRecipe     = "Recipe deleted successfully"
	MessageSuccessAddFavorite      = "recipe added to favorites"
	MessageSuccessRemoveFavorite   = "recipe removed from favorites"
	MessageSuccessGetFavorites     = "success get favorite recipes"
	MessageSuccessGetPopular       = "success get popular recipes"
	MessageSuccessGetOwnRecipes    = "success get own recipes"
	MessageFailedGetRecipes        = "failed to get recipes"
	MessageFailedGetRecipeDetail   = "failed to get recipe detail"
	MessageFailedCreateRecipe      = "failed to create recipe"
	MessageFailedDeleteRecipe      = "failed to delete recipe"
	MessageFailedAddFavorite       = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite    = "failed to remove recipe from favorites"
	MessageFailedGetFavorites      = "failed to get favorite recipes"
	MessageFailedGetPopularRecipes = "failed to get popular recipes"

	ErrRecipeNotFound      = errors.New("Recipe not found")
	ErrRecipeNotOwned      = errors.New("Recipe not found or access denied")
	ErrIngredientsRequired = errors.New("At least one ingredient is required")
	ErrInvalidIngredients  = errors.New("Ingredients must be a JSON array of {id, measure}")
	ErrUnknownIngredient   = errors.New("Unknown ingredient")
	ErrDuplicateIngredient = errors.New("Ingredient listed more than once")
	ErrRecipeUploadFailed  = errors.New("failed to upload recipe image")
)

type (
	RecipeFilter struct {
		Category   string `query:"category"`
		Area       string `query:"area"`
		Ingredient string `query:"ingredient"`
	}

	RecipeIngredientRequest struct {
		ID      string `json:"id" validate:"required,uuid"`
		Measure string `json:"measure" validate:"max=64"`
	}

	CreateRecipeRequest struct {
		Title        string                    `json:"title" form:"title" validate:"required,max=128"`
		Description  string                    `json:"description" form:"description" validate:"required"`
		Category     string                    `json:"category" form:"category" validate:"required"`
		Area         string                    `json:"area" form:"area" validate:"required"`
		Instructions string                    `json:"instructions" form:"instructions" validate:"required"`
		Time         int                       `json:"time" form:"time" validate:"required,min=1"`
		Video        string                    `json:"video" form:"video" validate:"omitempty,url"`
		ImageURL     string                    `json:"image" form:"-" validate:"omitempty,url"`
		ThumbURL     string                    `json:"thumb" form:"-" validate:"omitempty,url"`
		Ingredients  []RecipeIngredientRequest `json:"ingredients" form:"-" validate:"required,min=1,dive"`
		Image        *multipart.FileHeader     `json:"-" form:"-"`
		Thumb        *multipart.FileHeader     `json:"-" form:"-"`
	}

	RecipeOwner struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Avatar *string `json:"avatar"`
	}

	RecipeIngredientResponse struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Image   string `json:"image,omitempty"`
		Measure string `json:"measure"`
	}

	RecipeResponse struct {
		ID           string                     `json:"id"`
		Title        string                     `json:"title"`
		Description  string                     `json:"description"`
		Category     string                     `json:"category"`
		Area         string                     `json:"area"`
		Instructions string                     `json:"instructions"`
		Time         int                        `json:"time"`
		Image        string                     `json:"image"`
		Thumb        string                     `json:"thumb"`
		Video        string                     `json:"video,omitempty"`
		Popularity   int                        `json:"popularity"`
		Owner        *RecipeOwner               `json:"owner,omitempty"`
		Ingredients  []RecipeIngredientResponse `json:"ingredients"`
		CreatedAt    time.Time                  `json:"createdAt"`
	}

	RecipeListResponse struct {
		Recipes []RecipeResponse `json:"recipes"`
		PaginationResponse
	}
)
