package domain

import (
	"errors"
)

var (
	MessageSuccessGetCategories   = "success get categories"
	MessageSuccessGetAreas        = "success get areas"
	MessageSuccessGetIngredients  = "success get ingredients"
	MessageSuccessGetTestimonials = "success get testimonials"
	MessageSuccessCreateCatalog   = "catalog entry created"
	MessageSuccessUpdateCatalog   = "catalog entry updated"
	MessageSuccessDeleteCatalog   = "catalog entry deleted"

	MessageFailedGetCatalog    = "failed to get catalog"
	MessageFailedCreateCatalog = "failed to create catalog entry"
	MessageFailedUpdateCatalog = "failed to update catalog entry"
	MessageFailedDeleteCatalog = "failed to delete catalog entry"

	ErrCategoryNotFound    = errors.New("Category not found")
	ErrAreaNotFound        = errors.New("Area not found")
	ErrIngredientNotFound  = errors.New("Ingredient not found")
	ErrTestimonialNotFound = errors.New("Testimonial not found")
	ErrCategoryExists      = errors.New("Category already exists")
	ErrAreaExists          = errors.New("Area already exists")
	ErrIngredientExists    = errors.New("Ingredient already exists")
	ErrIngredientInUse     = errors.New("Ingredient is used by recipes")
)

type (
	CategoryRequest struct {
		Name  string `json:"name" validate:"required,max=64"`
		Image string `json:"image" validate:"omitempty,url"`
	}

	AreaRequest struct {
		Name string `json:"name" validate:"required,max=64"`
	}

	IngredientRequest struct {
		Title       string `json:"title" validate:"required,max=64"`
		Description string `json:"description"`
		Type        string `json:"type" validate:"max=64"`
		Image       string `json:"image" validate:"omitempty,url"`
	}

	TestimonialRequest struct {
		Name    string `json:"name" validate:"required,max=64"`
		Avatar  string `json:"avatar" validate:"omitempty,url"`
		Comment string `json:"comment" validate:"required"`
	}

	CategoryResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Image string `json:"image,omitempty"`
	}

	AreaResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	IngredientResponse struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Type        string `json:"type,omitempty"`
		Image       string `json:"image,omitempty"`
	}

	TestimonialResponse struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Avatar  string `json:"avatar,omitempty"`
		Comment string `json:"comment"`
	}
)
