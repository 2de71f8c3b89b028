package handlers

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/api/presenters"
	"Foodies-Backend/pkg/recipe"
	"encoding/json"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"strings"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeByID(c *fiber.Ctx) error
		GetPopularRecipes(c *fiber.Ctx) error
		GetOwnRecipes(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error

		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		GetFavoriteRecipes(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func pagination(c *fiber.Ctx) domain.PaginationQuery {
	return domain.PaginationQuery{
		Page:  c.QueryInt("page", domain.DefaultPage),
		Limit: c.QueryInt("limit", domain.DefaultRecipeLimit),
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		Category:   c.Query("category"),
		Area:       c.Query("area"),
		Ingredient: c.Query("ingredient"),
	}

	res, err := h.recipeService.GetRecipes(c.UserContext(), filter, pagination(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeByID(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"recipe": res}, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) GetPopularRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.GetPopularRecipes(c.UserContext(), c.QueryInt("limit", domain.DefaultPopularSize))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetPopularRecipes, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"recipes": res}, fiber.StatusOK, domain.MessageSuccessGetPopular)
}

func (h *recipeHandler) GetOwnRecipes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.GetOwnRecipes(c.UserContext(), userID, pagination(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetOwnRecipes)
}

// parseCreateRecipe accepts a multipart form, where ingredients is a JSON
// encoded string and image/thumb are files, or a plain JSON body with image
// URLs.
func parseCreateRecipe(c *fiber.Ctx) (*domain.CreateRecipeRequest, error) {
	req := new(domain.CreateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return req, nil
	}

	if raw := strings.TrimSpace(c.FormValue("ingredients")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Ingredients); err != nil {
			return nil, domain.ErrInvalidIngredients
		}
	}
	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	} else {
		req.ImageURL = c.FormValue("image")
	}
	if file, err := c.FormFile("thumb"); err == nil {
		req.Thumb = file
	} else {
		req.ThumbURL = c.FormValue("thumb")
	}
	return req, nil
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req, err := parseCreateRecipe(c)
	if err != nil {
		if err == domain.ErrInvalidIngredients {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.UserContext(), userID, *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"recipe": res}, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.DeleteRecipe(c.UserContext(), c.Params("id"), userID); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.AddFavorite(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedAddFavorite, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"recipe": res}, fiber.StatusOK, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.RemoveFavorite(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedRemoveFavorite, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"recipe": res}, fiber.StatusOK, domain.MessageSuccessRemoveFavorite)
}

func (h *recipeHandler) GetFavoriteRecipes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.GetFavoriteRecipes(c.UserContext(), userID, pagination(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetFavorites, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFavorites)
}
