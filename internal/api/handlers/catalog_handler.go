package handlers

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/api/presenters"
	"Foodies-Backend/pkg/catalog"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		GetCategories(c *fiber.Ctx) error
		CreateCategory(c *fiber.Ctx) error
		UpdateCategory(c *fiber.Ctx) error
		DeleteCategory(c *fiber.Ctx) error

		GetAreas(c *fiber.Ctx) error
		CreateArea(c *fiber.Ctx) error
		UpdateArea(c *fiber.Ctx) error
		DeleteArea(c *fiber.Ctx) error

		GetIngredients(c *fiber.Ctx) error
		CreateIngredient(c *fiber.Ctx) error
		UpdateIngredient(c *fiber.Ctx) error
		DeleteIngredient(c *fiber.Ctx) error

		GetTestimonials(c *fiber.Ctx) error
		CreateTestimonial(c *fiber.Ctx) error
		UpdateTestimonial(c *fiber.Ctx) error
		DeleteTestimonial(c *fiber.Ctx) error
	}

	catalogHandler struct {
		catalogService catalog.CatalogService
		validator      *validator.Validate
	}
)

func NewCatalogHandler(catalogService catalog.CatalogService, validator *validator.Validate) CatalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
		validator:      validator,
	}
}

func (h *catalogHandler) bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return err
	}
	return h.validator.Struct(req)
}

func (h *catalogHandler) GetCategories(c *fiber.Ctx) error {
	res, err := h.catalogService.GetCategories(c.UserContext())
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"categories": res}, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *catalogHandler) CreateCategory(c *fiber.Ctx) error {
	req := new(domain.CategoryRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCatalog, err)
	}

	res, err := h.catalogService.CreateCategory(c.UserContext(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"category": res}, fiber.StatusCreated, domain.MessageSuccessCreateCatalog)
}

func (h *catalogHandler) UpdateCategory(c *fiber.Ctx) error {
	req := new(domain.CategoryRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCatalog, err)
	}

	res, err := h.catalogService.UpdateCategory(c.UserContext(), c.Params("id"), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"category": res}, fiber.StatusOK, domain.MessageSuccessUpdateCatalog)
}

func (h *catalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteCatalog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteCatalog)
}

func (h *catalogHandler) GetAreas(c *fiber.Ctx) error {
	res, err := h.catalogService.GetAreas(c.UserContext())
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"areas": res}, fiber.StatusOK, domain.MessageSuccessGetAreas)
}

func (h *catalogHandler) CreateArea(c *fiber.Ctx) error {
	req := new(domain.AreaRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCatalog, err)
	}

	res, err := h.catalogService.CreateArea(c.UserContext(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"area": res}, fiber.StatusCreated, domain.MessageSuccessCreateCatalog)
}

func (h *catalogHandler) UpdateArea(c *fiber.Ctx) error {
	req := new(domain.AreaRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCatalog, err)
	}

	res, err := h.catalogService.UpdateArea(c.UserContext(), c.Params("id"), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"area": res}, fiber.StatusOK, domain.MessageSuccessUpdateCatalog)
}

func (h *catalogHandler) DeleteArea(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteArea(c.UserContext(), c.Params("id")); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteCatalog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteCatalog)
}

func (h *catalogHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.catalogService.GetIngredients(c.UserContext())
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"ingredients": res}, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *catalogHandler) CreateIngredient(c *fiber.Ctx) error {
	req := new(domain.IngredientRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCatalog, err)
	}

	res, err := h.catalogService.CreateIngredient(c.UserContext(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"ingredient": res}, fiber.StatusCreated, domain.MessageSuccessCreateCatalog)
}

func (h *catalogHandler) UpdateIngredient(c *fiber.Ctx) error {
	req := new(domain.IngredientRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCatalog, err)
	}

	res, err := h.catalogService.UpdateIngredient(c.UserContext(), c.Params("id"), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"ingredient": res}, fiber.StatusOK, domain.MessageSuccessUpdateCatalog)
}

func (h *catalogHandler) DeleteIngredient(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteIngredient(c.UserContext(), c.Params("id")); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteCatalog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteCatalog)
}

func (h *catalogHandler) GetTestimonials(c *fiber.Ctx) error {
	res, err := h.catalogService.GetTestimonials(c.UserContext())
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"testimonials": res}, fiber.StatusOK, domain.MessageSuccessGetTestimonials)
}

func (h *catalogHandler) CreateTestimonial(c *fiber.Ctx) error {
	req := new(domain.TestimonialRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCatalog, err)
	}

	res, err := h.catalogService.CreateTestimonial(c.UserContext(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"testimonial": res}, fiber.StatusCreated, domain.MessageSuccessCreateCatalog)
}

func (h *catalogHandler) UpdateTestimonial(c *fiber.Ctx) error {
	req := new(domain.TestimonialRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCatalog, err)
	}

	res, err := h.catalogService.UpdateTestimonial(c.UserContext(), c.Params("id"), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateCatalog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"testimonial": res}, fiber.StatusOK, domain.MessageSuccessUpdateCatalog)
}

func (h *catalogHandler) DeleteTestimonial(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteTestimonial(c.UserContext(), c.Params("id")); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteCatalog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteCatalog)
}
