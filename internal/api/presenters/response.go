package presenters

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/utils/logging"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

var log = logging.WithComponent("http")

func SuccessResponse(c *fiber.Ctx, data interface{}, code int, message string) error {
	if code == fiber.StatusNoContent {
		return c.SendStatus(code)
	}
	return c.Status(code).JSON(Response{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse answers with the error's own text for client errors. Server
// errors are logged and answered with message only.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error(message)
	} else if err != nil {
		message = err.Error()
	}
	return c.Status(code).JSON(Response{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

var statusByError = map[error]int{
	domain.ErrParseUUID:           fiber.StatusBadRequest,
	domain.ErrInvalidFileType:     fiber.StatusBadRequest,
	domain.ErrFileRequired:        fiber.StatusBadRequest,
	domain.ErrValidationFailed:    fiber.StatusBadRequest,
	domain.ErrCannotFollowSelf:    fiber.StatusBadRequest,
	domain.ErrIngredientsRequired: fiber.StatusBadRequest,
	domain.ErrInvalidIngredients:  fiber.StatusBadRequest,
	domain.ErrUnknownIngredient:   fiber.StatusBadRequest,
	domain.ErrDuplicateIngredient: fiber.StatusBadRequest,

	domain.ErrTokenNotFound:      fiber.StatusUnauthorized,
	domain.ErrTokenInvalid:       fiber.StatusUnauthorized,
	domain.ErrTokenExpired:       fiber.StatusUnauthorized,
	domain.ErrSessionRevoked:     fiber.StatusUnauthorized,
	domain.ErrInvalidCredentials: fiber.StatusUnauthorized,
	domain.ErrResetTokenInvalid:  fiber.StatusUnauthorized,

	domain.ErrUserNotFound:        fiber.StatusNotFound,
	domain.ErrRecipeNotFound:      fiber.StatusNotFound,
	domain.ErrRecipeNotOwned:      fiber.StatusNotFound,
	domain.ErrCategoryNotFound:    fiber.StatusNotFound,
	domain.ErrAreaNotFound:        fiber.StatusNotFound,
	domain.ErrIngredientNotFound:  fiber.StatusNotFound,
	domain.ErrTestimonialNotFound: fiber.StatusNotFound,

	domain.ErrEmailInUse:       fiber.StatusConflict,
	domain.ErrAlreadyFollowing: fiber.StatusConflict,
	domain.ErrCategoryExists:   fiber.StatusConflict,
	domain.ErrAreaExists:       fiber.StatusConflict,
	domain.ErrIngredientExists: fiber.StatusConflict,
	domain.ErrIngredientInUse:  fiber.StatusConflict,
}

// StatusFromError maps domain errors to HTTP status codes; unknown errors
// are 500.
func StatusFromError(err error) int {
	if err == nil {
		return fiber.StatusOK
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest
	}
	for target, status := range statusByError {
		if errors.Is(err, target) {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// Fail is ErrorResponse with the status derived from err.
func Fail(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}
