package middleware

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/api/presenters"
	"context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"strings"
)

type (
	// Authenticator resolves a bearer token to the user holding it.
	Authenticator interface {
		Authenticate(ctx context.Context, token string) (*entities.User, error)
	}

	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(auth Authenticator) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

func (m *middleware) AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || scheme != "Bearer" || token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid)
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			status := presenters.StatusFromError(err)
			return presenters.ErrorResponse(c, status, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("user_id", user.ID.String())
		c.Locals("user", user)
		return c.Next()
	}
}
