package routes

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/api/handlers"
	"Foodies-Backend/internal/api/presenters"
	"Foodies-Backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	Authenticator  middleware.Authenticator
	Metrics        *middleware.Metrics
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	if c.Metrics != nil {
		c.App.Use(c.Metrics.Handler())
		c.App.Get("/metrics", c.Metrics.Endpoint())
	}
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Recipe()
	c.Catalog()
	c.NotFound()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.Authenticator)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"message": domain.MessagePong})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	{
		auth.Post("/register", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/logout", c.auth(), c.UserHandler.Logout)
		auth.Post("/forgot-password", c.UserHandler.ForgotPassword)
		auth.Post("/reset-password", c.UserHandler.ResetPassword)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/users", c.auth())
	// static paths before /:id
	{
		user.Get("/current", c.UserHandler.Current)
		user.Get("/followers", c.UserHandler.Followers)
		user.Get("/following", c.UserHandler.Following)
		user.Patch("/avatars", c.UserHandler.UpdateAvatar)
		user.Post("/follow/:id", c.UserHandler.Follow)
		user.Delete("/follow/:id", c.UserHandler.Unfollow)
		user.Get("/:id", c.UserHandler.GetUserByID)
	}
}

func (c *Config) Recipe() {
	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/popular", c.RecipeHandler.GetPopularRecipes)
		recipes.Get("/own", c.auth(), c.RecipeHandler.GetOwnRecipes)
		recipes.Get("/favorites", c.auth(), c.RecipeHandler.GetFavoriteRecipes)
		recipes.Post("/favorites/:id", c.auth(), c.RecipeHandler.AddFavorite)
		recipes.Delete("/favorites/:id", c.auth(), c.RecipeHandler.RemoveFavorite)
		recipes.Post("", c.auth(), c.RecipeHandler.CreateRecipe)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeByID)
		recipes.Delete("/:id", c.auth(), c.RecipeHandler.DeleteRecipe)
	}
}

func (c *Config) Catalog() {
	h := c.CatalogHandler
	api := c.App.Group("/api")

	api.Get("/categories", h.GetCategories)
	api.Post("/categories", c.auth(), h.CreateCategory)
	api.Patch("/categories/:id", c.auth(), h.UpdateCategory)
	api.Delete("/categories/:id", c.auth(), h.DeleteCategory)

	api.Get("/areas", h.GetAreas)
	api.Post("/areas", c.auth(), h.CreateArea)
	api.Patch("/areas/:id", c.auth(), h.UpdateArea)
	api.Delete("/areas/:id", c.auth(), h.DeleteArea)

	api.Get("/ingredients", h.GetIngredients)
	api.Post("/ingredients", c.auth(), h.CreateIngredient)
	api.Patch("/ingredients/:id", c.auth(), h.UpdateIngredient)
	api.Delete("/ingredients/:id", c.auth(), h.DeleteIngredient)

	api.Get("/testimonials", h.GetTestimonials)
	api.Post("/testimonials", c.auth(), h.CreateTestimonial)
	api.Patch("/testimonials/:id", c.auth(), h.UpdateTestimonial)
	api.Delete("/testimonials/:id", c.auth(), h.DeleteTestimonial)
}

func (c *Config) NotFound() {
	c.App.Use(func(ctx *fiber.Ctx) error {
		return presenters.ErrorResponse(ctx, fiber.StatusNotFound, domain.MessageRouteNotFound, nil)
	})
}
