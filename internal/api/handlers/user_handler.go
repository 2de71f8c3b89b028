package handlers

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/api/presenters"
	"Foodies-Backend/pkg/user"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		ForgotPassword(c *fiber.Ctx) error
		ResetPassword(c *fiber.Ctx) error

		Current(c *fiber.Ctx) error
		GetUserByID(c *fiber.Ctx) error
		UpdateAvatar(c *fiber.Ctx) error
		Followers(c *fiber.Ctx) error
		Following(c *fiber.Ctx) error
		Follow(c *fiber.Ctx) error
		Unfollow(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	res, err := h.userService.Register(c.UserContext(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.UserContext(), *req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.userService.Logout(c.UserContext(), userID); err != nil {
		return presenters.Fail(c, domain.MessageFailedLogout, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessLogout)
}

func (h *userHandler) ForgotPassword(c *fiber.Ctx) error {
	req := new(domain.ForgotPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedForgotPassword, err)
	}

	if err := h.userService.ForgotPassword(c.UserContext(), *req); err != nil {
		return presenters.Fail(c, domain.MessageFailedForgotPassword, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessForgotPassword)
}

func (h *userHandler) ResetPassword(c *fiber.Ctx) error {
	req := new(domain.ResetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetPassword, err)
	}

	if err := h.userService.ResetPassword(c.UserContext(), *req); err != nil {
		return presenters.Fail(c, domain.MessageFailedResetPassword, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResetPassword)
}

func (h *userHandler) Current(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.GetCurrent(c.UserContext(), userID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"user": res}, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) GetUserByID(c *fiber.Ctx) error {
	res, err := h.userService.GetUserByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"user": res}, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) UpdateAvatar(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("avatar")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateAvatar, domain.ErrFileRequired)
	}

	res, err := h.userService.UpdateAvatar(c.UserContext(), userID, domain.UpdateAvatarRequest{Avatar: file})
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateAvatar, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"user": res}, fiber.StatusOK, domain.MessageSuccessUpdateAvatar)
}

func (h *userHandler) Followers(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.GetFollowers(c.UserContext(), userID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetFollowers, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"followers": res}, fiber.StatusOK, domain.MessageSuccessGetFollowers)
}

func (h *userHandler) Following(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.GetFollowing(c.UserContext(), userID)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetFollowing, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"following": res}, fiber.StatusOK, domain.MessageSuccessGetFollowing)
}

func (h *userHandler) Follow(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.userService.Follow(c.UserContext(), userID, c.Params("id")); err != nil {
		return presenters.Fail(c, domain.MessageFailedFollow, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessFollow)
}

func (h *userHandler) Unfollow(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.userService.Unfollow(c.UserContext(), userID, c.Params("id")); err != nil {
		return presenters.Fail(c, domain.MessageFailedUnfollow, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnfollow)
}
