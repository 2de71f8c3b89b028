package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessRegister       = "register success"
	MessageSuccessLogin          = "login success"
	MessageSuccessLogout         = "logout success"
	MessageSuccessForgotPassword = "if the email is registered, a reset link has been sent"
	MessageSuccessResetPassword  = "password has been reset"
	MessageSuccessGetUser        = "success get user"
	MessageSuccessUpdateAvatar   = "avatar updated"
	MessageSuccessGetFollowers   = "success get followers"
	MessageSuccessGetFollowing   = "success get following"
	MessageSuccessFollow         = "Successfully followed user"
	MessageSuccessUnfollow       = "Successfully unfollowed user"

	MessageFailedRegister       = "failed to register"
	MessageFailedLogin          = "failed to login"
	MessageFailedLogout         = "failed to logout"
	MessageFailedForgotPassword = "failed to process forgot password"
	MessageFailedResetPassword  = "failed to reset password"
	MessageFailedGetUser        = "failed to get user"
	MessageFailedUpdateAvatar   = "failed to update avatar"
	MessageFailedGetFollowers   = "failed to get followers"
	MessageFailedGetFollowing   = "failed to get following"
	MessageFailedFollow         = "failed to follow user"
	MessageFailedUnfollow       = "failed to unfollow user"

	ErrEmailInUse          = errors.New("Email in use")
	ErrInvalidCredentials  = errors.New("Email or password is wrong")
	ErrUserNotFound        = errors.New("User not found")
	ErrCannotFollowSelf    = errors.New("You cannot follow yourself")
	ErrAlreadyFollowing    = errors.New("You already follow this user")
	ErrHashPasswordFailed  = errors.New("failed to hash password")
	ErrResetTokenInvalid   = errors.New("Reset token is invalid or expired")
	ErrGenerateTokenFailed = errors.New("failed to generate token")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}

	UpdateAvatarRequest struct {
		Avatar *multipart.FileHeader
	}

	UserResponse struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Email          string  `json:"email"`
		Avatar         *string `json:"avatar"`
		RecipesCount   int     `json:"recipesCount"`
		FavoritesCount int     `json:"favoritesCount"`
		FollowersCount int     `json:"followersCount"`
		FollowingCount int     `json:"followingCount"`
	}

	PublicUserResponse struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Email          string  `json:"email"`
		Avatar         *string `json:"avatar"`
		RecipesCount   int     `json:"recipesCount"`
		FollowersCount int     `json:"followersCount"`
		FollowingCount int     `json:"followingCount"`
	}

	UserSummary struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Email  string  `json:"email"`
		Avatar *string `json:"avatar"`
	}

	AuthResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	AvatarResponse struct {
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	}
)
