package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to parse body request"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageRouteNotFound        = "Route not Found"
	MessageInternalServerError  = "Internal Server Error"
	MessagePong                 = "pong"

	ErrParseUUID        = errors.New("failed to parse UUID")
	ErrTokenNotFound    = errors.New("Not authorized")
	ErrTokenInvalid     = errors.New("Not authorized")
	ErrTokenExpired     = errors.New("Token expired")
	ErrSessionRevoked   = errors.New("Not authorized")
	ErrInvalidFileType  = errors.New("Only image files are allowed")
	ErrFileRequired     = errors.New("File is required")
	ErrValidationFailed = errors.New("validation failed")
)

const (
	DefaultPage        = 1
	DefaultRecipeLimit = 12
	DefaultPopularSize = 10
	MaxPageLimit       = 100
)

type (
	PaginationQuery struct {
		Page  int `query:"page"`
		Limit int `query:"limit"`
	}

	PaginationResponse struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int64 `json:"totalPages"`
	}
)

// Normalize applies defaults and the upper bound on limit.
func (q PaginationQuery) Normalize(defaultLimit int) PaginationQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

func NewPaginationResponse(total int64, q PaginationQuery) PaginationResponse {
	return PaginationResponse{
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + int64(q.Limit) - 1) / int64(q.Limit),
	}
}
