package user

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/utils/logging"
	"Foodies-Backend/internal/utils/mailing"
	"Foodies-Backend/internal/utils/storage"
	"Foodies-Backend/pkg/jwt"
	"Foodies-Backend/pkg/notification"
	"context"
	"errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"strings"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		Logout(ctx context.Context, userID string) error
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		Authenticate(ctx context.Context, token string) (*entities.User, error)

		GetCurrent(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUserByID(ctx context.Context, id string) (domain.PublicUserResponse, error)
		UpdateAvatar(ctx context.Context, userID string, req domain.UpdateAvatarRequest) (domain.AvatarResponse, error)

		GetFollowers(ctx context.Context, userID string) ([]domain.UserSummary, error)
		GetFollowing(ctx context.Context, userID string) ([]domain.UserSummary, error)
		Follow(ctx context.Context, userID string, targetID string) error
		Unfollow(ctx context.Context, userID string, targetID string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		mailer         mailing.Mailer
		publisher      notification.Publisher
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	publisher notification.Publisher,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		mailer:         mailer,
		publisher:      publisher,
	}
}

var log = logging.WithComponent("users")

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
		return domain.AuthResponse{}, domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, domain.ErrHashPasswordFailed
	}

	user := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(req.Name),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.AuthResponse{}, err
	}

	res, err := s.issueToken(ctx, user)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		log.WithError(err).WithField("user_id", user.ID.String()).Warn("welcome mail not sent")
	}
	return res, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.AuthResponse{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

func (s *userService) issueToken(ctx context.Context, user *entities.User) (domain.AuthResponse, error) {
	token := s.jwtService.GenerateTokenUser(user.ID.String())
	if token == "" {
		return domain.AuthResponse{}, domain.ErrGenerateTokenFailed
	}
	if err := s.userRepository.UpdateToken(ctx, user.ID.String(), token); err != nil {
		return domain.AuthResponse{}, err
	}
	user.Token = token

	return domain.AuthResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

func (s *userService) Logout(ctx context.Context, userID string) error {
	return s.userRepository.UpdateToken(ctx, userID, "")
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}, jwt.PasswordResetTokenTTL)
	if err != nil {
		return domain.ErrGenerateTokenFailed
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.Name, token); err != nil {
		log.WithError(err).WithField("user_id", user.ID.String()).Error("password reset mail not sent")
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return domain.ErrResetTokenInvalid
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return domain.ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrHashPasswordFailed
	}

	if err := s.userRepository.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

// Authenticate resolves a bearer token to its user. The token must still be
// the one persisted on the user, so logout revokes it immediately.
func (s *userService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	userID, err := s.jwtService.GetUserIDByToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if user.Token == "" || user.Token != token {
		return nil, domain.ErrSessionRevoked
	}
	return user, nil
}

func (s *userService) GetCurrent(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (domain.PublicUserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.PublicUserResponse{}, domain.ErrUserNotFound
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.PublicUserResponse{}, err
	}

	return domain.PublicUserResponse{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		Avatar:         avatarOf(user),
		RecipesCount:   user.RecipesCount,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
	}, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, req domain.UpdateAvatarRequest) (domain.AvatarResponse, error) {
	if req.Avatar == nil {
		return domain.AvatarResponse{}, domain.ErrFileRequired
	}
	if _, err := storage.DetectContentType(req.Avatar, storage.AllowImage...); err != nil {
		return domain.AvatarResponse{}, err
	}

	current, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	objectKey, err := s.s3.UploadFile(uuid.NewString(), req.Avatar, "avatars", storage.AllowImage...)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	updated, err := s.userRepository.UpdateAvatar(ctx, userID, s.s3.GetPublicLinkKey(objectKey))
	if err != nil {
		if err := s.s3.DeleteFile(objectKey); err != nil {
			log.WithError(err).WithField("object_key", objectKey).Warn("orphaned avatar not deleted")
		}
		return domain.AvatarResponse{}, err
	}

	if previous := s.s3.GetObjectKeyFromLink(current.AvatarURL); previous != "" {
		if err := s.s3.DeleteFile(previous); err != nil {
			log.WithError(err).WithField("object_key", previous).Warn("previous avatar not deleted")
		}
	}

	return domain.AvatarResponse{
		Email:  updated.Email,
		Avatar: updated.AvatarURL,
	}, nil
}

func (s *userService) GetFollowers(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	users, err := s.userRepository.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func (s *userService) GetFollowing(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	users, err := s.userRepository.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func (s *userService) Follow(ctx context.Context, userID string, targetID string) error {
	if err := s.checkTarget(ctx, userID, targetID); err != nil {
		return err
	}

	if err := s.userRepository.Follow(ctx, userID, targetID); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, notification.NewEvent(notification.EventUserFollowed, userID, targetID)); err != nil {
		log.WithError(err).WithField("target_id", targetID).Warn("follow event not published")
	}
	return nil
}

func (s *userService) Unfollow(ctx context.Context, userID string, targetID string) error {
	if err := s.checkTarget(ctx, userID, targetID); err != nil {
		return err
	}

	_, err := s.userRepository.Unfollow(ctx, userID, targetID)
	return err
}

// checkTarget rejects self-targeting before touching storage.
func (s *userService) checkTarget(ctx context.Context, userID, targetID string) error {
	if strings.EqualFold(userID, targetID) {
		return domain.ErrCannotFollowSelf
	}
	if _, err := uuid.Parse(targetID); err != nil {
		return domain.ErrUserNotFound
	}
	_, err := s.userRepository.GetUserByID(ctx, targetID)
	return err
}

func avatarOf(user *entities.User) *string {
	if user.AvatarURL == "" {
		return nil
	}
	avatar := user.AvatarURL
	return &avatar
}

func ToUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		Avatar:         avatarOf(user),
		RecipesCount:   user.RecipesCount,
		FavoritesCount: user.FavoritesCount,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
	}
}

func toSummaries(users []*entities.User) []domain.UserSummary {
	res := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		res = append(res, domain.UserSummary{
			ID:     u.ID.String(),
			Name:   u.Name,
			Email:  u.Email,
			Avatar: avatarOf(u),
		})
	}
	return res
}
