package user

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/utils"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"strings"
	"time"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		UpdateToken(ctx context.Context, id string, token string) error
		UpdateAvatar(ctx context.Context, id string, avatarURL string) (*entities.User, error)
		UpdatePassword(ctx context.Context, id string, passwordHash string) error

		Follow(ctx context.Context, followerID, followingID string) error
		Unfollow(ctx context.Context, followerID, followingID string) (bool, error)
		GetFollowers(ctx context.Context, userID string) ([]*entities.User, error)
		GetFollowing(ctx context.Context, userID string) ([]*entities.User, error)

		RecountCounters(ctx context.Context) (int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrEmailInUse
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailInUse
			}
			return err
		}
		return nil
	})
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateToken(ctx context.Context, id string, token string) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id string, avatarURL string) (*entities.User, error) {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("avatar_url", avatarURL)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.GetUserByID(ctx, id)
}

// UpdatePassword also clears the persisted session token.
func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"password": passwordHash,
		"token":    "",
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Follow(ctx context.Context, followerID, followingID string) error {
	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return domain.ErrParseUUID
	}
	followingUUID, err := uuid.Parse(followingID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge := entities.UserFollow{
			ID:          uuid.New(),
			FollowerID:  followerUUID,
			FollowingID: followingUUID,
			CreatedAt:   time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyFollowing
		}

		if err := tx.Model(&entities.User{}).Where("id = ?", followingID).
			Update("followers_count", utils.Increment("followers_count")).Error; err != nil {
			return err
		}
		return tx.Model(&entities.User{}).Where("id = ?", followerID).
			Update("following_count", utils.Increment("following_count")).Error
	})
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&entities.UserFollow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Model(&entities.User{}).Where("id = ?", followingID).
			Update("followers_count", utils.Decrement("followers_count")).Error; err != nil {
			return err
		}
		return tx.Model(&entities.User{}).Where("id = ?", followerID).
			Update("following_count", utils.Decrement("following_count")).Error
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *userRepository) GetFollowers(ctx context.Context, userID string) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_follows ON users.id = user_follows.follower_id").
		Where("user_follows.following_id = ?", userID).
		Order("user_follows.created_at desc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetFollowing(ctx context.Context, userID string) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_follows ON users.id = user_follows.following_id").
		Where("user_follows.follower_id = ?", userID).
		Order("user_follows.created_at desc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RecountCounters rewrites every user's denormalized counters from the
// underlying rows and returns the number of users touched.
func (r *userRepository) RecountCounters(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE users SET
	recipes_count = (SELECT COUNT(*) FROM recipes WHERE recipes.owner_id = users.id),
	favorites_count = (SELECT COUNT(*) FROM recipe_favorites WHERE recipe_favorites.user_id = users.id),
	followers_count = (SELECT COUNT(*) FROM user_follows WHERE user_follows.following_id = users.id),
	following_count = (SELECT COUNT(*) FROM user_follows WHERE user_follows.follower_id = users.id)`)
	return res.RowsAffected, res.Error
}
