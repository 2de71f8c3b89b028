package dynamo

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/pkg/user"
	"context"
	"errors"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"strings"
	"time"
)

type userRepository struct {
	table *Table
}

func NewUserRepository(table *Table) user.UserRepository {
	return &userRepository{table: table}
}

func (r *userRepository) CreateUser(ctx context.Context, u *entities.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	var tx ops
	tx.add(r.table.putOp(newUserItem(u), &pkNotExists))
	guard := tx.add(r.table.putOp(newGuard(emailPK(u.Email), u.ID.String()), &pkNotExists))
	if tx.err != nil {
		return tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		if conditionFailedAt(err) == guard {
			return domain.ErrEmailInUse
		}
		return err
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var item userItem
	found, err := r.table.get(ctx, userPK(id), skProfile, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return item.entity(), nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var guard guardItem
	found, err := r.table.get(ctx, emailPK(email), skGuard, &guard)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return r.GetUserByID(ctx, guard.RefID)
}

func (r *userRepository) set(ctx context.Context, id string, update expression.UpdateBuilder) (*entities.User, error) {
	update = update.Set(expression.Name("updatedAt"), expression.Value(time.Now()))

	var item userItem
	if err := r.table.updateItem(ctx, userPK(id), skProfile, update, pkExists, &item); err != nil {
		if isConditionFailed(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return item.entity(), nil
}

func (r *userRepository) UpdateToken(ctx context.Context, id string, token string) error {
	_, err := r.set(ctx, id, expression.Set(expression.Name("token"), expression.Value(token)))
	return err
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id string, avatarURL string) (*entities.User, error) {
	return r.set(ctx, id, expression.Set(expression.Name("avatarUrl"), expression.Value(avatarURL)))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	update := expression.Set(expression.Name("password"), expression.Value(passwordHash)).
		Set(expression.Name("token"), expression.Value(""))
	_, err := r.set(ctx, id, update)
	return err
}

func followEdges(followerID, followingID string, at time.Time) (edgeItem, edgeItem) {
	following := edgeItem{
		PK:        userPK(followerID),
		SK:        "FOLLOWING#" + followingID,
		Type:      typeFollowing,
		OwnerID:   followerID,
		OtherID:   followingID,
		CreatedAt: at,
	}
	follower := edgeItem{
		PK:        userPK(followingID),
		SK:        "FOLLOWER#" + followerID,
		Type:      typeFollower,
		OwnerID:   followingID,
		OtherID:   followerID,
		CreatedAt: at,
	}
	return following, follower
}

func counter(name string, delta int) expression.UpdateBuilder {
	return expression.Add(expression.Name(name), expression.Value(delta))
}

func (r *userRepository) Follow(ctx context.Context, followerID, followingID string) error {
	following, follower := followEdges(followerID, followingID, time.Now())

	var tx ops
	edge := tx.add(r.table.putOp(following, &pkNotExists))
	tx.add(r.table.putOp(follower, nil))
	target := tx.add(r.table.updateOp(userPK(followingID), skProfile, counter("followersCount", 1), &pkExists))
	self := tx.add(r.table.updateOp(userPK(followerID), skProfile, counter("followingCount", 1), &pkExists))
	if tx.err != nil {
		return tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		switch conditionFailedAt(err) {
		case edge:
			return domain.ErrAlreadyFollowing
		case target, self:
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	following, follower := followEdges(followerID, followingID, time.Time{})

	var tx ops
	edge := tx.add(r.table.deleteOp(following.PK, following.SK, &pkExists))
	tx.add(r.table.deleteOp(follower.PK, follower.SK, nil))
	tx.add(r.table.updateOp(userPK(followingID), skProfile, counter("followersCount", -1), &pkExists))
	tx.add(r.table.updateOp(userPK(followerID), skProfile, counter("followingCount", -1), &pkExists))
	if tx.err != nil {
		return false, tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		if idx := conditionFailedAt(err); idx == edge {
			return false, nil
		} else if idx > edge {
			return false, domain.ErrUserNotFound
		}
		return false, err
	}
	return true, nil
}

func (r *userRepository) relatedUsers(ctx context.Context, userID, prefix string) ([]*entities.User, error) {
	var edges []edgeItem
	if err := r.table.queryPrefix(ctx, userPK(userID), prefix, &edges); err != nil {
		return nil, err
	}
	sortBy(edges, func(a, b edgeItem) bool { return a.CreatedAt.After(b.CreatedAt) })

	users := make([]*entities.User, 0, len(edges))
	for _, e := range edges {
		u, err := r.GetUserByID(ctx, e.OtherID)
		if errors.Is(err, domain.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *userRepository) GetFollowers(ctx context.Context, userID string) ([]*entities.User, error) {
	return r.relatedUsers(ctx, userID, "FOLLOWER#")
}

func (r *userRepository) GetFollowing(ctx context.Context, userID string) ([]*entities.User, error) {
	return r.relatedUsers(ctx, userID, "FOLLOWING#")
}

// RecountCounters rebuilds every profile's counters from the edge and recipe
// items and returns the number of profiles rewritten.
func (r *userRepository) RecountCounters(ctx context.Context) (int64, error) {
	var users []userItem
	if err := r.table.scanType(ctx, typeUser, nil, &users); err != nil {
		return 0, err
	}
	var recipes []recipeItem
	if err := r.table.scanType(ctx, typeRecipe, nil, &recipes); err != nil {
		return 0, err
	}
	owned := make(map[string]int)
	for _, rec := range recipes {
		owned[rec.OwnerID]++
	}

	var touched int64
	for _, u := range users {
		var edges []edgeItem
		if err := r.table.queryPrefix(ctx, u.PK, "F", &edges); err != nil {
			return touched, err
		}
		var favorites, followers, following int
		for _, e := range edges {
			switch e.Type {
			case typeFavorite:
				favorites++
			case typeFollower:
				followers++
			case typeFollowing:
				following++
			}
		}
		if u.RecipesCount == owned[u.ID] && u.FavoritesCount == favorites &&
			u.FollowersCount == followers && u.FollowingCount == following {
			continue
		}

		update := expression.Set(expression.Name("recipesCount"), expression.Value(owned[u.ID])).
			Set(expression.Name("favoritesCount"), expression.Value(favorites)).
			Set(expression.Name("followersCount"), expression.Value(followers)).
			Set(expression.Name("followingCount"), expression.Value(following))
		if err := r.table.updateItem(ctx, u.PK, skProfile, update, pkExists, nil); err != nil {
			if isConditionFailed(err) {
				continue
			}
			return touched, err
		}
		touched++
	}
	return touched, nil
}
