package dynamo

import (
	"Foodies-Backend/entities"
	"github.com/google/uuid"
	"strings"
	"time"
)

const (
	typeUser       = "user"
	typeRecipe     = "recipe"
	typeFollowing  = "following"
	typeFollower   = "follower"
	typeFavorite   = "favorite"
	typeFavoriteBy = "favorited_by"
	typeGuard      = "guard"

	skProfile = "PROFILE"
	skMeta    = "META"
	skGuard   = "GUARD"
)

func userPK(id string) string   { return "USER#" + id }
func recipePK(id string) string { return "RECIPE#" + id }
func emailPK(email string) string {
	return "EMAIL#" + strings.ToLower(strings.TrimSpace(email))
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

type userItem struct {
	PK             string    `dynamodbav:"PK"`
	SK             string    `dynamodbav:"SK"`
	Type           string    `dynamodbav:"type"`
	ID             string    `dynamodbav:"id"`
	Email          string    `dynamodbav:"email"`
	Password       string    `dynamodbav:"password"`
	Name           string    `dynamodbav:"name"`
	AvatarURL      string    `dynamodbav:"avatarUrl"`
	Token          string    `dynamodbav:"token"`
	RecipesCount   int       `dynamodbav:"recipesCount"`
	FavoritesCount int       `dynamodbav:"favoritesCount"`
	FollowersCount int       `dynamodbav:"followersCount"`
	FollowingCount int       `dynamodbav:"followingCount"`
	CreatedAt      time.Time `dynamodbav:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updatedAt"`
}

func newUserItem(u *entities.User) userItem {
	id := u.ID.String()
	return userItem{
		PK:             userPK(id),
		SK:             skProfile,
		Type:           typeUser,
		ID:             id,
		Email:          u.Email,
		Password:       u.Password,
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Token:          u.Token,
		RecipesCount:   u.RecipesCount,
		FavoritesCount: u.FavoritesCount,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (i userItem) entity() *entities.User {
	return &entities.User{
		ID:             parseID(i.ID),
		Email:          i.Email,
		Password:       i.Password,
		Name:           i.Name,
		AvatarURL:      i.AvatarURL,
		Token:          i.Token,
		RecipesCount:   i.RecipesCount,
		FavoritesCount: i.FavoritesCount,
		FollowersCount: i.FollowersCount,
		FollowingCount: i.FollowingCount,
		Timestamp:      entities.Timestamp{CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt},
	}
}

// guardItem reserves a unique value such as an email or a catalog name.
type guardItem struct {
	PK    string `dynamodbav:"PK"`
	SK    string `dynamodbav:"SK"`
	Type  string `dynamodbav:"type"`
	RefID string `dynamodbav:"refId"`
}

func newGuard(pk, refID string) guardItem {
	return guardItem{PK: pk, SK: skGuard, Type: typeGuard, RefID: refID}
}

// edgeItem stores one direction of a follow or favorite relation inside the
// partition of OwnerID.
type edgeItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	Type      string    `dynamodbav:"type"`
	OwnerID   string    `dynamodbav:"ownerId"`
	OtherID   string    `dynamodbav:"otherId"`
	CreatedAt time.Time `dynamodbav:"createdAt"`
}

type recipeIngredientItem struct {
	IngredientID string `dynamodbav:"ingredientId"`
	Measure      string `dynamodbav:"measure"`
}

type recipeItem struct {
	PK           string                 `dynamodbav:"PK"`
	SK           string                 `dynamodbav:"SK"`
	Type         string                 `dynamodbav:"type"`
	ID           string                 `dynamodbav:"id"`
	OwnerID      string                 `dynamodbav:"ownerId"`
	Title        string                 `dynamodbav:"title"`
	Description  string                 `dynamodbav:"description"`
	Category     string                 `dynamodbav:"category"`
	Area         string                 `dynamodbav:"area"`
	Instructions string                 `dynamodbav:"instructions"`
	Time         int                    `dynamodbav:"time"`
	ImageURL     string                 `dynamodbav:"imageUrl"`
	ThumbURL     string                 `dynamodbav:"thumbUrl"`
	VideoURL     string                 `dynamodbav:"videoUrl"`
	Popularity   int                    `dynamodbav:"popularity"`
	Ingredients  []recipeIngredientItem `dynamodbav:"ingredients"`
	// IngredientIDs are denormalized for filtering.
	IngredientIDs    []string  `dynamodbav:"ingredientIds"`
	CreatedAt        time.Time `dynamodbav:"createdAt"`
	UpdatedAt        time.Time `dynamodbav:"updatedAt"`
}

func newRecipeItem(r *entities.Recipe) recipeItem {
	id := r.ID.String()
	item := recipeItem{
		PK:           recipePK(id),
		SK:           skMeta,
		Type:         typeRecipe,
		ID:           id,
		OwnerID:      r.OwnerID.String(),
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Area:         r.Area,
		Instructions: r.Instructions,
		Time:         r.Time,
		ImageURL:     r.ImageURL,
		ThumbURL:     r.ThumbURL,
		VideoURL:     r.VideoURL,
		Popularity:   r.Popularity,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, ri := range r.Ingredients {
		ingredientID := ri.IngredientID.String()
		item.Ingredients = append(item.Ingredients, recipeIngredientItem{IngredientID: ingredientID, Measure: ri.Measure})
		item.IngredientIDs = append(item.IngredientIDs, ingredientID)
	}
	return item
}

func (i recipeItem) entity() *entities.Recipe {
	recipeID := parseID(i.ID)
	r := &entities.Recipe{
		ID:           recipeID,
		OwnerID:      parseID(i.OwnerID),
		Title:        i.Title,
		Description:  i.Description,
		Category:     i.Category,
		Area:         i.Area,
		Instructions: i.Instructions,
		Time:         i.Time,
		ImageURL:     i.ImageURL,
		ThumbURL:     i.ThumbURL,
		VideoURL:     i.VideoURL,
		Popularity:   i.Popularity,
		Ingredients:  make([]*entities.RecipeIngredient, 0, len(i.Ingredients)),
		Timestamp:    entities.Timestamp{CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt},
	}
	for _, ri := range i.Ingredients {
		r.Ingredients = append(r.Ingredients, &entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: parseID(ri.IngredientID),
			Measure:      ri.Measure,
		})
	}
	return r
}

func (i recipeItem) hasIngredient(ids map[string]bool) bool {
	for _, id := range i.IngredientIDs {
		if ids[id] {
			return true
		}
	}
	return false
}

// catalogItem holds every catalog kind; unused attributes are omitted.
type catalogItem struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	Type        string    `dynamodbav:"type"`
	ID          string    `dynamodbav:"id"`
	Name        string    `dynamodbav:"name,omitempty"`
	Title       string    `dynamodbav:"title,omitempty"`
	Description string    `dynamodbav:"description,omitempty"`
	Kind        string    `dynamodbav:"kind,omitempty"`
	Image       string    `dynamodbav:"image,omitempty"`
	Avatar      string    `dynamodbav:"avatar,omitempty"`
	Comment     string    `dynamodbav:"comment,omitempty"`
	CreatedAt   time.Time `dynamodbav:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt"`
}

func (i catalogItem) timestamp() entities.Timestamp {
	return entities.Timestamp{CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt}
}
