package recipe

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
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetPopularRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error)
		GetRecipesByOwner(ctx context.Context, ownerID string, page, limit int) ([]*entities.Recipe, int64, error)
		DeleteRecipe(ctx context.Context, id string, ownerID string) (*entities.Recipe, error)

		AddFavorite(ctx context.Context, userID, recipeID string) (bool, error)
		RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error)
		GetFavoriteRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error)

		RecountPopularity(ctx context.Context) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Ingredients.Ingredient")
}

// CreateRecipe stores the recipe, its ingredient rows and the owner's
// recipes_count increment in one transaction.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(recipe.Ingredients))
		for _, ri := range recipe.Ingredients {
			ids = append(ids, ri.IngredientID)
		}

		var known int64
		if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
			return err
		}
		if known != int64(len(ids)) {
			return domain.ErrUnknownIngredient
		}

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}

		for _, ri := range recipe.Ingredients {
			if ri.ID == uuid.Nil {
				ri.ID = uuid.New()
			}
			ri.RecipeID = recipe.ID
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&entities.User{}).Where("id = ?", recipe.OwnerID).
			Update("recipes_count", utils.Increment("recipes_count"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withRelations(ctx).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) filtered(ctx context.Context, filter domain.RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("LOWER(recipes.category) = ?", strings.ToLower(c))
	}
	if a := strings.TrimSpace(filter.Area); a != "" {
		q = q.Where("LOWER(recipes.area) = ?", strings.ToLower(a))
	}
	if i := strings.TrimSpace(filter.Ingredient); i != "" {
		sub := r.db.WithContext(ctx).Model(&entities.RecipeIngredient{}).
			Select("recipe_ingredients.recipe_id").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id")
		if id, err := uuid.Parse(i); err == nil {
			sub = sub.Where("LOWER(ingredients.title) = ? OR ingredients.id = ?", strings.ToLower(i), id)
		} else {
			sub = sub.Where("LOWER(ingredients.title) = ?", strings.ToLower(i))
		}
		q = q.Where("recipes.id IN (?)", sub)
	}
	return q
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.filtered(ctx, filter).
		Preload("Owner").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetPopularRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.withRelations(ctx).
		Order("popularity desc").
		Order("created_at asc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetRecipesByOwner(ctx context.Context, ownerID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withRelations(ctx).
		Where("owner_id = ?", ownerID).
		Offset(offset).
		Limit(limit).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// DeleteRecipe removes an owned recipe with its ingredient rows and favorite
// edges, restoring every affected counter. A missing or foreign recipe
// yields ErrRecipeNotOwned.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string, ownerID string) (*entities.Recipe, error) {
	var recipe entities.Recipe

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecipeNotOwned
			}
			return err
		}

		favoritedBy := tx.Model(&entities.RecipeFavorite{}).Select("user_id").Where("recipe_id = ?", id)
		if err := tx.Model(&entities.User{}).Where("id IN (?)", favoritedBy).
			Update("favorites_count", utils.Decrement("favorites_count")).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return err
		}
		return tx.Model(&entities.User{}).Where("id = ?", ownerID).
			Update("recipes_count", utils.Decrement("recipes_count")).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// AddFavorite reports false when the edge already existed; counters are
// only touched for a new edge.
func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return false, domain.ErrParseUUID
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return false, domain.ErrRecipeNotFound
	}

	added := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Recipe{}).Where("id = ?", recipeUUID).
			Update("popularity", utils.Increment("popularity"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		edge := entities.RecipeFavorite{
			ID:        uuid.New(),
			UserID:    userUUID,
			RecipeID:  recipeUUID,
			CreatedAt: time.Now(),
		}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// roll back the popularity bump
			return errFavoriteExists
		}
		added = true

		return tx.Model(&entities.User{}).Where("id = ?", userUUID).
			Update("favorites_count", utils.Increment("favorites_count")).Error
	})
	if errors.Is(err, errFavoriteExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return added, nil
}

var errFavoriteExists = errors.New("favorite exists")

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&entities.RecipeFavorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Model(&entities.Recipe{}).Where("id = ?", recipeID).
			Update("popularity", utils.Decrement("popularity")).Error; err != nil {
			return err
		}
		return tx.Model(&entities.User{}).Where("id = ?", userID).
			Update("favorites_count", utils.Decrement("favorites_count")).Error
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *recipeRepository) GetFavoriteRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Joins("JOIN recipe_favorites ON recipes.id = recipe_favorites.recipe_id").
		Where("recipe_favorites.user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withRelations(ctx).
		Joins("JOIN recipe_favorites ON recipes.id = recipe_favorites.recipe_id").
		Where("recipe_favorites.user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Order("recipe_favorites.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) RecountPopularity(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE recipes SET popularity = (
	SELECT COUNT(*) FROM recipe_favorites WHERE recipe_favorites.recipe_id = recipes.id
)`)
	return res.RowsAffected, res.Error
}
