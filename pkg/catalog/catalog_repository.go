package catalog

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"strings"
)

type (
	CatalogRepository interface {
		GetCategories(ctx context.Context) ([]*entities.Category, error)
		CreateCategory(ctx context.Context, category *entities.Category) error
		UpdateCategory(ctx context.Context, category *entities.Category) error
		DeleteCategory(ctx context.Context, id string) error

		GetAreas(ctx context.Context) ([]*entities.Area, error)
		CreateArea(ctx context.Context, area *entities.Area) error
		UpdateArea(ctx context.Context, area *entities.Area) error
		DeleteArea(ctx context.Context, id string) error

		GetIngredients(ctx context.Context) ([]*entities.Ingredient, error)
		GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error)
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		UpdateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		DeleteIngredient(ctx context.Context, id string) error

		GetTestimonials(ctx context.Context) ([]*entities.Testimonial, error)
		CreateTestimonial(ctx context.Context, testimonial *entities.Testimonial) error
		UpdateTestimonial(ctx context.Context, testimonial *entities.Testimonial) error
		DeleteTestimonial(ctx context.Context, id string) error

		// ClearCatalog removes every catalog row except ingredients still
		// referenced by recipes.
		ClearCatalog(ctx context.Context) error
	}

	catalogRepository struct {
		db *gorm.DB
	}

	// uniqueness describes a case-insensitive unique column.
	uniqueness struct {
		column string
		value  string
		err    error
	}
)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func list[T any](ctx context.Context, db *gorm.DB, order string) ([]*T, error) {
	var items []*T
	if err := db.WithContext(ctx).Order(order).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func checkUnique[T any](tx *gorm.DB, u *uniqueness, excludeID uuid.UUID) error {
	if u == nil {
		return nil
	}
	var count int64
	q := tx.Model(new(T)).Where("LOWER("+u.column+") = ?", strings.ToLower(strings.TrimSpace(u.value)))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return u.err
	}
	return nil
}

func create[T any](ctx context.Context, db *gorm.DB, item *T, u *uniqueness) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique[T](tx, u, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) && u != nil {
				return u.err
			}
			return err
		}
		return nil
	})
}

func update[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, fields map[string]any, u *uniqueness, errNotFound error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique[T](tx, u, id); err != nil {
			return err
		}
		res := tx.Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) && u != nil {
				return u.err
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotFound
		}
		return nil
	})
}

func remove[T any](ctx context.Context, db *gorm.DB, id string, errNotFound error) error {
	if _, err := uuid.Parse(id); err != nil {
		return errNotFound
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

func (r *catalogRepository) GetCategories(ctx context.Context) ([]*entities.Category, error) {
	return list[entities.Category](ctx, r.db, "name asc")
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *entities.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return create(ctx, r.db, category, &uniqueness{"name", category.Name, domain.ErrCategoryExists})
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *entities.Category) error {
	return update[entities.Category](ctx, r.db, category.ID, map[string]any{
		"name":  category.Name,
		"image": category.Image,
	}, &uniqueness{"name", category.Name, domain.ErrCategoryExists}, domain.ErrCategoryNotFound)
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id string) error {
	return remove[entities.Category](ctx, r.db, id, domain.ErrCategoryNotFound)
}

func (r *catalogRepository) GetAreas(ctx context.Context) ([]*entities.Area, error) {
	return list[entities.Area](ctx, r.db, "name asc")
}

func (r *catalogRepository) CreateArea(ctx context.Context, area *entities.Area) error {
	if area.ID == uuid.Nil {
		area.ID = uuid.New()
	}
	return create(ctx, r.db, area, &uniqueness{"name", area.Name, domain.ErrAreaExists})
}

func (r *catalogRepository) UpdateArea(ctx context.Context, area *entities.Area) error {
	return update[entities.Area](ctx, r.db, area.ID, map[string]any{
		"name": area.Name,
	}, &uniqueness{"name", area.Name, domain.ErrAreaExists}, domain.ErrAreaNotFound)
}

func (r *catalogRepository) DeleteArea(ctx context.Context, id string) error {
	return remove[entities.Area](ctx, r.db, id, domain.ErrAreaNotFound)
}

func (r *catalogRepository) GetIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	return list[entities.Ingredient](ctx, r.db, "title asc")
}

func (r *catalogRepository) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*entities.Ingredient{}, nil
	}

	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *catalogRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	if ingredient.ID == uuid.Nil {
		ingredient.ID = uuid.New()
	}
	return create(ctx, r.db, ingredient, &uniqueness{"title", ingredient.Title, domain.ErrIngredientExists})
}

func (r *catalogRepository) UpdateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return update[entities.Ingredient](ctx, r.db, ingredient.ID, map[string]any{
		"title":       ingredient.Title,
		"description": ingredient.Description,
		"type":        ingredient.Type,
		"image":       ingredient.Image,
	}, &uniqueness{"title", ingredient.Title, domain.ErrIngredientExists}, domain.ErrIngredientNotFound)
}

func (r *catalogRepository) DeleteIngredient(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrIngredientNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&entities.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return domain.ErrIngredientInUse
		}
		return remove[entities.Ingredient](ctx, tx, id, domain.ErrIngredientNotFound)
	})
}

func (r *catalogRepository) GetTestimonials(ctx context.Context) ([]*entities.Testimonial, error) {
	return list[entities.Testimonial](ctx, r.db, "created_at asc")
}

func (r *catalogRepository) CreateTestimonial(ctx context.Context, testimonial *entities.Testimonial) error {
	if testimonial.ID == uuid.Nil {
		testimonial.ID = uuid.New()
	}
	return create(ctx, r.db, testimonial, nil)
}

func (r *catalogRepository) UpdateTestimonial(ctx context.Context, testimonial *entities.Testimonial) error {
	return update[entities.Testimonial](ctx, r.db, testimonial.ID, map[string]any{
		"name":    testimonial.Name,
		"avatar":  testimonial.Avatar,
		"comment": testimonial.Comment,
	}, nil, domain.ErrTestimonialNotFound)
}

func (r *catalogRepository) DeleteTestimonial(ctx context.Context, id string) error {
	return remove[entities.Testimonial](ctx, r.db, id, domain.ErrTestimonialNotFound)
}

func (r *catalogRepository) ClearCatalog(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&entities.Testimonial{}, &entities.Area{}, &entities.Category{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id NOT IN (?)", tx.Model(&entities.RecipeIngredient{}).Select("ingredient_id")).
			Delete(&entities.Ingredient{}).Error
	})
}
