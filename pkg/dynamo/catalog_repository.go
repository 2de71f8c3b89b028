package dynamo

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/pkg/catalog"
	"context"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"strings"
	"time"
)

type catalogKind struct {
	prefix      string
	itemType    string
	errNotFound error
	// errExists is nil for kinds without a unique name.
	errExists error
}

func (k catalogKind) pk(id string) string { return k.prefix + "#" + id }

func (k catalogKind) guardPK(name string) string {
	return k.prefix + "NAME#" + strings.ToLower(strings.TrimSpace(name))
}

var (
	categoryKind    = catalogKind{"CATEGORY", "category", domain.ErrCategoryNotFound, domain.ErrCategoryExists}
	areaKind        = catalogKind{"AREA", "area", domain.ErrAreaNotFound, domain.ErrAreaExists}
	ingredientKind  = catalogKind{"INGREDIENT", "ingredient", domain.ErrIngredientNotFound, domain.ErrIngredientExists}
	testimonialKind = catalogKind{"TESTIMONIAL", "testimonial", domain.ErrTestimonialNotFound, nil}
)

func ingredientFromItem(i catalogItem) *entities.Ingredient {
	return &entities.Ingredient{
		ID:          parseID(i.ID),
		Title:       i.Title,
		Description: i.Description,
		Type:        i.Kind,
		Image:       i.Image,
		Timestamp:   i.timestamp(),
	}
}

type catalogRepository struct {
	table *Table
}

func NewCatalogRepository(table *Table) catalog.CatalogRepository {
	return &catalogRepository{table: table}
}

func (r *catalogRepository) list(ctx context.Context, kind catalogKind) ([]catalogItem, error) {
	var items []catalogItem
	if err := r.table.scanType(ctx, kind.itemType, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *catalogRepository) create(ctx context.Context, kind catalogKind, id *uuid.UUID, name string, item catalogItem) (catalogItem, error) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	now := time.Now()
	item.ID = id.String()
	item.PK, item.SK, item.Type = kind.pk(item.ID), skMeta, kind.itemType
	item.CreatedAt, item.UpdatedAt = now, now

	var tx ops
	tx.add(r.table.putOp(item, &pkNotExists))
	guard := -1
	if kind.errExists != nil {
		guard = tx.add(r.table.putOp(newGuard(kind.guardPK(name), item.ID), &pkNotExists))
	}
	if tx.err != nil {
		return item, tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		if idx := conditionFailedAt(err); idx >= 0 && idx == guard {
			return item, kind.errExists
		}
		return item, err
	}
	return item, nil
}

func nameOf(kind catalogKind, item catalogItem) string {
	if kind == ingredientKind {
		return item.Title
	}
	return item.Name
}

// update replaces the stored item, moving the name guard when the unique
// name changes.
func (r *catalogRepository) update(ctx context.Context, kind catalogKind, id uuid.UUID, item catalogItem) (catalogItem, error) {
	var old catalogItem
	found, err := r.table.get(ctx, kind.pk(id.String()), skMeta, &old)
	if err != nil {
		return item, err
	}
	if !found {
		return item, kind.errNotFound
	}

	item.ID = old.ID
	item.PK, item.SK, item.Type = old.PK, old.SK, old.Type
	item.CreatedAt, item.UpdatedAt = old.CreatedAt, time.Now()

	var tx ops
	tx.add(r.table.putOp(item, &pkExists))
	guard := -1
	oldName, newName := nameOf(kind, old), nameOf(kind, item)
	if kind.errExists != nil && kind.guardPK(oldName) != kind.guardPK(newName) {
		tx.add(r.table.deleteOp(kind.guardPK(oldName), skGuard, nil))
		guard = tx.add(r.table.putOp(newGuard(kind.guardPK(newName), item.ID), &pkNotExists))
	}
	if tx.err != nil {
		return item, tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		switch idx := conditionFailedAt(err); {
		case idx == 0:
			return item, kind.errNotFound
		case idx >= 0 && idx == guard:
			return item, kind.errExists
		}
		return item, err
	}
	return item, nil
}

func (r *catalogRepository) remove(ctx context.Context, kind catalogKind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return kind.errNotFound
	}
	var old catalogItem
	found, err := r.table.get(ctx, kind.pk(id), skMeta, &old)
	if err != nil {
		return err
	}
	if !found {
		return kind.errNotFound
	}

	var tx ops
	tx.add(r.table.deleteOp(old.PK, old.SK, &pkExists))
	if kind.errExists != nil {
		tx.add(r.table.deleteOp(kind.guardPK(nameOf(kind, old)), skGuard, nil))
	}
	if tx.err != nil {
		return tx.err
	}
	if err := r.table.transact(ctx, tx.items); err != nil {
		if conditionFailedAt(err) == 0 {
			return kind.errNotFound
		}
		return err
	}
	return nil
}

func (r *catalogRepository) GetCategories(ctx context.Context) ([]*entities.Category, error) {
	items, err := r.list(ctx, categoryKind)
	if err != nil {
		return nil, err
	}
	sortBy(items, func(a, b catalogItem) bool { return a.Name < b.Name })

	categories := make([]*entities.Category, 0, len(items))
	for _, i := range items {
		categories = append(categories, &entities.Category{ID: parseID(i.ID), Name: i.Name, Image: i.Image, Timestamp: i.timestamp()})
	}
	return categories, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *entities.Category) error {
	item, err := r.create(ctx, categoryKind, &category.ID, category.Name, catalogItem{Name: category.Name, Image: category.Image})
	category.Timestamp = item.timestamp()
	return err
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *entities.Category) error {
	_, err := r.update(ctx, categoryKind, category.ID, catalogItem{Name: category.Name, Image: category.Image})
	return err
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.remove(ctx, categoryKind, id)
}

func (r *catalogRepository) GetAreas(ctx context.Context) ([]*entities.Area, error) {
	items, err := r.list(ctx, areaKind)
	if err != nil {
		return nil, err
	}
	sortBy(items, func(a, b catalogItem) bool { return a.Name < b.Name })

	areas := make([]*entities.Area, 0, len(items))
	for _, i := range items {
		areas = append(areas, &entities.Area{ID: parseID(i.ID), Name: i.Name, Timestamp: i.timestamp()})
	}
	return areas, nil
}

func (r *catalogRepository) CreateArea(ctx context.Context, area *entities.Area) error {
	item, err := r.create(ctx, areaKind, &area.ID, area.Name, catalogItem{Name: area.Name})
	area.Timestamp = item.timestamp()
	return err
}

func (r *catalogRepository) UpdateArea(ctx context.Context, area *entities.Area) error {
	_, err := r.update(ctx, areaKind, area.ID, catalogItem{Name: area.Name})
	return err
}

func (r *catalogRepository) DeleteArea(ctx context.Context, id string) error {
	return r.remove(ctx, areaKind, id)
}

func ingredientItem(i *entities.Ingredient) catalogItem {
	return catalogItem{Title: i.Title, Description: i.Description, Kind: i.Type, Image: i.Image}
}

func (r *catalogRepository) GetIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	items, err := r.list(ctx, ingredientKind)
	if err != nil {
		return nil, err
	}
	sortBy(items, func(a, b catalogItem) bool { return a.Title < b.Title })

	ingredients := make([]*entities.Ingredient, 0, len(items))
	for _, i := range items {
		ingredients = append(ingredients, ingredientFromItem(i))
	}
	return ingredients, nil
}

func (r *catalogRepository) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error) {
	ingredients := make([]*entities.Ingredient, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		var item catalogItem
		found, err := r.table.get(ctx, ingredientKind.pk(id), skMeta, &item)
		if err != nil {
			return nil, err
		}
		if found {
			ingredients = append(ingredients, ingredientFromItem(item))
		}
	}
	return ingredients, nil
}

func (r *catalogRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	item, err := r.create(ctx, ingredientKind, &ingredient.ID, ingredient.Title, ingredientItem(ingredient))
	ingredient.Timestamp = item.timestamp()
	return err
}

func (r *catalogRepository) UpdateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	_, err := r.update(ctx, ingredientKind, ingredient.ID, ingredientItem(ingredient))
	return err
}

func (r *catalogRepository) referencedIngredients(ctx context.Context, id *string) (map[string]bool, error) {
	var filter *expression.ConditionBuilder
	if id != nil {
		cond := expression.Name("ingredientIds").Contains(*id)
		filter = &cond
	}
	var recipes []recipeItem
	if err := r.table.scanType(ctx, typeRecipe, filter, &recipes); err != nil {
		return nil, err
	}
	used := make(map[string]bool)
	for _, rec := range recipes {
		for _, ingredientID := range rec.IngredientIDs {
			used[ingredientID] = true
		}
	}
	return used, nil
}

func (r *catalogRepository) DeleteIngredient(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrIngredientNotFound
	}
	used, err := r.referencedIngredients(ctx, &id)
	if err != nil {
		return err
	}
	if used[id] {
		return domain.ErrIngredientInUse
	}
	return r.remove(ctx, ingredientKind, id)
}

func (r *catalogRepository) GetTestimonials(ctx context.Context) ([]*entities.Testimonial, error) {
	items, err := r.list(ctx, testimonialKind)
	if err != nil {
		return nil, err
	}
	sortBy(items, func(a, b catalogItem) bool { return a.CreatedAt.Before(b.CreatedAt) })

	testimonials := make([]*entities.Testimonial, 0, len(items))
	for _, i := range items {
		testimonials = append(testimonials, &entities.Testimonial{
			ID:        parseID(i.ID),
			Name:      i.Name,
			Avatar:    i.Avatar,
			Comment:   i.Comment,
			Timestamp: i.timestamp(),
		})
	}
	return testimonials, nil
}

func (r *catalogRepository) CreateTestimonial(ctx context.Context, testimonial *entities.Testimonial) error {
	item, err := r.create(ctx, testimonialKind, &testimonial.ID, "",
		catalogItem{Name: testimonial.Name, Avatar: testimonial.Avatar, Comment: testimonial.Comment})
	testimonial.Timestamp = item.timestamp()
	return err
}

func (r *catalogRepository) UpdateTestimonial(ctx context.Context, testimonial *entities.Testimonial) error {
	_, err := r.update(ctx, testimonialKind, testimonial.ID,
		catalogItem{Name: testimonial.Name, Avatar: testimonial.Avatar, Comment: testimonial.Comment})
	return err
}

func (r *catalogRepository) DeleteTestimonial(ctx context.Context, id string) error {
	return r.remove(ctx, testimonialKind, id)
}

// ClearCatalog deletes catalog items one by one; ingredients referenced by a
// recipe are kept.
func (r *catalogRepository) ClearCatalog(ctx context.Context) error {
	used, err := r.referencedIngredients(ctx, nil)
	if err != nil {
		return err
	}

	for _, kind := range []catalogKind{testimonialKind, areaKind, categoryKind, ingredientKind} {
		items, err := r.list(ctx, kind)
		if err != nil {
			return err
		}
		for _, item := range items {
			if kind == ingredientKind && used[item.ID] {
				continue
			}
			if err := r.table.deleteItem(ctx, item.PK, item.SK); err != nil {
				return err
			}
			if kind.errExists != nil {
				if err := r.table.deleteItem(ctx, kind.guardPK(nameOf(kind, item)), skGuard); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
