package dynamo

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/pkg/recipe"
	"context"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
	"slices"
	"strings"
	"time"
)

type recipeRepository struct {
	table *Table
}

func NewRecipeRepository(table *Table) recipe.RecipeRepository {
	return &recipeRepository{table: table}
}

func favoriteEdges(userID, recipeID string, at time.Time) (edgeItem, edgeItem) {
	favorite := edgeItem{
		PK:        userPK(userID),
		SK:        "FAVORITE#" + recipeID,
		Type:      typeFavorite,
		OwnerID:   userID,
		OtherID:   recipeID,
		CreatedAt: at,
	}
	favoritedBy := edgeItem{
		PK:        recipePK(recipeID),
		SK:        "FAVORITEDBY#" + userID,
		Type:      typeFavoriteBy,
		OwnerID:   recipeID,
		OtherID:   userID,
		CreatedAt: at,
	}
	return favorite, favoritedBy
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, rec *entities.Recipe) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now

	for _, ri := range rec.Ingredients {
		if ri.ID == uuid.Nil {
			ri.ID = uuid.New()
		}
		ri.RecipeID = rec.ID
		if ri.Ingredient != nil {
			continue
		}
		var item catalogItem
		found, err := r.table.get(ctx, ingredientKind.pk(ri.IngredientID.String()), skMeta, &item)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUnknownIngredient
		}
		ri.Ingredient = ingredientFromItem(item)
	}

	var tx ops
	tx.add(r.table.putOp(newRecipeItem(rec), &pkNotExists))
	owner := tx.add(r.table.updateOp(userPK(rec.OwnerID.String()), skProfile, counter("recipesCount", 1), &pkExists))
	for _, ri := range rec.Ingredients {
		tx.add(r.table.checkOp(ingredientKind.pk(ri.IngredientID.String()), skMeta, pkExists))
	}
	if tx.err != nil {
		return tx.err
	}
	if len(tx.items) > maxTransactItems {
		return domain.ErrInvalidIngredients
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		switch idx := conditionFailedAt(err); {
		case idx == owner:
			return domain.ErrUserNotFound
		case idx > owner:
			return domain.ErrUnknownIngredient
		}
		return err
	}
	return nil
}

// hydrate attaches owners and ingredient details to stored recipes.
func (r *recipeRepository) hydrate(ctx context.Context, items []recipeItem) ([]*entities.Recipe, error) {
	users := make(map[string]*entities.User)
	ingredients := make(map[string]*entities.Ingredient)

	recipes := make([]*entities.Recipe, 0, len(items))
	for _, item := range items {
		rec := item.entity()

		owner, ok := users[item.OwnerID]
		if !ok {
			var u userItem
			found, err := r.table.get(ctx, userPK(item.OwnerID), skProfile, &u)
			if err != nil {
				return nil, err
			}
			if found {
				owner = u.entity()
			}
			users[item.OwnerID] = owner
		}
		rec.Owner = owner

		for _, ri := range rec.Ingredients {
			id := ri.IngredientID.String()
			ingredient, ok := ingredients[id]
			if !ok {
				var c catalogItem
				found, err := r.table.get(ctx, ingredientKind.pk(id), skMeta, &c)
				if err != nil {
					return nil, err
				}
				if found {
					ingredient = ingredientFromItem(c)
				}
				ingredients[id] = ingredient
			}
			ri.Ingredient = ingredient
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var item recipeItem
	found, err := r.table.get(ctx, recipePK(id), skMeta, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrRecipeNotFound
	}
	recipes, err := r.hydrate(ctx, []recipeItem{item})
	if err != nil {
		return nil, err
	}
	return recipes[0], nil
}

func (r *recipeRepository) scanRecipes(ctx context.Context, filter *expression.ConditionBuilder) ([]recipeItem, error) {
	var items []recipeItem
	if err := r.table.scanType(ctx, typeRecipe, filter, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func newestFirst(a, b recipeItem) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *recipeRepository) pageOf(ctx context.Context, items []recipeItem, pageNum, limit int) ([]*entities.Recipe, int64, error) {
	recipes, err := r.hydrate(ctx, page(items, pageNum, limit))
	if err != nil {
		return nil, 0, err
	}
	return recipes, int64(len(items)), nil
}

// GetRecipes filters in memory since DynamoDB filter expressions are case
// sensitive.
func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, pageNum, limit int) ([]*entities.Recipe, int64, error) {
	all, err := r.scanRecipes(ctx, nil)
	if err != nil {
		return nil, 0, err
	}

	category := strings.TrimSpace(filter.Category)
	area := strings.TrimSpace(filter.Area)
	ingredient := strings.TrimSpace(filter.Ingredient)

	var ingredientIDs map[string]bool
	if ingredient != "" {
		if ingredientIDs, err = r.ingredientIDs(ctx, ingredient); err != nil {
			return nil, 0, err
		}
	}

	matched := make([]recipeItem, 0, len(all))
	for _, item := range all {
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		if area != "" && !strings.EqualFold(item.Area, area) {
			continue
		}
		if ingredient != "" && !item.hasIngredient(ingredientIDs) {
			continue
		}
		matched = append(matched, item)
	}
	sortBy(matched, newestFirst)

	return r.pageOf(ctx, matched, pageNum, limit)
}

// ingredientIDs resolves an ingredient filter: the value itself when it is an
// id, plus the ingredient whose current title owns the name guard.
func (r *recipeRepository) ingredientIDs(ctx context.Context, value string) (map[string]bool, error) {
	ids := map[string]bool{}
	if id, err := uuid.Parse(value); err == nil {
		ids[id.String()] = true
	}
	var guard guardItem
	found, err := r.table.get(ctx, ingredientKind.guardPK(value), skGuard, &guard)
	if err != nil {
		return nil, err
	}
	if found {
		ids[guard.RefID] = true
	}
	return ids, nil
}

func (r *recipeRepository) GetPopularRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error) {
	all, err := r.scanRecipes(ctx, nil)
	if err != nil {
		return nil, err
	}
	sortBy(all, func(a, b recipeItem) bool {
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return r.hydrate(ctx, page(all, 1, limit))
}

func (r *recipeRepository) GetRecipesByOwner(ctx context.Context, ownerID string, pageNum, limit int) ([]*entities.Recipe, int64, error) {
	byOwner := expression.Name("ownerId").Equal(expression.Value(ownerID))
	items, err := r.scanRecipes(ctx, &byOwner)
	if err != nil {
		return nil, 0, err
	}
	sortBy(items, newestFirst)
	return r.pageOf(ctx, items, pageNum, limit)
}

// DeleteRecipe removes the recipe, its favorite edges and restores the
// counters. Recipes with more favorites than fit in one transaction have
// their edges removed in batches before the final delete.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string, ownerID string) (*entities.Recipe, error) {
	var item recipeItem
	found, err := r.table.get(ctx, recipePK(id), skMeta, &item)
	if err != nil {
		return nil, err
	}
	if !found || item.OwnerID != ownerID {
		return nil, domain.ErrRecipeNotOwned
	}

	var fans []edgeItem
	if err := r.table.queryPrefix(ctx, recipePK(id), "FAVORITEDBY#", &fans); err != nil {
		return nil, err
	}

	if 2+3*len(fans) > maxTransactItems {
		if err := r.dropFavorites(ctx, id, fans); err != nil {
			return nil, err
		}
		fans = nil
	}

	owned := expression.Name("ownerId").Equal(expression.Value(ownerID))
	var tx ops
	tx.add(r.table.deleteOp(item.PK, item.SK, &owned))
	tx.add(r.table.updateOp(userPK(ownerID), skProfile, counter("recipesCount", -1), &pkExists))
	for _, fan := range fans {
		r.addUnfavorite(&tx, fan.OtherID, id)
	}
	if tx.err != nil {
		return nil, tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		if conditionFailedAt(err) == 0 {
			return nil, domain.ErrRecipeNotOwned
		}
		return nil, err
	}
	return item.entity(), nil
}

func (r *recipeRepository) addUnfavorite(tx *ops, userID, recipeID string) int {
	favorite, favoritedBy := favoriteEdges(userID, recipeID, time.Time{})
	edge := tx.add(r.table.deleteOp(favorite.PK, favorite.SK, &pkExists))
	tx.add(r.table.deleteOp(favoritedBy.PK, favoritedBy.SK, nil))
	tx.add(r.table.updateOp(userPK(userID), skProfile, counter("favoritesCount", -1), &pkExists))
	return edge
}

// dropFavorites removes favorite edges in transaction sized batches. An edge
// that disappeared since the query cancels its batch, which is then retried
// without it.
func (r *recipeRepository) dropFavorites(ctx context.Context, recipeID string, fans []edgeItem) error {
	const perBatch = maxTransactItems / 3
	for start := 0; start < len(fans); start += perBatch {
		end := start + perBatch
		if end > len(fans) {
			end = len(fans)
		}
		batch := append([]edgeItem(nil), fans[start:end]...)
		for len(batch) > 0 {
			var tx ops
			edges := make([]int, len(batch))
			for i, fan := range batch {
				edges[i] = r.addUnfavorite(&tx, fan.OtherID, recipeID)
			}
			if tx.err != nil {
				return tx.err
			}
			err := r.table.transact(ctx, tx.items)
			if err == nil {
				break
			}
			gone := slices.Index(edges, conditionFailedAt(err))
			if gone < 0 {
				return err
			}
			batch = slices.Delete(batch, gone, gone+1)
		}
	}
	return nil
}

func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return false, domain.ErrRecipeNotFound
	}
	favorite, favoritedBy := favoriteEdges(userID, recipeID, time.Now())

	var tx ops
	edge := tx.add(r.table.putOp(favorite, &pkNotExists))
	tx.add(r.table.putOp(favoritedBy, nil))
	target := tx.add(r.table.updateOp(recipePK(recipeID), skMeta, counter("popularity", 1), &pkExists))
	self := tx.add(r.table.updateOp(userPK(userID), skProfile, counter("favoritesCount", 1), &pkExists))
	if tx.err != nil {
		return false, tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		switch conditionFailedAt(err) {
		case edge:
			return false, nil
		case target:
			return false, domain.ErrRecipeNotFound
		case self:
			return false, domain.ErrUserNotFound
		}
		return false, err
	}
	return true, nil
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	var tx ops
	edge := r.addUnfavorite(&tx, userID, recipeID)
	tx.add(r.table.updateOp(recipePK(recipeID), skMeta, counter("popularity", -1), &pkExists))
	if tx.err != nil {
		return false, tx.err
	}

	if err := r.table.transact(ctx, tx.items); err != nil {
		if idx := conditionFailedAt(err); idx == edge {
			return false, nil
		} else if idx > edge {
			return false, domain.ErrRecipeNotFound
		}
		return false, err
	}
	return true, nil
}

func (r *recipeRepository) GetFavoriteRecipes(ctx context.Context, userID string, pageNum, limit int) ([]*entities.Recipe, int64, error) {
	var edges []edgeItem
	if err := r.table.queryPrefix(ctx, userPK(userID), "FAVORITE#", &edges); err != nil {
		return nil, 0, err
	}
	sortBy(edges, func(a, b edgeItem) bool { return a.CreatedAt.After(b.CreatedAt) })

	items := make([]recipeItem, 0, limit)
	for _, e := range page(edges, pageNum, limit) {
		var item recipeItem
		found, err := r.table.get(ctx, recipePK(e.OtherID), skMeta, &item)
		if err != nil {
			return nil, 0, err
		}
		if found {
			items = append(items, item)
		}
	}
	recipes, err := r.hydrate(ctx, items)
	if err != nil {
		return nil, 0, err
	}
	return recipes, int64(len(edges)), nil
}

func (r *recipeRepository) RecountPopularity(ctx context.Context) (int64, error) {
	all, err := r.scanRecipes(ctx, nil)
	if err != nil {
		return 0, err
	}

	var touched int64
	for _, item := range all {
		var fans []edgeItem
		if err := r.table.queryPrefix(ctx, item.PK, "FAVORITEDBY#", &fans); err != nil {
			return touched, err
		}
		if len(fans) == item.Popularity {
			continue
		}
		update := expression.Set(expression.Name("popularity"), expression.Value(len(fans)))
		if err := r.table.updateItem(ctx, item.PK, skMeta, update, pkExists, nil); err != nil {
			if isConditionFailed(err) {
				continue
			}
			return touched, err
		}
		touched++
	}
	return touched, nil
}
