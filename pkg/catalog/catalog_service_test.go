package catalog

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/testutil"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mapCache struct {
	items   map[string][]byte
	gets    int
	hits    int
	deletes []string
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.items, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

func newService(t *testing.T) (CatalogService, CatalogRepository, *mapCache, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	repo := NewCatalogRepository(db)
	c := newMapCache()
	return NewCatalogService(repo, c, time.Minute), repo, c, db
}

func TestCategories_CacheAsideAndInvalidation(t *testing.T) {
	svc, _, c, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Dessert"})
	require.NoError(t, err)

	first, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, c.hits)

	second, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.hits)

	_, err = svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Beef"})
	require.NoError(t, err)
	assert.Contains(t, c.deletes, keyCategories)

	third, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, third, 2)
	assert.Equal(t, "Beef", third[0].Name)
}

func TestCategories_UniqueAndNotFound(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Dessert"})
	require.NoError(t, err)
	other, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Soup"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, domain.CategoryRequest{Name: "dessert "})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	_, err = svc.UpdateCategory(ctx, other.ID, domain.CategoryRequest{Name: "DESSERT"})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	// renaming to its own name is not a conflict
	updated, err := svc.UpdateCategory(ctx, created.ID, domain.CategoryRequest{Name: "Dessert", Image: "https://img/d.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://img/d.png", updated.Image)

	_, err = svc.UpdateCategory(ctx, uuid.NewString(), domain.CategoryRequest{Name: "Fish"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	_, err = svc.UpdateCategory(ctx, "nope", domain.CategoryRequest{Name: "Fish"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, created.ID), domain.ErrCategoryNotFound)
}

func TestAreasAndTestimonials(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, domain.AreaRequest{Name: "Ukrainian"})
	require.NoError(t, err)
	_, err = svc.CreateArea(ctx, domain.AreaRequest{Name: "ukrainian"})
	assert.ErrorIs(t, err, domain.ErrAreaExists)

	area, err = svc.UpdateArea(ctx, area.ID, domain.AreaRequest{Name: "Italian"})
	require.NoError(t, err)
	areas, err := svc.GetAreas(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.AreaResponse{area}, areas)

	tm, err := svc.CreateTestimonial(ctx, domain.TestimonialRequest{Name: "Lena", Comment: "Great recipes"})
	require.NoError(t, err)
	_, err = svc.UpdateTestimonial(ctx, tm.ID, domain.TestimonialRequest{Name: "Lena", Comment: "Even better"})
	require.NoError(t, err)

	testimonials, err := svc.GetTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	assert.Equal(t, "Even better", testimonials[0].Comment)

	require.NoError(t, svc.DeleteTestimonial(ctx, tm.ID))
	assert.ErrorIs(t, svc.DeleteTestimonial(ctx, tm.ID), domain.ErrTestimonialNotFound)
	assert.ErrorIs(t, svc.DeleteArea(ctx, "bad-id"), domain.ErrAreaNotFound)
}

func TestIngredients_InUseAndLookup(t *testing.T) {
	svc, repo, _, db := newService(t)
	ctx := context.Background()

	salt, err := svc.CreateIngredient(ctx, domain.IngredientRequest{Title: "Salt", Type: "Spice"})
	require.NoError(t, err)
	sugar, err := svc.CreateIngredient(ctx, domain.IngredientRequest{Title: "Sugar"})
	require.NoError(t, err)
	_, err = svc.CreateIngredient(ctx, domain.IngredientRequest{Title: "SALT"})
	assert.ErrorIs(t, err, domain.ErrIngredientExists)

	found, err := repo.GetIngredientsByIDs(ctx, []string{salt.ID, "garbage", uuid.NewString()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Salt", found[0].Title)

	require.NoError(t, db.Create(&entities.RecipeIngredient{
		ID:           uuid.New(),
		RecipeID:     uuid.New(),
		IngredientID: uuid.MustParse(salt.ID),
		Measure:      "1 tsp",
	}).Error)

	assert.ErrorIs(t, svc.DeleteIngredient(ctx, salt.ID), domain.ErrIngredientInUse)
	require.NoError(t, svc.DeleteIngredient(ctx, sugar.ID))

	ingredients, err := svc.GetIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Spice", ingredients[0].Type)
}

func TestClearCatalog_KeepsReferencedIngredients(t *testing.T) {
	svc, repo, _, db := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Dessert"})
	require.NoError(t, err)
	_, err = svc.CreateArea(ctx, domain.AreaRequest{Name: "French"})
	require.NoError(t, err)
	used, err := svc.CreateIngredient(ctx, domain.IngredientRequest{Title: "Butter"})
	require.NoError(t, err)
	_, err = svc.CreateIngredient(ctx, domain.IngredientRequest{Title: "Unused"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.RecipeIngredient{
		ID: uuid.New(), RecipeID: uuid.New(), IngredientID: uuid.MustParse(used.ID),
	}).Error)

	require.NoError(t, repo.ClearCatalog(ctx))

	categories, err := repo.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
	ingredients, err := repo.GetIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Butter", ingredients[0].Title)
}
