package recipe

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/testutil"
	"Foodies-Backend/pkg/catalog"
	"Foodies-Backend/pkg/notification"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	repo      RecipeRepository
	catalog   catalog.CatalogRepository
	service   RecipeService
	s3        *testutil.FakeS3
	publisher *testutil.FakePublisher
	salt      *entities.Ingredient
	flour     *entities.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:        db,
		repo:      NewRecipeRepository(db),
		catalog:   catalog.NewCatalogRepository(db),
		s3:        testutil.NewFakeS3(),
		publisher: &testutil.FakePublisher{},
		salt:      &entities.Ingredient{Title: "Salt"},
		flour:     &entities.Ingredient{Title: "Flour", Image: "https://img/flour.png"},
	}
	require.NoError(t, f.catalog.CreateIngredient(context.Background(), f.salt))
	require.NoError(t, f.catalog.CreateIngredient(context.Background(), f.flour))
	f.service = NewRecipeService(f.repo, f.catalog, f.s3, f.publisher)
	return f
}

func (f *fixture) user(t *testing.T, email string) string {
	t.Helper()
	u := &entities.User{ID: uuid.New(), Email: email, Password: "x", Name: email}
	require.NoError(t, f.db.Create(u).Error)
	return u.ID.String()
}

func (f *fixture) loadUser(t *testing.T, id string) entities.User {
	t.Helper()
	var u entities.User
	require.NoError(t, f.db.First(&u, "id = ?", id).Error)
	return u
}

func (f *fixture) recipe(t *testing.T, owner, title, category, area string, ingredients ...*entities.Ingredient) domain.RecipeResponse {
	t.Helper()
	items := make([]domain.RecipeIngredientRequest, 0, len(ingredients))
	for _, i := range ingredients {
		items = append(items, domain.RecipeIngredientRequest{ID: i.ID.String(), Measure: "1 cup"})
	}
	res, err := f.service.CreateRecipe(context.Background(), owner, domain.CreateRecipeRequest{
		Title: title, Description: "d", Category: category, Area: area,
		Instructions: "cook", Time: 10, Ingredients: items,
	})
	require.NoError(t, err)
	return res
}

func TestCreateRecipe(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")

	res, err := f.service.CreateRecipe(context.Background(), owner, domain.CreateRecipeRequest{
		Title: "Bread", Description: "Plain bread", Category: "Breakfast", Area: "French",
		Instructions: "Bake it", Time: 60,
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.flour.ID.String(), Measure: "500 g"},
			{ID: f.salt.ID.String(), Measure: "1 tsp"},
		},
		Image: testutil.FileHeader(t, "image", "bread.png", testutil.PNG),
		Thumb: testutil.FileHeader(t, "thumb", "bread-small.png", testutil.PNG),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bread", res.Title)
	require.NotNil(t, res.Owner)
	assert.Equal(t, owner, res.Owner.ID)
	assert.Len(t, res.Ingredients, 2)
	assert.Contains(t, res.Image, "recipes/")
	assert.Contains(t, res.Thumb, "recipe_thumbs/")
	assert.Equal(t, 2, f.s3.Count())
	assert.Equal(t, 1, f.loadUser(t, owner).RecipesCount)
	assert.Equal(t, []string{notification.EventRecipeCreated}, f.publisher.Types())

	measures := map[string]string{}
	for _, i := range res.Ingredients {
		measures[i.Title] = i.Measure
	}
	assert.Equal(t, map[string]string{"Flour": "500 g", "Salt": "1 tsp"}, measures)
}

func TestCreateRecipe_Rejections(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	ctx := context.Background()
	base := domain.CreateRecipeRequest{Title: "Soup", Description: "d", Category: "Soup", Area: "Ukrainian", Instructions: "boil", Time: 30}

	req := base
	_, err := f.service.CreateRecipe(ctx, owner, req)
	assert.ErrorIs(t, err, domain.ErrIngredientsRequired)

	req.Ingredients = []domain.RecipeIngredientRequest{{ID: uuid.NewString()}}
	_, err = f.service.CreateRecipe(ctx, owner, req)
	assert.ErrorIs(t, err, domain.ErrUnknownIngredient)

	req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.salt.ID.String()}, {ID: f.salt.ID.String()}}
	_, err = f.service.CreateRecipe(ctx, owner, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)

	req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.salt.ID.String()}}
	req.Image = testutil.FileHeader(t, "image", "notes.txt", []byte("plain text"))
	_, err = f.service.CreateRecipe(ctx, owner, req)
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)

	// upload failure aborts before any database write
	req.Image = testutil.FileHeader(t, "image", "soup.png", testutil.PNG)
	f.s3.FailNext = true
	_, err = f.service.CreateRecipe(ctx, owner, req)
	assert.ErrorIs(t, err, domain.ErrRecipeUploadFailed)

	var count int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 0, f.loadUser(t, owner).RecipesCount)
}

func TestCreateRecipe_TransactionFailureRemovesUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// owner row does not exist, so the counter update fails inside the transaction
	_, err := f.service.CreateRecipe(ctx, uuid.NewString(), domain.CreateRecipeRequest{
		Title: "Ghost", Description: "d", Category: "c", Area: "a", Instructions: "i", Time: 1,
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.salt.ID.String()}},
		Image:       testutil.FileHeader(t, "image", "ghost.png", testutil.PNG),
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, 0, f.s3.Count())
	assert.Len(t, f.s3.Deleted, 1)

	var count int64
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetRecipes_FiltersAndPagination(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")

	f.recipe(t, owner, "Salty Soup", "Soup", "Ukrainian", f.salt)
	f.recipe(t, owner, "Bread", "Breakfast", "French", f.flour, f.salt)
	f.recipe(t, owner, "Crepes", "Breakfast", "French", f.flour)

	ctx := context.Background()
	all, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, domain.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 12, all.Limit)
	assert.Equal(t, int64(1), all.TotalPages)
	assert.Equal(t, "Crepes", all.Recipes[0].Title)

	byCategory, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Category: "breakfast"}, domain.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byCategory.Total)

	combined, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Area: "French", Ingredient: "salt"}, domain.PaginationQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(1), combined.Total)
	assert.Equal(t, "Bread", combined.Recipes[0].Title)

	byIngredientID, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Ingredient: f.flour.ID.String()}, domain.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byIngredientID.Total)

	page2, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, domain.PaginationQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page2.TotalPages)
	require.Len(t, page2.Recipes, 1)
	assert.Equal(t, "Salty Soup", page2.Recipes[0].Title)

	beyond, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, domain.PaginationQuery{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Recipes)
	assert.Equal(t, int64(3), beyond.Total)

	none, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Category: "Dessert"}, domain.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), none.TotalPages)
	assert.NotNil(t, none.Recipes)
}

func TestGetRecipeByID(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	created := f.recipe(t, owner, "Bread", "Breakfast", "French", f.flour)

	got, err := f.service.GetRecipeByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", got.Owner.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "https://img/flour.png", got.Ingredients[0].Image)

	_, err = f.service.GetRecipeByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	_, err = f.service.GetRecipeByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestFavoritesAndPopularity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	fan := f.user(t, "fan@example.com")
	other := f.user(t, "other@example.com")

	first := f.recipe(t, owner, "First", "c", "a", f.salt)
	second := f.recipe(t, owner, "Second", "c", "a", f.salt)

	res, err := f.service.AddFavorite(ctx, second.ID, fan)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Popularity)

	// duplicate favorite is a no-op
	res, err = f.service.AddFavorite(ctx, second.ID, fan)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Popularity)
	assert.Equal(t, 1, f.loadUser(t, fan).FavoritesCount)

	_, err = f.service.AddFavorite(ctx, second.ID, other)
	require.NoError(t, err)
	_, err = f.service.AddFavorite(ctx, first.ID, fan)
	require.NoError(t, err)

	popular, err := f.service.GetPopularRecipes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Second", popular[0].Title)
	assert.Equal(t, 2, popular[0].Popularity)

	favorites, err := f.service.GetFavoriteRecipes(ctx, fan, domain.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), favorites.Total)
	assert.Equal(t, "First", favorites.Recipes[0].Title)

	res, err = f.service.RemoveFavorite(ctx, second.ID, fan)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Popularity)
	res, err = f.service.RemoveFavorite(ctx, second.ID, fan)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Popularity)
	assert.Equal(t, 1, f.loadUser(t, fan).FavoritesCount)

	_, err = f.service.AddFavorite(ctx, uuid.NewString(), fan)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	_, err = f.service.RemoveFavorite(ctx, uuid.NewString(), fan)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	assert.Equal(t, []string{
		notification.EventRecipeCreated, notification.EventRecipeCreated,
		notification.EventRecipeFavorite, notification.EventRecipeFavorite, notification.EventRecipeFavorite,
	}, f.publisher.Types())
}

func TestPopularRecipes_TiesByCreationOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	for i := 0; i < 3; i++ {
		f.recipe(t, owner, fmt.Sprintf("R%d", i), "c", "a", f.salt)
	}

	popular, err := f.service.GetPopularRecipes(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "R0", popular[0].Title)
	assert.Equal(t, "R1", popular[1].Title)
}

func TestDeleteRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	fan := f.user(t, "fan@example.com")

	res, err := f.service.CreateRecipe(ctx, owner, domain.CreateRecipeRequest{
		Title: "Cake", Description: "d", Category: "Dessert", Area: "French", Instructions: "bake", Time: 45,
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Measure: "200 g"}},
		Image:       testutil.FileHeader(t, "image", "cake.png", testutil.PNG),
	})
	require.NoError(t, err)
	_, err = f.service.AddFavorite(ctx, res.ID, fan)
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, res.ID, fan), domain.ErrRecipeNotOwned)
	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, uuid.NewString(), owner), domain.ErrRecipeNotOwned)
	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, "junk", owner), domain.ErrRecipeNotOwned)

	require.NoError(t, f.service.DeleteRecipe(ctx, res.ID, owner))

	_, err = f.service.GetRecipeByID(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.Equal(t, 0, f.loadUser(t, owner).RecipesCount)
	assert.Equal(t, 0, f.loadUser(t, fan).FavoritesCount)
	assert.Equal(t, 0, f.s3.Count())

	for _, model := range []any{&entities.RecipeIngredient{}, &entities.RecipeFavorite{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestGetOwnRecipes(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	f.recipe(t, owner, "Mine", "c", "a", f.salt)
	f.recipe(t, other, "Theirs", "c", "a", f.salt)

	own, err := f.service.GetOwnRecipes(context.Background(), owner, domain.PaginationQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, own.Limit)
	require.Len(t, own.Recipes, 1)
	assert.Equal(t, "Mine", own.Recipes[0].Title)
}

func TestRecountPopularity(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	r := f.recipe(t, owner, "Drifted", "c", "a", f.salt)

	require.NoError(t, f.db.Model(&entities.Recipe{}).Where("id = ?", r.ID).Update("popularity", 42).Error)
	n, err := f.repo.RecountPopularity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := f.service.GetRecipeByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Popularity)
}

func TestDeleteRecipe_KeepsObjectsItDidNotUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	victim := f.user(t, "victim@example.com")
	other := f.user(t, "other@example.com")

	original, err := f.service.CreateRecipe(ctx, victim, domain.CreateRecipeRequest{
		Title: "Cake", Description: "d", Category: "Dessert", Area: "French", Instructions: "bake", Time: 45,
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Measure: "200 g"}},
		Image:       testutil.FileHeader(t, "image", "cake.png", testutil.PNG),
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.s3.Count())

	copied, err := f.service.CreateRecipe(ctx, other, domain.CreateRecipeRequest{
		Title: "Copy", Description: "d", Category: "Dessert", Area: "French", Instructions: "bake", Time: 45,
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Measure: "200 g"}},
		ImageURL:    original.Image,
		ThumbURL:    f.s3.GetPublicLinkKey("avatars/" + victim + ".png"),
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRecipe(ctx, copied.ID, other))
	assert.Equal(t, 1, f.s3.Count())
	assert.Empty(t, f.s3.Deleted)

	require.NoError(t, f.service.DeleteRecipe(ctx, original.ID, victim))
	assert.Equal(t, 0, f.s3.Count())
}

func TestUploadedFor(t *testing.T) {
	id := uuid.NewString()
	assert.True(t, uploadedFor("recipes/"+id+".png", "recipes", id))
	assert.True(t, uploadedFor("recipe_thumbs/"+id, "recipe_thumbs", id))
	assert.False(t, uploadedFor("recipes/"+uuid.NewString()+".png", "recipes", id))
	assert.False(t, uploadedFor("avatars/"+id+".png", "recipes", id))
	assert.False(t, uploadedFor("recipes/"+id+"x.png", "recipes", id))
	assert.False(t, uploadedFor("recipes/"+id+"/../avatars/a.png", "recipes", id))
	assert.False(t, uploadedFor("", "recipes", id))
}
