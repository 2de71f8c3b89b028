package dynamo

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	items      map[string]map[string]types.AttributeValue
	scanned    []map[string]types.AttributeValue
	queried    map[string][]map[string]types.AttributeValue
	transacts  [][]types.TransactWriteItem
	updates    []*dynamodb.UpdateItemInput
	transactFn func([]types.TransactWriteItem) error
}

func newStub() *stubAPI {
	return &stubAPI{
		items:   map[string]map[string]types.AttributeValue{},
		queried: map[string][]map[string]types.AttributeValue{},
	}
}

func stubKey(k map[string]types.AttributeValue) string {
	pk := k["PK"].(*types.AttributeValueMemberS).Value
	sk := k["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func (s *stubAPI) store(t *testing.T, item any) {
	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	s.items[stubKey(av)] = av
}

func (s *stubAPI) scan(t *testing.T, items ...any) {
	for _, item := range items {
		av, err := attributevalue.MarshalMap(item)
		require.NoError(t, err)
		s.scanned = append(s.scanned, av)
	}
}

func (s *stubAPI) query(t *testing.T, pk string, items ...any) {
	for _, item := range items {
		av, err := attributevalue.MarshalMap(item)
		require.NoError(t, err)
		s.queried[pk] = append(s.queried[pk], av)
	}
}

func (s *stubAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: s.items[stubKey(in.Key)]}, nil
}

func (s *stubAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.items[stubKey(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (s *stubAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.updates = append(s.updates, in)
	item, ok := s.items[stubKey(in.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
	}
	return &dynamodb.UpdateItemOutput{Attributes: item}, nil
}

func (s *stubAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(s.items, stubKey(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (s *stubAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	pk := ""
	for _, v := range in.ExpressionAttributeValues {
		if str, ok := v.(*types.AttributeValueMemberS); ok && s.queried[str.Value] != nil {
			pk = str.Value
		}
	}
	return &dynamodb.QueryOutput{Items: s.queried[pk]}, nil
}

func (s *stubAPI) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{Items: s.scanned}, nil
}

func (s *stubAPI) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	s.transacts = append(s.transacts, in.TransactItems)
	if s.transactFn != nil {
		if err := s.transactFn(in.TransactItems); err != nil {
			return nil, err
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// canceledAt fails a transaction as if the condition of item idx failed.
func canceledAt(idx int) func([]types.TransactWriteItem) error {
	return func(items []types.TransactWriteItem) error {
		reasons := make([]types.CancellationReason, len(items))
		for i := range reasons {
			reasons[i].Code = aws.String("None")
		}
		reasons[idx].Code = aws.String("ConditionalCheckFailed")
		return &types.TransactionCanceledException{CancellationReasons: reasons}
	}
}

func TestCreateUserWritesProfileAndEmailGuard(t *testing.T) {
	stub := newStub()
	repo := NewUserRepository(NewTable(stub, "foodies"))

	u := &entities.User{Email: " Ann@Example.com ", Name: "Ann", Password: "hash"}
	require.NoError(t, repo.CreateUser(context.Background(), u))

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
	require.Len(t, stub.transacts, 1)
	tx := stub.transacts[0]
	require.Len(t, tx, 2)
	assert.NotNil(t, tx[0].Put.ConditionExpression)
	assert.Equal(t, "EMAIL#ann@example.com", tx[1].Put.Item["PK"].(*types.AttributeValueMemberS).Value)
}

func TestCreateUserEmailInUse(t *testing.T) {
	stub := newStub()
	stub.transactFn = canceledAt(1)
	repo := NewUserRepository(NewTable(stub, "foodies"))

	err := repo.CreateUser(context.Background(), &entities.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrEmailInUse)
}

func TestGetUserByEmailFollowsGuard(t *testing.T) {
	stub := newStub()
	id := uuid.New()
	stub.store(t, newGuard(emailPK("a@b.c"), id.String()))
	stub.store(t, newUserItem(&entities.User{ID: id, Email: "a@b.c", Name: "Ann", FollowersCount: 3}))
	repo := NewUserRepository(NewTable(stub, "foodies"))

	u, err := repo.GetUserByEmail(context.Background(), "A@B.C")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, 3, u.FollowersCount)

	_, err = repo.GetUserByEmail(context.Background(), "nobody@b.c")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.GetUserByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateTokenMissingUser(t *testing.T) {
	repo := NewUserRepository(NewTable(newStub(), "foodies"))
	err := repo.UpdateToken(context.Background(), uuid.NewString(), "tok")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFollowMapsCancellationReasons(t *testing.T) {
	stub := newStub()
	repo := NewUserRepository(NewTable(stub, "foodies"))
	a, b := uuid.NewString(), uuid.NewString()

	require.NoError(t, repo.Follow(context.Background(), a, b))
	require.Len(t, stub.transacts[0], 4)

	stub.transactFn = canceledAt(0)
	assert.ErrorIs(t, repo.Follow(context.Background(), a, b), domain.ErrAlreadyFollowing)

	stub.transactFn = canceledAt(2)
	assert.ErrorIs(t, repo.Follow(context.Background(), a, b), domain.ErrUserNotFound)

	stub.transactFn = canceledAt(0)
	removed, err := repo.Unfollow(context.Background(), a, b)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGetFollowersNewestFirst(t *testing.T) {
	stub := newStub()
	target := uuid.NewString()
	older, newer := uuid.New(), uuid.New()
	stub.store(t, newUserItem(&entities.User{ID: older, Name: "Old"}))
	stub.store(t, newUserItem(&entities.User{ID: newer, Name: "New"}))
	now := time.Now()
	_, e1 := followEdges(older.String(), target, now.Add(-time.Hour))
	_, e2 := followEdges(newer.String(), target, now)
	stub.query(t, userPK(target), e1, e2)

	repo := NewUserRepository(NewTable(stub, "foodies"))
	users, err := repo.GetFollowers(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "New", users[0].Name)
	assert.Equal(t, "Old", users[1].Name)
}

func recipeFixture(owner uuid.UUID, title, category string, created time.Time, ingredientIDs ...string) recipeItem {
	item := newRecipeItem(&entities.Recipe{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     title,
		Category:  category,
		Area:      "Italian",
		Timestamp: entities.Timestamp{CreatedAt: created},
	})
	item.IngredientIDs = append(item.IngredientIDs, ingredientIDs...)
	return item
}

func TestGetRecipesFiltersAndPaginates(t *testing.T) {
	stub := newStub()
	owner := uuid.New()
	stub.store(t, newUserItem(&entities.User{ID: owner, Name: "Chef"}))
	flour, sugar := uuid.NewString(), uuid.NewString()
	stub.store(t, newGuard(ingredientKind.guardPK("Sugar"), sugar))
	now := time.Now()
	stub.scan(t,
		recipeFixture(owner, "Pasta", "Dessert", now.Add(-3*time.Hour), flour),
		recipeFixture(owner, "Cake", "dessert", now.Add(-2*time.Hour), flour, sugar),
		recipeFixture(owner, "Steak", "Beef", now.Add(-time.Hour)),
	)
	repo := NewRecipeRepository(NewTable(stub, "foodies"))

	recipes, total, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{Category: "DESSERT"}, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Cake", recipes[0].Title)
	require.NotNil(t, recipes[0].Owner)
	assert.Equal(t, "Chef", recipes[0].Owner.Name)

	recipes, total, err = repo.GetRecipes(context.Background(), domain.RecipeFilter{Ingredient: "Sugar"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Cake", recipes[0].Title)

	_, total, err = repo.GetRecipes(context.Background(), domain.RecipeFilter{Ingredient: flour}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	recipes, _, err = repo.GetRecipes(context.Background(), domain.RecipeFilter{}, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

// apply replays the puts and deletes of a recorded transaction.
func (s *stubAPI) apply(tx []types.TransactWriteItem) {
	for _, op := range tx {
		switch {
		case op.Put != nil:
			s.items[stubKey(op.Put.Item)] = op.Put.Item
		case op.Delete != nil:
			delete(s.items, stubKey(op.Delete.Key))
		}
	}
}

func TestGetRecipesFollowsIngredientRename(t *testing.T) {
	stub := newStub()
	ctx := context.Background()
	table := NewTable(stub, "foodies")
	catalogRepo := NewCatalogRepository(table)
	recipes := NewRecipeRepository(table)

	salt := &entities.Ingredient{Title: "Salt"}
	require.NoError(t, catalogRepo.CreateIngredient(ctx, salt))
	stub.apply(stub.transacts[0])
	stub.scan(t, recipeFixture(uuid.New(), "Soup", "Soup", time.Now(), salt.ID.String()))

	_, total, err := recipes.GetRecipes(ctx, domain.RecipeFilter{Ingredient: "salt"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	require.NoError(t, catalogRepo.UpdateIngredient(ctx, &entities.Ingredient{ID: salt.ID, Title: "Sea Salt"}))
	stub.apply(stub.transacts[len(stub.transacts)-1])

	_, total, err = recipes.GetRecipes(ctx, domain.RecipeFilter{Ingredient: "sea salt"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = recipes.GetRecipes(ctx, domain.RecipeFilter{Ingredient: "Salt"}, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGetPopularRecipesBreaksTiesByAge(t *testing.T) {
	stub := newStub()
	owner := uuid.New()
	now := time.Now()
	a := recipeFixture(owner, "A", "x", now)
	b := recipeFixture(owner, "B", "x", now.Add(-time.Hour))
	c := recipeFixture(owner, "C", "x", now)
	a.Popularity, b.Popularity, c.Popularity = 2, 2, 5
	stub.scan(t, a, b, c)

	recipes, err := NewRecipeRepository(NewTable(stub, "foodies")).GetPopularRecipes(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "C", recipes[0].Title)
	assert.Equal(t, "B", recipes[1].Title)
}

func TestCreateRecipeRejectsUnknownIngredient(t *testing.T) {
	stub := newStub()
	repo := NewRecipeRepository(NewTable(stub, "foodies"))

	err := repo.CreateRecipe(context.Background(), &entities.Recipe{
		OwnerID:     uuid.New(),
		Title:       "Soup",
		Ingredients: []*entities.RecipeIngredient{{IngredientID: uuid.New(), Measure: "1"}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownIngredient)
	assert.Empty(t, stub.transacts)
}

func TestCreateRecipeDenormalizesIngredients(t *testing.T) {
	stub := newStub()
	ingredientID := uuid.New()
	stub.store(t, catalogItem{PK: ingredientKind.pk(ingredientID.String()), SK: skMeta, Type: "ingredient", ID: ingredientID.String(), Title: "Salt"})
	repo := NewRecipeRepository(NewTable(stub, "foodies"))

	rec := &entities.Recipe{
		OwnerID:     uuid.New(),
		Title:       "Soup",
		Ingredients: []*entities.RecipeIngredient{{IngredientID: ingredientID, Measure: "pinch"}},
	}
	require.NoError(t, repo.CreateRecipe(context.Background(), rec))

	tx := stub.transacts[0]
	require.Len(t, tx, 3)
	var stored recipeItem
	require.NoError(t, attributevalue.UnmarshalMap(tx[0].Put.Item, &stored))
	assert.Equal(t, []string{ingredientID.String()}, stored.IngredientIDs)
	assert.NotNil(t, tx[2].ConditionCheck)

	stub.transactFn = canceledAt(1)
	rec.ID = uuid.Nil
	assert.ErrorIs(t, repo.CreateRecipe(context.Background(), rec), domain.ErrUserNotFound)
}

func TestDeleteRecipeOwnership(t *testing.T) {
	stub := newStub()
	owner := uuid.New()
	item := recipeFixture(owner, "Mine", "x", time.Now())
	stub.store(t, item)
	repo := NewRecipeRepository(NewTable(stub, "foodies"))

	_, err := repo.DeleteRecipe(context.Background(), item.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotOwned)
	_, err = repo.DeleteRecipe(context.Background(), uuid.NewString(), owner.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotOwned)

	fan := uuid.NewString()
	_, byFan := favoriteEdges(fan, item.ID, time.Now())
	stub.query(t, item.PK, byFan)

	deleted, err := repo.DeleteRecipe(context.Background(), item.ID, owner.String())
	require.NoError(t, err)
	assert.Equal(t, "Mine", deleted.Title)
	// recipe, owner counter, then the fan's edge pair and counter
	require.Len(t, stub.transacts, 1)
	assert.Len(t, stub.transacts[0], 5)
}

func TestDeleteRecipeRetriesBatchWithoutVanishedEdge(t *testing.T) {
	stub := newStub()
	owner := uuid.New()
	item := recipeFixture(owner, "Popular", "x", time.Now())
	stub.store(t, item)
	for i := 0; i < 34; i++ {
		_, byFan := favoriteEdges(uuid.NewString(), item.ID, time.Now())
		stub.query(t, item.PK, byFan)
	}
	calls := 0
	stub.transactFn = func(items []types.TransactWriteItem) error {
		calls++
		if calls == 1 {
			return canceledAt(3)(items)
		}
		return nil
	}
	repo := NewRecipeRepository(NewTable(stub, "foodies"))

	_, err := repo.DeleteRecipe(context.Background(), item.ID, owner.String())
	require.NoError(t, err)
	// first batch, its retry without the second fan, the last fan, the recipe
	require.Len(t, stub.transacts, 4)
	assert.Len(t, stub.transacts[0], 99)
	assert.Len(t, stub.transacts[1], 96)
	assert.Len(t, stub.transacts[2], 3)
	assert.Len(t, stub.transacts[3], 2)
	assert.Equal(t,
		stub.transacts[0][0].Delete.Key["PK"],
		stub.transacts[1][0].Delete.Key["PK"])
	assert.NotEqual(t,
		stub.transacts[0][3].Delete.Key["PK"],
		stub.transacts[1][3].Delete.Key["PK"])
}

func TestFavoriteCancellations(t *testing.T) {
	stub := newStub()
	repo := NewRecipeRepository(NewTable(stub, "foodies"))
	userID, recipeID := uuid.NewString(), uuid.NewString()

	_, err := repo.AddFavorite(context.Background(), userID, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	added, err := repo.AddFavorite(context.Background(), userID, recipeID)
	require.NoError(t, err)
	assert.True(t, added)

	stub.transactFn = canceledAt(0)
	added, err = repo.AddFavorite(context.Background(), userID, recipeID)
	require.NoError(t, err)
	assert.False(t, added)

	stub.transactFn = canceledAt(2)
	_, err = repo.AddFavorite(context.Background(), userID, recipeID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	stub.transactFn = canceledAt(0)
	removed, err := repo.RemoveFavorite(context.Background(), userID, recipeID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCatalogNameGuards(t *testing.T) {
	stub := newStub()
	repo := NewCatalogRepository(NewTable(stub, "foodies"))

	category := &entities.Category{Name: "Dessert"}
	require.NoError(t, repo.CreateCategory(context.Background(), category))
	assert.NotEqual(t, uuid.Nil, category.ID)
	tx := stub.transacts[0]
	require.Len(t, tx, 2)
	assert.Equal(t, "CATEGORYNAME#dessert", tx[1].Put.Item["PK"].(*types.AttributeValueMemberS).Value)

	stub.transactFn = canceledAt(1)
	err := repo.CreateCategory(context.Background(), &entities.Category{Name: "dessert"})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	stub.transactFn = nil
	require.NoError(t, repo.CreateTestimonial(context.Background(), &entities.Testimonial{Name: "Ann", Comment: "Yum"}))
	assert.Len(t, stub.transacts[len(stub.transacts)-1], 1)
}

func TestUpdateCategoryMovesGuard(t *testing.T) {
	stub := newStub()
	id := uuid.New()
	stub.store(t, catalogItem{PK: categoryKind.pk(id.String()), SK: skMeta, Type: "category", ID: id.String(), Name: "Beef"})
	repo := NewCatalogRepository(NewTable(stub, "foodies"))

	require.NoError(t, repo.UpdateCategory(context.Background(), &entities.Category{ID: id, Name: "beef", Image: "x"}))
	assert.Len(t, stub.transacts[0], 1)

	require.NoError(t, repo.UpdateCategory(context.Background(), &entities.Category{ID: id, Name: "Lamb"}))
	tx := stub.transacts[1]
	require.Len(t, tx, 3)
	assert.Equal(t, "CATEGORYNAME#beef", tx[1].Delete.Key["PK"].(*types.AttributeValueMemberS).Value)

	err := repo.UpdateCategory(context.Background(), &entities.Category{ID: uuid.New(), Name: "Pork"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteIngredientInUse(t *testing.T) {
	stub := newStub()
	ingredientID := uuid.New()
	rec := recipeFixture(uuid.New(), "Soup", "x", time.Now())
	rec.IngredientIDs = []string{ingredientID.String()}
	stub.scan(t, rec)
	repo := NewCatalogRepository(NewTable(stub, "foodies"))

	assert.ErrorIs(t, repo.DeleteIngredient(context.Background(), ingredientID.String()), domain.ErrIngredientInUse)
	assert.ErrorIs(t, repo.DeleteIngredient(context.Background(), "bad"), domain.ErrIngredientNotFound)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, page(items, 1, 2))
	assert.Equal(t, []int{5}, page(items, 3, 2))
	assert.Empty(t, page(items, 4, 2))
}
