package recipe

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/utils/logging"
	"Foodies-Backend/internal/utils/storage"
	"Foodies-Backend/pkg/catalog"
	"Foodies-Backend/pkg/notification"
	"context"
	"github.com/google/uuid"
	"mime/multipart"
	"strings"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, query domain.PaginationQuery) (domain.RecipeListResponse, error)
		GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error)
		GetPopularRecipes(ctx context.Context, limit int) ([]domain.RecipeResponse, error)
		GetOwnRecipes(ctx context.Context, userID string, query domain.PaginationQuery) (domain.RecipeListResponse, error)
		CreateRecipe(ctx context.Context, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error

		AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error)
		GetFavoriteRecipes(ctx context.Context, userID string, query domain.PaginationQuery) (domain.RecipeListResponse, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		s3                storage.AwsS3
		publisher         notification.Publisher
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	s3 storage.AwsS3,
	publisher notification.Publisher,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		s3:                s3,
		publisher:         publisher,
	}
}

var log = logging.WithComponent("recipes")

const (
	folderImages = "recipes"
	folderThumbs = "recipe_thumbs"
)

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, query domain.PaginationQuery) (domain.RecipeListResponse, error) {
	query = query.Normalize(domain.DefaultRecipeLimit)

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, query.Page, query.Limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	return toListResponse(recipes, count, query), nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.RecipeResponse{}, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return ToRecipeResponse(recipe), nil
}

func (s *recipeService) GetPopularRecipes(ctx context.Context, limit int) ([]domain.RecipeResponse, error) {
	if limit < 1 {
		limit = domain.DefaultPopularSize
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}

	recipes, err := s.recipeRepository.GetPopularRecipes(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(recipes), nil
}

func (s *recipeService) GetOwnRecipes(ctx context.Context, userID string, query domain.PaginationQuery) (domain.RecipeListResponse, error) {
	query = query.Normalize(domain.DefaultRecipeLimit)

	recipes, count, err := s.recipeRepository.GetRecipesByOwner(ctx, userID, query.Page, query.Limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	return toListResponse(recipes, count, query), nil
}

// CreateRecipe uploads the images before any database write; if the
// transaction then fails the uploaded objects are removed again.
func (s *recipeService) CreateRecipe(ctx context.Context, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	ingredients, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	for _, f := range []*multipart.FileHeader{req.Image, req.Thumb} {
		if f == nil {
			continue
		}
		if _, err := storage.DetectContentType(f, storage.AllowImage...); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipeID := uuid.New()
	var uploaded []string
	cleanup := func() {
		for _, key := range uploaded {
			if err := s.s3.DeleteFile(key); err != nil {
				log.WithError(err).WithField("object_key", key).Warn("orphaned recipe image not deleted")
			}
		}
	}

	imageURL, thumbURL := req.ImageURL, req.ThumbURL
	if req.Image != nil {
		key, err := s.s3.UploadFile(recipeID.String(), req.Image, folderImages, storage.AllowImage...)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrRecipeUploadFailed
		}
		uploaded = append(uploaded, key)
		imageURL = s.s3.GetPublicLinkKey(key)
	}
	if req.Thumb != nil {
		key, err := s.s3.UploadFile(recipeID.String(), req.Thumb, folderThumbs, storage.AllowImage...)
		if err != nil {
			cleanup()
			return domain.RecipeResponse{}, domain.ErrRecipeUploadFailed
		}
		uploaded = append(uploaded, key)
		thumbURL = s.s3.GetPublicLinkKey(key)
	}

	recipe := &entities.Recipe{
		ID:           recipeID,
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     strings.TrimSpace(req.Category),
		Area:         strings.TrimSpace(req.Area),
		Instructions: req.Instructions,
		Time:         req.Time,
		ImageURL:     imageURL,
		ThumbURL:     thumbURL,
		VideoURL:     req.Video,
		Ingredients:  ingredients,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		cleanup()
		return domain.RecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, recipe.ID.String())
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := s.publisher.Publish(ctx, notification.NewEvent(notification.EventRecipeCreated, userID, recipe.ID.String())); err != nil {
		log.WithError(err).WithField("recipe_id", recipe.ID.String()).Warn("recipe event not published")
	}
	return ToRecipeResponse(created), nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, items []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	if len(items) == 0 {
		return nil, domain.ErrIngredientsRequired
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := strings.ToLower(strings.TrimSpace(item.ID))
		if seen[id] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[id] = true
		ids = append(ids, id)
	}

	found, err := s.catalogRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrUnknownIngredient
	}

	res := make([]*entities.RecipeIngredient, 0, len(items))
	for i, item := range items {
		res = append(res, &entities.RecipeIngredient{
			IngredientID: uuid.MustParse(ids[i]),
			Measure:      strings.TrimSpace(item.Measure),
		})
	}
	return res, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	if _, err := uuid.Parse(recipeID); err != nil {
		return domain.ErrRecipeNotOwned
	}

	deleted, err := s.recipeRepository.DeleteRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	for folder, link := range map[string]string{folderImages: deleted.ImageURL, folderThumbs: deleted.ThumbURL} {
		key := s.s3.GetObjectKeyFromLink(link)
		if !uploadedFor(key, folder, deleted.ID.String()) {
			continue
		}
		if err := s.s3.DeleteFile(key); err != nil {
			log.WithError(err).WithField("object_key", key).Warn("recipe image not deleted")
		}
	}
	return nil
}

// uploadedFor reports whether key is the object CreateRecipe stored for the
// recipe in folder. Links given by the client never match another object.
func uploadedFor(key, folder, recipeID string) bool {
	rest, ok := strings.CutPrefix(key, folder+"/"+recipeID)
	if !ok || strings.Contains(rest, "/") {
		return false
	}
	return rest == "" || strings.HasPrefix(rest, ".")
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error) {
	if _, err := s.GetRecipeByID(ctx, recipeID); err != nil {
		return domain.RecipeResponse{}, err
	}

	added, err := s.recipeRepository.AddFavorite(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if added {
		if err := s.publisher.Publish(ctx, notification.NewEvent(notification.EventRecipeFavorite, userID, recipeID)); err != nil {
			log.WithError(err).WithField("recipe_id", recipeID).Warn("favorite event not published")
		}
	}
	return s.GetRecipeByID(ctx, recipeID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error) {
	if _, err := s.GetRecipeByID(ctx, recipeID); err != nil {
		return domain.RecipeResponse{}, err
	}

	if _, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID); err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.GetRecipeByID(ctx, recipeID)
}

func (s *recipeService) GetFavoriteRecipes(ctx context.Context, userID string, query domain.PaginationQuery) (domain.RecipeListResponse, error) {
	query = query.Normalize(domain.DefaultRecipeLimit)

	recipes, count, err := s.recipeRepository.GetFavoriteRecipes(ctx, userID, query.Page, query.Limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	return toListResponse(recipes, count, query), nil
}

func ToRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:           recipe.ID.String(),
		Title:        recipe.Title,
		Description:  recipe.Description,
		Category:     recipe.Category,
		Area:         recipe.Area,
		Instructions: recipe.Instructions,
		Time:         recipe.Time,
		Image:        recipe.ImageURL,
		Thumb:        recipe.ThumbURL,
		Video:        recipe.VideoURL,
		Popularity:   recipe.Popularity,
		Ingredients:  make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
		CreatedAt:    recipe.CreatedAt,
	}

	if recipe.Owner != nil {
		owner := &domain.RecipeOwner{ID: recipe.Owner.ID.String(), Name: recipe.Owner.Name}
		if recipe.Owner.AvatarURL != "" {
			avatar := recipe.Owner.AvatarURL
			owner.Avatar = &avatar
		}
		res.Owner = owner
	}

	for _, ri := range recipe.Ingredients {
		item := domain.RecipeIngredientResponse{
			ID:      ri.IngredientID.String(),
			Measure: ri.Measure,
		}
		if ri.Ingredient != nil {
			item.Title = ri.Ingredient.Title
			item.Image = ri.Ingredient.Image
		}
		res.Ingredients = append(res.Ingredients, item)
	}
	return res
}

func toResponses(recipes []*entities.Recipe) []domain.RecipeResponse {
	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, ToRecipeResponse(r))
	}
	return res
}

func toListResponse(recipes []*entities.Recipe, count int64, query domain.PaginationQuery) domain.RecipeListResponse {
	return domain.RecipeListResponse{
		Recipes:            toResponses(recipes),
		PaginationResponse: domain.NewPaginationResponse(count, query),
	}
}
