package catalog

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/utils/cache"
	"Foodies-Backend/internal/utils/logging"
	"context"
	"github.com/google/uuid"
	"strings"
	"time"
)

const (
	keyCategories   = "catalog:categories"
	keyAreas        = "catalog:areas"
	keyIngredients  = "catalog:ingredients"
	keyTestimonials = "catalog:testimonials"
)

type (
	CatalogService interface {
		GetCategories(ctx context.Context) ([]domain.CategoryResponse, error)
		CreateCategory(ctx context.Context, req domain.CategoryRequest) (domain.CategoryResponse, error)
		UpdateCategory(ctx context.Context, id string, req domain.CategoryRequest) (domain.CategoryResponse, error)
		DeleteCategory(ctx context.Context, id string) error

		GetAreas(ctx context.Context) ([]domain.AreaResponse, error)
		CreateArea(ctx context.Context, req domain.AreaRequest) (domain.AreaResponse, error)
		UpdateArea(ctx context.Context, id string, req domain.AreaRequest) (domain.AreaResponse, error)
		DeleteArea(ctx context.Context, id string) error

		GetIngredients(ctx context.Context) ([]domain.IngredientResponse, error)
		CreateIngredient(ctx context.Context, req domain.IngredientRequest) (domain.IngredientResponse, error)
		UpdateIngredient(ctx context.Context, id string, req domain.IngredientRequest) (domain.IngredientResponse, error)
		DeleteIngredient(ctx context.Context, id string) error

		GetTestimonials(ctx context.Context) ([]domain.TestimonialResponse, error)
		CreateTestimonial(ctx context.Context, req domain.TestimonialRequest) (domain.TestimonialResponse, error)
		UpdateTestimonial(ctx context.Context, id string, req domain.TestimonialRequest) (domain.TestimonialResponse, error)
		DeleteTestimonial(ctx context.Context, id string) error
	}

	catalogService struct {
		catalogRepository CatalogRepository
		cache             cache.Cache
		ttl               time.Duration
	}
)

func NewCatalogService(catalogRepository CatalogRepository, c cache.Cache, ttl time.Duration) CatalogService {
	return &catalogService{
		catalogRepository: catalogRepository,
		cache:             c,
		ttl:               ttl,
	}
}

var log = logging.WithComponent("catalog")

// cached serves key from the cache and falls back to load, storing the
// result. Cache failures degrade to a direct load.
func cached[T any](ctx context.Context, s *catalogService, key string, load func() ([]T, error)) ([]T, error) {
	var items []T
	hit, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
	}
	if hit && err == nil {
		return items, nil
	}

	items, err = load()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
	return items, nil
}

func (s *catalogService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("catalog cache invalidation failed")
	}
}

func parseID(id string, errNotFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errNotFound
	}
	return parsed, nil
}

func (s *catalogService) GetCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	return cached(ctx, s, keyCategories, func() ([]domain.CategoryResponse, error) {
		categories, err := s.catalogRepository.GetCategories(ctx)
		if err != nil {
			return nil, err
		}
		res := make([]domain.CategoryResponse, 0, len(categories))
		for _, c := range categories {
			res = append(res, toCategoryResponse(c))
		}
		return res, nil
	})
}

func (s *catalogService) CreateCategory(ctx context.Context, req domain.CategoryRequest) (domain.CategoryResponse, error) {
	category := &entities.Category{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(req.Name),
		Image: req.Image,
	}
	if err := s.catalogRepository.CreateCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, err
	}
	s.invalidate(ctx, keyCategories)
	return toCategoryResponse(category), nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id string, req domain.CategoryRequest) (domain.CategoryResponse, error) {
	parsed, err := parseID(id, domain.ErrCategoryNotFound)
	if err != nil {
		return domain.CategoryResponse{}, err
	}
	category := &entities.Category{
		ID:    parsed,
		Name:  strings.TrimSpace(req.Name),
		Image: req.Image,
	}
	if err := s.catalogRepository.UpdateCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, err
	}
	s.invalidate(ctx, keyCategories)
	return toCategoryResponse(category), nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.catalogRepository.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyCategories)
	return nil
}

func (s *catalogService) GetAreas(ctx context.Context) ([]domain.AreaResponse, error) {
	return cached(ctx, s, keyAreas, func() ([]domain.AreaResponse, error) {
		areas, err := s.catalogRepository.GetAreas(ctx)
		if err != nil {
			return nil, err
		}
		res := make([]domain.AreaResponse, 0, len(areas))
		for _, a := range areas {
			res = append(res, toAreaResponse(a))
		}
		return res, nil
	})
}

func (s *catalogService) CreateArea(ctx context.Context, req domain.AreaRequest) (domain.AreaResponse, error) {
	area := &entities.Area{ID: uuid.New(), Name: strings.TrimSpace(req.Name)}
	if err := s.catalogRepository.CreateArea(ctx, area); err != nil {
		return domain.AreaResponse{}, err
	}
	s.invalidate(ctx, keyAreas)
	return toAreaResponse(area), nil
}

func (s *catalogService) UpdateArea(ctx context.Context, id string, req domain.AreaRequest) (domain.AreaResponse, error) {
	parsed, err := parseID(id, domain.ErrAreaNotFound)
	if err != nil {
		return domain.AreaResponse{}, err
	}
	area := &entities.Area{ID: parsed, Name: strings.TrimSpace(req.Name)}
	if err := s.catalogRepository.UpdateArea(ctx, area); err != nil {
		return domain.AreaResponse{}, err
	}
	s.invalidate(ctx, keyAreas)
	return toAreaResponse(area), nil
}

func (s *catalogService) DeleteArea(ctx context.Context, id string) error {
	if err := s.catalogRepository.DeleteArea(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyAreas)
	return nil
}

func (s *catalogService) GetIngredients(ctx context.Context) ([]domain.IngredientResponse, error) {
	return cached(ctx, s, keyIngredients, func() ([]domain.IngredientResponse, error) {
		ingredients, err := s.catalogRepository.GetIngredients(ctx)
		if err != nil {
			return nil, err
		}
		res := make([]domain.IngredientResponse, 0, len(ingredients))
		for _, i := range ingredients {
			res = append(res, toIngredientResponse(i))
		}
		return res, nil
	})
}

func (s *catalogService) CreateIngredient(ctx context.Context, req domain.IngredientRequest) (domain.IngredientResponse, error) {
	ingredient := &entities.Ingredient{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		Image:       req.Image,
	}
	if err := s.catalogRepository.CreateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	s.invalidate(ctx, keyIngredients)
	return toIngredientResponse(ingredient), nil
}

func (s *catalogService) UpdateIngredient(ctx context.Context, id string, req domain.IngredientRequest) (domain.IngredientResponse, error) {
	parsed, err := parseID(id, domain.ErrIngredientNotFound)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	ingredient := &entities.Ingredient{
		ID:          parsed,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		Image:       req.Image,
	}
	if err := s.catalogRepository.UpdateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	s.invalidate(ctx, keyIngredients)
	return toIngredientResponse(ingredient), nil
}

func (s *catalogService) DeleteIngredient(ctx context.Context, id string) error {
	if err := s.catalogRepository.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyIngredients)
	return nil
}

func (s *catalogService) GetTestimonials(ctx context.Context) ([]domain.TestimonialResponse, error) {
	return cached(ctx, s, keyTestimonials, func() ([]domain.TestimonialResponse, error) {
		testimonials, err := s.catalogRepository.GetTestimonials(ctx)
		if err != nil {
			return nil, err
		}
		res := make([]domain.TestimonialResponse, 0, len(testimonials))
		for _, t := range testimonials {
			res = append(res, toTestimonialResponse(t))
		}
		return res, nil
	})
}

func (s *catalogService) CreateTestimonial(ctx context.Context, req domain.TestimonialRequest) (domain.TestimonialResponse, error) {
	testimonial := &entities.Testimonial{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Avatar:  req.Avatar,
		Comment: req.Comment,
	}
	if err := s.catalogRepository.CreateTestimonial(ctx, testimonial); err != nil {
		return domain.TestimonialResponse{}, err
	}
	s.invalidate(ctx, keyTestimonials)
	return toTestimonialResponse(testimonial), nil
}

func (s *catalogService) UpdateTestimonial(ctx context.Context, id string, req domain.TestimonialRequest) (domain.TestimonialResponse, error) {
	parsed, err := parseID(id, domain.ErrTestimonialNotFound)
	if err != nil {
		return domain.TestimonialResponse{}, err
	}
	testimonial := &entities.Testimonial{
		ID:      parsed,
		Name:    strings.TrimSpace(req.Name),
		Avatar:  req.Avatar,
		Comment: req.Comment,
	}
	if err := s.catalogRepository.UpdateTestimonial(ctx, testimonial); err != nil {
		return domain.TestimonialResponse{}, err
	}
	s.invalidate(ctx, keyTestimonials)
	return toTestimonialResponse(testimonial), nil
}

func (s *catalogService) DeleteTestimonial(ctx context.Context, id string) error {
	if err := s.catalogRepository.DeleteTestimonial(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyTestimonials)
	return nil
}

func toCategoryResponse(c *entities.Category) domain.CategoryResponse {
	return domain.CategoryResponse{ID: c.ID.String(), Name: c.Name, Image: c.Image}
}

func toAreaResponse(a *entities.Area) domain.AreaResponse {
	return domain.AreaResponse{ID: a.ID.String(), Name: a.Name}
}

func toIngredientResponse(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:          i.ID.String(),
		Title:       i.Title,
		Description: i.Description,
		Type:        i.Type,
		Image:       i.Image,
	}
}

func toTestimonialResponse(t *entities.Testimonial) domain.TestimonialResponse {
	return domain.TestimonialResponse{ID: t.ID.String(), Name: t.Name, Avatar: t.Avatar, Comment: t.Comment}
}
