package catalog

import (
	"Foodies-Backend/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type (
	// SeedReport counts fixture rows per collection.
	SeedReport struct {
		Inserted map[string]int
		Skipped  map[string]int
	}

	Seeder struct {
		service    CatalogService
		repository CatalogRepository
		validator  *validator.Validate
	}

	// Fixture files come from older dumps, so a few fields have two names.
	ingredientFixture struct {
		domain.IngredientRequest
		Descr string `json:"descr"`
		Img   string `json:"img"`
	}

	testimonialFixture struct {
		domain.TestimonialRequest
		Testimonial string `json:"testimonial"`
	}
)

func NewSeeder(service CatalogService, repository CatalogRepository, v *validator.Validate) *Seeder {
	return &Seeder{service: service, repository: repository, validator: v}
}

func (r *SeedReport) count(collection string, inserted bool) {
	if inserted {
		r.Inserted[collection]++
	} else {
		r.Skipped[collection]++
	}
}

// Clear removes catalog rows and drops the cached lists.
func (s *Seeder) Clear(ctx context.Context) error {
	if err := s.repository.ClearCatalog(ctx); err != nil {
		return err
	}
	if svc, ok := s.service.(*catalogService); ok {
		for _, key := range []string{keyCategories, keyAreas, keyIngredients, keyTestimonials} {
			svc.invalidate(ctx, key)
		}
	}
	return nil
}

// Seed loads every fixture file found in dir. Missing files are skipped,
// entries that already exist or fail validation are counted as skipped.
func (s *Seeder) Seed(ctx context.Context, dir string) (SeedReport, error) {
	report := SeedReport{Inserted: map[string]int{}, Skipped: map[string]int{}}

	var categories []domain.CategoryRequest
	if err := readFixture(dir, "categories.json", &categories); err != nil {
		return report, err
	}
	for _, c := range categories {
		report.count("categories", s.insert(ctx, "categories", c, func() error {
			_, err := s.service.CreateCategory(ctx, c)
			return err
		}))
	}

	var areas []domain.AreaRequest
	if err := readFixture(dir, "areas.json", &areas); err != nil {
		return report, err
	}
	for _, a := range areas {
		report.count("areas", s.insert(ctx, "areas", a, func() error {
			_, err := s.service.CreateArea(ctx, a)
			return err
		}))
	}

	var ingredients []ingredientFixture
	if err := readFixture(dir, "ingredients.json", &ingredients); err != nil {
		return report, err
	}
	for _, f := range ingredients {
		req := f.IngredientRequest
		if req.Description == "" {
			req.Description = f.Descr
		}
		if req.Image == "" {
			req.Image = f.Img
		}
		report.count("ingredients", s.insert(ctx, "ingredients", req, func() error {
			_, err := s.service.CreateIngredient(ctx, req)
			return err
		}))
	}

	var testimonials []testimonialFixture
	if err := readFixture(dir, "testimonials.json", &testimonials); err != nil {
		return report, err
	}
	for _, f := range testimonials {
		req := f.TestimonialRequest
		if req.Comment == "" {
			req.Comment = f.Testimonial
		}
		report.count("testimonials", s.insert(ctx, "testimonials", req, func() error {
			_, err := s.service.CreateTestimonial(ctx, req)
			return err
		}))
	}

	return report, nil
}

func (s *Seeder) insert(ctx context.Context, collection string, req any, create func() error) bool {
	fields := logrus.Fields{"collection": collection}
	if err := s.validator.StructCtx(ctx, req); err != nil {
		log.WithFields(fields).WithError(err).Warn("fixture rejected")
		return false
	}
	err := create()
	switch {
	case err == nil:
		return true
	case isConflict(err):
		log.WithFields(fields).Debug(err.Error())
		return false
	default:
		log.WithFields(fields).WithError(err).Warn("fixture not inserted")
		return false
	}
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrCategoryExists) ||
		errors.Is(err, domain.ErrAreaExists) ||
		errors.Is(err, domain.ErrIngredientExists)
}

func readFixture(dir, name string, dest any) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("file", name).Info("fixture not found, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
