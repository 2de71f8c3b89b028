package migration

import (
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/utils/logging"
	"fmt"

	"gorm.io/gorm"
)

// caseInsensitiveIndexes back the LOWER() uniqueness checks done by the
// repositories. Both postgres and sqlite accept expression indexes.
var caseInsensitiveIndexes = []struct {
	name, table, column string
}{
	{"idx_users_email_lower", "users", "email"},
	{"idx_categories_name_lower", "categories", "name"},
	{"idx_areas_name_lower", "areas", "name"},
	{"idx_ingredients_title_lower", "ingredients", "title"},
}

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"user follow", &entities.UserFollow{}},
		{"category", &entities.Category{}},
		{"area", &entities.Area{}},
		{"ingredient", &entities.Ingredient{}},
		{"testimonial", &entities.Testimonial{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"recipe favorite", &entities.RecipeFavorite{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			logging.Log.WithError(err).Errorf("Error migrating %s database", m.name)
			return err
		}
	}

	for _, idx := range caseInsensitiveIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (LOWER(%s))", idx.name, idx.table, idx.column)
		if err := db.Exec(stmt).Error; err != nil {
			logging.Log.WithError(err).Errorf("Error creating index %s", idx.name)
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	logging.Log.Info("Database migration complete")
	return nil
}
