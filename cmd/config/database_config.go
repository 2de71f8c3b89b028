package config

import (
	migration "Foodies-Backend/cmd/database/migrate"
	"Foodies-Backend/internal/utils"
	"Foodies-Backend/internal/utils/logging"
	"Foodies-Backend/pkg/catalog"
	"Foodies-Backend/pkg/dynamo"
	"Foodies-Backend/pkg/recipe"
	"Foodies-Backend/pkg/user"
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

// Repositories is the persistence gateway handed to the services.
type Repositories struct {
	User    user.UserRepository
	Recipe  recipe.RecipeRepository
	Catalog catalog.CatalogRepository
}

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Printf("Database connection failed: %v", err)
		return nil, err
	}
	return db, nil
}

func ConnectDynamo(ctx context.Context) (*dynamo.Table, error) {
	endpoint := utils.GetConfig("DYNAMODB_ENDPOINT")
	client, err := dynamo.NewClient(ctx, dynamo.ClientConfig{
		Region:    utils.GetConfigDefault("AWS_S3_REGION", "us-east-1"),
		Endpoint:  endpoint,
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
	})
	if err != nil {
		return nil, err
	}

	name := utils.GetConfigDefault("DYNAMODB_TABLE", "Foodies")
	// local DynamoDB starts empty
	if endpoint != "" {
		if err := dynamo.EnsureTable(ctx, client, name); err != nil {
			return nil, err
		}
	}
	return dynamo.NewTable(client, name), nil
}

func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		User:    user.NewUserRepository(db),
		Recipe:  recipe.NewRecipeRepository(db),
		Catalog: catalog.NewCatalogRepository(db),
	}
}

func NewDynamoRepositories(table *dynamo.Table) Repositories {
	return Repositories{
		User:    dynamo.NewUserRepository(table),
		Recipe:  dynamo.NewRecipeRepository(table),
		Catalog: dynamo.NewCatalogRepository(table),
	}
}

// OpenRepositories connects the adapter named by STORAGE_DRIVER.
func OpenRepositories(ctx context.Context) (Repositories, error) {
	driver := utils.GetConfigDefault("STORAGE_DRIVER", DriverPostgres)
	logging.Log.WithField("driver", driver).Info("opening storage")

	switch driver {
	case DriverDynamoDB:
		table, err := ConnectDynamo(ctx)
		if err != nil {
			return Repositories{}, err
		}
		return NewDynamoRepositories(table), nil
	case DriverPostgres:
		db, err := ConnectDB()
		if err != nil {
			return Repositories{}, err
		}
		if err := migration.Migrate(db); err != nil {
			return Repositories{}, err
		}
		return NewGormRepositories(db), nil
	default:
		return Repositories{}, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}
