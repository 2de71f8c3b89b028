package config

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/api/handlers"
	"Foodies-Backend/internal/api/presenters"
	"Foodies-Backend/internal/api/routes"
	"Foodies-Backend/internal/middleware"
	"Foodies-Backend/internal/utils"
	"Foodies-Backend/internal/utils/cache"
	"Foodies-Backend/internal/utils/logging"
	"Foodies-Backend/internal/utils/mailing"
	"Foodies-Backend/internal/utils/storage"
	"Foodies-Backend/pkg/catalog"
	"Foodies-Backend/pkg/jwt"
	"Foodies-Backend/pkg/notification"
	"Foodies-Backend/pkg/reconcile"
	"Foodies-Backend/pkg/recipe"
	"Foodies-Backend/pkg/user"
	"context"
	"io"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the collaborators BuildApp wires into handlers.
type Dependencies struct {
	Repositories    Repositories
	JWTService      jwt.JWTService
	S3              storage.AwsS3
	Mailer          mailing.Mailer
	Publisher       notification.Publisher
	Cache           cache.Cache
	CatalogCacheTTL time.Duration
	Metrics         *middleware.Metrics

	// AccessLog receives the HTTP access log; nil means ./logs/app.log.
	AccessLog io.Writer
	// RateLimit is requests per second per client; 0 disables the limiter.
	RateLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ErrorHandler answers errors that escaped the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := presenters.StatusFromError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = domain.MessageInternalServerError
	}
	return presenters.ErrorResponse(c, status, message, nil)
}

func openAccessLog() io.Writer {
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	return file
}

func BuildApp(deps Dependencies) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		ReadTimeout:  deps.ReadTimeout,
		WriteTimeout: deps.WriteTimeout,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if deps.AccessLog == nil {
		deps.AccessLog = openAccessLog()
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     deps.AccessLog,
	}))
	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}
	if deps.Publisher == nil {
		deps.Publisher = notification.NewNoopPublisher()
	}

	// Service
	repos := deps.Repositories
	userService := user.NewUserService(repos.User, deps.JWTService, deps.S3, deps.Mailer, deps.Publisher)
	recipeService := recipe.NewRecipeService(repos.Recipe, repos.Catalog, deps.S3, deps.Publisher)
	catalogService := catalog.NewCatalogService(repos.Catalog, deps.Cache, deps.CatalogCacheTTL)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	catalogHandler := handlers.NewCatalogHandler(catalogService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		RecipeHandler:  recipeHandler,
		CatalogHandler: catalogHandler,
		Middleware:     middlewares,
		Authenticator:  userService,
		Metrics:        deps.Metrics,
	}
	routesConfig.Setup()
	return app
}

func NewCache() cache.Cache {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return cache.NewNoopCache()
	}
	return cache.NewRedisCache(cache.NewRedisClient(addr, utils.GetConfig("REDIS_PASSWORD")), "foodies:")
}

func newPublisher(ctx context.Context) notification.Publisher {
	topic := utils.GetConfig("SNS_TOPIC_ARN")
	if topic == "" {
		return notification.NewNoopPublisher()
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(utils.GetConfigDefault("AWS_S3_REGION", "us-east-1")))
	if err != nil {
		logging.Log.WithError(err).Warn("sns disabled")
		return notification.NewNoopPublisher()
	}
	return notification.NewSNSPublisher(sns.NewFromConfig(cfg), topic)
}

// NewApp wires the application from configuration and starts the
// reconciliation schedule.
func NewApp(ctx context.Context) (*fiber.App, reconcile.Reconciler, error) {
	logging.SetLevel(utils.GetConfigDefault("LOG_LEVEL", "info"))

	repos, err := OpenRepositories(ctx)
	if err != nil {
		return nil, nil, err
	}

	app := BuildApp(Dependencies{
		Repositories:    repos,
		JWTService:      jwt.NewJWTService(),
		S3:              storage.NewAwsS3(),
		Mailer:          mailing.NewMailer(),
		Publisher:       newPublisher(ctx),
		Cache:           NewCache(),
		CatalogCacheTTL: utils.GetConfigDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		Metrics:         middleware.NewMetrics(),
		RateLimit:       10,
		ReadTimeout:     utils.GetConfigDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    utils.GetConfigDuration("WRITE_TIMEOUT", 15*time.Second),
	})

	reconciler := reconcile.NewReconciler(repos.User, repos.Recipe)
	if err := reconciler.Start(utils.GetConfig("RECONCILE_CRON")); err != nil {
		return nil, nil, err
	}
	return app, reconciler, nil
}
