package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/smart-city-lviv/civic-backend/docs"
	"github.com/smart-city-lviv/civic-backend/internal/api/handler"
	"github.com/smart-city-lviv/civic-backend/internal/api/middleware"
	"github.com/smart-city-lviv/civic-backend/internal/core/service"
	"github.com/smart-city-lviv/civic-backend/internal/infrastructure/auth0"
	mongodb "github.com/smart-city-lviv/civic-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/smart-city-lviv/civic-backend/internal/infrastructure/db/redis"
	"github.com/smart-city-lviv/civic-backend/internal/infrastructure/mail"
	"github.com/smart-city-lviv/civic-backend/internal/infrastructure/storage"
	"github.com/smart-city-lviv/civic-backend/internal/pkg/config"
)

// NewRouter builds the Echo instance with all routes registered and the
// access-control table loaded.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsProduction())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civic"))

	// --- Infrastructure ---
	images, err := storage.NewImageStore(cfg.ImageDir)
	if err != nil {
		return nil, err
	}
	provider := auth0.NewClient(auth0.Config{
		Domain:       cfg.Auth0.Domain,
		ClientID:     cfg.Auth0.ClientID,
		ClientSecret: cfg.Auth0.ClientSecret,
		Timeout:      time.Duration(cfg.Auth0.VerifyTimeoutSeconds) * time.Second,
	})
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	ruleRepo := mongodb.NewRuleRepository(db)
	contentRepo := mongodb.NewContentRepository(db)
	engagementRepo := mongodb.NewEngagementRepository(db)
	tokenCache := redisdb.NewTokenCache(rdb)

	// --- Services ---
	ruleTable := service.NewRuleTable(ruleRepo, cfg.MatchMode(), log)
	ruleTable.Load(ctx)
	matcher := service.NewAccessMatcher(ruleTable, cfg.MatchMode(), cfg.MatchPolicy(), log)
	sessions := service.NewSessionCache(provider, cfg.GuestToken, log)
	engagement := service.NewEngagementService(engagementRepo, log)
	content := service.NewContentService(contentRepo, images, log)
	notifications := service.NewNotificationService(mailer, log)
	directory := service.NewDirectoryService(provider, tokenCache, log)

	// --- Handlers ---
	rulesHandler := handler.NewRulesHandler(ruleTable)
	contentHandler := handler.NewContentHandler(content)
	engagementHandler := handler.NewEngagementHandler(engagement)
	notificationHandler := handler.NewNotificationHandler(notifications)
	directoryHandler := handler.NewDirectoryHandler(directory)

	// --- Open surface (bypassed by the access matcher) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)
	e.Static("/static", "static")
	e.Static("/static/images", images.Dir())

	// --- Guarded API surface ---
	api := e.Group("/api",
		middleware.Identity(sessions, matcher),
		middleware.Access(matcher),
	)

	api.GET("/access-rules", rulesHandler.List)
	api.POST("/access-rules", rulesHandler.Replace)

	api.GET("/whoami", directoryHandler.Whoami)
	api.GET("/users/count", directoryHandler.CountUsers)
	api.POST("/notifications", notificationHandler.Send)

	api.GET("/:collection", contentHandler.List)
	api.POST("/:collection", contentHandler.Create)
	api.GET("/:collection/:id", contentHandler.Get)
	api.PUT("/:collection/:id", contentHandler.Update)
	api.DELETE("/:collection/:id", contentHandler.Delete)

	api.POST("/:collection/:id/likes", engagementHandler.ToggleLike)
	api.POST("/:collection/:id/comments", engagementHandler.AddComment)
	api.DELETE("/:collection/:id/comments/:commentId", engagementHandler.RemoveComment)

	return e, nil
}
