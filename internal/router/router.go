package router

import (
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinshelf/backend/internal/activity"
	"github.com/spinshelf/backend/internal/feed"
	"github.com/spinshelf/backend/internal/handlers"
	"github.com/spinshelf/backend/internal/integrations"
	"github.com/spinshelf/backend/internal/middleware"
	"github.com/spinshelf/backend/internal/notifications"
	"github.com/spinshelf/backend/internal/records"
	"github.com/spinshelf/backend/internal/repositories"
	"github.com/spinshelf/backend/pkg/config"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, cfg *config.Config, log *logrus.Logger) {
	db := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	recordRepo := repositories.NewMongoRecordRepository(db)
	activityRepo := repositories.NewMongoActivityRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)
	forumRepo := repositories.NewMongoForumRepository(db)
	featuredRepo := repositories.NewMongoFeaturedRepository(db)
	storeRepo := repositories.NewMongoStoreRepository(db)

	// --- Core components ---
	recorder := activity.NewRecorder(activityRepo, log)
	dispatcher := notifications.NewDispatcher(notificationRepo, log)
	cache := notifications.NewCache(notificationRepo, clockwork.NewRealClock(), notifications.DefaultTTL, log)
	aggregator := feed.NewAggregator(postRepo, activityRepo, userRepo, recordRepo, log)
	slots := records.NewSlotManager(featuredRepo, recordRepo)

	// --- Integrations ---
	discogsClient := integrations.NewDiscogsClient(cfg.DiscogsToken)
	geocodeClient := integrations.NewGeocodeClient()
	newsClient := integrations.NewNewsClient(cfg.NewsFeeds)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, recorder)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	authHandler.RegisterSessionRoutes(api)

	userHandler := handlers.NewUserHandler(userRepo, recordRepo, activityRepo, recorder)
	userHandler.RegisterProfileRoutes(api)

	followHandler := handlers.NewFollowHandler(userRepo, dispatcher, recorder)
	followHandler.RegisterFollowRoutes(api)

	recordHandler := handlers.NewRecordHandler(recordRepo, userRepo, recorder, dispatcher)
	recordHandler.RegisterRecordRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, dispatcher)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, recordRepo, postRepo, blogRepo, userRepo, dispatcher, recorder)
	commentHandler.RegisterCommentRoutes(api)

	feedHandler := handlers.NewFeedHandler(aggregator)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, cache)
	notificationHandler.RegisterNotificationRoutes(api)

	featuredHandler := handlers.NewFeaturedHandler(slots, recordRepo)
	featuredHandler.RegisterFeaturedRoutes(api)

	blogHandler := handlers.NewBlogHandler(blogRepo, userRepo, dispatcher)
	blogHandler.RegisterBlogRoutes(api)

	forumHandler := handlers.NewForumHandler(forumRepo)
	forumHandler.RegisterForumRoutes(api)

	storeHandler := handlers.NewStoreHandler(storeRepo, geocodeClient)
	storeHandler.RegisterStoreRoutes(api)

	integrationHandler := handlers.NewIntegrationHandler(discogsClient, newsClient, recordRepo, userRepo, recorder, dispatcher)
	integrationHandler.RegisterIntegrationRoutes(api)

	// --- Admin routes (JWT + admin gate) ---
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware(userRepo))

	featuredHandler.RegisterFeaturedAdminRoutes(admin)
	blogHandler.RegisterBlogAdminRoutes(admin)
	forumHandler.RegisterForumAdminRoutes(admin)
	storeHandler.RegisterStoreAdminRoutes(admin)

	adminHandler := handlers.NewAdminHandler(userRepo, cache)
	adminHandler.RegisterAdminRoutes(admin)

	log.Info("All routes configured.")
}
