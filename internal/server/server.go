// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"time"

	_ "nashr/docs" // swagger docs
	"nashr/internal/bootstrap"
	"nashr/internal/config"
	"nashr/internal/featureflags"
	"nashr/internal/mail"
	"nashr/internal/media"
	"nashr/internal/middleware"
	"nashr/internal/models"
	"nashr/internal/notifications"
	"nashr/internal/repository"
	"nashr/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	rateLimiter    *middleware.RateLimiter
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	mailer         mail.Sender

	authService         *service.AuthService
	postService         *service.PostService
	commentService      *service.CommentService
	reactionService     *service.ReactionService
	followService       *service.FollowService
	publicationService  *service.PublicationService
	notificationService *service.NotificationService
	searchService       *service.SearchService
	exportService       *service.ExportService
	backupService       *service.BackupService
	userService         *service.UserService
	feedService         *service.FeedService
	contactService      *service.ContactService
	mediaService        *media.Service
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Redis is optional; a nil client disables caching, rate limiting and live delivery.
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemo: cfg.SeedDemo})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	followRepo := repository.NewFollowRepository(db)
	publicationRepo := repository.NewPublicationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("nashr-api"),
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.RateLimitEnabled && redisClient != nil),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		mailer:         mail.NewSender(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom),
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	server.notificationService = service.NewNotificationService(notificationRepo, server.notifier)
	server.authService = service.NewAuthService(userRepo, server.mailer, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  time.Duration(cfg.JWTTTLHours) * time.Hour,
		BaseURL:   cfg.BaseURL,
	}, nil)
	server.postService = service.NewPostService(postRepo, publicationRepo, redisClient)
	server.commentService = service.NewCommentService(commentRepo, postRepo, server.notificationService)
	server.reactionService = service.NewReactionService(reactionRepo, postRepo, commentRepo, server.notificationService)
	server.followService = service.NewFollowService(followRepo, userRepo, server.notificationService)
	server.publicationService = service.NewPublicationService(publicationRepo, userRepo, server.notificationService, nil)
	server.searchService = service.NewSearchService(postRepo, userRepo, redisClient)
	server.exportService = service.NewExportService(postRepo)
	server.backupService = service.NewBackupService(service.BackupRepositories{
		Users:        userRepo,
		Posts:        postRepo,
		Reactions:    reactionRepo,
		Comments:     commentRepo,
		Follows:      followRepo,
		Publications: publicationRepo,
		Restore:      repository.NewRestoreRepository(db),
	}, redisClient, nil)
	server.userService = service.NewUserService(userRepo, postRepo, statsRepo, redisClient, nil)
	server.feedService = service.NewFeedService(postRepo, userRepo, redisClient, cfg.BaseURL, nil)
	server.contactService = service.NewContactService(repository.NewContactRepository(db))
	server.mediaService = media.NewService(repository.NewImageRepository(db), cfg.UploadDir, cfg.ImageMaxUploadSizeMB)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request, trace and user IDs into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		ExposeHeaders:    "Content-Disposition, X-Trace-ID",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return !s.config.RateLimitEnabled || c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "تعداد درخواست‌ها بیش از حد مجاز است. لطفاً کمی بعد دوباره تلاش کنید",
				Code:  "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health", s.LivenessCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Feeds
	app.Get("/rss", s.RSS)
	app.Get("/rss.xml", s.RSS)
	app.Get("/sitemap.xml", s.Sitemap)

	// Uploaded media
	app.Static(media.URLPrefix, s.mediaService.Dir(), fiber.Static{
		MaxAge: 31536000,
	})

	// Every API route knows the caller when a valid token is sent; operations
	// that need one reject anonymous callers themselves.
	api := app.Group("/api", middleware.OptionalAuth)

	api.Get("/health", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Nashr Backend Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/feature-flags", s.GetFeatureFlags)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", s.rateLimiter.Limit("signup", 3, 10*time.Minute), s.Signup)
	auth.Post("/login", s.rateLimiter.Limit("login", 10, 5*time.Minute), s.Login)
	api.Post("/forgot-password", s.rateLimiter.Limit("forgot_password", 3, 15*time.Minute), s.ForgotPassword)
	api.Post("/reset-password", s.rateLimiter.Limit("reset_password", 5, 15*time.Minute), s.ResetPassword)

	// Posts
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.rateLimiter.Limit("create_post", 10, time.Hour), s.CreatePost)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Toggles
	api.Get("/like", s.GetLikes)
	api.Post("/like", s.rateLimiter.Limit("like", 60, time.Minute), s.ToggleLike)
	api.Get("/bookmark", s.GetBookmarks)
	api.Post("/bookmark", s.rateLimiter.Limit("bookmark", 60, time.Minute), s.ToggleBookmark)

	// Comments; /like before the generic collection routes
	comments := api.Group("/comments")
	comments.Post("/like", s.rateLimiter.Limit("comment_like", 60, time.Minute), s.ToggleCommentLike)
	comments.Get("/", s.GetComments)
	comments.Post("/", s.rateLimiter.Limit("create_comment", 10, time.Minute), s.CreateComment)

	// Follows
	follow := api.Group("/follow")
	follow.Get("/check", s.CheckFollow)
	follow.Post("/", s.rateLimiter.Limit("follow", 30, time.Minute), s.Follow)
	follow.Delete("/", s.Unfollow)

	// Publications; /:id/:resource routes before the generic /:id routes
	pubs := api.Group("/publications")
	pubs.Get("/", s.GetPublications)
	pubs.Post("/", s.CreatePublication)
	pubs.Post("/:id/follow", s.FollowPublication)
	pubs.Delete("/:id/follow", s.UnfollowPublication)
	pubs.Get("/:id/members", s.GetPublicationMembers)
	pubs.Post("/:id/members", s.AddPublicationMember)
	pubs.Get("/:id", s.GetPublication)
	pubs.Put("/:id", s.UpdatePublication)
	pubs.Delete("/:id", s.DeletePublication)

	// Notifications
	notes := api.Group("/notifications")
	notes.Get("/", s.GetNotifications)
	notes.Post("/", s.CreateNotification)
	notes.Patch("/", middleware.AuthRequired, s.UpdateNotifications)
	notes.Delete("/", middleware.AuthRequired, s.DeleteNotifications)

	// Search
	api.Get("/search", s.rateLimiter.Limit("search", 30, time.Minute), s.Search)
	api.Get("/topics", s.GetTopics)

	// Export, backup and restore
	api.Get("/export", s.rateLimiter.Limit("export", 10, time.Minute), s.Export)
	api.Get("/backup", s.rateLimiter.Limit("backup", 5, time.Minute), s.DownloadBackup)
	api.Post("/backup", s.rateLimiter.Limit("restore", 3, 10*time.Minute), s.RestoreBackup)

	// Users
	api.Get("/user/stats", s.GetUserStats)
	api.Put("/user/profile", s.UpdateProfile)
	api.Get("/users/:username", s.GetUserProfile)

	// Contact
	api.Post("/contact", s.rateLimiter.Limit("contact", 5, 10*time.Minute), s.SubmitContact)
	api.Get("/contact", s.GetContactMessages)

	// Media
	api.Post("/images", middleware.AuthRequired,
		s.rateLimiter.Limit("image_upload", 20, time.Hour), s.UploadImage)

	// Live notifications
	api.Get("/ws/notifications", middleware.WebSocketAuthRequired, s.NotificationsWebSocket())
}

// ErrorHandler renders errors that escaped a handler in the standard envelope.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, appErr.HTTPStatus(), appErr)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return models.RespondWithError(c, fe.Code, models.NewNotFoundError("مسیر مورد نظر یافت نشد"))
		case fiber.StatusMethodNotAllowed:
			return c.Status(fe.Code).JSON(models.ErrorResponse{Error: "متد درخواست مجاز نیست"})
		case fiber.StatusRequestEntityTooLarge:
			return models.RespondWithError(c, fe.Code, models.NewValidationError("حجم درخواست بیش از حد مجاز است"))
		}
		if fe.Code < fiber.StatusInternalServerError {
			return models.RespondWithError(c, fe.Code, models.NewValidationError("درخواست نامعتبر است"))
		}
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error(), "path", c.Path())
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError("", err))
}

// NewApp builds the fiber app with middleware and routes but does not listen.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Nashr API",
		ErrorHandler: s.ErrorHandler,
		BodyLimit:    int(s.mediaService.MaxBytes()) + 1024*1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.NewApp()

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start notification wiring", "error", err)
			}
		}()
	}

	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down notification hub", "error", err)
		}
	}

	if closer, ok := s.mailer.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
