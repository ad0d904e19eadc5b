package router

import (
	"context"
	"time"

	"github.com/anonto42/linkup/backend/internal/handlers"
	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/firebase"
	"github.com/anonto42/linkup/backend/pkg/mailer"
	"github.com/anonto42/linkup/backend/pkg/ratelimit"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Dependencies are the connected collaborators routes are built from.
// Bucket and Mailer may be nil when those integrations are not configured.
type Dependencies struct {
	Config *config.Config
	DB     *config.DB
	Bucket *firebase.Bucket
	Mailer *mailer.Mailer
}

// Repositories groups the stores the routes are served from
type Repositories struct {
	Users      repositories.UserRepository
	Posts      repositories.PostRepository
	Reports    repositories.ReportRepository
	Engagement repositories.EngagementRepository
	Comments   repositories.CommentRepository
	Follows    repositories.FollowRepository
	Audit      repositories.AuditRepository
}

// Collaborators are the optional outside services; nil fields disable the feature
type Collaborators struct {
	Storage interface {
		handlers.Uploader
		services.ObjectDeleter
	}
	Mailer  handlers.VerificationSender
	Limiter services.RateLimiter
	Ping    handlers.Pinger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	cfg := deps.Config
	db := deps.DB.Database

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	reportRepo := repositories.NewMongoReportRepository(db)

	idxCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(idxCtx); err != nil {
		return err
	}
	if err := reportRepo.EnsureIndexes(idxCtx); err != nil {
		return err
	}

	repos := Repositories{
		Users:      userRepo,
		Posts:      repositories.NewMongoPostRepository(db),
		Reports:    reportRepo,
		Engagement: repositories.NewMongoEngagementRepository(db),
		Comments:   repositories.NewMongoCommentRepository(db),
		Follows:    repositories.NewMongoFollowRepository(db, cfg.MongoTransactions),
		Audit:      repositories.NewNoopAuditRepository(),
	}
	if deps.DB.Postgres != nil {
		pgAudit, err := repositories.NewPostgresAuditRepository(deps.DB.Postgres)
		if err != nil {
			return err
		}
		repos.Audit = pgAudit
		log.Info().Msg("Moderation audit log backed by PostgreSQL.")
	}

	collab := Collaborators{
		Limiter: ratelimit.New(deps.DB.Redis, cfg.ReportRateLimit, cfg.RateWindow()),
		Ping: func(ctx context.Context) error {
			return deps.DB.Mongo.Ping(ctx, readpref.Primary())
		},
	}
	// Only assign non-nil pointers so the interfaces stay nil when a feature is off
	if deps.Bucket != nil {
		collab.Storage = deps.Bucket
	}
	if deps.Mailer != nil && deps.Mailer.Enabled() {
		collab.Mailer = deps.Mailer
	}

	Mount(e, cfg, repos, collab)
	return nil
}

// Mount registers every route on e
func Mount(e *echo.Echo, cfg *config.Config, repos Repositories, collab Collaborators) {
	var (
		deleter  services.ObjectDeleter
		uploader handlers.Uploader
	)
	if collab.Storage != nil {
		deleter = collab.Storage
		uploader = collab.Storage
	}

	// --- Services ---
	cascade := services.NewCascadeExecutor(repos.Posts, repos.Reports, repos.Users, deleter, cfg.CleanupMaxTries)
	reportService := services.NewReportService(repos.Reports, collab.Limiter)
	moderationService := services.NewModerationService(repos.Reports, repos.Users, repos.Audit, cascade)
	dashboardService := services.NewDashboardService(repos.Users, repos.Posts, repos.Reports, cfg.Location())

	// --- Operational routes ---
	if collab.Ping != nil {
		e.GET("/health", handlers.HealthCheck(collab.Ping))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(repos.Users, collab.Mailer, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if collab.Mailer == nil && !cfg.IsProduction() {
		authHandler.LogVerificationLinks(cfg.AppBaseURL)
	}
	authHandler.RegisterAuthRoutes(authGroup)
	log.Debug().Msg("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1", middleware.JWTAuth(cfg.JWTSecret))

	// Every content-mutating route hangs off writes so banned callers never reach a handler
	writes := api.Group("", middleware.BanGate(repos.Users))

	handlers.NewUserHandler(repos.Users, repos.Follows).RegisterUserRoutes(api, writes)
	handlers.NewPostHandler(repos.Posts, cascade, uploader).RegisterPostRoutes(api, writes)
	handlers.NewLikeHandler(repos.Engagement).RegisterLikeRoutes(writes)
	handlers.NewCommentHandler(repos.Comments).RegisterCommentRoutes(writes)
	handlers.NewReportHandler(reportService).RegisterReportRoutes(api, writes)
	log.Debug().Msg("Content routes configured.")

	admin := api.Group("/admin", middleware.AdminRequired(repos.Users, cfg.AdminEmailList()))
	handlers.NewAdminHandler(dashboardService, moderationService).RegisterAdminRoutes(admin)
	log.Debug().Msg("Admin routes configured.")

	log.Info().Int("routes", len(e.Routes())).Msg("All routes configured.")
}
