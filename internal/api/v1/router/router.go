package router

import (
	"database/sql"
	"net/http"
	"time"

	"streamlearn/docs/swagger"
	"streamlearn/internal/api/v1/handler"
	"streamlearn/internal/config"
	"streamlearn/internal/middleware"
	"streamlearn/internal/repository"
	"streamlearn/internal/service"
	"streamlearn/internal/session"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// settingsCacheTTL bounds how long a settings change takes to reach every instance.
const settingsCacheTTL = 30 * time.Second

// Deps are the connections built by cmd/app.
type Deps struct {
	DB      *sql.DB
	Revoked session.RevocationStore
	Events  service.EventSink
	// Queue is nil when welcome emails are not dispatched.
	Queue service.Queue
	// S3 is nil when object storage is not configured.
	S3 *s3.Client
}

// New wires repositories, services and handlers and returns the root handler.
func New(cfg *config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Repositories
	userRepo := repository.NewUserRepo(deps.DB)
	courseRepo := repository.NewCourseRepo(deps.DB)
	progressRepo := repository.NewProgressRepo(deps.DB)
	bannerRepo := repository.NewBannerRepo(deps.DB)
	notificationRepo := repository.NewNotificationRepo(deps.DB)
	settingsRepo := repository.NewSettingsRepo(deps.DB)
	statsRepo := repository.NewStatsRepo(deps.DB)

	// Services
	var mailer service.Mailer
	if deps.Queue != nil {
		mailer = service.NewMailer(deps.Queue, cfg.EmailQueueName, settingsRepo, logger)
	}
	tokenTTL := time.Duration(cfg.JWTTTLHours) * time.Hour
	authSvc := service.NewAuthService(userRepo, settingsRepo, deps.Revoked, deps.Events, mailer, cfg.JWTSecret, tokenTTL, logger)
	userSvc := service.NewUserService(userRepo, courseRepo, mailer, logger)
	courseSvc := service.NewCourseService(courseRepo, userRepo, progressRepo, logger)
	progressSvc := service.NewProgressService(courseSvc, courseRepo, progressRepo, deps.Events, logger)
	dashboardSvc := service.NewDashboardService(courseSvc, userRepo, bannerRepo, notificationRepo,
		time.Duration(cfg.CarouselIntervalSec)*time.Second)
	bannerSvc := service.NewBannerService(bannerRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, settingsCacheTTL, logger)
	statsSvc := service.NewStatsService(statsRepo, progressRepo)
	mediaSvc := service.NewMediaService(deps.S3, cfg.S3Bucket, cfg.MediaBaseURL(), logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, validate, cfg.CookieSecure, logger)
	courseHandler := handler.NewCourseHandler(dashboardSvc, courseSvc, progressSvc, validate, logger)
	adminUserHandler := handler.NewAdminUserHandler(userSvc, validate, logger)
	adminCourseHandler := handler.NewAdminCourseHandler(courseSvc, validate, logger)
	adminContentHandler := handler.NewAdminContentHandler(bannerSvc, notificationSvc, validate, logger)
	settingsHandler := handler.NewSettingsHandler(settingsSvc, statsSvc, mediaSvc, validate, logger)

	// Middleware
	authMw := middleware.RequireAuth(cfg.LoginPath)
	requireAdmin := middleware.RequireAdmin(userRepo, cfg.DashboardPath, logger)
	adminMw := func(next http.Handler) http.Handler {
		return authMw(requireAdmin(next))
	}

	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux, authMw)
	courseHandler.RegisterRoutes(apiV1Mux, authMw)
	adminUserHandler.RegisterRoutes(apiV1Mux, adminMw)
	adminCourseHandler.RegisterRoutes(apiV1Mux, adminMw)
	adminContentHandler.RegisterRoutes(apiV1Mux, adminMw)
	settingsHandler.RegisterRoutes(apiV1Mux, adminMw)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("GET /healthz", healthz(deps.DB))
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(swagger.SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, "Swagger document unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	// Maintenance runs after Authenticate so admins keep access.
	maintenance := middleware.Maintenance(settingsSvc, userRepo, logger,
		"/v1/auth/", "/v1/admin/", "/v1/settings", "/healthz", "/swagger/")
	authenticate := middleware.Authenticate(cfg.JWTSecret, deps.Revoked, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: cfg.AllowCredentials(),
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(authenticate(maintenance(mux))))
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}
}
