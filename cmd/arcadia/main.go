package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/arcadia-mall/arcadia-admin/internal/app"
	"github.com/arcadia-mall/arcadia-admin/internal/audit"
	"github.com/arcadia-mall/arcadia-admin/internal/auth"
	"github.com/arcadia-mall/arcadia-admin/internal/contacts"
	"github.com/arcadia-mall/arcadia-admin/internal/content/categories"
	"github.com/arcadia-mall/arcadia-admin/internal/content/events"
	"github.com/arcadia-mall/arcadia-admin/internal/content/posts"
	"github.com/arcadia-mall/arcadia-admin/internal/content/promotions"
	"github.com/arcadia-mall/arcadia-admin/internal/content/tenants"
	"github.com/arcadia-mall/arcadia-admin/internal/homepage"
	"github.com/arcadia-mall/arcadia-admin/internal/media"
	"github.com/arcadia-mall/arcadia-admin/internal/observability"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/storage"
	"github.com/arcadia-mall/arcadia-admin/internal/rbac"
	"github.com/arcadia-mall/arcadia-admin/internal/settings"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
	"github.com/arcadia-mall/arcadia-admin/internal/users"
	"github.com/arcadia-mall/arcadia-admin/internal/vip"
	"github.com/arcadia-mall/arcadia-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "arcadia_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()
	pages := cache.NewPageCache(redisClient, cfg.PageCacheTTL, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	auditWriter := shared.NewAuditLogger(pool)
	recorder := audit.NewRecorder(asynqClient, auditWriter, logger)
	invalidator := jobs.NewPageInvalidator(asynqClient, pages, logger)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	rbacService := rbac.NewService(pool)
	resolver := rbac.NewResolver(rbacService, logger)
	rbacMiddleware := rbac.Middleware{Resolver: resolver}
	rbacHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	auditService := audit.NewService(pool)
	auditHandler := audit.NewHandler(logger, auditService, rbacMiddleware)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, rbacService, resolver, recorder, logger)
	usersHandler := users.NewHandler(usersService)

	categoriesModule := categories.NewModule(pool, resolver, recorder, invalidator, logger)
	tenantsModule := tenants.NewModule(pool, resolver, recorder, invalidator, logger)
	postsModule := posts.NewModule(pool, resolver, recorder, invalidator, logger)
	eventsModule := events.NewModule(pool, resolver, recorder, invalidator, logger)
	promotionsModule := promotions.NewModule(pool, resolver, recorder, invalidator, logger)
	vipModule := vip.NewModule(pool, resolver, recorder, invalidator, logger)

	feedResolver := &homepage.Resolver{
		Events:     eventsModule.Repo,
		Tenants:    tenantsModule.Repo,
		Posts:      postsModule.Repo,
		Promotions: promotionsModule.Repo,
	}
	homepageModule := homepage.NewModule(pool, feedResolver, resolver, recorder, pages, invalidator, logger)

	settingsService := settings.NewService(pool, resolver, recorder, invalidator, logger)
	settingsHandler := settings.NewHandler(settingsService)

	contactsService := contacts.NewService(pool, resolver, recorder, logger)
	contactsHandler := contacts.NewHandler(contactsService)

	mediaStore, err := storage.NewMediaStore(ctx, storage.Config{
		Bucket:       cfg.MediaBucket,
		Region:       cfg.MediaRegion,
		Endpoint:     cfg.MediaEndpoint,
		AccessKey:    cfg.MediaAccessKey,
		SecretKey:    cfg.MediaSecretKey,
		PublicBase:   cfg.MediaPublicBase,
		UsePathStyle: cfg.MediaUsePathStyle,
	})
	if err != nil {
		logger.Error("init media store", slog.Any("error", err))
		os.Exit(1)
	}
	mediaService := media.NewService(mediaStore, resolver, recorder, logger)
	mediaHandler := media.NewHandler(mediaService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		Metrics:         metrics,
		AuthMiddleware:  authMiddleware,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		RBACHandler:     rbacHandler,
		AuditHandler:    auditHandler,
		Categories:      categoriesModule,
		Tenants:         tenantsModule,
		Posts:           postsModule,
		Events:          eventsModule,
		Promotions:      promotionsModule,
		VIP:             vipModule,
		Homepage:        homepageModule,
		SettingsHandler: settingsHandler,
		ContactsHandler: contactsHandler,
		MediaHandler:    mediaHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin api listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
