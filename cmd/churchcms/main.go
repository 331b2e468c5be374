// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/churchcms/internal/cache"
	"github.com/olegiv/churchcms/internal/config"
	"github.com/olegiv/churchcms/internal/geoip"
	"github.com/olegiv/churchcms/internal/handler"
	"github.com/olegiv/churchcms/internal/handler/api"
	"github.com/olegiv/churchcms/internal/logging"
	"github.com/olegiv/churchcms/internal/middleware"
	"github.com/olegiv/churchcms/internal/oembed"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/scheduler"
	"github.com/olegiv/churchcms/internal/service"
	"github.com/olegiv/churchcms/internal/session"
	"github.com/olegiv/churchcms/internal/storage"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/internal/version"
	"github.com/olegiv/churchcms/internal/webhook"
	"github.com/olegiv/churchcms/web"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "churchcms - church website and admin dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_DB_DRIVER        sqlite|postgres (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_DB_PATH          SQLite database path (default: ./data/churchcms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_DATABASE_URL     Postgres connection URL\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_ENV              development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_STORAGE          local|supabase (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_REDIS_URL        Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHCMS_WEBHOOK_URLS     Comma separated announcement webhooks (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("churchcms %s (built: %s)\n", info.String(), info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	slog.Info("starting churchcms", "version", version.Get().String(), "env", cfg.Env)

	db, queries, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Warnings and errors also go to the activity log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewActivityLogHandler(textHandler, queries))
	slog.SetDefault(logger)
	slog.Info("activity log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, queries, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	var sessionManager *scs.SessionManager
	if cfg.UsePostgres() {
		sessionManager = session.NewInMemory(cfg.IsDevelopment())
	} else {
		sessionManager = session.New(db, cfg.IsDevelopment())
	}
	sessions := session.NewProvider(sessionManager, queries)

	locator, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
		locator = nil
	}
	defer func() { _ = locator.Close() }()
	activity := service.NewActivityService(queries).WithLocator(locator)
	sessions.Subscribe(activity.SessionChanged)
	slog.Info("session manager initialized")

	cacheStore := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: 5 * time.Minute,
		MaxItems:   10000,
	})
	defer func() {
		if err := cacheStore.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	objects, localUploads, err := openStorage(cfg)
	if err != nil {
		return err
	}
	media := service.NewMediaService(objects, cfg.UploadMaxBytes(), cfg.ImageMaxWidth)
	slog.Info("object storage ready", "backend", objects.Name())

	var dispatcher *webhook.Dispatcher
	var announcer service.EventDispatcher
	if len(cfg.WebhookURLs) > 0 {
		whCfg := webhook.DefaultConfig()
		whCfg.URLs = cfg.WebhookURLs
		whCfg.Secret = cfg.WebhookSecret
		dispatcher = webhook.NewDispatcher(whCfg, logger)
		dispatcher.Start()
		announcer = dispatcher
		slog.Info("webhook dispatcher started", "endpoints", len(cfg.WebhookURLs))
	}

	effects := handler.Effects{
		Notifier: service.NewNotifier(queries, cacheStore, cfg.NotificationTTL, cfg.NotificationCacheTTL, announcer),
		Activity: activity,
		Stats:    service.NewStatsService(queries, cacheStore, time.Minute),
	}
	videos := oembed.NewClient(cfg.OEmbedEndpoint, cacheStore)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	core := scheduler.CoreJobs{
		Notifications: queries,
		Expired:       effects.Notifier.Invalidate,
		Activity:      activity,
		Retention:     time.Duration(cfg.ActivityRetentionDays) * 24 * time.Hour,
		Logins:        loginProtection,
	}
	if locator.Enabled() {
		core.GeoIP = locator
	}
	jobs := scheduler.New(logger)
	if err := jobs.RegisterCore(core); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	jobs.Start()
	slog.Info("scheduler started", "jobs", len(jobs.Jobs()))

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	repos := handler.NewRepositories(queries)
	site := &handler.Site{
		Public:          handler.NewPublicHandler(renderer, queries, repos, videos),
		Auth:            handler.NewAuthHandler(queries, renderer, sessions, loginProtection, activity).WithStats(effects.Stats),
		Admin:           handler.NewAdminHandler(renderer, effects.Stats),
		Users:           handler.NewUsersHandler(queries, renderer, effects),
		Uploads:         handler.NewUploadsHandler(media, activity),
		Bell:            handler.NewBellHandler(renderer, effects.Notifier),
		Activity:        handler.NewActivityHandler(renderer, activity),
		Health:          handler.NewHealthHandler(db, cacheStore, objects),
		SEO:             handler.NewSEOHandler(repos, cfg.SiteURL, !cfg.IsProduction()),
		Content:         handler.NewContentRoutes(repos, renderer, effects, cfg.NotificationTTL),
		CSRF:            middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())),
		PublicLimiter:   middleware.NewRateLimiter(1, 10),
		LoginProtection: loginProtection,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.StripTrailingSlash)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}
	r.Handle(handler.RouteStatic+"/*", http.StripPrefix(handler.RouteStatic, http.FileServer(http.FS(staticFS))))
	if localUploads != nil {
		r.Handle(handler.RouteUploads+"/*", http.StripPrefix(handler.RouteUploads, http.FileServer(http.Dir(localUploads.Dir()))))
	}

	apiLimiter := middleware.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateBurst)
	api.Mount(r, api.Endpoints(repos),
		middleware.CORS(strings.Join(cfg.CORSOrigins, ",")),
		apiLimiter.Middleware(),
	)

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.LoadSession(sessions))
		site.Mount(r)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	jobs.Stop()
	if dispatcher != nil {
		dispatcher.Stop(shutdownCtx)
	}

	slog.Info("server stopped")
	return nil
}

// openDatabase connects to the configured backend and runs migrations.
func openDatabase(cfg *config.Config) (*sql.DB, *store.Queries, error) {
	if cfg.UsePostgres() {
		slog.Info("initializing database", "driver", "postgres")
		db, err := store.Open(store.DialectPostgres, cfg.DatabaseURL, store.DefaultDBConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("initializing database: %w", err)
		}
		if err := store.MigrateDialect(db, store.DialectPostgres); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database ready")
		return db, store.NewWithDialect(db, store.DialectPostgres), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return db, store.New(db), nil
}

// openStorage returns the media backend. The local backend is also returned
// on its own so its directory can be served under /uploads.
func openStorage(cfg *config.Config) (storage.Storage, *storage.Local, error) {
	if cfg.Storage == config.StorageSupabase {
		return storage.NewSupabase(storage.SupabaseConfig{
			URL:        cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseServiceKey,
			Bucket:     cfg.SupabaseBucket,
		}), nil, nil
	}
	local, err := storage.NewLocal(cfg.UploadsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing uploads directory: %w", err)
	}
	return local, local, nil
}
