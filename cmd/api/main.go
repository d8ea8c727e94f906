package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sanskriti-tours/sanskriti-api/internal/config"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/admin"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/booking"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/dashboard"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/newsletter"
	"github.com/sanskriti-tours/sanskriti-api/internal/middleware"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/database"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/jwt"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Bool("demo_mode", cfg.DemoMode).
		Msg("Starting Sanskriti API")

	var (
		db          *sqlx.DB
		redisClient *redislib.Client
		err         error
	)
	if !cfg.DemoMode {
		db, err = database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer database.ClosePostgres(db)

		redisClient, err = database.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer database.CloseRedis(redisClient)
	}

	// Customer tokens come from the identity provider; we only verify.
	jwtService := jwt.NewService(cfg.AuthSecret, cfg.AuthIssuer)
	authMiddleware := middleware.Auth(jwtService)

	imageStore := newImageStore(cfg)

	// ---------- Repositories ----------
	var (
		experienceRepo experience.Repository
		bookingRepo    booking.Repository
		newsletterRepo newsletter.Repository
		adminRepo      admin.Repository
	)
	if cfg.DemoMode {
		experienceRepo, err = experience.NewMemoryRepositoryFromSeed(cfg.DemoSeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("seed", cfg.DemoSeedFile).Msg("Failed to load demo seed")
		}
		bookingRepo = booking.NewMemoryRepository()
		newsletterRepo = newsletter.NewMemoryRepository()
		adminRepo = admin.NewMemoryRepository()
	} else {
		experienceRepo = experience.NewCachedRepository(experience.NewPostgresRepository(db), redisClient)
		bookingRepo = booking.NewPostgresRepository(db)
		newsletterRepo = newsletter.NewPostgresRepository(db)
		adminRepo = admin.NewPostgresRepository(db)
	}

	// ---------- WebSocket hub ----------
	feedHub := booking.NewHub(redisClient)
	go feedHub.Run()
	defer feedHub.Shutdown()

	// ---------- Services ----------
	experienceSvc := experience.NewService(experienceRepo, imageStore)
	bookingSvc := booking.NewService(bookingRepo, experienceRepo, feedHub)
	newsletterSvc := newsletter.NewService(newsletterRepo)
	adminSvc := admin.NewService(adminRepo)
	dashboardSvc := dashboard.NewService(experienceRepo, bookingSvc, newsletterSvc)

	adminJWT := admin.NewJWTService(cfg.AdminJWTSecret, cfg.AdminTokenTTL)
	if err := adminSvc.Bootstrap(context.Background(),
		cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}

	// ---------- Handlers ----------
	experienceHandler := experience.NewHandler(experienceSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	newsletterHandler := newsletter.NewHandler(newsletterSvc)
	adminHandler := admin.NewHandler(adminSvc, adminJWT)
	dashboardHandler := dashboard.NewHandler(dashboardSvc)

	adminAuth := admin.AuthMiddleware(adminJWT, adminSvc)
	manageCatalog := admin.RequirePermission(admin.PermManageCatalog)
	viewBookings := admin.RequirePermission(admin.PermViewBookings)
	viewNewsletter := admin.RequirePermission(admin.PermViewNewsletter)
	viewAnalytics := admin.RequirePermission(admin.PermViewAnalytics)

	// ---------- Router ----------
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/experiences", experienceHandler.PublicRoutes())
		r.Mount("/newsletter", newsletterHandler.PublicRoutes())
		r.Mount("/bookings", bookingHandler.CustomerRoutes(authMiddleware))
		r.Mount("/dashboard", dashboardHandler.CustomerRoutes(authMiddleware))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/auth", adminHandler.AuthRoutes(adminJWT, adminSvc))
		r.Mount("/admins", adminHandler.ManagementRoutes(adminJWT, adminSvc))

		r.Group(func(r chi.Router) {
			r.Use(adminAuth)
			r.With(manageCatalog).Mount("/experiences", experienceHandler.AdminRoutes(noop))
			r.With(viewBookings).Mount("/bookings", bookingHandler.AdminRoutes(noop))
			r.With(viewNewsletter).Mount("/newsletter", newsletterHandler.AdminRoutes(noop))
			r.With(viewAnalytics).Mount("/dashboard", dashboardHandler.AdminRoutes(noop))
			r.With(viewBookings).Get("/feed", feedHub.ServeWS)
		})
	})

	// Local image storage needs a static file route; R2 serves itself.
	if !cfg.UseR2() {
		fileServer := http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.LocalStoragePath)))
		r.Get("/images/*", fileServer.ServeHTTP)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// noop satisfies route constructors whose auth is applied at the mount
// point instead.
func noop(next http.Handler) http.Handler { return next }

func newImageStore(cfg *config.Config) storage.ImageStore {
	if cfg.UseR2() {
		store, err := storage.NewR2Store(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
		return store
	}

	store, err := storage.NewLocalStore(cfg.LocalStoragePath, cfg.LocalStorageURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create local storage")
	}
	return store
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
