// @title TravelPack Backend API
// @version 1.0
// @description TravelPack Backend API for travel package booking
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	_ "TRAVELPACK_BACK-END/docs" // This is required for swagger
	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/handlers"
	"TRAVELPACK_BACK-END/internal/imagehost"
	"TRAVELPACK_BACK-END/internal/imagesearch"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/middleware"
	"TRAVELPACK_BACK-END/internal/notify"
	"TRAVELPACK_BACK-END/internal/receipt"
	"TRAVELPACK_BACK-END/internal/routes"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/store/memory"
	"TRAVELPACK_BACK-END/internal/store/mongodb"
	"TRAVELPACK_BACK-END/internal/store/postgres"
	"TRAVELPACK_BACK-END/internal/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.Init(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to initialise logger: %v", err)
	}

	ctx := context.Background()

	tp, err := tracing.NewTracerProvider(cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to initialise tracing: %v", err)
	}
	tracer := tp.Tracer("travelpack")

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.LogSystem("store", "connect", false, logger.Fields{"driver": cfg.Store.Driver, "error": err.Error()})
		os.Exit(1)
	}
	log.LogSystem("store", "connect", true, logger.Fields{"driver": cfg.Store.Driver})

	// Redis is optional; image search falls back to no cache
	var (
		cache      imagesearch.Cache = imagesearch.NoCache{}
		cacheProbe handlers.Pinger
	)
	if cfg.Redis.Addr != "" {
		rc, err := imagesearch.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.LogSystem("redis", "connect", false, logger.Fields{"addr": cfg.Redis.Addr, "error": err.Error()})
		} else {
			defer rc.Close()
			cache, cacheProbe = rc, rc
			log.LogSystem("redis", "connect", true, logger.Fields{"addr": cfg.Redis.Addr})
		}
	}

	uploader, err := imagehost.New(cfg.ImageHost)
	if err != nil {
		log.Fatalf("Failed to initialise image host: %v", err)
	}

	// --- Services ---
	authSvc := services.NewAuthService(st, &cfg.JWT, services.NewGoogleProvider(cfg.GoogleOAuth), log, tracer)
	reportSvc := services.NewReportService(st, cfg.Booking.StatsIncludeCancelled, log, tracer)
	packageSvc := services.NewPackageService(st, log, tracer)
	bookingSvc := services.NewBookingService(
		st,
		notify.NewMailer(notify.NewSender(cfg.Email)),
		receipt.New(cfg.Server.PublicURL),
		cfg.Booking,
		log,
		tracer,
	)
	userSvc := services.NewUserService(st, uploader, log, tracer)
	searcher := imagesearch.NewUnsplash(cfg.ImageSearch, cache, cfg.Redis.TTL, log, tracer)

	// --- HTTP Handlers ---
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc),
		Google:   handlers.NewGoogleAuthHandler(authSvc, &cfg.JWT, cfg.GoogleOAuth.FrontendURL),
		Packages: handlers.NewPackageHandler(packageSvc, reportSvc),
		Bookings: handlers.NewBookingHandler(bookingSvc, reportSvc),
		Users:    handlers.NewUserHandler(userSvc, reportSvc, cfg.ImageHost.MaxBytes),
		Images:   handlers.NewImageHandler(searcher),
		Health:   handlers.NewHealthHandler(st, cacheProbe),
	}
	mux := routes.SetupRoutes(h, middleware.NewAuth(&cfg.JWT, st), middleware.NewRateLimiter(cfg.RateLimit, log), log)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogSystem("http", "listen", true, logger.Fields{"port": cfg.Server.Port, "store": cfg.Store.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Errorf("Store close error: %v", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Tracer shutdown error: %v", err)
	}
	log.Info("Server stopped.")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		return mongodb.Connect(ctx, cfg.Mongo)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return postgres.Connect(ctx, cfg)
	}
}
