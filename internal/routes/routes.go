package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"TRAVELPACK_BACK-END/internal/handlers"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/middleware"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth     *handlers.AuthHandler
	Google   *handlers.GoogleAuthHandler
	Packages *handlers.PackageHandler
	Bookings *handlers.BookingHandler
	Users    *handlers.UserHandler
	Images   *handlers.ImageHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes configures all application routes and wraps them with request logging
func SetupRoutes(h Handlers, auth *middleware.Auth, limiter *middleware.RateLimiter, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	protect := auth.Require
	admin := auth.RequireAdmin

	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("POST /api/auth/register", limiter.Limit(h.Auth.Register))
	mux.HandleFunc("POST /api/auth/login", limiter.Limit(h.Auth.Login))
	mux.HandleFunc("POST /api/auth/google", limiter.Limit(h.Google.GoogleToken))
	mux.HandleFunc("GET /api/auth/google/login", limiter.Limit(h.Google.GoogleLogin))
	mux.HandleFunc("GET /api/auth/google/callback", h.Google.GoogleCallback)
	mux.HandleFunc("GET /api/auth/me", protect(h.Auth.Me))

	// Packages
	mux.HandleFunc("GET /api/packages", h.Packages.List)
	mux.HandleFunc("GET /api/packages/{id}", h.Packages.Get)
	mux.HandleFunc("POST /api/packages", admin(h.Packages.Create))
	mux.HandleFunc("PUT /api/packages/{id}", admin(h.Packages.Update))
	mux.HandleFunc("DELETE /api/packages/{id}", admin(h.Packages.Delete))
	mux.HandleFunc("GET /api/packages/stats/overview", admin(h.Packages.Stats))

	// Bookings
	mux.HandleFunc("GET /api/bookings/admin", admin(h.Bookings.List))
	mux.HandleFunc("GET /api/bookings/stats/by-package", admin(h.Bookings.StatsByPackage))
	mux.HandleFunc("PATCH /api/bookings/{id}/status", admin(h.Bookings.UpdateStatus))
	mux.HandleFunc("GET /api/bookings", protect(h.Bookings.List))
	mux.HandleFunc("GET /api/bookings/user", protect(h.Bookings.ListMine))
	mux.HandleFunc("GET /api/bookings/{id}", protect(h.Bookings.Get))
	mux.HandleFunc("GET /api/bookings/{id}/receipt", protect(h.Bookings.Receipt))
	mux.HandleFunc("POST /api/bookings", protect(h.Bookings.Create))

	// Users
	mux.HandleFunc("GET /api/users/profile", protect(h.Users.Profile))
	mux.HandleFunc("PUT /api/users/profile", protect(h.Users.UpdateProfile))
	mux.HandleFunc("POST /api/users/profile/picture", protect(h.Users.UploadPicture))
	mux.HandleFunc("GET /api/users", admin(h.Users.List))
	mux.HandleFunc("GET /api/users/{id}", admin(h.Users.Get))

	mux.HandleFunc("GET /api/images/search", admin(h.Images.Search))

	// Swagger documentation
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)

	return middleware.RequestLogger(log)(mux)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("TravelPack backend is running."))
}
