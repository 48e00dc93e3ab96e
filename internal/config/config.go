package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	CORS        CORSConfig
	Logging     LoggingConfig
	Tracing     TracingConfig
	ImageSearch ImageSearchConfig
	ImageHost   ImageHostConfig
	Email       EmailConfig
	RateLimit   RateLimitConfig
	Booking     BookingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	PublicURL       string
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds postgres configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI         string
	Database    string
	ConnTimeout time.Duration
}

// RedisConfig holds the cache connection; empty Addr disables caching
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	FrontendURL  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level      string
	Format     string // json | text
	Output     string // stdout | file
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
}

// ImageSearchConfig holds the Unsplash client configuration
type ImageSearchConfig struct {
	BaseURL   string
	AccessKey string
	Timeout   time.Duration
	PerPage   int
}

// ImageHostConfig holds Cloudinary credentials
type ImageHostConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	MaxBytes  int64
}

// EmailConfig holds email configuration. SendGrid wins over SMTP when both are set.
type EmailConfig struct {
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	FromEmail      string
	FromName       string
}

// RateLimitConfig throttles the auth endpoints
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
	TrustedProxies    []string
}

// BookingConfig holds booking policy switches
type BookingConfig struct {
	StrictTransitions      bool
	StatsIncludeCancelled  bool
	PriceMismatchTolerance float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			logrus.Warnf(".env file not found: %v", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			PublicURL:       getEnv("PUBLIC_URL", "http://localhost:8080"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "travelpack"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		Mongo: MongoConfig{
			URI:         getEnv("MONGO_URI", ""),
			Database:    getEnv("MONGO_DB", "travelpack"),
			ConnTimeout: getDurationEnv("MONGO_CONN_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(getInt32Env("REDIS_DB", 0)),
			TTL:      getDurationEnv("REDIS_CACHE_TTL", 24*time.Hour),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 30*24*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "travelpack"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
			FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/travelpack.log"),
			MaxSize:    int(getInt32Env("LOG_MAX_SIZE_MB", 100)),
			MaxBackups: int(getInt32Env("LOG_MAX_BACKUPS", 3)),
			MaxAge:     int(getInt32Env("LOG_MAX_AGE_DAYS", 28)),
			Compress:   getBoolEnv("LOG_COMPRESS", true),
		},
		Tracing: TracingConfig{
			Enabled:        getBoolEnv("TRACING_ENABLED", false),
			ServiceName:    getEnv("TRACING_SERVICE_NAME", "travelpack-api"),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		ImageSearch: ImageSearchConfig{
			BaseURL:   getEnv("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
			AccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
			Timeout:   getDurationEnv("UNSPLASH_TIMEOUT", 5*time.Second),
			PerPage:   int(getInt32Env("UNSPLASH_PER_PAGE", 9)),
		},
		ImageHost: ImageHostConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "travel-app/profiles"),
			MaxBytes:  int64(getInt32Env("UPLOAD_MAX_BYTES", 5<<20)),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:       int(getInt32Env("SMTP_PORT", 587)),
			SMTPUsername:   getEnv("SMTP_USERNAME", ""),
			SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
			FromEmail:      getEnv("EMAIL_FROM", ""),
			FromName:       getEnv("EMAIL_FROM_NAME", "TravelPack"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolEnv("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 5),
			Burst:             int(getInt32Env("RATE_LIMIT_BURST", 10)),
			TrustedProxies:    getStringSliceEnv("RATE_LIMIT_TRUSTED_PROXIES", nil),
		},
		Booking: BookingConfig{
			StrictTransitions:      getBoolEnv("BOOKING_STRICT_TRANSITIONS", false),
			StatsIncludeCancelled:  getBoolEnv("STATS_INCLUDE_CANCELLED", true),
			PriceMismatchTolerance: getFloatEnv("BOOKING_PRICE_TOLERANCE", 0.01),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case DriverMemory:
		logrus.Warn("STORE_DRIVER=memory: data is not persisted")
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if !c.IsEmailConfigured() {
		logrus.Warn("Email not configured. Booking confirmations will not be sent.")
	}
	if !c.IsGoogleOAuthConfigured() {
		logrus.Warn("Google OAuth credentials not configured. Google login will not work.")
	}
	if !c.IsImageHostConfigured() {
		logrus.Warn("Cloudinary not configured. Profile picture upload will not work.")
	}
	if c.ImageSearch.AccessKey == "" {
		logrus.Warn("UNSPLASH_ACCESS_KEY not set. Image search will not work.")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsEmailConfigured checks if either email transport is usable
func (c *Config) IsEmailConfigured() bool {
	if c.Email.FromEmail == "" {
		return false
	}
	return c.Email.SendGridAPIKey != "" || (c.Email.SMTPUsername != "" && c.Email.SMTPPassword != "")
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

func (c *Config) IsImageHostConfigured() bool {
	return c.ImageHost.CloudName != "" && c.ImageHost.APIKey != "" && c.ImageHost.APISecret != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
