// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backend names accepted by STORAGE_BACKEND and ADMIN_STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Cart storage names accepted by CART_STORAGE.
const (
	CartStorageMemory = "memory"
	CartStorageFile   = "file"
	CartStorageRedis  = "redis"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Storage     StorageConfig
	Mongo       MongoConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cart        CartConfig
	Admin       AdminConfig
	AWS         AWSConfig
	Email       EmailConfig
	Catalog     CatalogConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	RateLimit   RateLimitConfig
}

// RateLimitConfig holds per-IP request budgets, in requests per minute.
type RateLimitConfig struct {
	Enabled bool
	General int
	Login   int
	Upload  int
}

type FrontendConfig struct {
	BaseURL        string
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type StorageConfig struct {
	// Backend serves the public storefront routes.
	Backend string
	// AdminBackend serves the /api/admin routes. Empty means "same as Backend".
	AdminBackend string
	DataDir      string
	OrdersDir    string
	UploadsDir   string
	UploadsURL   string
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CartConfig struct {
	Storage string
	Dir     string
	TTL     int // in hours
}

type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     int // in hours
	CookieName   string
	SecureCookie bool
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	OrdersEmail  string
}

type CatalogConfig struct {
	Locale string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Storage: StorageConfig{
			Backend:      strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
			AdminBackend: strings.ToLower(getEnv("ADMIN_STORAGE_BACKEND", "")),
			DataDir:      getEnv("DATA_DIR", "./data"),
			OrdersDir:    getEnv("ORDERS_DIR", "./data/orders"),
			UploadsDir:   getEnv("UPLOADS_DIR", "./public/uploads"),
			UploadsURL:   getEnv("UPLOADS_URL", "/uploads"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "furniture"),
			ConnectTimeout: getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "furniture"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cart: CartConfig{
			Storage: strings.ToLower(getEnv("CART_STORAGE", CartStorageMemory)),
			Dir:     getEnv("CART_DIR", "./data/carts"),
			TTL:     getEnvAsInt("CART_TTL", 24*30), // 30 days
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("ADMIN_JWT_SECRET", defaultJWTSecret),
			TokenTTL:     getEnvAsInt("ADMIN_TOKEN_TTL", 24),
			CookieName:   getEnv("ADMIN_COOKIE_NAME", "admin_token"),
			SecureCookie: getEnvAsBool("ADMIN_SECURE_COOKIE", false),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@furniture.local"),
			FromName:     getEnv("FROM_NAME", "Furniture Store"),
			OrdersEmail:  getEnv("ORDERS_EMAIL", ""),
		},
		Catalog: CatalogConfig{
			Locale: getEnv("CATALOG_LOCALE", "ru"),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			BaseURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			General: getEnvAsInt("RATE_LIMIT_GENERAL", 600),
			Login:   getEnvAsInt("RATE_LIMIT_LOGIN", 10),
			Upload:  getEnvAsInt("RATE_LIMIT_UPLOAD", 30),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	for _, backend := range []string{c.Storage.Backend, c.AdminStorageBackend()} {
		switch backend {
		case BackendFile, BackendMongo, BackendPostgres:
		default:
			return fmt.Errorf("unknown storage backend %q", backend)
		}
	}

	switch c.Cart.Storage {
	case CartStorageMemory, CartStorageFile, CartStorageRedis:
	default:
		return fmt.Errorf("unknown cart storage %q", c.Cart.Storage)
	}

	if c.RateLimit.Enabled && (c.RateLimit.General <= 0 || c.RateLimit.Login <= 0 || c.RateLimit.Upload <= 0) {
		return fmt.Errorf("rate limits must be positive")
	}

	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	if c.Admin.JWTSecret == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("admin JWT secret must be changed in production")
	}

	if c.UsesBackend(BackendPostgres) && c.Database.Password == "" && c.IsProduction() {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// AdminStorageBackend returns the backend serving admin routes.
func (c *Config) AdminStorageBackend() string {
	if c.Storage.AdminBackend == "" {
		return c.Storage.Backend
	}
	return c.Storage.AdminBackend
}

// UsesBackend reports whether either route group is served by backend.
func (c *Config) UsesBackend(backend string) bool {
	return c.Storage.Backend == backend || c.AdminStorageBackend() == backend
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
