package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store constants
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// User cache type constants
const (
	UserCacheTypeMemory = "memory"
	UserCacheTypeRedis  = "redis"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

const defaultSessionSecret = "session-secret-change-in-production"

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool

	// Session settings
	SessionSecret string
	SessionName   string
	SessionStore  string        // "memory" or "redis"; values never leave the server
	SessionMaxAge time.Duration // Cookie and server-side entry lifetime

	// Redis (session store and user cache)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)
	DBInitTimeout  time.Duration
	StoreTimeout   time.Duration // Per-operation deadline for store calls

	// Google OAuth
	GoogleOAuthEnabled  bool
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURL   string
	GoogleScopes        []string
	GoogleVerifyIDToken bool

	// Facebook OAuth
	FacebookOAuthEnabled bool
	FacebookAppID        string
	FacebookAppSecret    string
	FacebookRedirectURL  string
	FacebookScopes       []string

	// OAuth HTTP Client Settings
	OAuthTimeout            time.Duration
	OAuthInsecureSkipVerify bool

	// Extra gate
	SuperSecretPassword string
	SuperSecretMessage  string

	// User cache
	UserCacheType string
	UserCacheTTL  time.Duration

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string // "json" or "console"

	// Shutdown
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	baseURL := strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/")

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", getEnv("DB_STRING", "secrets.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", getEnv("DB_STRING", ""))
	}

	googleID := getEnv("GOOGLE_CLIENT_ID", getEnv("CLIENT_ID", ""))
	googleSecret := getEnv("GOOGLE_CLIENT_SECRET", getEnv("CLIENT_SECRET", ""))
	facebookID := getEnv("FACEBOOK_APP_ID", "")
	facebookSecret := getEnv("FACEBOOK_APP_SECRET", "")

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":3000"),
		BaseURL:      baseURL,
		IsProduction: getEnv("ENVIRONMENT", "development") == "production",

		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionName:   getEnv("SESSION_NAME", "secrets_session"),
		SessionStore:  getEnv("SESSION_STORE", SessionStoreMemory),
		SessionMaxAge: getEnvDuration("SESSION_MAX_AGE", 24*time.Hour),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisConnTimeout: getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 5*time.Second),

		// Google OAuth is enabled whenever credentials are present
		GoogleOAuthEnabled:  getEnvBool("GOOGLE_OAUTH_ENABLED", googleID != ""),
		GoogleClientID:      googleID,
		GoogleClientSecret:  googleSecret,
		GoogleRedirectURL:   getEnv("GOOGLE_REDIRECT_URL", baseURL+"/auth/google/secrets"),
		GoogleScopes:        getEnvSlice("GOOGLE_SCOPES", []string{"openid", "profile"}),
		GoogleVerifyIDToken: getEnvBool("GOOGLE_VERIFY_ID_TOKEN", false),

		FacebookOAuthEnabled: getEnvBool("FACEBOOK_OAUTH_ENABLED", facebookID != ""),
		FacebookAppID:        facebookID,
		FacebookAppSecret:    facebookSecret,
		FacebookRedirectURL: getEnv(
			"FACEBOOK_REDIRECT_URL",
			baseURL+"/auth/facebook/secrets",
		),
		FacebookScopes: getEnvSlice("FACEBOOK_SCOPES", []string{"public_profile"}),

		OAuthTimeout:            getEnvDuration("OAUTH_TIMEOUT", 15*time.Second),
		OAuthInsecureSkipVerify: getEnvBool("OAUTH_INSECURE_SKIP_VERIFY", false),

		SuperSecretPassword: getEnv("SUPER_SECRET_PASSWORD", ""),
		SuperSecretMessage:  getEnv("SUPER_SECRET_MESSAGE", ""),

		UserCacheType: getEnv("USER_CACHE_TYPE", UserCacheTypeMemory),
		UserCacheTTL:  getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate checks enumerated values and the settings production depends on.
func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf(
			"invalid SESSION_STORE value: %q (must be one of: memory, redis)",
			c.SessionStore,
		)
	}

	switch c.UserCacheType {
	case UserCacheTypeMemory, UserCacheTypeRedis:
	default:
		return fmt.Errorf(
			"invalid USER_CACHE_TYPE value: %q (must be one of: memory, redis)",
			c.UserCacheType,
		)
	}

	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		return fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be one of: sqlite, postgres)",
			c.DatabaseDriver,
		)
	}

	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN (or DB_STRING) is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if c.IsProduction && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be changed in production")
	}
	// MaxAge is whole seconds and 0 means delete
	if c.SessionMaxAge < time.Second {
		return fmt.Errorf("SESSION_MAX_AGE must be at least 1s, got %s", c.SessionMaxAge)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.UserCacheTTL <= 0 {
		return fmt.Errorf("USER_CACHE_TTL must be positive, got %s", c.UserCacheTTL)
	}

	return nil
}

// SessionMaxAgeSeconds returns the session lifetime in the unit cookies use.
func (c *Config) SessionMaxAgeSeconds() int {
	return int(c.SessionMaxAge / time.Second)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
