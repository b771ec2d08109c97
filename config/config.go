package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

const devJWTSecret = "dev-only-secret-change-me"

type Config struct {
	Port    string
	GinMode string

	DBDriver string
	DBDSN    string

	JWTSecret        []byte
	JWTIssuer        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	RevocationSweep  time.Duration
	LoginRatePerMin  int
	GlobalRatePerSec int

	ReleaseTableOnClose bool

	LogLevel  string
	LogFormat string

	AdminUsername string
	AdminPassword string

	CORSOrigin string
}

// Load membaca .env (jika ada) lalu environment variable dengan nilai default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debug(".env file not found, using process environment")
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		DBDriver:            strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:               getEnv("DB_DSN", "frontdesk.db"),
		JWTIssuer:           getEnv("JWT_ISSUER", "restaurant-frontdesk"),
		AccessTTL:           time.Duration(getEnvInt("ACCESS_TTL_MINUTES", 30)) * time.Minute,
		RefreshTTL:          time.Duration(getEnvInt("REFRESH_TTL_DAYS", 7)) * 24 * time.Hour,
		RevocationSweep:     getEnvDuration("REVOCATION_SWEEP_INTERVAL", time.Hour),
		LoginRatePerMin:     getEnvInt("LOGIN_RATE_PER_MINUTE", 5),
		GlobalRatePerSec:    getEnvInt("GLOBAL_RATE_PER_SECOND", 50),
		ReleaseTableOnClose: getEnvBool("RELEASE_TABLE_ON_CLOSE", true),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		AdminUsername:       os.Getenv("ADMIN_USERNAME"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		CORSOrigin:          getEnv("CORS_ORIGIN", "*"),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if cfg.GinMode == "release" {
			return nil, errors.New("JWT_SECRET must be set in release mode")
		}
		utils.InfoLogger.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}
	cfg.JWTSecret = []byte(secret)

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.InfoLogger.Warnf("invalid %s=%q, falling back to %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.InfoLogger.Warnf("invalid %s=%q, falling back to %t", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		utils.InfoLogger.Warnf("invalid %s=%q, falling back to %s", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
