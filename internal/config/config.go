package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort          = "3000"
	defaultDatabaseURL   = "careers.db"
	defaultUploadDir     = "uploads"
	defaultJWTTTL        = "24h"
	defaultOrphanGrace   = "24h"
	defaultAdminUser     = "admin"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultAdminPassword = "change-me-admin"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	UploadDir   string

	JWTSecret string
	JWTTTL    time.Duration

	AdminUser         string
	AdminPasswordHash string

	// OrphanGrace is how long an unreferenced upload may sit on disk
	// before the cleanup sweep removes it.
	OrphanGrace time.Duration
}

// Load reads the configuration from the environment, consulting a local
// .env file when present. Prod-like environments refuse default secrets.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.UploadDir = getEnv("UPLOAD_DIR", defaultUploadDir)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.AdminUser = strings.TrimSpace(getEnv("ADMIN_USER", defaultAdminUser))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.OrphanGrace, err = parseDurationEnv("ORPHAN_GRACE", defaultOrphanGrace)
	if err != nil {
		return nil, err
	}

	cfg.AdminPasswordHash, err = adminPasswordHash()
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// adminPasswordHash prefers a pre-computed bcrypt hash; a plain
// ADMIN_PASSWORD is hashed at startup for local setups.
func adminPasswordHash() (string, error) {
	if h := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")); h != "" {
		return h, nil
	}

	password := strings.TrimSpace(getEnv("ADMIN_PASSWORD", defaultAdminPassword))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.OrphanGrace <= 0 {
		return fmt.Errorf("ORPHAN_GRACE must be > 0")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if os.Getenv("ADMIN_PASSWORD_HASH") == "" && isEmptyOrDefault(os.Getenv("ADMIN_PASSWORD"), defaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
