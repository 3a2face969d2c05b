package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Site     SiteConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Scraper  ScraperConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// SiteConfig holds the public identity of the site.
type SiteConfig struct {
	BaseURL        string // e.g. https://example.com, no trailing slash
	Name           string
	PlayerProxyURL string // embed player proxy; videos embed through it
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // used as-is when set
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings (admin session store).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AdminConfig holds the admin login gate settings. PasswordHash (bcrypt)
// wins over the plaintext Password when both are set.
type AdminConfig struct {
	Password          string
	PasswordHash      string
	SessionTTLMinutes int
}

// StorageConfig holds object-storage (R2) settings for thumbnails.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// CacheConfig holds per-route response cache TTLs in seconds.
type CacheConfig struct {
	HomeTTL     int
	DetailTTL   int
	SearchTTL   int
	ListingTTL  int // tag and category pages
}

// ScraperConfig holds outbound scraping settings.
type ScraperConfig struct {
	TimeoutSec int
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout: getEnvInt("WRITE_TIMEOUT_SEC", 30),
		},
		Site: SiteConfig{
			BaseURL:        getEnv("SITE_URL", "http://localhost:3000"),
			Name:           getEnv("SITE_NAME", "SebokehTub"),
			PlayerProxyURL: getEnv("PLAYER_PROXY_URL", ""),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sebokehtub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			Password:          getEnv("ADMIN_PASSWORD", ""),
			PasswordHash:      getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 60),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("R2_ENDPOINT", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("R2_BUCKET_NAME", ""),
			PublicBaseURL:   getEnv("R2_PUBLIC_URL", ""),
		},
		Cache: CacheConfig{
			HomeTTL:    getEnvInt("CACHE_HOME_TTL_SEC", 300),
			DetailTTL:  getEnvInt("CACHE_DETAIL_TTL_SEC", 3600),
			SearchTTL:  getEnvInt("CACHE_SEARCH_TTL_SEC", 600),
			ListingTTL: getEnvInt("CACHE_LISTING_TTL_SEC", 1800),
		},
		Scraper: ScraperConfig{
			TimeoutSec: getEnvInt("SCRAPE_TIMEOUT_SEC", 20),
		},
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
