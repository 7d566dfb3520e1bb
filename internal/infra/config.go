package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	DatabaseURL         string
	JWTSecret           string
	GalleryRoot         string
	DataDir             string
	PublicBaseURL       string
	CatalogTable        string
	DerivativeTypes     []string
	DerivativeTypesFile string
	PictureExts         []string
	RowsPerPageDivisor  float64
	MaxPageRows         int
	DefaultMaxURLs      int
	Locale              string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	RateLimitPerMin     int
	OtelEnabled         bool
	OtelEndpoint        string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		GalleryRoot:         os.Getenv("GALLERY_ROOT"),
		DataDir:             getEnv("DATA_DIR", "_data"),
		PublicBaseURL:       strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		CatalogTable:        getEnv("CATALOG_TABLE", "piwigo_images"),
		DerivativeTypes:     getEnvList("DERIVATIVE_TYPES"),
		DerivativeTypesFile: os.Getenv("DERIVATIVE_TYPES_FILE"),
		PictureExts:         getEnvList("PICTURE_EXT"),
		RowsPerPageDivisor:  getEnvFloat("SCAN_ROWS_PER_PAGE_DIVISOR", 500),
		MaxPageRows:         getEnvInt("SCAN_MAX_PAGE_ROWS", 5000),
		DefaultMaxURLs:      getEnvInt("DEFAULT_MAX_URLS", 200),
		Locale:              getEnv("APP_LOCALE", "en"),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		OtelEnabled:         os.Getenv("OTEL_ENABLED") == "true",
		OtelEndpoint:        os.Getenv("OTEL_COLLECTOR_GRPC_ENDPOINT"),
	}

	if len(cfg.PictureExts) == 0 {
		cfg.PictureExts = []string{"jpg", "jpeg", "png", "gif"}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.GalleryRoot == "" {
		return nil, fmt.Errorf("GALLERY_ROOT is required")
	}

	// APP_ENV must be set explicitly to run without a secret.
	if cfg.JWTSecret == "" && !isLocalEnv(os.Getenv("APP_ENV")) {
		return nil, fmt.Errorf("JWT_SECRET is required unless APP_ENV is development or test")
	}

	if cfg.RowsPerPageDivisor <= 0 {
		return nil, fmt.Errorf("SCAN_ROWS_PER_PAGE_DIVISOR must be positive")
	}

	if cfg.MaxPageRows <= 0 {
		return nil, fmt.Errorf("SCAN_MAX_PAGE_ROWS must be positive")
	}

	if cfg.DefaultMaxURLs <= 0 {
		cfg.DefaultMaxURLs = 200
	}

	if cfg.OtelEnabled && cfg.OtelEndpoint == "" {
		return nil, fmt.Errorf("OTEL_COLLECTOR_GRPC_ENDPOINT is required when OTEL_ENABLED=true")
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}

	return cfg, nil
}

// LocalAdmin reports whether requests run as admin because no secret is set.
func (c *Config) LocalAdmin() bool {
	return c.JWTSecret == "" && isLocalEnv(c.AppEnv)
}

func isLocalEnv(env string) bool {
	return env == "development" || env == "test"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, trimming blanks.
func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
