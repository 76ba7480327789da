package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the hosted clinic backend used when no API_URL is set
const DefaultAPIURL = "https://api.clinica-bage.com.br"

// DefaultServiceName identifies the BFF in traces when OTEL_SERVICE_NAME is unset
const DefaultServiceName = "app-rx"

// Placeholder taxId strategies
const (
	PlaceholderRandom  = "random"
	PlaceholderChecked = "checked"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port               int      `json:"port"`
	Environment        string   `json:"environment"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	// Remote clinic backend
	APIURL         string        `json:"api_url"`
	BackendTimeout time.Duration `json:"backend_timeout"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Session configuration
	SessionTTL time.Duration `json:"session_ttl"`

	// Postal code lookup (ViaCEP)
	PostalLookupURL        string        `json:"postal_lookup_url"`
	PostalLookupTimeout    time.Duration `json:"postal_lookup_timeout"`
	PostalLookupMaxRetries int           `json:"postal_lookup_max_retries"`
	PostalCacheTTL         time.Duration `json:"postal_cache_ttl"`
	PostalRateLimit        int           `json:"postal_rate_limit"`

	// Profile images
	ImageBaseURL       string        `json:"image_base_url"`
	ImagePrimaryPath   string        `json:"image_primary_path"`
	ImageFallbackPaths []string      `json:"image_fallback_paths"`
	ImageProbeTimeout  time.Duration `json:"image_probe_timeout"`

	// Object storage holding profile images (optional)
	MinIOEndpoint  string `json:"minio_endpoint"`
	MinIOAccessKey string `json:"-"`
	MinIOSecretKey string `json:"-"`
	MinIOBucket    string `json:"minio_bucket"`
	MinIOUseSSL    bool   `json:"minio_use_ssl"`

	// Identity upsert
	PlaceholderEmailDomain   string `json:"placeholder_email_domain"`
	PlaceholderTaxIDStrategy string `json:"placeholder_tax_id_strategy"`

	// Tracing configuration
	TracingEnabled     bool    `json:"tracing_enabled"`
	TracingEndpoint    string  `json:"tracing_endpoint"`
	TracingSampleRatio float64 `json:"tracing_sample_ratio"`
	ServiceName        string  `json:"service_name"`
	ServiceVersion     string  `json:"service_version"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
func LoadConfig() error {
	_ = godotenv.Load()

	port, err := getEnvAsInt("PORT", 8080)
	if err != nil {
		return err
	}
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return err
	}
	backendTimeout, err := getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return err
	}
	sessionTTL, err := getEnvAsDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return err
	}
	postalTimeout, err := getEnvAsDuration("POSTAL_LOOKUP_TIMEOUT", 10*time.Second)
	if err != nil {
		return err
	}
	postalRetries, err := getEnvAsInt("POSTAL_LOOKUP_MAX_RETRIES", 2)
	if err != nil {
		return err
	}
	postalCacheTTL, err := getEnvAsDuration("POSTAL_CACHE_TTL", 7*24*time.Hour)
	if err != nil {
		return err
	}
	postalRateLimit, err := getEnvAsInt("POSTAL_RATE_LIMIT", 60)
	if err != nil {
		return err
	}
	imageProbeTimeout, err := getEnvAsDuration("IMAGE_PROBE_TIMEOUT", 5*time.Second)
	if err != nil {
		return err
	}
	minioUseSSL, err := getEnvAsBool("MINIO_USE_SSL", true)
	if err != nil {
		return err
	}
	tracingEnabled, err := getEnvAsBool("TRACING_ENABLED", false)
	if err != nil {
		return err
	}
	sampleRatio, err := getEnvAsFloat("TRACING_SAMPLE_RATIO", 1)
	if err != nil {
		return err
	}
	if sampleRatio < 0 || sampleRatio > 1 {
		return fmt.Errorf("invalid TRACING_SAMPLE_RATIO: %v (want 0 to 1)", sampleRatio)
	}

	apiURL := strings.TrimRight(firstEnv(DefaultAPIURL, "API_URL", "REACT_APP_API_URL"), "/")

	strategy := firstEnv(PlaceholderRandom, "PLACEHOLDER_TAX_ID_STRATEGY")
	if strategy != PlaceholderRandom && strategy != PlaceholderChecked {
		return fmt.Errorf("invalid PLACEHOLDER_TAX_ID_STRATEGY: %q (want %s or %s)", strategy, PlaceholderRandom, PlaceholderChecked)
	}

	AppConfig = &Config{
		// Server configuration
		Port:               port,
		Environment:        getEnvOrDefault("ENVIRONMENT", "development"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		// Remote clinic backend
		APIURL:         apiURL,
		BackendTimeout: backendTimeout,

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		SessionTTL: sessionTTL,

		// Postal code lookup
		PostalLookupURL:        strings.TrimRight(getEnvOrDefault("POSTAL_LOOKUP_URL", "https://viacep.com.br/ws"), "/"),
		PostalLookupTimeout:    postalTimeout,
		PostalLookupMaxRetries: postalRetries,
		PostalCacheTTL:         postalCacheTTL,
		PostalRateLimit:        postalRateLimit,

		// Profile images
		ImageBaseURL:     strings.TrimRight(firstEnv(apiURL, "IMAGE_BASE_URL"), "/"),
		ImagePrimaryPath: getEnvOrDefault("IMAGE_PRIMARY_PATH", "/uploads/profiles/"),
		ImageFallbackPaths: getEnvAsList("IMAGE_FALLBACK_PATHS", []string{
			"/uploads/", "/api/uploads/profiles/", "/api/files/", "/public/images/",
		}),
		ImageProbeTimeout: imageProbeTimeout,

		MinIOEndpoint:  getEnvOrDefault("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnvOrDefault("MINIO_BUCKET", "profiles"),
		MinIOUseSSL:    minioUseSSL,

		// Identity upsert
		PlaceholderEmailDomain:   getEnvOrDefault("PLACEHOLDER_EMAIL_DOMAIN", "placeholder"),
		PlaceholderTaxIDStrategy: strategy,

		// Tracing configuration
		TracingEnabled:     tracingEnabled,
		TracingEndpoint:    getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
		TracingSampleRatio: sampleRatio,
		ServiceName:        firstEnv(DefaultServiceName, "OTEL_SERVICE_NAME", "SERVICE_NAME"),
		ServiceVersion:     getEnvOrDefault("SERVICE_VERSION", "dev"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty variable among keys
func firstEnv(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// getEnvAsList splits a comma separated variable, dropping blank items
func getEnvAsList(key string, defaultValue []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
