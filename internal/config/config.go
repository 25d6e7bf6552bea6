package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend kinds for the analytics key-value store.
const (
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port           string
	Environment    string   // ENV: production, development, etc.
	AdminToken     string   // Shared bearer secret for /api/admin/*
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	// At most one of these selects the backend; none means in-memory.
	RedisURI    string
	MongoURI    string
	PostgresURI string

	GeoIPDBPath string // GeoLite2-City.mmdb; empty disables geolocation
	IPHashKey   string // keyed hashing of visitor IPs; empty masks them instead
	TrustProxy  bool   // read client IP from X-Forwarded-For

	TrackQueueSize int
	TrackWorkers   int

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		AdminToken:          getEnv("ADMIN_TOKEN", getEnv("ADMIN_SECRET", "")),
		AllowedOrigins:      allowedOrigins,
		RedisURI:            getEnv("REDIS_URI", getEnv("KV_URL", "")),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		GeoIPDBPath:         getEnv("GEOIP_DB_PATH", ""),
		IPHashKey:           getEnv("IP_HASH_KEY", ""),
		TrustProxy:          getEnvBool("TRUST_PROXY", false),
		TrackQueueSize:      getEnvInt("TRACK_QUEUE_SIZE", 256),
		TrackWorkers:        getEnvInt("TRACK_WORKERS", 2),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

// Backend returns which key-value backend the configuration selects.
func (c *Config) Backend() string {
	switch {
	case c.RedisURI != "":
		return BackendRedis
	case c.MongoURI != "":
		return BackendMongo
	case c.PostgresURI != "":
		return BackendPostgres
	default:
		return BackendMemory
	}
}

// ArchiveEnabled is true when Cloudinary credentials are complete.
func (c *Config) ArchiveEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Validate checks settings that would otherwise fail at request time.
func (c *Config) Validate() error {
	var errs []error

	set := 0
	for _, uri := range []string{c.RedisURI, c.MongoURI, c.PostgresURI} {
		if uri != "" {
			set++
		}
	}
	if set > 1 {
		errs = append(errs, errors.New("only one of REDIS_URI, MONGODB_URI, POSTGRES_URI may be set"))
	}

	if c.IsProduction() {
		if c.AdminToken == "" {
			errs = append(errs, errors.New("ADMIN_TOKEN is required in production"))
		}
		if set == 0 {
			errs = append(errs, errors.New("a key-value backend is required in production"))
		}
	}

	if c.TrackQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("TRACK_QUEUE_SIZE must be positive, got %d", c.TrackQueueSize))
	}
	if c.TrackWorkers <= 0 {
		errs = append(errs, fmt.Errorf("TRACK_WORKERS must be positive, got %d", c.TrackWorkers))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return b
}
