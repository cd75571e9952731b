package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Photo storage backends.
const (
	PhotoBackendS3    = "s3"
	PhotoBackendMinio = "minio"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DatabaseURL string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	JWTSecret   string
	JWTExpiry   time.Duration // zero disables expiration
	BcryptCost  int
	HashWorkers int

	PhotoBackend  string
	BucketName    string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	MinioEndpoint string
	MinioUseSSL   bool

	AuthRateLimit float64
	LogLevel      string
	SwaggerHost   string
	ResetDB       bool
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	expiry, err := getEnvDuration("JWT_EXPIRY", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/sharebnb?charset=utf8mb4&parseTime=True&loc=UTC"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiry:     expiry,
		BcryptCost:    getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		HashWorkers:   getEnvInt("HASH_WORKERS", 4),
		PhotoBackend:  getEnv("PHOTO_BACKEND", PhotoBackendS3),
		BucketName:    getEnv("BUCKET_NAME", "sharebnb-photos"),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		MinioEndpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioUseSSL:   getEnvBool("MINIO_USE_SSL", false),
		AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 5),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		ResetDB:       getEnvBool("RESET_DB", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required configuration is present and in range.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpiry < 0 {
		return fmt.Errorf("JWT_EXPIRY must not be negative")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.HashWorkers <= 0 {
		return fmt.Errorf("HASH_WORKERS must be positive")
	}
	switch c.PhotoBackend {
	case PhotoBackendS3, PhotoBackendMinio:
	default:
		return fmt.Errorf("PHOTO_BACKEND must be %q or %q", PhotoBackendS3, PhotoBackendMinio)
	}
	if c.AuthRateLimit <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
