package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	BaseURL     string

	// Raw uploads
	UploadDir   string
	TempDir     string
	MaxFileSize int64

	// S3 (optional; local UploadDir storage when S3Endpoint is empty)
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OCR
	OCRWorkers  int
	OCRTimeout  time.Duration
	OCRLanguage string
}

func Load() (*Config, error) {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "4000"),
		DatabaseURL:       getEnv("DATABASE_URL", "data/complicopilot.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		BaseURL:           getEnv("BASE_URL", ""),
		UploadDir:         getEnv("UPLOAD_DIR", "storage"),
		TempDir:           getEnv("TEMP_DIR", os.TempDir()),
		MaxFileSize:       getEnvInt64("MAX_FILE_SIZE", 10<<20),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		OCRWorkers:        getEnvInt("OCR_WORKERS", runtime.NumCPU()),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
	}

	timeout, err := time.ParseDuration(getEnv("OCR_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_TIMEOUT: %w", err)
	}
	cfg.OCRTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	if c.OCRWorkers < 1 {
		return fmt.Errorf("OCR_WORKERS must be at least 1, got %d", c.OCRWorkers)
	}
	if c.OCRTimeout < 0 {
		return fmt.Errorf("OCR_TIMEOUT must not be negative, got %s", c.OCRTimeout)
	}
	if c.S3Endpoint != "" && c.S3BucketName == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required when S3_ENDPOINT is set")
	}
	return nil
}

// UseS3 reports whether raw uploads go to an S3-compatible bucket.
func (c *Config) UseS3() bool {
	return c.S3Endpoint != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
