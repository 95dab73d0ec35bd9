package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	LogLevel           string
	RequestTimeout     time.Duration
	FetchTimeout       time.Duration
	MaxRequestBodySize int64
	MaxFramePixels     int64

	// Filter settings
	VignetteIntensity float64
	SeparableBorder   string
	Workers           int

	// MaxConcurrentTransforms bounds the worker pool queue feeding the filters
	MaxConcurrentTransforms int

	// Storage backend for URL based transforms: "http", "azure" or "local"
	StorageType     string
	LocalStorageDir string
	AzureAccount    string
	AzureKey        string
	AzureContainer  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                    getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                    getEnvOrDefault("PORT", "8080"),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", "info"),
		RequestTimeout:          parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		FetchTimeout:            parseDurationOrDefault("FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize:      parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB
		MaxFramePixels:          parseIntOrDefault("MAX_FRAME_PIXELS", 4096*4096),
		VignetteIntensity:       parseFloatOrDefault("VIGNETTE_INTENSITY", 0.5),
		SeparableBorder:         getEnvOrDefault("SEPARABLE_BORDER", "zero"),
		Workers:                 int(parseIntOrDefault("WORKERS", 0)),
		MaxConcurrentTransforms: int(parseIntOrDefault("MAX_CONCURRENT_TRANSFORMS", 4)),
		StorageType:             strings.ToLower(getEnvOrDefault("STORAGE_TYPE", "http")),
		LocalStorageDir:         getEnvOrDefault("LOCAL_STORAGE_DIR", "./frames"),
		AzureAccount:            os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:                os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:          getEnvOrDefault("AZURE_CONTAINER", "frames"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend specific settings
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.MaxFramePixels <= 0 {
		return fmt.Errorf("MAX_FRAME_PIXELS must be > 0 (got %d)", c.MaxFramePixels)
	}
	if c.RequestTimeout <= 0 || c.FetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)", c.RequestTimeout, c.FetchTimeout)
	}
	if !(c.VignetteIntensity > 0) {
		return fmt.Errorf("VIGNETTE_INTENSITY must be > 0 (got %v)", c.VignetteIntensity)
	}
	if c.SeparableBorder != "zero" && c.SeparableBorder != "copy" {
		return fmt.Errorf("SEPARABLE_BORDER must be zero or copy (got %q)", c.SeparableBorder)
	}
	if c.Workers < 0 {
		return fmt.Errorf("WORKERS must be >= 0 (got %d)", c.Workers)
	}
	if c.MaxConcurrentTransforms <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_TRANSFORMS must be > 0 (got %d)", c.MaxConcurrentTransforms)
	}

	switch c.StorageType {
	case "http":
	case "local":
		if strings.TrimSpace(c.LocalStorageDir) == "" {
			return fmt.Errorf("LOCAL_STORAGE_DIR is required for local storage")
		}
	case "azure":
		if c.AzureAccount == "" || c.AzureKey == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required for azure storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %q", c.StorageType)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
