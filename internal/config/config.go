// Package config provides configuration management for the Whot client
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the client
type Config struct {
	API     APIConfig
	Gateway GatewayConfig
	Video   VideoConfig
	Storage StorageConfig
}

// APIConfig holds HTTP API client configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GatewayConfig holds websocket gateway configuration
type GatewayConfig struct {
	URL               string
	DialTimeout       time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	ReconnectDelayMax time.Duration
}

// VideoConfig holds video session provider configuration
type VideoConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// StorageConfig holds durable local storage configuration.
// When RedisAddr is empty the file backend is used.
type StorageConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FilePath      string
}

// Load loads configuration from environment with defaults
func Load() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: getEnv("WHOT_API_URL", "http://localhost:3000/api"),
			Timeout: 30 * time.Second,
		},
		Gateway: GatewayConfig{
			URL:               getEnv("WHOT_GATEWAY_URL", "ws://localhost:3000/ws"),
			DialTimeout:       10 * time.Second,
			ReconnectAttempts: 5,
			ReconnectDelay:    1 * time.Second,
			ReconnectDelayMax: 5 * time.Second,
		},
		Video: VideoConfig{
			APIURL:  getEnv("WHOT_VIDEO_API_URL", "https://api.daily.co/v1"),
			APIKey:  getEnv("WHOT_VIDEO_API_KEY", ""),
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			RedisAddr:     getEnv("WHOT_REDIS_ADDR", ""),
			RedisPassword: getEnv("WHOT_REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("WHOT_REDIS_DB", 0),
			FilePath:      getEnv("WHOT_STATE_FILE", ".whot-client.json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
