package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Toast   ToastConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type BackendConfig struct {
	// BaseURL of the document analysis backend.
	BaseURL string
	// HealthProbeInterval between backend health checks.
	HealthProbeInterval time.Duration
}

type ToastConfig struct {
	// DefaultDuration a toast stays on screen.
	DefaultDuration time.Duration
	// HealthCheckDuration for backend health warnings.
	HealthCheckDuration time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Backend: BackendConfig{
			BaseURL:             getEnv("ANALYSIS_BACKEND_URL", "http://127.0.0.1:5000"),
			HealthProbeInterval: getEnvAsDuration("HEALTH_PROBE_INTERVAL", 60*time.Second),
		},
		Toast: ToastConfig{
			DefaultDuration:     getEnvAsDuration("TOAST_DURATION", 5*time.Second),
			HealthCheckDuration: getEnvAsDuration("TOAST_HEALTH_DURATION", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
