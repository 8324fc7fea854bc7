package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	AI       AIConfig
	Pipeline PipelineConfig
	Lock     LockConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string // "sqlite" or "postgres"
	Path        string // sqlite file path
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string // "local" or "minio"
	DataRoot        string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// AIConfig holds speech-to-text and language-model backend settings (AI_*)
type AIConfig struct {
	STTBackend       string        `envconfig:"STT_BACKEND" default:"whisper" validate:"oneof=whisper assemblyai"`
	WhisperURL       string        `envconfig:"WHISPER_URL" default:"http://localhost:9000" validate:"required,url"`
	AssemblyAIAPIKey string        `envconfig:"ASSEMBLYAI_API_KEY" validate:"required_if=STTBackend assemblyai"`
	OllamaURL        string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434" validate:"required,url"`
	GroqAPIKey       string        `envconfig:"GROQ_API_KEY"`
	GroqURL          string        `envconfig:"GROQ_URL" default:"https://api.groq.com" validate:"required,url"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"120s" validate:"gt=0"`
	RetryMaxElapsed  time.Duration `envconfig:"RETRY_MAX_ELAPSED" default:"20s" validate:"gte=0"`
	MockFallback     bool          `envconfig:"MOCK_FALLBACK" default:"false"`
	CatalogFile      string        `envconfig:"PROVIDER_CATALOG_FILE"`
}

// PipelineConfig holds per-operation timeouts (PIPELINE_*). Zero disables the timeout.
type PipelineConfig struct {
	TranscribeTimeout time.Duration `envconfig:"TRANSCRIBE_TIMEOUT" default:"10m" validate:"gte=0"`
	SummarizeTimeout  time.Duration `envconfig:"SUMMARIZE_TIMEOUT" default:"5m" validate:"gte=0"`
}

// LockConfig selects the per-session exclusion backend (LOCK_*).
// Redis leases are renewed while held; TTL bounds how long a crashed holder blocks a session.
type LockConfig struct {
	Backend   string        `envconfig:"BACKEND" default:"memory" validate:"oneof=memory redis"`
	TTL       time.Duration `envconfig:"TTL" default:"30s" validate:"gte=1s"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" default:"zyquraflow:session-lock:"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", "*"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite"),
			Path:        getEnv("DB_PATH", "zyquraflow.db"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "zyquraflow"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "local"),
			DataRoot:        getEnv("DATA_ROOT", "data"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "zyquraflow"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
	}

	if err := envconfig.Process("AI", &config.AI); err != nil {
		return nil, fmt.Errorf("failed to read AI config: %w", err)
	}
	if err := envconfig.Process("PIPELINE", &config.Pipeline); err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}
	if err := envconfig.Process("LOCK", &config.Lock); err != nil {
		return nil, fmt.Errorf("failed to read lock config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.Database.Driver)
	}
	switch c.Storage.Type {
	case "local", "minio":
	default:
		return fmt.Errorf("STORAGE_TYPE must be local or minio, got %q", c.Storage.Type)
	}

	v := validator.New()
	if err := v.Struct(c.AI); err != nil {
		return fmt.Errorf("invalid AI config: %w", err)
	}
	if err := v.Struct(c.Pipeline); err != nil {
		return fmt.Errorf("invalid pipeline config: %w", err)
	}
	if err := v.Struct(c.Lock); err != nil {
		return fmt.Errorf("invalid lock config: %w", err)
	}
	if c.Lock.Backend == "redis" {
		// a renewed lease never expires on its own, so every job needs a deadline
		if c.Pipeline.TranscribeTimeout == 0 {
			return fmt.Errorf("PIPELINE_TRANSCRIBE_TIMEOUT must be set when LOCK_BACKEND=redis")
		}
		if c.Pipeline.SummarizeTimeout == 0 {
			return fmt.Errorf("PIPELINE_SUMMARIZE_TIMEOUT must be set when LOCK_BACKEND=redis")
		}
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Database.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
