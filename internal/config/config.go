package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AI       AIConfig
	Storage  StorageConfig
	Mail     MailConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AIConfig struct {
	Provider     string // openai, anthropic, gemini, ollama
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
	OllamaURL    string
	OllamaModel  string
	Fallback     string
	MaxRetries   int
	Strategy     string // remote, local, hybrid
}

type StorageConfig struct {
	UploadsDir   string
	DocumentsDir string
	MaxUploadMB  int64
}

type MailConfig struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	BaseURL   string
}

func Load() (*Config, error) {
	// Best-effort .env load; absence is not an error.
	_ = godotenv.Load()

	port, err := getEnvInt("SERVER_PORT", 3001)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tokenTTLHours, err := getEnvInt("AUTH_TOKEN_TTL_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL_HOURS: %w", err)
	}

	maxRetries, err := getEnvInt("AI_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_MAX_RETRIES: %w", err)
	}

	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	busyTimeoutMs, err := getEnvInt("DB_BUSY_TIMEOUT_MS", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_BUSY_TIMEOUT_MS: %w", err)
	}

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path:        getEnv("DATABASE_PATH", "storage/legastream.db"),
			BusyTimeout: time.Duration(busyTimeoutMs) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
		},
		AI: AIConfig{
			Provider:     strings.ToLower(getEnv("AI_PROVIDER", "openai")),
			OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicKey: firstEnv("ANTHROPIC_API_KEY", "CLAUDE_API_KEY"),
			GeminiKey:    getEnv("GEMINI_API_KEY", ""),
			OllamaURL:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
			OllamaModel:  getEnv("OLLAMA_MODEL", "llama2"),
			Fallback:     strings.ToLower(getEnv("AI_FALLBACK_PROVIDER", "")),
			MaxRetries:   maxRetries,
			Strategy:     strings.ToLower(getEnv("AI_STRATEGY", "hybrid")),
		},
		Storage: StorageConfig{
			UploadsDir:   getEnv("UPLOADS_DIR", "storage/uploads"),
			DocumentsDir: getEnv("DOCUMENTS_DIR", "storage/documents"),
			MaxUploadMB:  int64(maxUploadMB),
		},
		Mail: MailConfig{
			SMTPHost:  getEnv("SMTP_HOST", ""),
			SMTPPort:  smtpPort,
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@legastream.local"),
			FromName:  getEnv("SMTP_FROM_NAME", "LegaStream"),
			BaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.Path == "" {
		missing = append(missing, "DATABASE_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MaxUploadBytes is the inclusive upload size limit.
func (c *StorageConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
