package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	Qdrant   QdrantConfig
	Queue    QueueConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// AIConfig holds one credential per supported vendor plus the default vendor.
type AIConfig struct {
	DefaultProvider  string
	MatchingEnabled  bool
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	GeminiAPIKey     string
	GrokAPIKey       string
	OpenAIBaseURL    string
	AnthropicBaseURL string
	GeminiBaseURL    string
	GrokBaseURL      string
}

type QdrantConfig struct {
	URL                 string
	APIKey              string
	Collection          string
	SimilarityThreshold float64
}

// Enabled reports whether the similarity index should be wired.
func (q QdrantConfig) Enabled() bool {
	return q.URL != ""
}

type QueueConfig struct {
	RabbitMQURL string
	QueueName   string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency      int
	PollInterval     time.Duration
	BatchConcurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "meritmatch"),
			SQLitePath: getEnv("SQLITE_PATH", "meritmatch.db"),
		},
		AI: AIConfig{
			DefaultProvider:  getEnv("AI_PROVIDER", "openai"),
			MatchingEnabled:  getEnvAsBool("AI_MATCHING_ENABLED", true),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
			GrokAPIKey:       getEnv("GROK_API_KEY", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
			GrokBaseURL:      getEnv("GROK_BASE_URL", ""),
		},
		Qdrant: QdrantConfig{
			URL:                 getEnv("QDRANT_URL", ""),
			APIKey:              getEnv("QDRANT_API_KEY", ""),
			Collection:          getEnv("QDRANT_COLLECTION", "meritmatch_responses"),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.95),
		},
		Queue: QueueConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
			QueueName:   getEnv("RABBITMQ_QUEUE", "grading_queue"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval:     getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
			BatchConcurrency: getEnvAsInt("BATCH_MATCH_CONCURRENCY", 8),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
