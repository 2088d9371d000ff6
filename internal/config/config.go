package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Intake   IntakeConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port                string
	BaseURL             string
	Environment         string
	LogFilePath         string
	PipelineLogFilePath string
	CorsAllowedOrigins  string
	NatsURL             string
	RedisURL            string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host         string
	Port         int
	Email        string
	Password     string
	SenderName   string
	AnalystEmail string
}

type IntakeConfig struct {
	CMSRegistryURL string
	SnapshotTopic  string
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "none"
	LLMModel      string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "3000"),
			BaseURL:             getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "app.log.csv"),
			PipelineLogFilePath: getEnv("PIPELINE_LOG_FILE_PATH", "pipeline.log.csv"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:             getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:         getEnv("SMTP_HOST", ""),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			Email:        getEnv("SMTP_EMAIL", ""),
			Password:     getEnv("SMTP_PASSWORD", ""),
			SenderName:   getEnv("SMTP_SENDER_NAME", "DealIntake"),
			AnalystEmail: getEnv("ANALYST_EMAIL", ""),
		},
		Intake: IntakeConfig{
			CMSRegistryURL: getEnv("CMS_REGISTRY_URL", "https://data.cms.gov/provider-data/api/1"),
			SnapshotTopic:  getEnv("SESSION_SNAPSHOT_TOPIC_NAME", "PERSIST_SESSION_SNAPSHOT"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "none"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
