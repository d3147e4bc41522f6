package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Todoist      TodoistConfig
	Conversation ConversationConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	APIToken           string // bearer token protecting /api routes
}

type DatabaseConfig struct {
	Connection string
}

type TodoistConfig struct {
	APIToken       string
	BaseURL        string
	TimeoutSeconds int
}

type ConversationConfig struct {
	TimeoutSeconds  int
	MaxRetries      int
	MaxMatchResults int
	DefaultPriority int
	DefaultLabels   []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			APIToken:           getEnv("API_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Todoist: TodoistConfig{
			APIToken:       getEnv("TODOIST_API_TOKEN", ""),
			BaseURL:        getEnv("TODOIST_BASE_URL", "https://api.todoist.com/rest/v2"),
			TimeoutSeconds: getEnvAsInt("TODOIST_TIMEOUT_SECONDS", 30),
		},
		Conversation: ConversationConfig{
			TimeoutSeconds:  getEnvAsInt("CONVERSATION_TIMEOUT_SECONDS", 300),
			MaxRetries:      getEnvAsInt("CONVERSATION_MAX_RETRIES", 5),
			MaxMatchResults: getEnvAsInt("CONVERSATION_MAX_MATCH_RESULTS", 5),
			DefaultPriority: getEnvAsInt("CONVERSATION_DEFAULT_PRIORITY", 4),
			DefaultLabels:   getEnvAsList("CONVERSATION_DEFAULT_LABELS", "voice,ha"),
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

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
