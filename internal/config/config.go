package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GatewayURL     string
	GatewayAPIKey  string
	ChatModel      string
	DatabaseURL    string
	BlobDir        string
	HTTPPort       string
	LogLevel       string
	JWTSecret      string
	AllowedOrigins string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GatewayURL:     getEnv("GATEWAY_URL", "https://api.openai.com/v1/chat/completions"),
		GatewayAPIKey:  getEnv("GATEWAY_API_KEY", ""),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4o-mini"),
		DatabaseURL:    getEnv("DATABASE_URL", "godwithyou.db"),
		BlobDir:        getEnv("BLOB_DIR", "blobs"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	if AppConfig.GatewayAPIKey == "" {
		log.Fatal("GATEWAY_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
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
