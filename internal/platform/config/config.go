package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	AppEnv  string

	Region    string
	TableName string
	IndexName string

	// AdminToken is the shared secret for the admin-guarded routes.
	// When empty, every guarded request is rejected.
	AdminToken string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		APIPort:    getEnv("PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", ""),
		Region:     getEnv("APP_REGION", "us-east-1"),
		TableName:  getEnv("APP_TABLE_NAME", "users"),
		IndexName:  getEnv("APP_INDEX_NAME", "gs1"),
		AdminToken: getEnv("ADMIN_TOKEN", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
