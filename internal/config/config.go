package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	// SessionSecret signs and authenticates the session cookie.
	SessionSecret string

	// RedisURL enables the timeline cache when set; empty disables caching.
	RedisURL string

	DefaultImageURL       string
	DefaultHeaderImageURL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		// Good enough for local runs; production deployments set their own.
		sessionSecret = "warbler-dev-secret"
		log.Println("SESSION_SECRET not set, using insecure development default")
	}

	defaultImageURL := os.Getenv("DEFAULT_IMAGE_URL")
	if defaultImageURL == "" {
		defaultImageURL = "/static/images/default-pic.png"
	}

	defaultHeaderImageURL := os.Getenv("DEFAULT_HEADER_IMAGE_URL")
	if defaultHeaderImageURL == "" {
		defaultHeaderImageURL = "/static/images/warbler-hero.jpg"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		SessionSecret: sessionSecret,

		RedisURL: os.Getenv("REDIS_URL"),

		DefaultImageURL:       defaultImageURL,
		DefaultHeaderImageURL: defaultHeaderImageURL,
	}, nil
}
