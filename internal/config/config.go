package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Used for salary stats when the user has no hourly_rate set.
	DefaultHourlyRate float64
}

func Load() *Config {
	// .env is optional; deployments use plain env vars
	_ = godotenv.Load()

	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432 // fallback
	}

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}

	timeoutSec, err := strconv.Atoi(os.Getenv("GEMINI_TIMEOUT_SEC"))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 20
	}

	rate, err := strconv.ParseFloat(os.Getenv("DEFAULT_HOURLY_RATE"), 64)
	if err != nil || rate < 0 {
		rate = 0
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "CHANGE_ME_IN_PROD"
	}

	return &Config{
		Port: httpPort,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     port,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: secret,

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   model,
		GeminiTimeout: time.Duration(timeoutSec) * time.Second,

		DefaultHourlyRate: rate,
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
