package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// DBUrl is a go-sql-driver DSN. Empty means run on the in-memory store.
	DBUrl     string
	Port      string
	JWTSecret string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
	}

	return Config{
		DBUrl:     os.Getenv("DB_URL"),
		Port:      port,
		JWTSecret: secret,
	}
}
