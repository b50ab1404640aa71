package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string
	DBPath     string
	ImagesDir  string

	// Per-IP throttling of the auth endpoints, as requests per minute plus
	// an initial burst.
	LoginRatePerMin    float64
	LoginBurst         int
	RegisterRatePerMin float64
	RegisterBurst      int
}

func Load() *Config {
	// .env is optional; real env vars win either way
	if err := godotenv.Load(); err == nil {
		log.Info(".env file loaded")
	}

	return &Config{
		ServerPort:         getenv("SERVER_PORT", ":3001"),
		DBPath:             getenv("DB_PATH", "./misfortune.db"),
		ImagesDir:          getenv("IMAGES_DIR", "./public/images"),
		LoginRatePerMin:    getenvFloat("LOGIN_RATE_PER_MIN", 5),
		LoginBurst:         getenvInt("LOGIN_BURST", 5),
		RegisterRatePerMin: getenvFloat("REGISTER_RATE_PER_MIN", 3),
		RegisterBurst:      getenvInt("REGISTER_BURST", 3),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warnf("Invalid value for %s, using default", key)
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warnf("Invalid value for %s, using default", key)
	}
	return fallback
}
