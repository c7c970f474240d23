package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/eaglebank/loan-service/shared/middleware"
)

const defaultAllowedOrigins = "http://localhost:5173,https://numida-fse.vercel.app"

// Config holds everything the serve command needs. Values come from the
// environment and can be overridden by flags.
type Config struct {
	Port           string   `json:"port" validate:"required,numeric"`
	GinMode        string   `json:"ginMode" validate:"oneof=debug release test"`
	AllowedOrigins []string `json:"allowedOrigins" validate:"min=1,dive,url"`
	RedisAddr      string   `json:"redisAddr" validate:"omitempty,hostname_port"`
	RedisPassword  string   `json:"-"`
	RedisDB        int      `json:"redisDb" validate:"gte=0"`
	FixturesPath   string   `json:"fixturesPath"`
	Seed           bool     `json:"seed"`
}

func LoadConfig() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		FixturesPath:   getEnv("FIXTURES_PATH", ""),
		Seed:           getEnvBool("SEED", true),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if errs := middleware.ValidateRequest(c); len(errs) > 0 {
		return fmt.Errorf("invalid config: %s: %s", errs[0].Field, errs[0].Message)
	}
	return nil
}

func (c Config) EventsEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: not an integer", key, value)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: not a boolean", key, value)
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
