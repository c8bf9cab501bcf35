package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend BackendConfig
	Session SessionConfig
	Dev     DevConfig
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
	// ConflictToken is the locale-specific substring the backend embeds in
	// "slot occupied" error messages. Used only as a fallback when the
	// backend does not send a structured error code.
	ConflictToken string
}

type SessionConfig struct {
	Path string
}

type DevConfig struct {
	Port                string
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	JWTSecret           string
	TokenTTL            time.Duration
	AllowedOrigins      []string
	BusinessName        string
	BusinessDescription string
	ManagerEmail        string
	ManagerPassword     string
}

func Load() *Config {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		Backend: BackendConfig{
			BaseURL:       getEnv("TORBOOK_API_URL", "http://localhost:3000"),
			Timeout:       getDuration("TORBOOK_API_TIMEOUT", 10*time.Second),
			ConflictToken: getEnv("TORBOOK_CONFLICT_TOKEN", "תפוס"),
		},
		Session: SessionConfig{
			Path: getEnv("TORBOOK_SESSION_FILE", defaultSessionPath()),
		},
		Dev: DevConfig{
			Port:                getEnv("PORT", "3000"),
			ReadTimeout:         getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:        getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:         getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			JWTSecret:           getEnv("JWT_SECRET", "dev-only-secret-change-in-prod"),
			TokenTTL:            getDuration("TOKEN_TTL", 24*time.Hour),
			AllowedOrigins:      getList("CORS_ORIGINS", []string{"http://localhost:5173"}),
			BusinessName:        getEnv("BUSINESS_NAME", "העסק שלי"),
			BusinessDescription: getEnv("BUSINESS_DESCRIPTION", ""),
			ManagerEmail:        getEnv("MANAGER_EMAIL", "admin@torbook.local"),
			ManagerPassword:     getEnv("MANAGER_PASSWORD", "admin"),
		},
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".torbook-session.json"
	}
	return filepath.Join(home, ".torbook", "session.json")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
