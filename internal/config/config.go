package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	CORSOrigin string
	// Local cache database path
	CacheDBPath string
	// Remote store selection: the KV worker URL wins when set, then
	// Postgres, then Redis.
	KVWorkerURL string
	DatabaseURL string
	RedisURL    string
	// AI rewrite worker
	AIURL     string
	AITimeout time.Duration
	// Autosave
	AutosaveInterval time.Duration
}

func Load() Config {
	return Config{
		Addr:             getenv("API_ADDR", ":8791"),
		CORSOrigin:       getenv("MDPAD_CORS_ORIGIN", "*"),
		CacheDBPath:      getenv("MDPAD_CACHE_DB", "./data/cache.db"),
		KVWorkerURL:      getenv("MDPAD_KV_URL", ""),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		RedisURL:         getenv("REDIS_URL", "redis://localhost:6379/0"),
		AIURL:            getenv("MDPAD_AI_URL", ""),
		AITimeout:        time.Duration(getenvInt("MDPAD_AI_TIMEOUT_SECONDS", 60)) * time.Second,
		AutosaveInterval: time.Duration(getenvInt("MDPAD_AUTOSAVE_SECONDS", 5)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
