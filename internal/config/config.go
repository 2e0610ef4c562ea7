package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath      string
	PostgresDSN string
	OutputDir   string

	XanoAPIBaseURL   string
	XanoAPIToken     string
	XanoRateLimitRPS int
	XanoTimeoutMs    int

	WatchSectorIDs    []int
	WatchIntervalSec  int
	WatchAutoExport   bool
	MetricsListenAddr string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		PostgresDSN: getEnv("DATABASE_URL", ""),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		XanoAPIBaseURL:   getEnv("XANO_API_BASE_URL", ""),
		XanoAPIToken:     getEnv("XANO_API_TOKEN", ""),
		XanoRateLimitRPS: getEnvInt("XANO_RATE_LIMIT_RPS", 5),
		XanoTimeoutMs:    getEnvInt("XANO_TIMEOUT_MS", 30000),

		WatchSectorIDs:    getEnvIntList("WATCH_SECTOR_IDS"),
		WatchIntervalSec:  getEnvInt("WATCH_INTERVAL_SEC", 300),
		WatchAutoExport:   getEnvBool("WATCH_AUTO_EXPORT", false),
		MetricsListenAddr: getEnv("METRICS_LISTEN_ADDR", ":9109"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvIntList(key string) []int {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		parsed, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	return out
}
