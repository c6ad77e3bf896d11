package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server holds the HTTP server settings, read from the environment.
type Server struct {
	Port           string
	Env            string
	StaticDir      string
	BatteryDir     string
	UploadTTL      time.Duration
	MaxUploadBytes int64
	LogLevel       string
	// MeterTimezone is the IANA zone uploaded exports are read in. Empty
	// means the process's local zone.
	MeterTimezone string
	// CORSOrigins is empty to allow any origin.
	CORSOrigins []string
}

// LoadServer reads a .env file if present, then the environment.
// Malformed values fall back to their defaults with a warning.
func LoadServer() Server {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	batteryDir := getEnv("BATTERY_DIR", filepath.Join("examples", "batteries"))
	if abs, err := filepath.Abs(batteryDir); err == nil {
		batteryDir = abs
	}

	return Server{
		Port:           getEnv("API_PORT", "8080"),
		Env:            getEnv("API_ENV", "development"),
		StaticDir:      getEnv("STATIC_DIR", ""),
		BatteryDir:     batteryDir,
		UploadTTL:      getEnvAsDuration("UPLOAD_TTL", 30*time.Minute),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 32)) << 20,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MeterTimezone:  getEnv("METER_TIMEZONE", ""),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
	}
}

// Production reports whether API_ENV is "production".
func (s Server) Production() bool {
	return s.Env == "production"
}

// MeterLocation resolves MeterTimezone.
func (s Server) MeterLocation() (*time.Location, error) {
	return (&Config{Timezone: s.MeterTimezone}).Location()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsInt(key string, fallback int) int {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", s, "default", fallback)
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", s, "default", fallback)
		return fallback
	}
	return v
}
