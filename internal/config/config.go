package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	Timezone  string // IANA name used for time-slot bucketing

	// Fixed fallback coordinate (People's Square, Shanghai)
	DefaultLatitude  float64
	DefaultLongitude float64

	// Position resolver
	VendorBaseURL   string
	VendorAPIKey    string
	PositionTimeout time.Duration // per fallback stage
	ReportTTL       time.Duration // freshness window for browser reports

	// Location buffer
	BufferCapacity int
	BatchFlush     bool
	FlushInterval  time.Duration

	// Advice chat
	AdviceBaseURL string
	AdviceAPIKey  string
	AdviceModel   string

	// Emergency alert webhook
	AlertWebhookURL string
}

// Load reads configuration from the environment, applying defaults
func Load() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/cityrun.db"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Timezone:         getEnv("TIMEZONE", "Asia/Shanghai"),
		DefaultLatitude:  getEnvFloat("DEFAULT_LATITUDE", 31.2304),
		DefaultLongitude: getEnvFloat("DEFAULT_LONGITUDE", 121.4737),
		VendorBaseURL:    getEnv("VENDOR_MAPS_BASE_URL", ""),
		VendorAPIKey:     getEnv("VENDOR_MAPS_API_KEY", ""),
		PositionTimeout:  getEnvDuration("POSITION_TIMEOUT", 5*time.Second),
		ReportTTL:        getEnvDuration("REPORT_TTL", 2*time.Minute),
		BufferCapacity:   getEnvInt("BUFFER_CAPACITY", 100),
		BatchFlush:       getEnvBool("BATCH_FLUSH", true),
		FlushInterval:    getEnvDuration("FLUSH_INTERVAL", 30*time.Second),
		AdviceBaseURL:    getEnv("ADVICE_BASE_URL", ""),
		AdviceAPIKey:     getEnv("ADVICE_API_KEY", ""),
		AdviceModel:      getEnv("ADVICE_MODEL", "gpt-4o-mini"),
		AlertWebhookURL:  getEnv("ALERT_WEBHOOK_URL", ""),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
