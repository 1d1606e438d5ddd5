package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	DBPath      string
	HTTPAddr    string
	LogLevel    string

	Gemini   GeminiConfig
	Resolver ResolverConfig
	Scraper  ScraperConfig
	Refresh  RefreshConfig

	GazetteerPath string
	BlacklistPath string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ResolverConfig struct {
	// MinQueryLen rejects inquiries shorter than this before extraction.
	MinQueryLen int
	// InventoryLimit caps internal matches returned per request.
	InventoryLimit int
	// PriceTolerance widens the max-price filter (1.10 = +10%).
	PriceTolerance float64
}

type ScraperConfig struct {
	// Cap limits listings kept per portal adapter.
	Cap int
	// Timeout bounds each adapter's fetch so a hanging portal cannot stall
	// the response.
	Timeout  time.Duration
	ProxyURL string
}

type RefreshConfig struct {
	Cron     string
	Interval time.Duration
	Batch    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      getEnv("DB_PATH", "propscout.db"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Resolver: ResolverConfig{
			MinQueryLen:    getEnvInt("MIN_QUERY_LEN", 10),
			InventoryLimit: getEnvInt("INVENTORY_LIMIT", 5),
			PriceTolerance: getEnvFloat("PRICE_TOLERANCE", 1.10),
		},
		Scraper: ScraperConfig{
			Cap:      getEnvInt("SCRAPER_CAP", 6),
			Timeout:  time.Duration(getEnvInt("SCRAPE_TIMEOUT", 12)) * time.Second,
			ProxyURL: os.Getenv("SCRAPE_PROXY_URL"),
		},
		Refresh: RefreshConfig{
			Cron:  os.Getenv("REFRESH_CRON"),
			Batch: getEnvInt("REFRESH_BATCH", 10),
		},
		GazetteerPath: getEnv("GAZETTEER_PATH", "config/gazetteer.yaml"),
		BlacklistPath: getEnv("BLACKLIST_PATH", "config/blacklist.yaml"),
	}

	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Refresh.Interval = d
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
