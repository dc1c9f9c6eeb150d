package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string
	DBDriver     string // sqlite | postgres
	DBDSN        string
	LogFile      string
	RedisURL     string
	SessionTTL   time.Duration
	OTelExporter string // none | stdout | otlp
	OTelEndpoint string
	CORSOrigins  string
	RateLimit    int // requests per minute per IP
	SeedOnStart  bool
	BcryptCost   int
}

// Load reads envFile (if it exists), then the environment, then the optional
// file named by CONFIG_FILE. Environment variables win over the file.
func Load(envFile string) Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			log.Printf("[warn] could not read %s: %v", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "vibecommerce.db") // sqlite file in project root
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("OTEL_EXPORTER", "none")
	v.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT", 120)
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("BCRYPT_COST", 12)
	v.AutomaticEnv()

	if f := v.GetString("CONFIG_FILE"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("[warn] could not read config file %s: %v", f, err)
		}
	}

	ttl := v.GetDuration("SESSION_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	cfg := Config{
		Port:         v.GetString("PORT"),
		DBDriver:     strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:        v.GetString("DB_DSN"),
		LogFile:      v.GetString("LOG_FILE"),
		RedisURL:     v.GetString("REDIS_URL"),
		SessionTTL:   ttl,
		OTelExporter: strings.ToLower(v.GetString("OTEL_EXPORTER")),
		OTelEndpoint: v.GetString("OTEL_ENDPOINT"),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
		RateLimit:    v.GetInt("RATE_LIMIT"),
		SeedOnStart:  v.GetBool("SEED_ON_START"),
		BcryptCost:   v.GetInt("BCRYPT_COST"),
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s LOG_FILE=%s REDIS=%t OTEL_EXPORTER=%s",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.LogFile, cfg.RedisURL != "", cfg.OTelExporter)
	return cfg
}
