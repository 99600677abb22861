package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/bot"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisAddr            string
	RedisPassword        string
	ResultCacheTTL       time.Duration
	KafkaBrokers         []string
	KafkaTopic           string
	JWTSecret            string // empty disables bearer auth on the bot API
	StatsRetentionDays   int
	CleanupInterval      time.Duration
	Bot                  bot.Config
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := append([]string{frontendURL}, GetEnvAsList("ALLOWED_ORIGINS")...)

	// Database Config
	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if dbURL != "" {
		if u, err := url.Parse(dbURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				dbURL = u.String()
			}
		}
	}

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisAddr:            GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		ResultCacheTTL:       time.Duration(GetEnvAsInt("RESULT_CACHE_TTL_SECONDS", 600)) * time.Second,
		KafkaBrokers:         GetEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:           GetEnv("KAFKA_TOPIC", "bot-moves"),
		JWTSecret:            GetEnv("JWT_SECRET", ""),
		StatsRetentionDays:   GetEnvAsInt("STATS_RETENTION_DAYS", 30),
		CleanupInterval:      time.Duration(GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 60)) * time.Minute,
		Bot: bot.Config{
			Profiles: loadProfiles(),
			TTBits:   GetEnvAsInt("BOT_TT_BITS", bot.DEFAULT_TT_BITS),
			Workers:  GetEnvAsInt("BOT_WORKERS", 1),
		},
	}

	return AppConfig
}

// loadProfiles starts from the built-in budgets and applies overrides such
// as BOT_HARD_DEPTH, BOT_HARD_NODES and BOT_HARD_TIME_MS.
func loadProfiles() bot.Profiles {
	profiles := bot.DefaultProfiles()
	for _, d := range domain.Difficulties {
		prefix := "BOT_" + strings.ToUpper(d.String()) + "_"
		p := profiles[d]
		p.MaxDepth = GetEnvAsInt(prefix+"DEPTH", p.MaxDepth)
		p.NodeBudget = GetEnvAsInt(prefix+"NODES", p.NodeBudget)
		p.TimeBudget = time.Duration(GetEnvAsInt(prefix+"TIME_MS", int(p.TimeBudget/time.Millisecond))) * time.Millisecond
		p.Tolerance = GetEnvAsInt(prefix+"TOLERANCE", p.Tolerance)
		p.Tactical = GetEnvAsBool(prefix+"TACTICAL", p.Tactical)
		profiles[d] = p
	}
	return profiles
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsList splits a comma separated value, dropping blanks.
func GetEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
