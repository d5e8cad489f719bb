package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Sales    SalesConfig
}

type ServerConfig struct {
	AppEnv  string
	Port    string
	AppName string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type JWTConfig struct {
	Secret   string
	TTL      time.Duration
	Issuer   string
	AdminPwd string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SalesConfig struct {
	// RejectOversell turns on the stock pre-check; by default stock may go negative.
	RejectOversell bool
	// DayLocation is the timezone used to round report date ranges to whole days.
	DayLocation string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:  getEnv("APP_ENV", "development"),
			Port:    getEnv("PORT", "3000"),
			AppName: getEnv("APP_NAME", "POS Core v1.0"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "pos"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 3600)) * time.Second,
			SlowThreshold:   time.Duration(getEnvInt("DB_SLOW_THRESHOLD_MS", 1000)) * time.Millisecond,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			TTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
			Issuer:   getEnv("JWT_ISSUER", "go-pos-core"),
			AdminPwd: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "pos.events"),
		},
		Sales: SalesConfig{
			RejectOversell: getEnvBool("SALES_REJECT_OVERSELL", false),
			DayLocation:    getEnv("SALES_DAY_LOCATION", "UTC"),
		},
	}
}

// DSN prefers DATABASE_URL and falls back to the individual DB_* settings.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

func (c ServerConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Location resolves DayLocation, falling back to UTC when tzdata is missing.
func (c SalesConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.DayLocation)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
