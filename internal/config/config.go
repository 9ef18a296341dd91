package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreStatic = "static"
)

// Config holds server configuration
type Config struct {
	Env          string        `yaml:"env"`
	HTTPPort     string        `yaml:"httpPort"`
	MongoURI     string        `yaml:"mongoUri"`
	MongoDB      string        `yaml:"mongoDb"`
	RedisAddr    string        `yaml:"redisAddr"`
	SessionStore string        `yaml:"sessionStore"` // redis or memory
	CatalogStore string        `yaml:"catalogStore"` // mongo or static
	SessionTTL   time.Duration `yaml:"sessionTtl"`
	JWTSecret    string        `yaml:"-"` // env only
	CORSOrigins  string        `yaml:"corsOrigins"`
	CORSMethods  string        `yaml:"corsMethods"`
	CORSHeaders  string        `yaml:"corsHeaders"`
}

// Load reads defaults, then the optional YAML file named by
// GRADPATH_CONFIG, then environment overrides
func Load() (*Config, error) {
	cfg := &Config{
		Env:          "prod",
		HTTPPort:     "8080",
		MongoURI:     "mongodb://localhost:27017",
		MongoDB:      "gradpath",
		RedisAddr:    "localhost:6379",
		SessionStore: StoreRedis,
		CatalogStore: StoreStatic,
		SessionTTL:   24 * time.Hour,
		JWTSecret:    "change-me-in-production",
		CORSOrigins:  "*",
		CORSMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		CORSHeaders:  "Content-Type, Authorization",
	}

	if path := os.Getenv("GRADPATH_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Env = getEnvOrDefault("GRADPATH_ENV", cfg.Env)
	cfg.HTTPPort = getEnvOrDefault("PORT", cfg.HTTPPort)
	cfg.MongoURI = getEnvOrDefault("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = getEnvOrDefault("MONGO_DB", cfg.MongoDB)
	cfg.RedisAddr = strings.TrimPrefix(getEnvOrDefault("REDIS_URI", cfg.RedisAddr), "redis://")
	cfg.SessionStore = getEnvOrDefault("SESSION_STORE", cfg.SessionStore)
	cfg.CatalogStore = getEnvOrDefault("CATALOG_STORE", cfg.CatalogStore)
	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.CORSOrigins = getEnvOrDefault("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.CORSMethods = getEnvOrDefault("CORS_ALLOWED_METHODS", cfg.CORSMethods)
	cfg.CORSHeaders = getEnvOrDefault("CORS_ALLOWED_HEADERS", cfg.CORSHeaders)
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev reports whether development logging and defaults apply
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) validate() error {
	switch c.SessionStore {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	switch c.CatalogStore {
	case StoreMongo, StoreStatic:
	default:
		return fmt.Errorf("unknown catalog store %q", c.CatalogStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultValue
}
