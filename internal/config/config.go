package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr string
	//Auth / Security
	JWTSecret        string
	JWTIssuer        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	RefreshSingleUse bool
	BcryptCost       int
	HashWorkers      int
	RateLimitPerMin  int

	// Storage
	StoreDriver string
	Mongo       MongoConfig

	// Optional infrastructure; empty disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RabbitURL     string
	RabbitExch    string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

type MongoConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("ENV", "dev"),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer: getEnv("JWT_ISSUER", "credential-service"),
	}
	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	ttl, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = ttl

	rtl, err := getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = rtl

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	if cfg.AccessTokenTTL >= cfg.RefreshTokenTTL {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL (%s) must be shorter than REFRESH_TOKEN_TTL (%s)", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}

	if cfg.RefreshSingleUse, err = getBool("REFRESH_SINGLE_USE", true); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 0); err != nil {
		return nil, err
	}
	if cfg.HashWorkers, err = getInt("HASH_WORKERS", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMin, err = getInt("RATE_LIMIT_PER_MINUTE", 10); err != nil {
		return nil, err
	}

	// Storage
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", StoreMongo))
	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.Mongo = MongoConfig{
			Host:     os.Getenv("MONGO_HOST"),
			Username: os.Getenv("MONGO_USERNAME"),
			Password: os.Getenv("MONGO_PASSWORD"),
			Database: os.Getenv("MONGO_DATABASE"),
		}
		if cfg.Mongo.Port, err = getInt("MONGO_PORT", 27017); err != nil {
			return nil, err
		}
		if cfg.Mongo.Host == "" {
			return nil, fmt.Errorf("missing required env var: MONGO_HOST")
		}
		if cfg.Mongo.Database == "" {
			return nil, fmt.Errorf("missing required env var: MONGO_DATABASE")
		}
	case StoreMemory:
		if cfg.Env == "prod" {
			return nil, fmt.Errorf("STORE_DRIVER=memory is not allowed in prod")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, StoreMongo, StoreMemory)
	}

	// Optional infrastructure
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.RabbitURL = os.Getenv("RABBIT_URL")
	cfg.RabbitExch = getEnv("RABBIT_EXCHANGE", "auth.events")

	//Timeout values are optional and have a default value if not
	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}
