package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"

	"github.com/joho/godotenv"
)

// Token transports a deployment can choose from.
const (
	TransportCookie = "cookie"
	TransportBearer = "bearer"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	AppPort     string
	AppVersion  string
	StoreDriver string
	DatabaseURL string
	DBMaxConns  int32
	AutoMigrate bool

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	// TokenTransport is either TransportCookie or TransportBearer.
	TokenTransport  string
	CookieCrossSite bool

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TaskCacheTTL  time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the environment. Missing required
// settings terminate the process.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	driver := strings.ToLower(strings.TrimSpace(getenv("STORE")))
	switch driver {
	case "":
		driver = StorePostgres
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, driver)
	}

	dbURL := getenv("DATABASE_URL")
	if dbURL == "" && driver == StorePostgres {
		return nil, errors.New("DATABASE_URL is not set")
	}

	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	port := getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	version := getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	transport := strings.ToLower(strings.TrimSpace(getenv("TOKEN_TRANSPORT")))
	switch transport {
	case "":
		transport = TransportCookie
	case TransportCookie, TransportBearer:
	default:
		return nil, fmt.Errorf("TOKEN_TRANSPORT must be %q or %q, got %q", TransportCookie, TransportBearer, transport)
	}

	jwtTTL, err := durationEnv(getenv, "JWT_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	if jwtTTL <= 0 {
		return nil, errors.New("JWT_TTL must be positive")
	}

	cacheTTL, err := durationEnv(getenv, "TASK_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	bcryptCost := 10
	if v := getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			bcryptCost = n
		}
	}

	var maxConns int32
	if v := getenv("DB_MAX_CONNS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			maxConns = int32(n)
		}
	}

	redisDB := 0
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	// comma separated; defaults to the local frontend dev server
	origins := splitList(getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	logLevel := getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:            port,
		AppVersion:         version,
		StoreDriver:        driver,
		DatabaseURL:        dbURL,
		DBMaxConns:         maxConns,
		AutoMigrate:        getenv("AUTO_MIGRATE") == "true",
		JWTSecret:          jwtSecret,
		JWTTTL:             jwtTTL,
		BcryptCost:         bcryptCost,
		TokenTransport:     transport,
		CookieCrossSite:    getenv("COOKIE_CROSS_SITE") == "true",
		CORSAllowedOrigins: origins,
		RedisAddr:          getenv("REDIS_ADDR"),
		RedisPassword:      getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		TaskCacheTTL:       cacheTTL,
		LogLevel:           logLevel,
		LogFormat:          getenv("LOG_FORMAT"),
	}, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
