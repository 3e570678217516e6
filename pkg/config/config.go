package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultRedisDialTimeout = 5 * time.Second

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Retrieval  RetrievalConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	PoolSize      int
	MinIdleConns  int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// LLMConfig points at any OpenAI-compatible chat completions endpoint
// (xAI Grok, DeepSeek).
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	SearchMode  string
}

type GenerationConfig struct {
	TargetPoolSize int
	RiskLowPct     int
	RiskMediumPct  int
	RiskHighPct    int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type RetrievalConfig struct {
	PoolCacheTTL   time.Duration
	RequestTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	redisPoolSize, err := getEnvInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return nil, err
	}
	redisMinIdle, err := getEnvInt("REDIS_MIN_IDLE_CONNS", 2)
	if err != nil {
		return nil, err
	}
	redisDialTimeout, err := getEnvDuration("REDIS_DIAL_TIMEOUT", DefaultRedisDialTimeout)
	if err != nil {
		return nil, err
	}
	redisIOTimeout, err := getEnvDuration("REDIS_IO_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	llmTimeout, err := getEnvDuration("LLM_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}
	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	poolSize, err := getEnvInt("GENERATION_TARGET_POOL_SIZE", 25)
	if err != nil {
		return nil, err
	}
	lowPct, err := getEnvInt("GENERATION_RISK_LOW_PCT", 35)
	if err != nil {
		return nil, err
	}
	mediumPct, err := getEnvInt("GENERATION_RISK_MEDIUM_PCT", 50)
	if err != nil {
		return nil, err
	}
	highPct, err := getEnvInt("GENERATION_RISK_HIGH_PCT", 15)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getEnvInt("GENERATION_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	initialBackoff, err := getEnvDuration("GENERATION_INITIAL_BACKOFF", 2*time.Second)
	if err != nil {
		return nil, err
	}
	maxBackoff, err := getEnvDuration("GENERATION_MAX_BACKOFF", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvDuration("RETRIEVAL_POOL_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getEnvDuration("RETRIEVAL_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Sharp Picks API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:8081")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "sharp_picks"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisEnabled:  getEnvBool("REDIS_ENABLED", true),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			PoolSize:      redisPoolSize,
			MinIdleConns:  redisMinIdle,
			DialTimeout:   redisDialTimeout,
			ReadTimeout:   redisIOTimeout,
			WriteTimeout:  redisIOTimeout,
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.x.ai"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", "grok-3"),
			Timeout:     llmTimeout,
			Temperature: temperature,
			SearchMode:  getEnv("LLM_SEARCH_MODE", ""),
		},
		Generation: GenerationConfig{
			TargetPoolSize: poolSize,
			RiskLowPct:     lowPct,
			RiskMediumPct:  mediumPct,
			RiskHighPct:    highPct,
			MaxAttempts:    maxAttempts,
			InitialBackoff: initialBackoff,
			MaxBackoff:     maxBackoff,
		},
		Retrieval: RetrievalConfig{
			PoolCacheTTL:   cacheTTL,
			RequestTimeout: requestTimeout,
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Generation.TargetPoolSize <= 0 {
		return nil, errors.New("generation target pool size must be positive")
	}

	if cfg.Generation.RiskLowPct+cfg.Generation.RiskMediumPct+cfg.Generation.RiskHighPct != 100 {
		return nil, errors.New("generation risk percentages must sum to 100")
	}

	if cfg.Generation.MaxAttempts <= 0 {
		return nil, errors.New("generation max attempts must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
