// Package config reads server and learning settings from the environment.
// Call godotenv.Load before FromEnv to pick up a local .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
)

// Policy store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	PolicyStore     string
	PolicyFile      string
	PolicyBadgerDir string
	PolicyKey       string
	RedisAddr       string

	Policy policy.Config
	Seed   int64 // 0 means seed from the clock

	WordMinLen  int
	WordMaxLen  int
	LexiconFile string
	DailySalt   string

	JWTSecret     string
	TokenDays     int
	ClientOrigin  string
	SecureCookies bool // NODE_ENV=production
}

// FromEnv builds a Config from environment variables, applying defaults and
// validating the learning parameters.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "5175"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBPath:          getEnv("DB_PATH", "./data/wordpuzzle.db"),
		PolicyStore:     getEnv("POLICY_STORE", StoreFile),
		PolicyFile:      getEnv("POLICY_FILE", "q_table.json"),
		PolicyBadgerDir: getEnv("POLICY_BADGER_DIR", "./data/policy"),
		PolicyKey:       getEnv("POLICY_KEY", "default"),
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		LexiconFile:     os.Getenv("LEXICON_FILE"),
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:       getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SecureCookies:   os.Getenv("NODE_ENV") == "production",
		Policy:          policy.DefaultConfig(),
	}

	var err error
	if cfg.Policy.Alpha, err = envFloat("RL_ALPHA", cfg.Policy.Alpha); err != nil {
		return nil, err
	}
	if cfg.Policy.Gamma, err = envFloat("RL_GAMMA", cfg.Policy.Gamma); err != nil {
		return nil, err
	}
	if cfg.Policy.Epsilon, err = envFloat("RL_EPSILON", cfg.Policy.Epsilon); err != nil {
		return nil, err
	}
	if cfg.Policy.MaxAttemptBucket, err = envInt("RL_MAX_ATTEMPT_BUCKET", 0); err != nil {
		return nil, err
	}
	if cfg.TokenDays, err = envInt("JWT_EXPIRES_DAYS", 14); err != nil {
		return nil, err
	}
	if cfg.WordMinLen, err = envInt("WORD_MIN_LEN", lexicon.DefaultMinLen); err != nil {
		return nil, err
	}
	if cfg.WordMaxLen, err = envInt("WORD_MAX_LEN", lexicon.DefaultMaxLen); err != nil {
		return nil, err
	}
	if v := os.Getenv("RL_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid RL_SEED value: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	switch c.PolicyStore {
	case StoreFile, StoreSQLite, StoreBadger, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown POLICY_STORE %q", c.PolicyStore)
	}
	if c.TokenDays < 1 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.TokenDays)
	}
	if c.WordMinLen < 1 || c.WordMaxLen < c.WordMinLen {
		return fmt.Errorf("word length bounds [%d, %d] are invalid", c.WordMinLen, c.WordMaxLen)
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", k, err)
	}
	return f, nil
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", k, err)
	}
	return n, nil
}
