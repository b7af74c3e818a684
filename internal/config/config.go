package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "QUIZFORGE"

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Auth       AuthConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Driver string // sqlite | oracle
	DSN    string
}

type RedisConfig struct {
	Address     string // host:port or a redis:// URL
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type LLMConfig struct {
	Provider    string // gemini | openai | anthropic | openrouter | ollama
	Model       string
	APIKey      string
	ServerURL   string // ollama
	BaseURL     string // openai-compatible endpoints
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type GenerationConfig struct {
	CacheTTL             time.Duration
	DefaultDifficulty    string
	DefaultQuestionCount int
	MaxQuestionCount     int
	BatchConcurrency     int
}

type AuthConfig struct {
	JWTSecret string
}

type LoggerConfig struct {
	Level  string
	Env    string
	Output string // stdout, stderr or a file path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:quizforge.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.timeout", "90s")

	v.SetDefault("generation.cache_ttl", "0s")
	v.SetDefault("generation.default_difficulty", "intermediate")
	v.SetDefault("generation.default_question_count", 10)
	v.SetDefault("generation.max_question_count", 30)
	v.SetDefault("generation.batch_concurrency", 3)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stdout")
}

// Load reads configuration from an optional config.yaml found in paths
// (default "." and "./configs") and from QUIZFORGE_* environment variables.
// A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("db.driver")),
			DSN:    v.GetString("db.dsn"),
		},
		Redis: RedisConfig{
			Address:     v.GetString("redis.address"),
			Password:    v.GetString("redis.password"),
			DB:          v.GetInt("redis.db"),
			PoolSize:    v.GetInt("redis.pool_size"),
			DialTimeout: v.GetDuration("redis.dial_timeout"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			ServerURL:   v.GetString("llm.server_url"),
			BaseURL:     v.GetString("llm.base_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Generation: GenerationConfig{
			CacheTTL:             v.GetDuration("generation.cache_ttl"),
			DefaultDifficulty:    v.GetString("generation.default_difficulty"),
			DefaultQuestionCount: v.GetInt("generation.default_question_count"),
			MaxQuestionCount:     v.GetInt("generation.max_question_count"),
			BatchConcurrency:     v.GetInt("generation.batch_concurrency"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: logOutput(v.GetString("logger.output")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "oracle":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic", "openrouter", "ollama":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.Generation.MaxQuestionCount <= 0 {
		return fmt.Errorf("generation.max_question_count must be positive")
	}
	if c.Generation.DefaultQuestionCount <= 0 || c.Generation.DefaultQuestionCount > c.Generation.MaxQuestionCount {
		return fmt.Errorf("generation.default_question_count must be between 1 and %d", c.Generation.MaxQuestionCount)
	}
	if c.Generation.BatchConcurrency <= 0 {
		return fmt.Errorf("generation.batch_concurrency must be positive")
	}
	return nil
}

// logOutput lowercases the stdout and stderr keywords and leaves file paths
// untouched.
func logOutput(s string) string {
	s = strings.TrimSpace(s)
	if l := strings.ToLower(s); l == "stdout" || l == "stderr" {
		return l
	}
	return s
}
