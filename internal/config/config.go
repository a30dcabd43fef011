package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 数据源类型
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config 应用配置
type Config struct {
	Port         string        `yaml:"port"`
	DataSource   string        `yaml:"data_source"` // csv, sqlite
	DataPath     string        `yaml:"data_path"`   // CSV 文件路径
	DBPath       string        `yaml:"db_path"`     // SQLite 路径
	LogLevel     string        `yaml:"log_level"`
	GinMode      string        `yaml:"gin_mode"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CacheEntries int           `yaml:"cache_entries"` // 内存缓存最大条目数
	RedisURL     string        `yaml:"redis_url"`     // 为空时不使用 Redis
	RateLimit    int           `yaml:"rate_limit"`    // 每分钟每个 IP 的请求数
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Port:         ":8080",
		DataSource:   SourceCSV,
		DataPath:     "./data/train.csv",
		DBPath:       "./data/rentals.db",
		LogLevel:     "info",
		GinMode:      "release",
		CacheTTL:     5 * time.Minute,
		CacheEntries: 256,
		RateLimit:    120,
	}
}

// Load 加载配置: .env -> CONFIG_FILE (YAML) -> 环境变量, 后者覆盖前者
func Load() (*Config, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile 从 YAML 文件读取配置
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// yaml.v3 decodes durations such as "5m" directly
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv 环境变量覆盖
func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.DataSource, "DATA_SOURCE")
	setString(&c.DataPath, "DATA_PATH")
	setString(&c.DBPath, "DB_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.RedisURL, "REDIS_URL")

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = d
	}
	if err := setInt(&c.CacheEntries, "CACHE_ENTRIES"); err != nil {
		return err
	}
	return setInt(&c.RateLimit, "RATE_LIMIT")
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("invalid data source %q: must be csv or sqlite", c.DataSource)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.Port == "" {
		return fmt.Errorf("port must be set")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
