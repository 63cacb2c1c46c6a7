package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Identity    IdentityConfig    `mapstructure:"identity"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Log         LogConfig         `mapstructure:"log"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Dispatcher  DispatcherConfig  `mapstructure:"dispatcher"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IdentityConfig 外部身份提供方签发的会话 token 校验参数
type IdentityConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
	Output string `mapstructure:"output"` // stdout | 文件路径
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type SuggestionsConfig struct {
	Limit     int           `mapstructure:"limit"`
	Randomize bool          `mapstructure:"randomize"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type DispatcherConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost port=5432 user=postgres password=postgres dbname=social sslmode=disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("identity.secret", "")
	v.SetDefault("identity.issuer", "")
	v.SetDefault("identity.audience", "")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "social.follows")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "gin-social")

	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 40)

	v.SetDefault("suggestions.limit", 3)
	v.SetDefault("suggestions.randomize", true)
	v.SetDefault("suggestions.cache_ttl", "30s")

	v.SetDefault("dispatcher.workers", 4)
	v.SetDefault("dispatcher.queue_size", 10000)
}

// Load 读取 config/config.yaml（可选，CONFIG_PATH 覆盖）并叠加 APP_ 前缀的环境变量
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MinIdentitySecretLen HS256 密钥最短长度
const MinIdentitySecretLen = 32

// Validate 校验必须项
func (c *Config) Validate() error {
	if len(c.Identity.Secret) < MinIdentitySecretLen {
		return fmt.Errorf("identity.secret must be at least %d bytes (set APP_IDENTITY_SECRET)", MinIdentitySecretLen)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Suggestions.Limit <= 0 {
		return errors.New("suggestions.limit must be positive")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka enabled but brokers/topic missing")
	}
	return nil
}
