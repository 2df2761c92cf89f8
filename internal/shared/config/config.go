package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SideEffectsOutbox = "outbox"
	SideEffectsInline = "inline"
)

type Config struct {
	App struct {
		Name     string `mapstructure:"name"`
		Env      string `mapstructure:"env"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`
	HTTP struct {
		Port         string        `mapstructure:"port"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
		CORSOrigins  []string      `mapstructure:"cors_origins"`
	} `mapstructure:"http"`
	DB struct {
		Host        string `mapstructure:"host"`
		Port        string `mapstructure:"port"`
		User        string `mapstructure:"user"`
		Password    string `mapstructure:"password"`
		Name        string `mapstructure:"name"`
		SSLMode     string `mapstructure:"sslmode"`
		MaxRetries  int    `mapstructure:"max_retries"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"db"`
	Redis struct {
		Addr       string `mapstructure:"addr"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
		MaxRetries int    `mapstructure:"max_retries"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers       []string `mapstructure:"brokers"`
		ConsumerGroup string   `mapstructure:"consumer_group"`
		MaxRetries    int      `mapstructure:"max_retries"`
	} `mapstructure:"kafka"`
	JWT struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"jwt"`
	Cache struct {
		WorkflowRulesTTL time.Duration `mapstructure:"workflow_rules_ttl"`
	} `mapstructure:"cache"`
	Outbox struct {
		PollInterval time.Duration `mapstructure:"poll_interval"`
		BatchSize    int           `mapstructure:"batch_size"`
	} `mapstructure:"outbox"`
	SideEffects struct {
		Mode string `mapstructure:"mode"`
	} `mapstructure:"side_effects"`
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Name == "" {
		return errors.New("db.host and db.name are required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	switch c.SideEffects.Mode {
	case SideEffectsOutbox, SideEffectsInline:
	default:
		return fmt.Errorf("side_effects.mode must be %q or %q", SideEffectsOutbox, SideEffectsInline)
	}
	return nil
}

// Load reads .env, then config.yaml (optional), then LEAVE_* environment variables.
// The unprefixed names used by older deployments (DB_HOST, REDIS_ADDR, ...) are still honoured.
func Load(configPaths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("LEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-leave")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("http.port", "3000")
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "go_leave")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_retries", 5)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", 5)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group", "go-leave")
	v.SetDefault("kafka.max_retries", 5)

	v.SetDefault("jwt.secret", "")

	v.SetDefault("cache.workflow_rules_ttl", 10*time.Minute)

	v.SetDefault("outbox.poll_interval", 3*time.Second)
	v.SetDefault("outbox.batch_size", 50)

	v.SetDefault("side_effects.mode", SideEffectsOutbox)
}

func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string]string{
		"db.host":       "DB_HOST",
		"db.port":       "DB_PORT",
		"db.user":       "DB_USER",
		"db.password":   "DB_PASSWORD",
		"db.name":       "DB_NAME",
		"db.sslmode":    "DB_SSLMODE",
		"redis.addr":    "REDIS_ADDR",
		"kafka.brokers": "KAFKA_BROKER",
		"jwt.secret":    "JWT_SECRET",
		"http.port":     "PORT",
	}
	for key, env := range legacy {
		envPrefixed := "LEAVE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envPrefixed, env)
	}
}
