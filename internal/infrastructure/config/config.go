package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Model       ModelConfig       `mapstructure:"model"`
	Training    TrainingConfig    `mapstructure:"training"`
	Translation TranslationConfig `mapstructure:"translation"`
	Inference   InferenceConfig   `mapstructure:"inference"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL settings
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowQuery       time.Duration `mapstructure:"slow_query"`
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ModelConfig locates the model artifact
type ModelConfig struct {
	Path string `mapstructure:"path"`
}

// TrainingConfig holds offline training settings
type TrainingConfig struct {
	DatasetPath            string  `mapstructure:"dataset_path"`
	TestSize               float64 `mapstructure:"test_size"`
	Seed                   int64   `mapstructure:"seed"`
	Language               string  `mapstructure:"language"`
	MaxFeatures            int     `mapstructure:"max_features"`
	MinDF                  int     `mapstructure:"min_df"`
	C                      float64 `mapstructure:"c"`
	MaxIterations          int     `mapstructure:"max_iterations"`
	Tolerance              float64 `mapstructure:"tolerance"`
	Folds                  int     `mapstructure:"folds"`
	MinCalibrationExamples int     `mapstructure:"min_calibration_examples"`
	Parallelism            int     `mapstructure:"parallelism"`
}

// TranslationConfig holds translation service settings
type TranslationConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	TargetLanguage string        `mapstructure:"target_language"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// InferenceConfig holds presentation settings for predictions
type InferenceConfig struct {
	LabelAliases map[string]string `mapstructure:"label_aliases"`
}

// Load reads configuration from config.yaml in . or ./config, if present,
// then applies EMOTION_ environment overrides
func Load() (*Config, error) {
	return load("")
}

// LoadFile reads configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("EMOTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Database
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "emotion")
	v.SetDefault("database.password", "emotion")
	v.SetDefault("database.dbname", "emotion")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.slow_query", 200*time.Millisecond)

	// Redis
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	// Model
	v.SetDefault("model.path", "models/emotion.model")

	// Training
	v.SetDefault("training.dataset_path", "data/emotions.json")
	v.SetDefault("training.test_size", 0.2)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.language", "en")
	v.SetDefault("training.max_features", 50000)
	v.SetDefault("training.min_df", 1)
	v.SetDefault("training.c", 1.0)
	v.SetDefault("training.max_iterations", 1000)
	v.SetDefault("training.tolerance", 1e-3)
	v.SetDefault("training.folds", 3)
	v.SetDefault("training.min_calibration_examples", 2)
	v.SetDefault("training.parallelism", 4)

	// Translation
	v.SetDefault("translation.enabled", true)
	v.SetDefault("translation.base_url", "http://localhost:5000")
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.target_language", "en")
	v.SetDefault("translation.timeout", 5*time.Second)
	v.SetDefault("translation.max_retries", 2)
	v.SetDefault("translation.retry_backoff", 200*time.Millisecond)
	v.SetDefault("translation.cache_ttl", 24*time.Hour)

	// Inference
	v.SetDefault("inference.label_aliases", map[string]string{})
}
