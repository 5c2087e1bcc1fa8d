package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "TUTOR"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tutor    TutorConfig    `mapstructure:"tutor"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     int    `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	// AdminIDs may upload seed files. Empty means everyone may.
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	File      string `mapstructure:"file"`
	GormLevel string `mapstructure:"gorm_level"`
}

type TutorConfig struct {
	UnlearnedBatch      int           `mapstructure:"unlearned_batch"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold"`
	SimilarityTimeout   time.Duration `mapstructure:"similarity_timeout"`
	HintCount           int           `mapstructure:"hint_count"`
	SessionIdleTimeout  time.Duration `mapstructure:"session_idle_timeout"`
}

type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	EmbedModel string        `mapstructure:"embed_model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// Enabled reports whether the LLM collaborators can be constructed.
func (c OpenAIConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Load reads the JSON config file at filename (optional when empty), a .env
// file in the working directory if one exists, and TUTOR_* environment
// overrides such as TUTOR_TELEGRAM_TOKEN or TUTOR_OPENAI_API_KEY.
func Load(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/tutor.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	// Bound so that AutomaticEnv can override keys absent from the file.
	v.SetDefault("telegram.token", "")
	v.SetDefault("openai.api_key", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.gorm_level", "warn")

	v.SetDefault("tutor.unlearned_batch", 3)
	v.SetDefault("tutor.similarity_threshold", 0.8)
	v.SetDefault("tutor.similarity_timeout", "5s")
	v.SetDefault("tutor.hint_count", 2)
	v.SetDefault("tutor.session_idle_timeout", "15m")

	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embed_model", "text-embedding-3-small")
	v.SetDefault("openai.timeout", "60s")
	v.SetDefault("openai.max_retries", 2)
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.DBName) == "" {
			return errors.New("database.host and database.dbname are required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Tutor.UnlearnedBatch <= 0 {
		return fmt.Errorf("tutor.unlearned_batch must be positive, got %d", c.Tutor.UnlearnedBatch)
	}
	if c.Tutor.SimilarityThreshold <= 0 || c.Tutor.SimilarityThreshold > 1 {
		return fmt.Errorf("tutor.similarity_threshold must be within (0,1], got %v", c.Tutor.SimilarityThreshold)
	}
	return nil
}
