package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	FDC    FDCConfig    `yaml:"fdc" mapstructure:"fdc"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the ingredient cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite, postgres, memory
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FDCConfig holds FoodData Central API settings.
type FDCConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	MaxCandidates  int     `yaml:"max_candidates" mapstructure:"max_candidates"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// EngineConfig configures validation and portion adjustment.
type EngineConfig struct {
	TolerancePct       float64       `yaml:"tolerance_pct" mapstructure:"tolerance_pct"`
	MaxIterations      int           `yaml:"max_iterations" mapstructure:"max_iterations"`
	CacheFreshness     time.Duration `yaml:"cache_freshness" mapstructure:"cache_freshness"`
	ResolveConcurrency int           `yaml:"resolve_concurrency" mapstructure:"resolve_concurrency"`
}

// ServerConfig configures the HTTP wrapper.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NUTRITION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ingredient-cache.db")
	v.SetDefault("fdc.base_url", "https://api.nal.usda.gov/fdc/v1")
	v.SetDefault("fdc.max_candidates", 25)
	v.SetDefault("fdc.requests_per_sec", 2.0)
	v.SetDefault("engine.tolerance_pct", 0.10)
	v.SetDefault("engine.max_iterations", 5)
	v.SetDefault("engine.cache_freshness", 90*24*time.Hour)
	v.SetDefault("engine.resolve_concurrency", 8)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
