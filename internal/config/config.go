// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	SmartQuote SmartQuoteConfig `yaml:"smart_quote" mapstructure:"smart_quote"`
	App        AppConfig        `yaml:"app" mapstructure:"app"`
	Mappings   MappingsConfig   `yaml:"mappings" mapstructure:"mappings"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the output database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RiskWeights weight the task risk-score components.
type RiskWeights struct {
	OverrunRate  float64 `yaml:"overrun_rate" mapstructure:"overrun_rate"`
	Volatility   float64 `yaml:"volatility" mapstructure:"volatility"`
	UnquotedRate float64 `yaml:"unquoted_rate" mapstructure:"unquoted_rate"`
}

// SmartQuoteConfig configures the quote-intelligence computations.
type SmartQuoteConfig struct {
	CoverageTarget float64     `yaml:"coverage_target" mapstructure:"coverage_target"`
	RiskWeights    RiskWeights `yaml:"risk_weights" mapstructure:"risk_weights"`
	TargetMargin   float64     `yaml:"target_margin" mapstructure:"target_margin"`
}

// AppConfig holds presentation-facing defaults.
type AppConfig struct {
	DefaultFY string `yaml:"default_fy" mapstructure:"default_fy"`
}

// MappingsConfig points at optional raw -> canonical key mapping files.
type MappingsConfig struct {
	TaskNamePath   string `yaml:"task_name_path" mapstructure:"task_name_path"`
	DepartmentPath string `yaml:"department_path" mapstructure:"department_path"`
}

// ServerConfig configures the read-only API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. Every key has a
// default; absence of configuration changes no semantics.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("JOBCOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "data/jobcost.db")
	v.SetDefault("smart_quote.coverage_target", 0.8)
	v.SetDefault("smart_quote.risk_weights.overrun_rate", 0.4)
	v.SetDefault("smart_quote.risk_weights.volatility", 0.4)
	v.SetDefault("smart_quote.risk_weights.unquoted_rate", 0.2)
	v.SetDefault("smart_quote.target_margin", 0.3)
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
