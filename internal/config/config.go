// Package config loads application configuration from file and
// environment and wires the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tileit-labs/quote-cli/internal/pricing"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig     `yaml:"store" mapstructure:"store"`
	Server  ServerConfig    `yaml:"server" mapstructure:"server"`
	Batch   BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig       `yaml:"log" mapstructure:"log"`
	Profile pricing.Profile `yaml:"profile" mapstructure:"profile"`
}

// StoreConfig configures the quote persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`             // "sqlite" or "postgres"
	Path        string `yaml:"path" mapstructure:"path"`                 // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // postgres DSN
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BatchConfig configures batch quoting.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and QUOTE_*
// environment variables, layered over defaults. The default profile
// carries the stock rate tables so a bare install can quote immediately.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "quotes.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.workers", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	def := pricing.DefaultProfile()
	v.SetDefault("profile.labor_rate", def.LaborRate)
	v.SetDefault("profile.daily_productivity", def.DailyProductivity)
	v.SetDefault("profile.base_crew_size", def.BaseCrewSize)
	v.SetDefault("profile.crew_scaling_rule", string(def.CrewScalingRule))
	v.SetDefault("profile.slope_cost_adjustment.flat_low", def.SlopeAdjustments.FlatLow)
	v.SetDefault("profile.slope_cost_adjustment.moderate", def.SlopeAdjustments.Moderate)
	v.SetDefault("profile.slope_cost_adjustment.steep", def.SlopeAdjustments.Steep)
	v.SetDefault("profile.slope_cost_adjustment.very_steep", def.SlopeAdjustments.VerySteep)
	v.SetDefault("profile.material_costs", def.MaterialCosts)
	v.SetDefault("profile.replacement_costs", def.ReplacementCosts)
	v.SetDefault("profile.overhead_percent", def.OverheadPercent)
	v.SetDefault("profile.profit_margin", def.ProfitMargin)

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
