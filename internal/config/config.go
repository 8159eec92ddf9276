// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/cohort-cli/internal/clean"
	"github.com/sells-group/cohort-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Merge  MergeConfig  `yaml:"merge" mapstructure:"merge"`
	Clean  CleanConfig  `yaml:"clean" mapstructure:"clean"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the downloaded study tables.
type DataConfig struct {
	Path           string   `yaml:"path" mapstructure:"path"`
	Modalities     []string `yaml:"modalities" mapstructure:"modalities"`
	BiospecExclude []string `yaml:"biospec_exclude" mapstructure:"biospec_exclude"`
}

// MergeConfig configures the consolidation pass.
type MergeConfig struct {
	Key           []string `yaml:"key" mapstructure:"key"`
	SubjectPrefix string   `yaml:"subject_prefix" mapstructure:"subject_prefix"`
	Tolerance     float64  `yaml:"tolerance" mapstructure:"tolerance"`
	Include       []string `yaml:"include" mapstructure:"include"`
	Exclude       []string `yaml:"exclude" mapstructure:"exclude"`
}

// CleanConfig configures the medical-history cleaning pass.
type CleanConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	UncertainValue float64 `yaml:"uncertain_value" mapstructure:"uncertain_value"`
	SchedulePath   string  `yaml:"schedule_path" mapstructure:"schedule_path"`
}

// OutputConfig configures CSV output.
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	ChunkSize int    `yaml:"chunk_size" mapstructure:"chunk_size"` // rows per chunk; 0 writes one file
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
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
	v.SetEnvPrefix("COHORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.path", "./data")
	v.SetDefault("merge.key", []string{"PATNO", "EVENT_ID"})
	v.SetDefault("merge.subject_prefix", "PPMI-")
	v.SetDefault("merge.tolerance", 1e-9)
	v.SetDefault("clean.enabled", true)
	v.SetDefault("clean.uncertain_value", clean.DefaultUncertain)
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.chunk_size", 0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "cohort.db")
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
