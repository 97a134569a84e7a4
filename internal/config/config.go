package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"smmh/domain/core"
	"smmh/domain/stats"
	"smmh/internal/errors"
)

// EnvPrefix namespaces environment overrides, e.g. SMMH_PATHS_RAW_INPUT
const EnvPrefix = "SMMH"

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig     `mapstructure:"paths" yaml:"paths"`
	Privacy  PrivacyConfig  `mapstructure:"privacy" yaml:"privacy"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// PathConfig holds file system paths
type PathConfig struct {
	RawInput    string `mapstructure:"raw_input" yaml:"raw_input"`
	CleanOutput string `mapstructure:"clean_output" yaml:"clean_output"`
	XLSXOutput  string `mapstructure:"xlsx_output" yaml:"xlsx_output"` // empty disables the export
	ReportsDir  string `mapstructure:"reports_dir" yaml:"reports_dir"`
	Vocabulary  string `mapstructure:"vocabulary" yaml:"vocabulary"` // empty uses the embedded vocabulary
}

// PrivacyConfig holds suppression settings
type PrivacyConfig struct {
	MinCellCount int `mapstructure:"min_cell_count" yaml:"min_cell_count"`
}

// AnalysisConfig holds hypothesis testing settings
type AnalysisConfig struct {
	MinPairs int `mapstructure:"min_pairs" yaml:"min_pairs"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	GinMode         string        `mapstructure:"gin_mode" yaml:"gin_mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database connection settings; an empty URL disables persistence
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.raw_input", "data/raw/smmh.csv")
	v.SetDefault("paths.clean_output", "data/processed/smmh_clean.csv")
	v.SetDefault("paths.xlsx_output", "")
	v.SetDefault("paths.reports_dir", "reports")
	v.SetDefault("paths.vocabulary", "")
	v.SetDefault("privacy.min_cell_count", 10)
	v.SetDefault("analysis.min_pairs", stats.DefaultMinPairs)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("log.level", "INFO")
}

// LoadDotEnv loads .env style files into the process environment.
// Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "load %s", p)
		}
	}
	return nil
}

// Load reads configuration with precedence env > config file > defaults.
// Without cfgFile an optional smmh.yaml in the working directory is used.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "read config %s", cfgFile)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("smmh")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "read smmh.yaml")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.CleanOutput) == "" {
		return errors.ConfigInvalid("paths.clean_output is required")
	}
	if strings.TrimSpace(c.Paths.ReportsDir) == "" {
		return errors.ConfigInvalid("paths.reports_dir is required")
	}
	if c.Privacy.MinCellCount < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("privacy.min_cell_count must be at least 1, got %d", c.Privacy.MinCellCount))
	}
	if c.Analysis.MinPairs < 3 {
		return errors.ConfigInvalid(fmt.Sprintf("analysis.min_pairs must be at least 3, got %d", c.Analysis.MinPairs))
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return errors.ConfigInvalid(fmt.Sprintf("server.port must be a TCP port, got %q", c.Server.Port))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode))
	}
	return nil
}

// Settings are the values that change analysis output, used for run fingerprints
func (c *Config) Settings() map[string]interface{} {
	return map[string]interface{}{
		"min_cell_count": c.Privacy.MinCellCount,
		"min_pairs":      c.Analysis.MinPairs,
		"alpha":          stats.Alpha,
	}
}

// SettingsHash fingerprints Settings
func (c *Config) SettingsHash() core.Hash {
	return core.ComputeSettingsHash(c.Settings())
}
