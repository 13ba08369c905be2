package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment variable overrides, e.g. PROXYME_LOGGING_LEVEL
const EnvPrefix = "PROXYME"

// Config represents the proxyme configuration
type Config struct {
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SynthesisConfig represents synthesis engine configuration
type SynthesisConfig struct {
	NameSeparator     string `mapstructure:"name_separator"`
	GetterPrefix      string `mapstructure:"getter_prefix"`
	SetterPrefix      string `mapstructure:"setter_prefix"`
	LenientConversion bool   `mapstructure:"lenient_conversion"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Synthesis: SynthesisConfig{
			NameSeparator: "`",
			GetterPrefix:  "Get",
			SetterPrefix:  "Set",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads the configuration from path, or from proxyme.yml / proxyme.yaml
// in the working directory when path is empty
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	def := Default()
	v.SetDefault("synthesis.name_separator", def.Synthesis.NameSeparator)
	v.SetDefault("synthesis.getter_prefix", def.Synthesis.GetterPrefix)
	v.SetDefault("synthesis.setter_prefix", def.Synthesis.SetterPrefix)
	v.SetDefault("synthesis.lenient_conversion", def.Synthesis.LenientConversion)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.development", def.Logging.Development)

	// Set config name and paths
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("proxyme")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	s := c.Synthesis
	if s.NameSeparator == "" {
		return fmt.Errorf("synthesis.name_separator must not be empty")
	}
	if s.GetterPrefix == "" || s.SetterPrefix == "" {
		return fmt.Errorf("synthesis.getter_prefix and synthesis.setter_prefix must not be empty")
	}
	if s.GetterPrefix == s.SetterPrefix {
		return fmt.Errorf("synthesis.getter_prefix and synthesis.setter_prefix must differ, both are %q", s.GetterPrefix)
	}

	if _, err := c.Logging.ZapLevel(); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got: %s", c.Logging.Format)
	}
	return nil
}

// ZapLevel parses the configured level
func (l LoggingConfig) ZapLevel() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, err
	}
	return level, nil
}
