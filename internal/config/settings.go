package config

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/irgo/internal/assessment"
	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. IRGO_LOGGING_LEVEL.
const EnvPrefix = "IRGO"

// LoggingConfig holds the logger settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
}

// ToleranceConfig holds the warning thresholds as decimal strings
type ToleranceConfig struct {
	Social         string `mapstructure:"social"`
	Regime         string `mapstructure:"regime"`
	ThresholdRatio string `mapstructure:"threshold_ratio"`
}

// Settings is the CLI's runtime configuration, merged from defaults, an
// optional settings file, IRGO_* environment variables and flags.
type Settings struct {
	RulesDir    string          `mapstructure:"rules_dir"`
	Output      string          `mapstructure:"output"`
	Concurrency int             `mapstructure:"concurrency"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Tolerances  ToleranceConfig `mapstructure:"tolerances"`
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every settings key so environment overrides resolve.
func SetDefaults(v *viper.Viper) {
	defaults := assessment.DefaultOptions()
	v.SetDefault("rules_dir", "")
	v.SetDefault("output", "console")
	v.SetDefault("concurrency", 0)
	v.SetDefault("logging.level", "error")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_file", "")
	v.SetDefault("tolerances.social", defaults.SocialTolerance.String())
	v.SetDefault("tolerances.regime", defaults.RegimeTolerance.String())
	v.SetDefault("tolerances.threshold_ratio", defaults.ThresholdWarningRatio.String())
}

// LoadSettings reads the optional settings file at path and decodes the
// merged configuration.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	return &s, nil
}

// RulesSource returns the directory source when RulesDir is set, else the
// embedded rule files.
func (s *Settings) RulesSource() rules.Source {
	if s.RulesDir != "" {
		return rules.NewDirSource(s.RulesDir)
	}
	return rules.NewEmbeddedSource()
}

// AssessmentOptions converts the tolerance strings into engine options.
func (s *Settings) AssessmentOptions() (assessment.Options, error) {
	opts := assessment.DefaultOptions()
	opts.Concurrency = s.Concurrency

	parse := func(name, value string, dst *decimal.Decimal) error {
		if value == "" {
			return nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("tolerances.%s: %w", name, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("tolerances.%s cannot be negative", name)
		}
		*dst = d
		return nil
	}
	if err := parse("social", s.Tolerances.Social, &opts.SocialTolerance); err != nil {
		return opts, err
	}
	if err := parse("regime", s.Tolerances.Regime, &opts.RegimeTolerance); err != nil {
		return opts, err
	}
	if err := parse("threshold_ratio", s.Tolerances.ThresholdRatio, &opts.ThresholdWarningRatio); err != nil {
		return opts, err
	}
	return opts, nil
}
