// Package config loads powerkit command line settings from defaults, an
// optional YAML file, POWERKIT_* environment variables and flags.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "POWERKIT"

// Output formats understood by the command line tool.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the resolved settings.
type Config struct {
	// Output selects how command results are rendered.
	Output string `mapstructure:"output"`
	// NormalizeForm is the form used by `str normalize` without an
	// explicit form argument.
	NormalizeForm string `mapstructure:"normalize-form"`
	// MergeSkipErrors makes `map merge` log and skip inputs that cannot be
	// read instead of failing.
	MergeSkipErrors bool `mapstructure:"merge-skip-errors"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Output:        OutputText,
		NormalizeForm: "NFC",
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFilePath is an optional YAML file. A missing file is an error.
	ConfigFilePath string
	// Flags are bound by name; only flags that were set override file and
	// environment values.
	Flags *pflag.FlagSet
}

// Load resolves settings in increasing priority: defaults, file,
// environment, flags.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("normalize-form", defaults.NormalizeForm)
	v.SetDefault("merge-skip-errors", defaults.MergeSkipErrors)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return Config{}, errors.Wrapf(err, "config file %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", opts.ConfigFilePath)
		}
	}

	if opts.Flags != nil {
		for _, key := range []string{"output", "normalize-form", "merge-skip-errors"} {
			if f := opts.Flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrapf(err, "bind flag %s", key)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for unknown values.
func (c Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return errors.Errorf("unknown output format %q, expected text, json or yaml", c.Output)
	}
	switch strings.ToUpper(c.NormalizeForm) {
	case "NFC", "NFD", "NFKC", "NFKD":
	default:
		return errors.Errorf("unknown normalization form %q", c.NormalizeForm)
	}
	return nil
}
