package main

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Pure-Company/powerkit/internal/config"
	"github.com/Pure-Company/powerkit/internal/logging"
)

// app carries the settings resolved before a subcommand runs.
type app struct {
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.DefaultConfig()}
	var configFile string

	root := &cobra.Command{
		Use:   "powerkit",
		Short: "Unicode string and map utilities",
		Long: `powerkit exposes the PowerString and Map operations of the powerkit
library on the command line.

Settings come from defaults, an optional YAML file (--config), POWERKIT_*
environment variables and flags, in increasing priority.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.ConfigureLoggerTo(cmd.ErrOrStderr())
			cfg, err := config.Load(config.LoadOptions{
				ConfigFilePath: configFile,
				Flags:          cmd.Flags(),
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			log.Debug().
				Str("output", cfg.Output).
				Str("normalize-form", cfg.NormalizeForm).
				Str("config", configFile).
				Msg("Configuration loaded")
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&logging.LogDebug, "log-debug", "d", false, "Enable debug logs")
	root.PersistentFlags().BoolVarP(&logging.LogJson, "log-json", "j", false, "Print logs in JSON format")
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringP("output", "o", config.OutputText, "Output format: text, json or yaml")

	root.AddCommand(newStrCmd(a))
	root.AddCommand(newMapCmd(a))
	return root
}

// readText returns arg, or all of stdin without its trailing newline when
// arg is "-".
func readText(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "read stdin")
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
