// Package logging configures the process-wide zerolog logger for the
// powerkit command line tool.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// LogDebug Used for flags
	LogDebug bool
	// LogJson Used for flags
	LogJson bool
)

// ConfigureLogger installs the global logger writing to stderr.
func ConfigureLogger() {
	ConfigureLoggerTo(os.Stderr)
}

// ConfigureLoggerTo installs the global logger writing to w. Log output
// never goes to stdout, which carries command results.
func ConfigureLoggerTo(w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	zerolog.InterfaceMarshalFunc = func(i any) ([]byte, error) {
		if s, ok := i.(fmt.Stringer); ok {
			if _, isMarshaler := i.(json.Marshaler); !isMarshaler {
				return json.Marshal(s.String())
			}
		}
		return json.Marshal(i)
	}

	log.Logger = zerolog.New(w).
		With().
		Timestamp().
		Logger()

	if !LogJson {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.StampMicro,
			NoColor:    true,
		})
	}

	if LogDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
