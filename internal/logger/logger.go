package logger

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// New constructs a zerolog logger based on level and format configuration.
func New(level, format string) (zerolog.Logger, error) {
	return newWithWriter(os.Stdout, level, format)
}

func newWithWriter(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, err
	}

	var base zerolog.Logger
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		base = zerolog.New(out)
	case "", "console":
		base = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	default:
		return zerolog.Logger{}, errors.New("unsupported log format")
	}

	return base.With().Timestamp().Logger().Level(lvl), nil
}

// SetGlobal makes l the package-level zerolog logger so helpers that log
// through github.com/rs/zerolog/log share its level and format.
func SetGlobal(l zerolog.Logger) {
	zlog.Logger = l
}
