// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group shared by every command.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"console" choice:"json" default:"console"`
}

// Setup applies the options to the global logger, writing to stderr.
func (l Logger) Setup() {
	l.SetupWriter(os.Stderr)
}

// SetupWriter applies the options to the global logger, writing to out.
func (l Logger) SetupWriter(out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(l.Level))

	if l.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
