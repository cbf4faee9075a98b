package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global JSON logger. Unknown levels fall back to info.
func Init(level string) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	SetOutput(os.Stdout)
	Info("logger initialized", map[string]any{"level": lvl.String()})
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func Info(msg string, fields map[string]any) {
	log.Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	log.Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	log.Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	log.WithLevel(zerolog.FatalLevel).Fields(fields).Msg(msg)
	os.Exit(1)
}
