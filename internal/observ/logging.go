package observ

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// SetLevel adjusts the global log level ("debug", "info", "warn", ...).
// Unknown values leave the level untouched.
func SetLevel(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		logger = logger.Level(lvl)
	}
}

// Log emits one structured event with arbitrary fields.
func Log(event string, kv map[string]any) {
	e := logger.Info()
	for k, v := range kv {
		e = e.Interface(k, v)
	}
	e.Msg(event)
}

// Warn emits a warning-level event.
func Warn(event string, kv map[string]any) {
	e := logger.Warn()
	for k, v := range kv {
		e = e.Interface(k, v)
	}
	e.Msg(event)
}

// Error emits an error-level event.
func Error(event string, err error, kv map[string]any) {
	e := logger.Error().Err(err)
	for k, v := range kv {
		e = e.Interface(k, v)
	}
	e.Msg(event)
}
