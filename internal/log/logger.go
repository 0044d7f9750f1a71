package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once. Later calls
// are no-ops.
func Configure(cfg Config) {
	once.Do(func() {
		base = New(cfg)
	})
}

// New builds a logger from cfg without touching the global one. An unknown
// or empty level falls back to $PF_LOG_LEVEL, then to warn.
func New(cfg Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if parsed, ok := parseLevel(cfg.Level); ok {
		level = parsed
	} else if parsed, ok := parseLevel(os.Getenv("PF_LOG_LEVEL")); ok {
		level = parsed
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	return zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", "pf").
		Logger()
}

func parseLevel(s string) (zerolog.Level, bool) {
	if s == "" {
		return zerolog.NoLevel, false
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, false
	}
	return l, true
}

// LevelForVerbosity maps a -v count to a level name. Without -v it returns
// "" so New falls back to $PF_LOG_LEVEL.
func LevelForVerbosity(v int) string {
	switch {
	case v <= 0:
		return ""
	case v == 1:
		return zerolog.InfoLevel.String()
	default:
		return zerolog.DebugLevel.String()
	}
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str("component", component).Logger()
}
