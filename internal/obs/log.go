package obs

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	loggerOnce sync.Once
	logger     zerolog.Logger
)

// Setup configures the process-wide logger. Safe to call more than once; only
// the first call takes effect.
func Setup(level string, pretty bool) zerolog.Logger {
	loggerOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		if pretty {
			logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
			return
		}
		logger = zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
	})
	return logger
}

// Logger returns the shared logger. Defaults to info-level JSON on stdout
// when Setup was never called.
func Logger() zerolog.Logger {
	return Setup("info", false)
}
