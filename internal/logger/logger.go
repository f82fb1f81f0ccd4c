package logger

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	once    sync.Once
	log     zerolog.Logger
	verbose bool
	out     io.Writer = os.Stderr
)

// GetLogLevel reads IOTWB_LOG_LEVEL (numeric zerolog level), defaulting to warn.
func GetLogLevel() zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	level, err := strconv.Atoi(os.Getenv("IOTWB_LOG_LEVEL"))
	if err != nil {
		return zerolog.WarnLevel
	}
	return zerolog.Level(level)
}

// SetVerbose must be called before the first Get.
func SetVerbose(v bool) {
	verbose = v
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	out = w
	once = sync.Once{}
}

func Get() zerolog.Logger {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		consoleWriter := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
		}

		log = zerolog.New(consoleWriter).
			Level(GetLogLevel()).
			With().
			Timestamp().
			Logger()
	})

	return log
}
