package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogMode selects the output format and verbosity of the global logger.
type LogMode string

const (
	LogModeDebug  LogMode = "debug"
	LogModePretty LogMode = "pretty"
	LogModeInfo   LogMode = "info"
	LogModeProd   LogMode = "prod"
	LogModeTest   LogMode = "test"
)

var (
	log zerolog.Logger = zerolog.Nop()
	mu  sync.RWMutex
)

// Init sets up the pretty console logger.
func Init() {
	InitWithMode(LogModePretty)
}

// InitWithMode configures the global logger for the given mode. Unknown
// modes fall back to pretty output.
func InitWithMode(mode LogMode) {
	InitWithWriter(mode, os.Stdout)
}

// InitWithWriter is InitWithMode with an explicit destination.
func InitWithWriter(mode LogMode, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	var l zerolog.Logger
	switch mode {
	case LogModeProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		l = zerolog.New(out).With().Timestamp().Logger()
	case LogModeTest:
		zerolog.SetGlobalLevel(zerolog.Disabled)
		l = zerolog.Nop()
	case LogModeInfo:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		l = zerolog.New(consoleWriter(out)).With().Timestamp().Logger()
	case LogModeDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		l = zerolog.New(consoleWriter(out)).With().Timestamp().Caller().Logger()
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		l = zerolog.New(consoleWriter(out)).With().Timestamp().Logger()
	}

	mu.Lock()
	log = l
	mu.Unlock()
	zerolog.DefaultContextLogger = &l
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    false,
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			return colorizeLevel(s)
		},
		FormatMessage: func(i interface{}) string {
			s, _ := i.(string)
			return colorize(s, cyan)
		},
		FormatFieldName: func(i interface{}) string {
			return colorize(fmt.Sprint(i)+":", gray)
		},
		FormatFieldValue: func(i interface{}) string {
			switch v := i.(type) {
			case string:
				return colorize(v, blue)
			case json.Number:
				return colorize(v.String(), blue)
			default:
				return colorize(fmt.Sprint(v), blue)
			}
		},
	}
}

// ANSI color codes
const (
	gray  = "\x1b[37m"
	blue  = "\x1b[34m"
	cyan  = "\x1b[36m"
	red   = "\x1b[31m"
	green = "\x1b[32m"
	reset = "\x1b[0m"
)

func colorize(s, color string) string {
	return color + s + reset
}

func colorizeLevel(level string) string {
	switch level {
	case "debug":
		return colorize("DBG", gray)
	case "info":
		return colorize("INF", green)
	case "warn":
		return colorize("WRN", cyan)
	case "error":
		return colorize("ERR", red)
	case "fatal":
		return colorize("FTL", red)
	default:
		return colorize(level, blue)
	}
}

// Get returns the logger instance
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// Error logs an error message
func Error(err error, msg string) {
	l := Get()
	l.Error().Err(err).Msg(msg)
}

// Info logs an info message
func Info(msg string) {
	l := Get()
	l.Info().Msg(msg)
}

// Debug logs a debug message
func Debug(msg string) {
	l := Get()
	l.Debug().Msg(msg)
}
