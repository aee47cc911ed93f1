package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging verbosity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel parses a level name, defaulting to LevelInfo for anything
// unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Format selects the on-wire shape of log output.
type Format int

const (
	FormatConsole Format = iota
	FormatJSON
)

// ParseFormat parses a format name, defaulting to FormatJSON for
// anything unrecognized (JSON is the safer default for log aggregation).
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "console" {
		return FormatConsole
	}
	return FormatJSON
}

// Logger is the sink every connection and worker logs through. Per
// SPEC_FULL's Log format note, the core logs connection-level events
// only (accept, protocol error, close); WithRequestID and WithFields let
// call sites attach per-connection and per-event context without the
// core caring how it's rendered.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	WithRequestID(requestID string) Logger
	WithFields(keysAndValues ...interface{}) Logger
}

// Config configures a zerolog-backed Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

type logger struct {
	z zerolog.Logger
}

// New builds a Logger backed by zerolog per cfg.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).Level(cfg.Level.zerolog()).With().Timestamp().Logger()
	return &logger{z: z}
}

// NewDefault builds a Logger with sane defaults: info level, JSON output
// to stdout.
func NewDefault() Logger {
	return New(Config{Level: LevelInfo, Format: FormatJSON, Output: os.Stdout})
}

// NewNop builds a Logger that discards everything, for tests that don't
// want log noise.
func NewNop() Logger {
	return &logger{z: zerolog.Nop()}
}

func (l *logger) Debug(msg string, kv ...interface{}) { l.event(l.z.Debug(), msg, kv) }
func (l *logger) Info(msg string, kv ...interface{})  { l.event(l.z.Info(), msg, kv) }
func (l *logger) Warn(msg string, kv ...interface{})  { l.event(l.z.Warn(), msg, kv) }
func (l *logger) Error(msg string, kv ...interface{}) { l.event(l.z.Error(), msg, kv) }

func (l *logger) event(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (l *logger) WithRequestID(requestID string) Logger {
	return &logger{z: l.z.With().Str("request_id", requestID).Logger()}
}

func (l *logger) WithFields(kv ...interface{}) Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, kv[i+1])
	}
	return &logger{z: ctx.Logger()}
}
