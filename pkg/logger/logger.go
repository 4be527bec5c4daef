// Package logger builds the process-wide zerolog logger.
//
// main calls Init once; code without an injected logger may call Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is one of trace, debug, info, warn, error or disabled.
	// Anything else falls back to info.
	Level string
	// Pretty switches from JSON lines to coloured console output.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is attached to every entry as the "service" field when set.
	Service string
}

var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"disabled": zerolog.Disabled,
	"off":      zerolog.Disabled,
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// New builds a logger from opts without touching the process-wide instance.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(parseLevel(opts.Level)).With().Timestamp().Caller()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}

// Init sets the process-wide logger on the first call and returns it. Later
// calls return the existing logger and ignore opts.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.SetGlobalLevel(parseLevel(opts.Level))
		l := New(opts)
		instance = &l
	}
	return *instance
}

// Get returns the logger set by Init. It panics when Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Reset forgets the process-wide logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	instance = nil
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	_, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func parseLevel(s string) zerolog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}
