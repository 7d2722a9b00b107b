package logging

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// SessionID tags every entry written during this process.
var SessionID = xid.New().String()

type timeHook struct {
	format string
}

func (t timeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("time", time.Now().Format(t.format))
}

const selfPackage = "github.com/walteh/idrisls/pkg/logging."

// callerHook records the first frame outside zerolog and this package.
type callerHook struct {
	colorize bool
}

func (c callerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "github.com/rs/zerolog") && !strings.HasPrefix(f.Function, selfPackage) {
			e.Str("caller", FormatCaller(packageOf(f.Function), f.File, f.Line, c.colorize))
			return
		}
		if !more {
			return
		}
	}
}

func packageOf(function string) string {
	lastSlash := strings.LastIndexByte(function, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}
	if dot := strings.IndexByte(function[lastSlash:], '.'); dot >= 0 {
		return function[:lastSlash+dot]
	}
	return function
}

// FormatCaller renders pkg:file:line, optionally colored.
func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := filepath.Base(path)
	if colorize {
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep,
			color.New(color.Bold).Sprint(file), sep,
			color.New(color.FgHiRed, color.Bold).Sprintf("%d", line))
	}
	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}

// New builds the process logger. Output is human readable when w is a
// terminal-style writer and colorize is set, JSON otherwise.
func New(w io.Writer, debug, colorize bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := w
	if colorize {
		out = zerolog.ConsoleWriter{Out: w, NoColor: false, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().
		Str("session", SessionID).
		Logger().
		Hook(timeHook{format: "2006-01-02T15:04:05.0000Z"}).
		Hook(callerHook{colorize: colorize})
}

// WithLogger attaches a logger to ctx for zerolog.Ctx.
func WithLogger(ctx context.Context, w io.Writer, debug, colorize bool) context.Context {
	return New(w, debug, colorize).WithContext(ctx)
}
