// Package logger holds the process logger shared by both binaries. Records
// are JSON lines stamped with the name of the process that wrote them.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Fields holds structured log fields.
type Fields map[string]any

// Options configure a logger. An empty Level means info and a nil Output
// means stdout.
type Options struct {
	Level   string
	Service string
	Output  io.Writer
}

// Log is the process logger. It logs at info to stdout until Setup runs.
var Log = New(Options{})

// Setup replaces Log. Each binary calls it once after loading its config.
func Setup(opts Options) {
	Log = New(opts)
}

// New builds a logger writing one JSON object per line. Every record carries
// "service" when opts.Service is set.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	h := handler.NewIOWriterHandler(out, levelsUpTo(opts.Level))
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.Aliases = slog.StringMap{slog.FieldKeyDatetime: "time"}
		f.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	}))

	lg := slog.NewWithHandlers(h)
	if service := strings.TrimSpace(opts.Service); service != "" {
		lg.AddProcessor(slog.ProcessorFunc(func(r *slog.Record) {
			r.AddField("service", service)
		}))
	}
	return lg
}

func levelsUpTo(name string) []slog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "info"
	}
	max := slog.LevelByName(name)

	var levels []slog.Level
	for _, lv := range slog.AllLevels {
		if lv <= max {
			levels = append(levels, lv)
		}
	}
	return levels
}

func withFields(level slog.Level, msg string, fields Fields) {
	Log.WithFields(slog.M(fields)).Log(level, msg)
}

// InfoWithFields logs msg with structured fields at info level.
func InfoWithFields(msg string, fields Fields) { withFields(slog.InfoLevel, msg, fields) }

func DebugWithFields(msg string, fields Fields) { withFields(slog.DebugLevel, msg, fields) }

func WarnWithFields(msg string, fields Fields) { withFields(slog.WarnLevel, msg, fields) }

func ErrorWithFields(msg string, fields Fields) { withFields(slog.ErrorLevel, msg, fields) }
