package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

type options struct {
	production bool
	level      slog.Level
	file       string
	out        io.Writer
}

// Option configures New.
type Option func(*options)

// WithProduction switches to JSON output without colour.
func WithProduction(production bool) Option {
	return func(o *options) { o.production = production }
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithLogFile mirrors output into a size-rotated file.
func WithLogFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithOutput replaces stderr as the primary writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// New builds the process logger.
func New(opts ...Option) *slog.Logger {
	o := options{level: slog.LevelInfo, out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	out := o.out
	if o.file != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	if o.production {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: o.level}))
	}

	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      o.level,
		TimeFormat: time.Kitchen,
		NoColor:    o.file != "",
	}))
}
