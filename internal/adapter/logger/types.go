// internal/adapter/logger/types.go
package logger

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// Options configure the zap core. Zero values mean info level, JSON, stdout.
type Options struct {
	Level    string
	Encoding string
	Output   io.Writer
}

func (o Options) level() string {
	if o.Level == "" {
		return "info"
	}
	return o.Level
}

func (o Options) writer() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

func (o Options) encoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if o.Encoding == "console" {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}
