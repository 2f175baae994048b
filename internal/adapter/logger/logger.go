package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type zapLogger struct {
	z *zap.Logger
}

// New builds a zap-backed logger tagged with the service and host names
func New(service string, opts Options) (Logger, error) {
	level, err := zapcore.ParseLevel(opts.level())
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(opts.encoder(), zapcore.AddSync(opts.writer()), level)
	hostname, _ := os.Hostname()

	z := zap.New(core).With(
		zap.String("service", service),
		zap.String("hostname", hostname),
	)
	return &zapLogger{z: z}, nil
}

// NewNop returns a logger that discards everything
func NewNop() Logger {
	return &zapLogger{z: zap.NewNop()}
}

func (l *zapLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.z.Info(message, fields(action, requestID, details, nil)...)
}

func (l *zapLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.z.Debug(message, fields(action, requestID, details, nil)...)
}

func (l *zapLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.z.Error(message, fields(action, requestID, details, err)...)
}

func fields(action, requestID string, details map[string]interface{}, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("action", action),
		zap.String("request_id", requestID),
	}
	if len(details) > 0 {
		fs = append(fs, zap.Any("details", details))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}
