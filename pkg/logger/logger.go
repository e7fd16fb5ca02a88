// Package logger constructs the application wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared zap logger tagged with the service name.
// Output goes to stdout in production JSON encoding.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	)

	return zap.New(core, zap.AddCaller()).
		Sugar().
		With("service", service)
}
