// Package logger constructs the zap logger used throughout the engine.
package logger

import "go.uber.org/zap"

// New returns a production-configured, sugared zap logger tagged with
// service as a static field, so every log line from this engine instance
// can be correlated across a process that embeds more than one.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}
