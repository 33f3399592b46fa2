// Package logging constructs the zap logger used across the engine, front-end, and bench driver.
package logging

import "go.uber.org/zap"

// New builds a SugaredLogger at the given level ("debug", "info", "warn", "error").
func New(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	var zl zap.AtomicLevel
	if err := zl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.Level = zl

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
