package utils

import "go.uber.org/zap"

// NewLogger builds the process logger. Debug selects the development
// preset (console encoder, debug level); otherwise the production JSON
// preset at info level is used.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("shikisai"), nil
}
