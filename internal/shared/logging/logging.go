// Package logging builds the process-wide zap logger.
package logging

import "go.uber.org/zap"

// New returns a production logger for APP_ENV=production and a development one otherwise.
// The logger is also installed as the zap global.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
