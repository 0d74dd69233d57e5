package cmd

import (
	"github.com/sirupsen/logrus"
)

// newLogger creates a logger at the shared logger's level.
// If verbose is true, the logger is set to DebugLevel instead.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else if Logger != nil {
		log.SetLevel(Logger.GetLevel())
	}
	return log
}
