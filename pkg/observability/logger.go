package observability

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/config"
)

// NewLogger builds the process-wide logger from configuration. Unknown log
// levels fall back to info rather than failing startup; config validation
// rejects them earlier anyway.
func NewLogger(cfg config.ObservabilityConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
