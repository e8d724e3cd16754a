package recstat

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger returns a logger that emits debug output to stderr when enabled.
func newLogger(enabled bool) *logrus.Logger {
	return newLoggerTo(os.Stderr, enabled)
}

func newLoggerTo(w io.Writer, enabled bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})

	if enabled {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	return log
}
