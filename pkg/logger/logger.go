package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

// Get returns the shared JSON application logger. Level comes from
// LOG_LEVEL (default info).
func Get() *logrus.Logger {
	if logg != nil {
		return logg
	}

	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)

	return logg
}

// LogError records a failed operation with its module and function context.
func LogError(moduleName, funcName string, err error) {
	Get().WithFields(logrus.Fields{
		"module":   moduleName,
		"function": funcName,
	}).Error(err)
}
