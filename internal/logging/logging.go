package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/restaurants/internal/config"
)

// New builds the application logger for env. An empty level picks debug in
// development, info in staging and error in production.
func New(env, level string, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	switch env {
	case config.Production:
		log.SetLevel(logrus.ErrorLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	case config.Staging:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
			DisableColors:   out != os.Stderr,
		})
	}

	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		log.SetLevel(lvl)
	}
	return log, nil
}

// OpenFile returns an append-mode log file, creating it if needed.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
