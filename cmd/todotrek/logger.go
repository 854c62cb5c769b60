package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"todotrek/internal/config"
)

// setupLogger configures logrus for env. When logsPath is set, output goes
// to that file instead of stdout.
func setupLogger(env, logsPath string) (*logrus.Entry, func(), error) {
	log := logrus.New()
	closer := func() {}

	var out io.Writer = os.Stdout
	if logsPath != "" {
		logFile, err := os.OpenFile(logsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = logFile
		closer = func() { _ = logFile.Close() }
	}
	log.SetOutput(out)

	switch env {
	case config.EnvLocal:
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case config.EnvDev:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		log.SetLevel(logrus.WarnLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return logrus.NewEntry(log), closer, nil
}
