package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/ogurasousui/employee-roster/internal/platform/config"
	"github.com/sirupsen/logrus"
)

// New は設定に従って logrus.Logger を構築します。
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return newWithOutput(cfg, os.Stderr)
}

func newWithOutput(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: parse level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(parsed)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// Discard は何も出力しないロガーを返します。テストや既定値として利用します。
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
