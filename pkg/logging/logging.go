// Package logging builds the logrus logger shared by the CLI and the driver.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes log level and optional file output.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Unknown values fall
	// back to info.
	Level string `json:"level" yaml:"level"`
	// File adds a rotated log file next to console output when set.
	File       string `json:"file" yaml:"file"`
	MaxSize    int    `json:"maxSize" yaml:"maxSize"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAge     int    `json:"maxAge" yaml:"maxAge"`
	Compress   bool   `json:"compress" yaml:"compress"`
	// JSON switches the formatter to logrus.JSONFormatter.
	JSON bool `json:"json" yaml:"json"`
}

// New returns a logger writing to console (stderr when nil) and, when
// cfg.File is set, to a lumberjack-rotated file. The returned closer releases
// the log file and must be called once logging is done.
func New(cfg Config, console io.Writer) (*logrus.Logger, io.Closer, error) {
	if console == nil {
		console = os.Stderr
	}

	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "06-01-02 15:04:05",
		})
	}

	var closer io.Closer = nopCloser{}
	writers := []io.Writer{console}
	if file := strings.TrimSpace(cfg.File); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rotated := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writers = append(writers, rotated)
		closer = rotated
	}
	logger.SetOutput(io.MultiWriter(writers...))

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
