package common

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = log.New(os.Stderr, "[disgate] ", log.LstdFlags|log.Lmicroseconds)

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// LogConfig configures the rotating log file. An empty Path leaves logging
// on stderr only.
type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// ConfigureLogging tees the package logger into a rotating file. The
// returned closer flushes and closes the file.
func ConfigureLogging(cfg LogConfig) (io.Closer, error) {
	if cfg.Path == "" {
		return rotatorCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotatorCloser{rotator}, nil
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

type rotatorCloser struct {
	l *lumberjack.Logger
}

func (c rotatorCloser) Close() error {
	if c.l == nil {
		return nil
	}
	logger.SetOutput(os.Stderr)
	return c.l.Close()
}
