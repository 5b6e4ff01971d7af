// Package logging builds the logrus logger shared by the editor binaries.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	// Console also writes entries to this writer, typically os.Stderr. The
	// terminal editor leaves it nil because it owns the screen.
	Console io.Writer
}

// New returns a logger writing to a rotating file and, optionally, a console.
// The returned closer flushes and closes the log file.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	var out io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		out, closer = rotator, rotator
	}
	if opts.Console != nil {
		out = io.MultiWriter(out, opts.Console)
	}
	logger.SetOutput(out)
	return logger, closer, nil
}

// Discard returns a logger that drops everything, for tests and tools.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
