// Package logging wraps the process-wide logrus logger used by the library
// and the command line front end.
package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// log_fields keys
const (
	// OpFieldKey name of the repository operation (string, ex: commit)
	OpFieldKey = "op"
	// RefFieldKey reference name (string, ex: refs/heads/master)
	RefFieldKey = "ref"
	// CommitFieldKey commit id (string)
	CommitFieldKey = "commit"
	// BlobFieldKey blob id (string)
	BlobFieldKey = "blob"
	// PathFieldKey working tree path (string)
	PathFieldKey = "path"
)

type Fields = logrus.Fields

var (
	formatterInitOnce sync.Once
	defaultLogger     = logrus.New()
)

func init() {
	defaultLogger.SetLevel(logrus.WarnLevel)
}

// Default returns the shared logger.
func Default() *logrus.Logger {
	formatterInitOnce.Do(func() {
		defaultLogger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: false,
			FullTimestamp:    true,
		})
	})
	return defaultLogger
}

// SetLevel parses a logrus level name and applies it to the shared logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	Default().SetLevel(lvl)
	return nil
}

func Level() string {
	return Default().GetLevel().String()
}

func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

// Discard returns a logger that drops everything.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
