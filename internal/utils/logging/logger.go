package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application logger. HTTP access logs go through the fiber
// logger middleware instead.
var Log = New("info")

func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		Log.WithField("level", level).Warn("unknown log level, keeping info")
		return
	}
	Log.SetLevel(lvl)
}

func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
