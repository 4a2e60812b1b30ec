// Package logrus adapts a logrus entry to rescache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/rescache"
)

var _ rescache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps l, tagging every line with the resource type it logs for.
func New(l *logrus.Logger, resource string) Logger {
	return Logger{E: l.WithField("resource", resource)}
}

func (l Logger) Debug(msg string, f rescache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f rescache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f rescache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f rescache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f rescache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	if err, ok := f["err"].(error); ok {
		rest := make(logrus.Fields, len(f)-1)
		for k, v := range f {
			if k != "err" {
				rest[k] = v
			}
		}
		return l.E.WithFields(rest).WithError(err)
	}
	return l.E.WithFields(logrus.Fields(f))
}
