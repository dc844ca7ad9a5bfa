package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus for structured logging with rota-domain conveniences
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithComponent tags log lines with the originating component
func WithComponent(name string) *Logger {
	return New().WithField("component", name)
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithFields(fields)}
}

// WithRota tags log lines with the rota being operated on
func (l *Logger) WithRota(rotaID uuid.UUID, role string) *Logger {
	return l.WithFields(map[string]interface{}{
		"rota_id": rotaID.String(),
		"role":    role,
	})
}

// WithShareToken tags log lines with a truncated share token. The full token
// grants signup access and must never be written to logs.
func (l *Logger) WithShareToken(token string) *Logger {
	if len(token) > 8 {
		token = token[:8]
	}
	return l.WithField("share_token_prefix", token)
}
